// Package cache provides Valkey (Redis-compatible) client initialization
// and the rendered-page cache for the knowledge repository.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// ValkeyOptions configures the Valkey connection.
type ValkeyOptions struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// ConnectValkey creates a Valkey client and verifies the connection with a
// ping bounded by a five second timeout.
func ConnectValkey(ctx context.Context, opts ValkeyOptions) (*redis.Client, error) {
	addr := net.JoinHostPort(opts.Host, opts.Port)
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     opts.Password,
		DB:           opts.DB,
		ClientName:   "voiceaikb",
		DialTimeout:  3 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("valkey ping %s: %w", addr, err)
	}

	slog.Info("valkey connected", "addr", addr, "db", opts.DB)
	return client, nil
}
