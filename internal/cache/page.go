// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// page.go provides a Valkey-backed cache of rendered full pages. Each entry
// is a hash holding the HTML and its entity tag, so a hit can answer a
// conditional request without hashing the body again. A nil *PageCache is
// valid and never hits, so the site runs without Valkey.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
)

const (
	// pageKeyPrefix is the Valkey key prefix for cached pages.
	pageKeyPrefix = "kb:page:"

	// DefaultPageTTL is how long a rendered page stays cached.
	DefaultPageTTL = 10 * time.Minute

	fieldBody = "body"
	fieldETag = "etag"
)

// Page is a rendered page and its strong entity tag.
type Page struct {
	Body []byte
	ETag string
}

// NewPage tags body with its ETag.
func NewPage(body []byte) Page {
	return Page{Body: body, ETag: ETag(body)}
}

// PageCache manages rendered pages in Valkey.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache creates a new page cache backed by the given Valkey client.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	if ttl <= 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{client: client, ttl: ttl}
}

// Get retrieves a cached page. Errors are logged and reported as a miss.
func (pc *PageCache) Get(ctx context.Context, key string) (Page, bool) {
	if pc == nil {
		return Page{}, false
	}
	fields, err := pc.client.HMGet(ctx, pageKeyPrefix+key, fieldBody, fieldETag).Result()
	if err != nil {
		slog.Warn("page cache get error", "key", key, "error", err)
		return Page{}, false
	}
	body, _ := fields[0].(string)
	etag, _ := fields[1].(string)
	if body == "" || etag == "" {
		return Page{}, false
	}
	slog.Debug("page cache hit", "key", key)
	return Page{Body: []byte(body), ETag: etag}, true
}

// Set stores a page with the configured TTL. The hash and its expiry are
// written in one transaction so no entry outlives the TTL.
func (pc *PageCache) Set(ctx context.Context, key string, page Page) {
	if pc == nil {
		return
	}
	k := pageKeyPrefix + key
	_, err := pc.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, k, fieldBody, page.Body, fieldETag, page.ETag)
		pipe.Expire(ctx, k, pc.ttl)
		return nil
	})
	if err != nil {
		slog.Warn("page cache set error", "key", key, "error", err)
	}
}

// Invalidate removes a single page from the cache.
func (pc *PageCache) Invalidate(ctx context.Context, key string) {
	if pc == nil {
		return
	}
	if err := pc.client.Del(ctx, pageKeyPrefix+key).Err(); err != nil && !errors.Is(err, redis.Nil) {
		slog.Warn("page cache invalidate error", "key", key, "error", err)
		return
	}
	slog.Debug("page cache invalidated", "key", key)
}

// InvalidateAll removes every cached page and returns how many keys were
// deleted. Called at startup because a redeploy may change taxonomy or
// content.
func (pc *PageCache) InvalidateAll(ctx context.Context) int {
	if pc == nil {
		return 0
	}
	var deleted int
	iter := pc.client.Scan(ctx, 0, pageKeyPrefix+"*", 100).Iterator()
	batch := make([]string, 0, 100)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		n, err := pc.client.Unlink(ctx, batch...).Result()
		if err != nil {
			slog.Warn("page cache bulk delete error", "error", err)
		}
		deleted += int(n)
		batch = batch[:0]
	}
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			flush()
		}
	}
	flush()
	if err := iter.Err(); err != nil {
		slog.Warn("page cache scan error", "error", err)
	}
	if deleted > 0 {
		slog.Info("page cache cleared", "deleted", deleted)
	}
	return deleted
}

// HomepageKey returns the cache key for the homepage.
func HomepageKey() string {
	return "home"
}

// TopicKey returns the cache key for a topic slug path.
func TopicKey(slugPath []string) string {
	return "topic:" + strings.Join(slugPath, "/")
}

// ETag returns a strong entity tag for a rendered page.
func ETag(body []byte) string {
	return `"` + strconv.FormatUint(xxhash.Sum64(body), 16) + `"`
}
