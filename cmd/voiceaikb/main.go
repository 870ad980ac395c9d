// Package main is the entry point for the Voice AI Knowledge Repository
// server. It loads configuration, builds the taxonomy index, connects to
// optional services, sets up routing, and starts the HTTP server with
// graceful shutdown support.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"voiceaikb/internal/cache"
	"voiceaikb/internal/config"
	"voiceaikb/internal/content"
	"voiceaikb/internal/database"
	"voiceaikb/internal/handlers"
	"voiceaikb/internal/markdown"
	"voiceaikb/internal/middleware"
	"voiceaikb/internal/render"
	"voiceaikb/internal/router"
	"voiceaikb/internal/storage"
	"voiceaikb/internal/store"
	"voiceaikb/internal/taxonomy"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration from environment variables (and .env).
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// Structured logger: text in development, JSON otherwise.
	var handler slog.Handler
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"taxonomy_source", cfg.TaxonomySource,
		"content_source", cfg.ContentSource,
	)

	ctx := context.Background()

	// Build the taxonomy index once; handlers share it read-only.
	idx, err := buildIndex(ctx, cfg)
	if err != nil {
		return err
	}
	slog.Info("taxonomy loaded", "topics", idx.Len(), "roots", len(idx.Roots()))

	source, err := contentSource(cfg)
	if err != nil {
		return err
	}

	// Optional L2 page cache (full-page HTML in Valkey).
	var pageCache *cache.PageCache
	if cfg.CacheEnabled {
		valkeyClient, err := cache.ConnectValkey(ctx, cache.ValkeyOptions{
			Host:     cfg.ValkeyHost,
			Port:     cfg.ValkeyPort,
			Password: cfg.ValkeyPassword,
			DB:       cfg.ValkeyDB,
		})
		if err != nil {
			return fmt.Errorf("connect valkey: %w", err)
		}
		defer valkeyClient.Close()

		pageCache = cache.NewPageCache(valkeyClient, cfg.CacheTTL)
		// A restart may ship new taxonomy or articles.
		pageCache.InvalidateAll(ctx)
	} else {
		slog.Warn("page cache disabled")
	}

	renderer, err := render.New(cfg.SiteName)
	if err != nil {
		return fmt.Errorf("initialize template renderer: %w", err)
	}

	chromaCSS, err := markdown.HighlightCSS()
	if err != nil {
		return fmt.Errorf("generate highlight css: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	limiter := middleware.NewRateLimiter(cfg.SearchRateLimit, cfg.SearchBurst).TrustProxies(cfg.TrustedProxies)
	defer limiter.Stop()

	public := handlers.NewPublic(idx, content.NewLibrary(source), renderer, pageCache, reg)
	r := router.New(public, router.Options{
		Logger:    slog.Default(),
		Limiter:   limiter,
		Metrics:   middleware.NewMetrics(reg),
		Gatherer:  reg,
		ChromaCSS: []byte(chromaCSS),
		HSTS:      !cfg.IsDev(),
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// buildIndex loads categories from the configured source.
func buildIndex(ctx context.Context, cfg *config.Config) (*taxonomy.Index, error) {
	if cfg.TaxonomySource != config.SourcePostgres {
		return taxonomy.Build(ctx, taxonomy.NewFileLoader(cfg.TaxonomyPath))
	}

	db, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	// The index is built once, so the pool is only needed during startup.
	defer db.Close()

	version, err := database.Migrate(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database schema ready", "version", version)

	categories := store.NewCategoryStore(db)
	if cfg.IsDev() {
		if err := seed(ctx, categories, cfg.TaxonomyPath); err != nil {
			return nil, err
		}
	}
	return taxonomy.Build(ctx, categories)
}

// seed copies the taxonomy file into an empty categories table.
func seed(ctx context.Context, categories *store.CategoryStore, path string) error {
	n, err := categories.Count(ctx)
	if err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if n > 0 {
		return nil
	}

	cats, err := taxonomy.NewFileLoader(path).Load(ctx)
	if err != nil {
		return fmt.Errorf("seed taxonomy: %w", err)
	}
	if err := categories.ReplaceAll(ctx, cats); err != nil {
		return fmt.Errorf("seed taxonomy: %w", err)
	}
	slog.Info("seeded categories from file", "path", path, "count", len(cats))
	return nil
}

// contentSource returns the article store for the configured backend.
func contentSource(cfg *config.Config) (content.Source, error) {
	if cfg.ContentSource != config.SourceS3 {
		return content.NewDirSource(cfg.ContentDir), nil
	}

	client, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey)
	if err != nil {
		return nil, fmt.Errorf("initialize s3 storage: %w", err)
	}
	if client == nil {
		return nil, errors.New("s3 content source selected but S3 is not configured")
	}
	slog.Info("s3 content source", "endpoint", client.Endpoint(), "bucket", cfg.S3Bucket, "prefix", cfg.S3Prefix)
	return content.NewS3Source(client, cfg.S3Bucket, cfg.S3Prefix), nil
}
