// Package router sets up all HTTP routes and middleware chains for the
// knowledge repository. Search endpoints get a per-client rate limit on
// top of the global stack.
package router

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"voiceaikb/internal/handlers"
	"voiceaikb/internal/middleware"
	"voiceaikb/web"
)

// Options carries the optional pieces of the router. Nil Limiter, Metrics
// or Gatherer disable rate limiting, request metrics and /metrics.
type Options struct {
	Logger    *slog.Logger
	Limiter   *middleware.RateLimiter
	Metrics   *middleware.Metrics
	Gatherer  prometheus.Gatherer
	ChromaCSS []byte
	HSTS      bool
}

// New creates and returns the configured Chi router.
func New(public *handlers.Public, opts Options) chi.Router {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer(log))
	r.Use(middleware.Logger(log))
	r.Use(middleware.SecureHeaders(opts.HSTS))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}

	r.Get("/health", healthHandler)
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{ErrorLog: slog.NewLogLogger(log.Handler(), slog.LevelError)}))
	}

	// Static assets.
	r.Get("/static/chroma.css", handlers.HighlightCSS(opts.ChromaCSS))
	static, _ := fs.Sub(web.StaticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(static)))

	// Pages.
	r.Get("/", public.Homepage)
	r.Get("/topics", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusMovedPermanently)
	})
	r.Get("/topics/*", public.Topic)

	// Search, rate limited per client.
	r.Group(func(r chi.Router) {
		if opts.Limiter != nil {
			r.Use(opts.Limiter.Middleware)
		}
		r.Get("/search", public.SearchPage)
		r.Get("/search/quick", public.QuickSearch)
		r.Get("/api/search", public.SearchAPI)
	})

	r.NotFound(public.NotFound)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
