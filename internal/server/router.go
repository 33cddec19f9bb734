// Package server assembles the HTTP surface around the API catalog.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/alecgard/apicatalog/catalog"
	"github.com/alecgard/apicatalog/chicatalog"
	"github.com/alecgard/apicatalog/httpcatalog"
	"github.com/alecgard/apicatalog/internal/metrics"
	"github.com/alecgard/apicatalog/internal/ratelimit"
)

// RouterDeps holds all dependencies for the router.
type RouterDeps struct {
	Catalog        *catalog.Catalog
	Metrics        *metrics.Metrics
	Limiter        *ratelimit.Limiter // nil disables rate limiting
	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewRouter builds the chi router with all routes and middleware.
func NewRouter(deps RouterDeps) http.Handler {
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	m := deps.Metrics
	m.SetCatalogAPIs(len(deps.Catalog.Config().APIs))

	r := chi.NewRouter()

	// Global middleware.
	r.Use(chimw.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(slogRequestLogger(deps.Logger))
	r.Use(secureHeaders)
	r.Use(corsMiddleware(deps.AllowedOrigins))
	r.Use(metricsMiddleware(m))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "Resource not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == catalog.WellKnownPath {
			w.Header().Set("Allow", "GET, HEAD")
		}
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed.")
	})

	// Health check.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Metrics.
	r.Handle("/metrics", m.ExpositionHandler())
	r.Get("/metrics/summary", m.Handler())

	// Catalog (rate limited per client when enabled).
	cat := httpcatalog.NewFromCatalog(deps.Catalog,
		httpcatalog.WithLogger(deps.Logger),
		httpcatalog.WithObserver(func(r *http.Request, origin catalog.OriginResult, status int) {
			m.IncCatalogServed(r.Method, origin.Forwarded, status)
		}),
	)
	r.Group(func(cr chi.Router) {
		if deps.Limiter != nil {
			cr.Use(ratelimit.Middleware(deps.Limiter, m.IncRateLimitRejection))
		}
		chicatalog.Mount(cr, cat)
	})

	return r
}

// slogRequestLogger is a simple structured logging middleware using slog.
func slogRequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
				"bytes", ww.BytesWritten(),
				"request_id", RequestIDFromContext(r.Context()),
			)
		})
	}
}
