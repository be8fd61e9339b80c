// Package httpapi wires the HTTP transport (Gin) to the catalog service,
// middleware, and view controllers. It centralizes cross-cutting concerns
// such as tracing, correlation IDs, logging, panic recovery, metrics,
// compression, security headers, and rate limiting.
//
// Design goals:
//   - Observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
package httpapi

import (
	"html/template"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/mcowell/go-movie-catalog/internal/config"
	"github.com/mcowell/go-movie-catalog/internal/http/handlers"
	"github.com/mcowell/go-movie-catalog/internal/http/middleware"
	"github.com/mcowell/go-movie-catalog/internal/repo"
	"github.com/mcowell/go-movie-catalog/internal/services"
	"github.com/mcowell/go-movie-catalog/web"
)

// RegisterRoutes attaches all middleware and endpoints to the given Gin
// engine and loads the embedded HTML templates.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs
//  4. Recovery: capture panics after logger
//  5. gzip: the pages are plain HTML and compress well
//  6. Metrics
//  7. Rate limiter (per client IP)
//  8. Security headers
func RegisterRoutes(r *gin.Engine, conn repo.Connector, cfg config.Config) {
	r.HandleMethodNotAllowed = true
	r.SetHTMLTemplate(template.Must(template.ParseFS(web.Templates, "templates/*.html")))

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured access logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to an HTML 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Compression
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Token-bucket rate limiter per client IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByIP())
	r.Use(rl.Handler())

	// 8) Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.FailPage(c, http.StatusNotFound, "Page not found.")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.FailPage(c, http.StatusMethodNotAllowed, "Method not allowed.")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Dependency injection: handlers ← service ← connector
	svc := services.NewCatalogService(conn, cfg.DefaultPerPage)
	h := handlers.New(svc, cfg.DefaultPerPage, cfg.MaxPerPage, cfg.LogFile)

	r.GET("/", h.Index)
	r.GET("/movies", h.ListMovies)
	r.GET("/search", h.Search)
	// The original exposed the detail route for GET and POST; kept as-is.
	r.GET("/movie/:id", h.MovieDetails)
	r.POST("/movie/:id", h.MovieDetails)
	r.GET("/diagnostics", h.Diagnostics)
}
