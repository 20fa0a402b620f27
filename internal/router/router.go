package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/dajeong-labs/dajeong/internal/api"
	"github.com/dajeong-labs/dajeong/internal/database"
	mw "github.com/dajeong-labs/dajeong/internal/middleware"
)

// HandlerSet holds handler functions injected from main.go to avoid import cycles.
type HandlerSet struct {
	Translate http.HandlerFunc

	UsageCheck      http.HandlerFunc
	CuteMessage     http.HandlerFunc
	AdminUsageStats http.HandlerFunc
}

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	CORSAllowedOrigins []string

	// TranslateRateLimiter guards the translate route only; read-only
	// usage endpoints are polled by the UI and stay unlimited.
	TranslateRateLimiter func(http.Handler) http.Handler
}

func NewRouter(pool *pgxpool.Pool, redisClient *redis.Client, cfg RouterConfig, h HandlerSet) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.SecurityHeaders)
	r.Use(mw.Logging)
	r.Use(mw.Recovery)
	r.Use(mw.Metrics)
	r.Use(cors.Handler(mw.CORS(cfg.CORSAllowedOrigins)))

	// Liveness probe — always 200, no dependency checks
	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		api.JSON(w, http.StatusOK, map[string]string{"status": "alive"})
	})

	// Readiness probe checks DB and Redis. Redis is a cache only, so an
	// unhealthy Redis degrades the report without failing readiness.
	readinessHandler := func(w http.ResponseWriter, r *http.Request) {
		health := map[string]string{
			"status":   "healthy",
			"database": "healthy",
			"redis":    "healthy",
		}

		status := http.StatusOK

		if err := database.HealthCheck(r.Context(), pool); err != nil {
			health["database"] = "unhealthy"
			health["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}

		if redisClient != nil {
			if err := redisClient.Ping(r.Context()).Err(); err != nil {
				health["redis"] = "unhealthy"
				health["status"] = "degraded"
			}
		} else {
			health["redis"] = "not configured"
		}

		api.JSON(w, status, health)
	}

	r.Get("/health/ready", readinessHandler)
	r.Get("/health", readinessHandler)

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if cfg.TranslateRateLimiter != nil {
				r.Use(cfg.TranslateRateLimiter)
			}
			r.Post("/translate", h.Translate)
		})

		r.Route("/usage", func(r chi.Router) {
			r.Get("/check", h.UsageCheck)
			r.Get("/cute-message", h.CuteMessage)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/usage-stats", h.AdminUsageStats)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.HandleError(w, api.ErrNotFound)
	})

	return r
}
