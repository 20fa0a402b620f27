package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/dajeong-labs/dajeong/internal/router"
	"github.com/dajeong-labs/dajeong/internal/config"
	"github.com/dajeong-labs/dajeong/internal/database"
	"github.com/dajeong-labs/dajeong/internal/gemini"
	"github.com/dajeong-labs/dajeong/internal/middleware"
	iredis "github.com/dajeong-labs/dajeong/internal/redis"
	"github.com/dajeong-labs/dajeong/internal/secure"
	"github.com/dajeong-labs/dajeong/internal/server"
	"github.com/dajeong-labs/dajeong/internal/translation"
	"github.com/dajeong-labs/dajeong/internal/usage"
)

// usageCacheTTL bounds staleness of the polled capacity endpoint. The cache
// is invalidated on every admission, so the TTL only matters for writes made
// outside this process.
const usageCacheTTL = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.Log)

	if cfg.Gemini.Enabled() {
		slog.Info("ai rewriting enabled", "model", cfg.Gemini.Model, "key", secure.MaskKey(cfg.Gemini.APIKey))
	} else {
		slog.Warn("no gemini credential configured, serving fallback rewrites only")
	}

	ctx := context.Background()

	// PostgreSQL
	pool, err := database.NewPostgresPool(ctx, cfg.DB)
	if err != nil {
		slog.Error("connecting to postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.DB.MigrationsPath != "" {
		if err := database.RunMigrations(cfg.DB.DSN(), cfg.DB.MigrationsPath); err != nil {
			slog.Error("running migrations", "error", err)
			os.Exit(1)
		}
	}

	// Redis
	redisClient, err := iredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		slog.Error("connecting to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// Usage gate
	usageRepo := usage.NewRepository(pool)
	usageCache := usage.NewCache(redisClient, usageCacheTTL)
	usageSvc, err := usage.NewService(usageRepo, usageCache, cfg.Quota, cfg.Gemini.Enabled())
	if err != nil {
		slog.Error("building usage service", "error", err)
		os.Exit(1)
	}
	usageHandler := usage.NewHandler(usageSvc)

	// Translation pipeline
	translationRepo := translation.NewRepository(pool)
	translationSvc := translation.NewService(usageSvc, nil, translationRepo)
	if cfg.Gemini.Enabled() {
		// A typed nil *gemini.Client would pass the service's nil check, so
		// the client is only handed over when actually configured.
		translationSvc = translation.NewService(usageSvc, gemini.NewClient(cfg.Gemini), translationRepo)
	}
	translationHandler := translation.NewHandler(translationSvc)

	// Rate limiting
	limiter := middleware.NewRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)

	// Router
	router := router.NewRouter(pool, redisClient, router.RouterConfig{
		CORSAllowedOrigins:   cfg.CORS.AllowedOrigins,
		TranslateRateLimiter: limiter.Middleware,
	}, router.HandlerSet{
		Translate: translationHandler.Translate,

		UsageCheck:      usageHandler.Check,
		CuteMessage:     usageHandler.CuteMessage,
		AdminUsageStats: usageHandler.AdminStats,
	})

	// Start server
	srv := server.New(cfg.Server, router)
	if err := srv.Start(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(cfg config.LogConfig) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{}
	switch cfg.Level {
	case "debug":
		opts.Level = slog.LevelDebug
	case "info":
		opts.Level = slog.LevelInfo
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelInfo
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
