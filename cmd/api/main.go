// Package main is the entrypoint for the Maillist API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/maillist/maillist/internal/cache"
	"github.com/maillist/maillist/internal/config"
	"github.com/maillist/maillist/internal/handler"
	"github.com/maillist/maillist/internal/metrics"
	"github.com/maillist/maillist/internal/middleware"
	"github.com/maillist/maillist/internal/repository"
	"github.com/maillist/maillist/internal/server"
	"github.com/maillist/maillist/internal/service"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	// Initialize session/rate-limit cache
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	// Initialize services
	metricsRecorder := metrics.NewInMemory()
	subscriberService := service.NewSubscriberService(repo, metricsRecorder)

	// Initialize handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	subscriberHandler := handler.NewSubscriberHandler(subscriberService, logger)
	authHandler := handler.NewAuthHandler(logger, repo, cacheClient, cfg.SessionTTL)
	metricsHandler := handler.NewMetricsHandler(metricsRecorder)

	// Setup router
	r := setupRouter(routerDeps{
		base:        h,
		health:      healthHandler,
		subscribers: subscriberHandler,
		auth:        authHandler,
		metrics:     metricsHandler,
		service:     subscriberService,
		cache:       cacheClient,
		cfg:         cfg,
		logger:      logger,
	})

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// routerDeps bundles everything the router needs.
type routerDeps struct {
	base        *handler.Handler
	health      *handler.HealthHandler
	subscribers *handler.SubscriberHandler
	auth        *handler.AuthHandler
	metrics     *handler.MetricsHandler
	service     *service.SubscriberService
	cache       *cache.Cache
	cfg         *config.Config
	logger      *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(d routerDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.logger))
	r.Use(middleware.Recoverer(d.logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment: d.cfg.IsDevelopment(),
	}))
	r.Use(middleware.MaxBodySize(d.cfg.MaxRequestBodySize))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = d.cfg.GetCORSAllowedOrigins()
	r.Use(middleware.CORS(corsCfg))

	// Health endpoints (no auth required)
	r.Get("/healthz", d.health.Healthz)
	r.Get("/readyz", d.health.Readyz)

	// Root info endpoint
	r.Get("/", d.base.Hello)

	// Metrics endpoint
	r.Get("/metrics", d.metrics.Metrics)

	// Identity middleware configuration
	identityCfg := middleware.IdentityConfig{
		Logger:   d.logger,
		Sessions: d.cache,
	}

	// Rate limit middleware configuration
	rateLimitCfg := middleware.RateLimitConfig{
		Logger:  d.logger,
		Cache:   d.cache,
		Enabled: d.cfg.RateLimitEnabled,
		RPS:     d.cfg.RateLimitRPS,
		Burst:   d.cfg.RateLimitBurst,
	}

	// Account and session routes
	r.Route("/auth", func(r chi.Router) {
		r.With(middleware.RateLimitIP(rateLimitCfg)).Post("/signup", d.auth.Signup)
		r.With(middleware.RateLimitIP(rateLimitCfg)).Post("/signin", d.auth.Signin)
		r.With(middleware.Identity(identityCfg), middleware.RequireAuth()).Post("/signout", d.auth.Signout)
	})

	// Subscriber resource routes
	r.Route("/subscribers", func(r chi.Router) {
		r.Use(middleware.Identity(identityCfg))

		r.Get("/", d.subscribers.List)
		r.With(middleware.RateLimitIP(rateLimitCfg)).Post("/", d.subscribers.Create)

		r.Route("/{subscriberId}", func(r chi.Router) {
			r.Use(middleware.SubscriberCtx(middleware.SubscriberCtxConfig{
				Logger: d.logger,
				Loader: d.service,
			}))

			r.Get("/", d.subscribers.Read)
			r.With(middleware.RequireAuth(), middleware.RequireSubscriberOwner()).Put("/", d.subscribers.Update)
			r.With(middleware.RequireAuth(), middleware.RequireSubscriberOwner()).Delete("/", d.subscribers.Delete)
		})
	})

	// 404 and 405 handlers
	r.NotFound(d.base.NotFound)
	r.MethodNotAllowed(d.base.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
