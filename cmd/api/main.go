// Package main is the entrypoint for the MediCare API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/medicare/medicare-api/internal/cache"
	"github.com/medicare/medicare-api/internal/config"
	"github.com/medicare/medicare-api/internal/handler"
	"github.com/medicare/medicare-api/internal/metrics"
	"github.com/medicare/medicare-api/internal/middleware"
	"github.com/medicare/medicare-api/internal/repository"
	"github.com/medicare/medicare-api/internal/server"
	"github.com/medicare/medicare-api/internal/service"
	"github.com/medicare/medicare-api/internal/storage"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to start", slog.String("error", sanitizeError(err, cfg.DatabaseURL, cfg.RedisURL)))
		os.Exit(1)
	}

	srv := server.New(a.router, server.Config{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	// LIFO: Redis closes before storage.
	srv.OnShutdown("storage", func(ctx context.Context) error { return a.backend.Close() })
	if a.cache != nil {
		srv.OnShutdown("redis", func(ctx context.Context) error { return a.cache.Close() })
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"storage", cfg.StorageBackend,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// app holds the wired dependencies of a running server.
type app struct {
	router  http.Handler
	backend storage.Backend
	cache   *cache.Cache
}

// newApp opens storage (and Redis when configured), prepares the collections
// and builds the router. On error every opened resource is closed.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *app, err error) {
	backend, err := storage.Open(ctx, cfg.StorageOptions())
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.StorageBackend, err)
	}
	defer func() {
		if err != nil {
			_ = backend.Close()
		}
	}()
	logger.Info("storage ready",
		"backend", cfg.StorageBackend,
		"location", storageLocation(cfg),
	)

	// One generator for both collections keeps ids unique across them.
	ids := repository.NewIDGenerator(nil)
	medicines := repository.NewMedicines(backend, repository.WithIDGenerator(ids))
	users := repository.NewUsers(backend, repository.WithIDGenerator(ids))

	for _, ensure := range []func(context.Context) error{medicines.Ensure, users.Ensure} {
		if err := ensure(ctx); err != nil {
			return nil, err
		}
	}

	var cacheClient *cache.Cache
	var limiter middleware.RateLimiter = cache.NewLocalLimiter()
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		limiter = cacheClient
		logger.Info("connected to Redis", slog.String("redis_url", redactURL(cfg.RedisURL)))
	}

	recorder := metrics.NewInMemory()

	medicineService := service.NewMedicineService(medicines, recorder)
	userService := service.NewUserService(users, recorder)

	var cacheCheck handler.HealthChecker
	if cacheClient != nil {
		cacheCheck = cacheClient
	}

	r := setupRouter(routerDeps{
		health:    handler.NewHealthHandler(backend, cacheCheck),
		medicines: handler.NewMedicineHandler(medicineService, logger),
		users:     handler.NewUserHandler(userService, logger),
		metrics:   handler.NewMetricsHandler(recorder),
		limiter:   limiter,
	}, cfg, logger)

	return &app{router: r, backend: backend, cache: cacheClient}, nil
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
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type routerDeps struct {
	health    *handler.HealthHandler
	medicines *handler.MedicineHandler
	users     *handler.UserHandler
	metrics   *handler.MetricsHandler
	limiter   middleware.RateLimiter
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(deps routerDeps, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	if cfg.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment: cfg.IsDevelopment(),
		APIPrefix:     "/api/",
	}))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.GetCORSAllowedOrigins())))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	authLimit := middleware.RateLimitIP(middleware.RateLimitConfig{
		Logger:  logger,
		Limiter: deps.limiter,
		Enabled: cfg.RateLimitAuthEnabled,
		Scope:   "auth",
		RPS:     cfg.RateLimitAuthRPS,
		Burst:   cfg.RateLimitAuthBurst,
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", deps.health.Health)

		r.Route("/medicines", deps.medicines.Routes)

		r.Get("/diseases", handler.Diseases)
		r.Get("/diseases/{disease}/medicines", handler.DiseaseMedicines)

		r.With(authLimit).Post("/register", deps.users.Register)
		r.With(authLimit).Post("/login", deps.users.Login)
	})

	r.Get("/readyz", deps.health.Readyz)
	r.Get("/metrics", deps.metrics.Metrics)

	if info, err := os.Stat(cfg.StaticDir); err == nil && info.IsDir() {
		r.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))
		logger.Info("serving static files", "dir", cfg.StaticDir)
	}

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	return r
}

func storageLocation(cfg *config.Config) string {
	switch cfg.StorageBackend {
	case config.StorageFile:
		return cfg.DataDir
	case config.StorageSQLite:
		return cfg.SQLitePath
	case config.StoragePostgres:
		return redactURL(cfg.DatabaseURL)
	default:
		return cfg.StorageBackend
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s&]+`)

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

	query := parsed.Query()
	if query.Has("password") {
		query.Set("password", "redacted")
		parsed.RawQuery = query.Encode()
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
