package main

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"repoapi/docs"
	"repoapi/internal/appstate"
	"repoapi/internal/config"
	"repoapi/internal/database"
	handlers "repoapi/internal/http/handler"
	"repoapi/internal/http/middleware"
	"repoapi/internal/logger"
	"repoapi/internal/otel"
	"repoapi/internal/repository"
	"repoapi/internal/storage"
)

// @title Users and Items API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	shutdownTracing, err := otel.Init(context.Background(), log)
	if err != nil {
		log.Fatal("failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(ctx)
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	promMW, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatal("failed to register http metrics", zap.Error(err))
	}
	lookupMetrics, err := repository.NewMetrics(reg)
	if err != nil {
		log.Fatal("failed to register repository metrics", zap.Error(err))
	}

	res, pingers, closeAll := openResources(cfg, log)
	defer closeAll()

	st, err := appstate.Build(cfg.Store, res, log, lookupMetrics)
	if err != nil {
		log.Fatal("failed to bind repositories", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(log),
	})

	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(promMW.Handler())

	handlers.RegisterRoutes(app, st, reg, pingers...)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port
	log.Info("listening",
		zap.String("addr", addr),
		zap.String("user_backend", cfg.Store.UserBackendName()),
		zap.String("item_backend", cfg.Store.ItemBackendName()),
	)

	if err := app.Listen(addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}

// openResources opens only the connections the store configuration names.
// The returned pingers back /health; closeAll releases the pools it opened.
func openResources(cfg *config.AppConfig, log *zap.Logger) (appstate.Resources, []handlers.Pinger, func()) {
	res := appstate.Resources{
		LookupTimeout: time.Duration(cfg.Store.LookupTimeoutMs) * time.Millisecond,
	}
	var (
		pingers []handlers.Pinger
		closers []func() error
	)

	if cfg.Store.Uses(config.BackendPostgres) {
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			log.Fatal("failed to connect to postgres", zap.Error(err))
		}
		res.Postgres = db
		pingers = append(pingers, db)
		closers = append(closers, db.Close)
	}

	if cfg.Store.Uses(config.BackendSQLite) {
		db, err := database.NewSQLite(cfg.SQLite)
		if err != nil {
			log.Fatal("failed to open sqlite", zap.Error(err))
		}
		res.SQLite = db
		pingers = append(pingers, db)
		closers = append(closers, db.Close)
	}

	if cfg.Store.Uses(config.BackendObject) {
		objStore, err := storage.NewMinIO(cfg.MinIO)
		if err != nil {
			log.Fatal("failed to initialize object storage", zap.Error(err))
		}
		res.Objects = objStore
		pingers = append(pingers, objStore)
	}

	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			// the cache is optional; lookups go straight to the backend
			log.Warn("redis unavailable, cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			_ = rdb.Close()
		} else {
			res.Cache = rdb
			res.CacheTTL = time.Duration(cfg.Redis.TTLSec) * time.Second
			closers = append(closers, rdb.Close)
		}
	}

	return res, pingers, func() {
		for _, c := range closers {
			_ = c()
		}
	}
}
