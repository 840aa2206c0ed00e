package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"news_feed/internal/api"
	"news_feed/internal/cache"
	"news_feed/internal/config"
	"news_feed/internal/publisher"
	"news_feed/internal/service"
	"news_feed/internal/source/eventregistry"
	"news_feed/internal/storage/memory"
	"news_feed/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	if cfg.Auth.JWTSecret == config.DefaultJWTSecret {
		logger.Warn("using default jwt secret, set auth.jwt_secret in production")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Identity store
	var users service.UserStore
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := sqlx.Connect("postgres", cfg.Database.DSN())
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			logger.Error("failed to ping database", "error", err)
			os.Exit(1)
		}
		logger.Info("connected to database")
		users = postgres.NewUserStore(db)
	default:
		users = memory.NewUserStore()
	}

	// Feed cache
	var feedCache service.FeedCache
	switch cfg.Cache.Driver {
	case config.DriverRedis:
		client, err := cache.NewRedisClient(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		redisCache := cache.NewRedisFeedCache(client, cfg.Cache.TTL, cfg.Cache.Redis.KeyPrefix)
		defer redisCache.Close()
		logger.Info("connected to redis", "addr", cfg.Cache.Redis.Addr)
		feedCache = redisCache
	default:
		feedCache = cache.NewMemoryFeedCache(cfg.Cache.TTL)
	}

	// Optional event publisher
	var pub service.Publisher
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		pub = rabbitMQ
	}

	source := eventregistry.New(eventregistry.Config{
		BaseURL: cfg.API.BaseURL,
		APIKey:  cfg.API.Key,
		Lang:    cfg.API.Lang,
		Timeout: cfg.API.Timeout,
	}, logger)

	authService := service.NewAuthService(users, pub, logger, cfg.Auth)
	prefService := service.NewPreferenceService(users, pub, logger)
	feedService := service.NewFeedService(source, feedCache, logger, cfg.API.PageSize)

	server := api.New(authService, prefService, feedService, logger, api.Config{
		LoginRateLimit: cfg.Auth.LoginRateLimit,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(cfg.Server.Addr)
	}()

	logger.Info("starting news feed server",
		"addr", cfg.Server.Addr,
		"storage", cfg.Storage.Driver,
		"cache", cfg.Cache.Driver,
		"source", source.Name(),
		"events", cfg.RabbitMQ.Enabled,
	)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
		return
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
