package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/erazemk/mithai/internal/api"
	"github.com/erazemk/mithai/internal/cache"
	"github.com/erazemk/mithai/internal/config"
	"github.com/erazemk/mithai/internal/db"
	"github.com/erazemk/mithai/internal/events"
	"github.com/erazemk/mithai/internal/logging"
	"github.com/erazemk/mithai/internal/shop"
	"github.com/erazemk/mithai/internal/store"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	log, closeLog, err := logging.New(cfg.Environment, cfg.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	zap.ReplaceGlobals(log)

	if err := run(cfg, log); err != nil {
		log.Error("server failed", zap.Error(err))
		closeLog()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx := context.Background()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	if err := db.EnsureSchema(database); err != nil {
		return fmt.Errorf("ensuring database schema: %w", err)
	}
	log.Info("database ready", zap.String("path", cfg.DBPath))

	secret := cfg.JWTSecret
	if secret == "" {
		secret, err = store.SigningSecret(ctx, database)
		if err != nil {
			return fmt.Errorf("loading signing secret: %w", err)
		}
		log.Info("using persisted signing secret")
	}

	catalogCache := newCache(ctx, cfg, log)
	publisher := newPublisher(cfg, log)
	defer publisher.Close()

	svc := shop.New(database, secret, shop.Options{
		Cache:    catalogCache,
		CacheTTL: cfg.CacheTTL,
		Events:   publisher,
		Logger:   log,
	})

	server := &http.Server{
		Addr: cfg.Addr,
		Handler: api.NewRouter(svc, api.Config{
			Secret:       secret,
			SecureCookie: cfg.Production(),
			CORSOrigins:  cfg.CORSOrigins,
			Logger:       log,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		log.Info("shutdown signal received", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	log.Info("server started", zap.String("addr", cfg.Addr), zap.String("environment", cfg.Environment))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	log.Info("server stopped, closing database")
	return nil
}

// newCache connects to Redis when configured and falls back to an in-process
// cache when it is not or cannot be reached.
func newCache(ctx context.Context, cfg *config.Config, log *zap.Logger) cache.Cache {
	if cfg.RedisAddr == "" {
		log.Info("catalog cache in memory")
		return cache.NewMemoryCache()
	}

	client, err := cache.Dial(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Warn("redis unavailable, catalog cache in memory", zap.Error(err))
		return cache.NewMemoryCache()
	}
	log.Info("catalog cache in redis", zap.String("addr", cfg.RedisAddr))
	return cache.NewRedisCache(client, "mithai:")
}

// newPublisher connects to Kafka when brokers are configured. Events are
// dropped otherwise.
func newPublisher(cfg *config.Config, log *zap.Logger) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		return events.Nop{}
	}

	pub, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, "mithai", log)
	if err != nil {
		log.Warn("kafka unavailable, inventory events disabled", zap.Error(err))
		return events.Nop{}
	}
	log.Info("publishing inventory events", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	return pub
}
