package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/common/config"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/common/logger"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/server/auth"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/server/cache"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/server/httpapi"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/server/pricing"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/server/recommend"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/server/store"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/server/validation"
)

// retryWithBackoff attempts an operation with exponential backoff.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting gift finder backend...",
		zap.String("version", cfg.App.Version),
		zap.String("address", cfg.Server.Address()),
	)

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *store.Postgres
	err = retryWithBackoff(func() error {
		var err error
		pg, err = store.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry; the cache degrades to pass-through if it
	// never comes up ---
	searchCache := cache.New(nil, log)
	err = retryWithBackoff(func() error {
		client := cache.NewRedisClient(cfg.Database.Redis)
		c := cache.New(client, log)
		if err := c.Ping(ctx); err != nil {
			client.Close()
			return err
		}
		searchCache = c
		return nil
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Warn("redis unavailable, caching disabled", zap.Error(err))
	} else {
		defer searchCache.Close()
		zapLog.Info("Redis connected successfully")
	}

	validator, err := validation.New()
	if err != nil {
		zapLog.Fatal("schema compilation failed", zap.Error(err))
	}

	issuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTL)*time.Minute)
	authSvc := auth.NewService(pg, issuer, log)

	retailers := pricing.FromConfig(cfg.Pricing.Retailers, time.Duration(cfg.Pricing.Timeout)*time.Millisecond)
	prices := pricing.NewService(retailers, log)

	srv := httpapi.NewServer(
		recommend.NewEngine(),
		prices,
		searchCache,
		authSvc,
		pg,
		validator,
		log,
		cfg.App.Version,
	)

	httpServer := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      srv.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zapLog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLog.Info("Shutdown complete")
}
