package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/dharmasatrya/airfare/internal/cache"
	"github.com/dharmasatrya/airfare/internal/config"
	"github.com/dharmasatrya/airfare/internal/handler"
	"github.com/dharmasatrya/airfare/internal/ingest"
	"github.com/dharmasatrya/airfare/internal/ratelimit"
)

func main() {
	if err := run(); err != nil {
		zap.L().Error("server exited", zap.Error(err))
		_ = zap.L().Sync()
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := config.InitLogger(cfg.Log); err != nil {
		return err
	}
	defer func() { _ = zap.L().Sync() }()

	ingestCfg, err := ingest.ConfigFrom(cfg.Ingest)
	if err != nil {
		return err
	}
	ingester := ingest.NewIngester(ingestCfg)

	responseCache, err := newCache(cfg.Cache)
	if err != nil {
		return err
	}
	defer responseCache.Close()

	limiter := ratelimit.NewClientLimiter(ratelimit.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.Burst,
	})

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())
	e.Use(handler.RequestLogger())

	api := e.Group("/api/v1", ratelimit.Middleware(limiter))
	handler.NewTicketsHandler(ingester, responseCache).Register(api)
	e.GET("/health", handler.HealthHandler)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := ":" + strconv.Itoa(cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("starting fare server",
			zap.String("addr", addr),
			zap.String("policy", string(ingestCfg.Policy)),
			zap.Int("workers", ingestCfg.Workers),
			zap.Bool("cache", cfg.Cache.Enabled),
		)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zap.L().Info("shutting down", zap.Duration("timeout", cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	return e.Shutdown(shutdownCtx)
}

func newCache(cfg config.CacheConfig) (cache.Cache, error) {
	if !cfg.Enabled {
		zap.L().Info("cache disabled")
		return cache.NewNoOpCache(), nil
	}

	redisCache, err := cache.NewRedisCache(cache.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.TTL,
	})
	if err != nil {
		return nil, err
	}
	zap.L().Info("redis cache enabled",
		zap.String("addr", cfg.RedisHost+":"+cfg.RedisPort),
		zap.Duration("ttl", cfg.TTL),
	)
	return redisCache, nil
}
