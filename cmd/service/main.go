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
	"golang.org/x/time/rate"

	"github.com/allankassio/ipma-weather-proxy-api/internal/cache"
	"github.com/allankassio/ipma-weather-proxy-api/internal/client"
	"github.com/allankassio/ipma-weather-proxy-api/internal/config"
	httphandler "github.com/allankassio/ipma-weather-proxy-api/internal/http"
	"github.com/allankassio/ipma-weather-proxy-api/internal/observability"
	"github.com/allankassio/ipma-weather-proxy-api/internal/service"
)

func main() {
	logger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	ipmaClient := client.New(cfg.IPMABaseURL, cfg.IPMATimeout, client.TTLs{
		Localities:   cfg.LocalitiesTTL,
		WeatherTypes: cfg.ClassesTTL,
		Forecast:     cfg.ForecastTTL,
	})
	logger.Info("ipma client ready",
		zap.String("base_url", cfg.IPMABaseURL),
		zap.Duration("localities_ttl", cfg.LocalitiesTTL),
		zap.Duration("classes_ttl", cfg.ClassesTTL),
		zap.Duration("forecast_ttl", cfg.ForecastTTL))

	weatherService := service.NewWeatherService(ipmaClient)

	if cfg.WarmCache {
		warmer := cache.NewWarmer(ipmaClient, logger)
		warmCtx, warmCancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := warmer.Warm(warmCtx); err != nil {
			logger.Warn("cache warming failed", zap.Error(err))
		}
		warmCancel()
	}

	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}

	handler := httphandler.NewHandler(weatherService, logger)
	router := httphandler.NewRouter(handler, logger, limiter, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	<-ctx.Done()
	stop()

	logger.Info("graceful shutdown triggered")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
