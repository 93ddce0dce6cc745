// Command trendcastd serves the forecasting engine over HTTP.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/sartorproj/gotrend/httpapi"
	"github.com/sartorproj/gotrend/metrics"
	"github.com/sartorproj/gotrend/prediction"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	orchestrator, err := prediction.New(cfg.Prediction,
		prediction.WithLogger(logger),
		prediction.WithRecorder(metrics.New(registry)))
	if err != nil {
		logger.Error("failed to create orchestrator", "error", err)
		os.Exit(1)
	}

	app := httpapi.NewApp(httpapi.NewHandler(orchestrator, cfg.RequestTimeout), httpapi.AppConfig{
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		AllowOrigins:       cfg.AllowOrigins,
		AccessLog:          true,
		Gatherer:           registry,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	logger.Info("trendcastd started",
		"port", cfg.Port,
		"default_model", string(cfg.Prediction.DefaultModel),
		"rate_limit", cfg.RateLimitPerMinute)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server shutdown complete")
}
