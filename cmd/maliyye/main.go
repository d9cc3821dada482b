package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"maliyye/internal/cli"
	"maliyye/internal/core"
	apphttp "maliyye/internal/http"
	applog "maliyye/internal/log"
	"maliyye/internal/metrics"
	"maliyye/internal/seed"
	"maliyye/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	res := cli.InitBackend(context.Background(), logger, cfg)
	m := metrics.New()

	rng := cli.NewRand(cfg.SeedValue)
	svc := services.NewLedgerService(res.Store, res.Notifier, m, func() core.Snapshot {
		return seed.Default(rng, time.Now())
	})
	if err := svc.Open(context.Background()); err != nil {
		logger.Error("Failed to open ledger", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	srv := apphttp.NewServer(":"+cfg.Port, svc, m, apphttp.Options{
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		RateLimitBurst:     cfg.RateLimitBurst,
		CacheTTL:           cfg.CacheTTL,
		CacheSize:          cfg.CacheSize,
		AllowedOrigins:     cfg.AllowedOrigins,
		TrustedProxies:     cfg.TrustedProxies,
		Logger:             logger.WithComponent(applog.ComponentHTTP),
	})
	srv.MaxHeaderBytes = 1 << 16

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if err := svc.Close(); err != nil {
			logger.Error("Failed to close ledger", "error", err)
		}
	})

	go func() {
		logger.Info("Starting maliyye server",
			"port", cfg.Port,
			"backend", cfg.DataBackend,
			"amqp_enabled", res.Notifier != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err, "port", cfg.Port)
			os.Exit(1)
		}
	}()

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
