package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"maliyye/internal/cli"
	applog "maliyye/internal/log"
	"maliyye/internal/metrics"
	"maliyye/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentWorker)
	logger.Info("Starting maliyye-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.DataBackend == "memory" {
		logger.Warn("Memory backend is private to each process, the worker will only see an empty store")
	}

	res := cli.InitBackend(context.Background(), logger, cfg)
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Failed to release backend", "error", err)
		}
	}()

	m := metrics.New()
	exporter := worker.NewExportWorker(res.Store, res.Exporter, m)
	reminders := worker.NewReminderJob(res.Store, m)
	scheduler := worker.NewScheduler()

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	if err := scheduler.Add(ctx, cfg.ReminderSchedule, reminders); err != nil {
		logger.Error("Failed to schedule reminders", "error", err, "schedule", cfg.ReminderSchedule)
		os.Exit(1)
	}

	// Catch up with changes made while the worker was down.
	if err := exporter.ExportNow(ctx); err != nil {
		if errors.Is(err, worker.ErrNoSnapshot) {
			logger.Info("Nothing to export yet")
		} else {
			logger.Error("Startup export failed", "error", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return scheduler.Run(gctx) })
	if res.AMQP != nil {
		g.Go(func() error {
			return res.AMQP.ConsumeSnapshotChanged(gctx, exporter.HandleSnapshotChanged)
		})
	} else {
		logger.Info("Skipping change consumption - no AMQP_URL provided")
	}

	err := g.Wait()
	if ctx.Err() == nil {
		logger.Error("Worker stopped unexpectedly", "error", err)
		os.Exit(1)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
	}
	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker shutdown complete")
}
