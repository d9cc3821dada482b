// Package worker holds the background jobs of maliyye-worker: mirroring the
// ledger to a spreadsheet and scanning for due payments.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"maliyye/internal/amqp"
	"maliyye/internal/core"
	"maliyye/internal/metrics"
	"maliyye/internal/sheets"
)

// SnapshotLoader is the read side of a snapshot store.
type SnapshotLoader interface {
	Load(ctx context.Context) (core.Snapshot, bool, error)
}

var ErrNoSnapshot = errors.New("no stored snapshot")

// ExportWorker mirrors the stored snapshot to a spreadsheet whenever the
// ledger changes.
type ExportWorker struct {
	store    SnapshotLoader
	exporter sheets.SnapshotExporter
	metrics  *metrics.Metrics
	now      func() time.Time

	mu sync.Mutex
	// loadedAt is when the last successful export read the store. Changes
	// announced before it are already part of that export.
	loadedAt time.Time
}

func NewExportWorker(store SnapshotLoader, exporter sheets.SnapshotExporter, m *metrics.Metrics) *ExportWorker {
	return &ExportWorker{store: store, exporter: exporter, metrics: m, now: time.Now}
}

// HandleSnapshotChanged processes one change message from AMQP.
func (w *ExportWorker) HandleSnapshotChanged(ctx context.Context, msg *amqp.SnapshotChangedMessage) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.loadedAt.IsZero() && msg.Timestamp.Before(w.loadedAt) {
		slog.DebugContext(ctx, "Skipping change already exported",
			"id", msg.ID,
			"revision", msg.Revision,
			"operation", msg.Operation)
		return nil
	}

	slog.InfoContext(ctx, "Processing snapshot change",
		"id", msg.ID,
		"revision", msg.Revision,
		"operation", msg.Operation)

	return w.exportLocked(ctx)
}

// ExportNow exports the stored snapshot regardless of pending messages.
// The worker calls it at startup to recover from missed messages.
func (w *ExportWorker) ExportNow(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.exportLocked(ctx)
}

func (w *ExportWorker) exportLocked(ctx context.Context) error {
	started := w.now()
	s, ok, err := w.store.Load(ctx)
	if err == nil && !ok {
		err = ErrNoSnapshot
	}
	if err != nil {
		w.metrics.ObserveExport(err)
		return fmt.Errorf("load snapshot: %w", err)
	}

	err = w.exporter.Export(ctx, s)
	w.metrics.ObserveExport(err)
	if err != nil {
		return fmt.Errorf("export snapshot: %w", err)
	}

	w.loadedAt = started
	slog.InfoContext(ctx, "Snapshot exported",
		"entries", len(s.Entries),
		"payments", len(s.Payments),
		"duration", time.Since(started))
	return nil
}
