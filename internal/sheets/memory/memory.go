// Package memory is a SnapshotExporter that keeps the rendered tables in
// process. The worker uses it when no spreadsheet is configured.
package memory

import (
	"context"
	"log/slog"
	"sync"

	"maliyye/internal/core"
	"maliyye/internal/sheets"
)

type Exporter struct {
	mu      sync.Mutex
	layout  sheets.Layout
	tables  []sheets.Table
	exports int
}

func New(layout sheets.Layout) *Exporter {
	return &Exporter{layout: layout}
}

var _ sheets.SnapshotExporter = (*Exporter)(nil)

func (e *Exporter) Export(ctx context.Context, s core.Snapshot) error {
	tables := sheets.Render(s, e.layout)

	e.mu.Lock()
	e.tables = tables
	e.exports++
	n := e.exports
	e.mu.Unlock()

	slog.DebugContext(ctx, "Snapshot rendered in memory", "export", n, "ledger_rows", len(tables[0].Rows)-1)
	return nil
}

// Tables returns the tables of the latest export.
func (e *Exporter) Tables() []sheets.Table {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]sheets.Table(nil), e.tables...)
}

// Exports counts the exports performed so far.
func (e *Exporter) Exports() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exports
}
