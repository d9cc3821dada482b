// Package sheets mirrors the ledger into spreadsheet tables.
package sheets

import (
	"context"

	"maliyye/internal/core"
)

// SnapshotExporter writes a full snapshot to an external spreadsheet,
// replacing whatever was exported before.
type SnapshotExporter interface {
	Export(ctx context.Context, s core.Snapshot) error
}
