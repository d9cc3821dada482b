// Package storage persists whole ledger snapshots.
package storage

import (
	"context"
	"errors"

	"maliyye/internal/core"
)

// SnapshotKey is the key the current snapshot is stored under.
const SnapshotKey = "financialData"

// ErrCorruptSnapshot is returned by Load when stored data cannot be decoded.
var ErrCorruptSnapshot = errors.New("corrupt snapshot")

// SnapshotStore loads and saves the current snapshot. Load reports absence
// with ok=false and a nil error.
type SnapshotStore interface {
	Load(ctx context.Context) (s core.Snapshot, ok bool, err error)
	Save(ctx context.Context, s core.Snapshot) error
	Reset(ctx context.Context) error
	Close() error
}
