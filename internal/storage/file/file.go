// Package file stores the snapshot as a JSON document on local disk.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"maliyye/internal/core"
	"maliyye/internal/ledger"
	"maliyye/internal/storage"
)

type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore returns a store writing to path, creating its directory if needed.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("snapshot file path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}
	return &Store{path: path}, nil
}

var _ storage.SnapshotStore = (*Store)(nil)

func (s *Store) Load(ctx context.Context) (core.Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return core.Snapshot{}, false, nil
	}
	if err != nil {
		return core.Snapshot{}, false, fmt.Errorf("read snapshot: %w", err)
	}
	snap, err := ledger.Decode(b)
	if err != nil {
		return core.Snapshot{}, false, fmt.Errorf("%w: %s: %w", storage.ErrCorruptSnapshot, s.path, err)
	}
	return snap, true, nil
}

// Save replaces the file atomically via a temp file in the same directory.
func (s *Store) Save(ctx context.Context, snap core.Snapshot) error {
	b, err := ledger.Encode(snap)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}

	slog.DebugContext(ctx, "Snapshot written", "path", s.path, "bytes", len(b))
	return nil
}

func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove snapshot: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return nil }
