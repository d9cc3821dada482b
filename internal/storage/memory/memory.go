// Package memory is an in-process SnapshotStore for development and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"maliyye/internal/core"
	"maliyye/internal/ledger"
	"maliyye/internal/storage"
)

// Store keeps the encoded snapshot so callers never share slices with it.
type Store struct {
	mu      sync.RWMutex
	payload []byte
}

func NewStore() *Store { return &Store{} }

var _ storage.SnapshotStore = (*Store)(nil)

func (s *Store) Load(ctx context.Context) (core.Snapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.payload == nil {
		return core.Snapshot{}, false, nil
	}
	snap, err := ledger.Decode(s.payload)
	if err != nil {
		return core.Snapshot{}, false, fmt.Errorf("%w: %w", storage.ErrCorruptSnapshot, err)
	}
	return snap, true, nil
}

func (s *Store) Save(ctx context.Context, snap core.Snapshot) error {
	b, err := ledger.Encode(snap)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.payload = b
	s.mu.Unlock()
	return nil
}

// SaveRaw stores payload as is, bypassing encoding.
func (s *Store) SaveRaw(payload []byte) {
	s.mu.Lock()
	s.payload = append([]byte(nil), payload...)
	s.mu.Unlock()
}

func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.payload = nil
	s.mu.Unlock()
	return nil
}

func (s *Store) Close() error { return nil }
