// Package services holds the session state of the ledger and orchestrates the
// engine, the snapshot store and change notifications.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"maliyye/internal/core"
	"maliyye/internal/ledger"
	"maliyye/internal/metrics"
	"maliyye/internal/storage"
)

// Operation names carried by change events and metrics.
const (
	OpUpsertMonth       = "upsert_month"
	OpReplaceCategories = "replace_categories"
	OpAddPayment        = "add_payment"
	OpRemovePayment     = "remove_payment"
	OpImport            = "import"
	OpReset             = "reset"
	OpSeed              = "seed"
)

// ChangeNotifier is told about every committed snapshot revision.
type ChangeNotifier interface {
	PublishSnapshotChanged(ctx context.Context, revision int64, operation string) error
}

// SeedFunc builds the snapshot used when nothing usable is stored.
type SeedFunc func() core.Snapshot

// LedgerService owns the current snapshot. Writers are serialized; each
// mutation is saved before it becomes visible to readers.
type LedgerService struct {
	store    storage.SnapshotStore
	notifier ChangeNotifier
	metrics  *metrics.Metrics
	seed     SeedFunc

	mu       sync.RWMutex
	current  core.Snapshot
	revision int64
}

func NewLedgerService(store storage.SnapshotStore, notifier ChangeNotifier, m *metrics.Metrics, seed SeedFunc) *LedgerService {
	if seed == nil {
		seed = func() core.Snapshot { return core.Snapshot{} }
	}
	return &LedgerService{
		store:    store,
		notifier: notifier,
		metrics:  m,
		seed:     seed,
	}
}

// Open loads the stored snapshot. An absent or corrupt snapshot is replaced by
// a freshly seeded one.
func (s *LedgerService) Open(ctx context.Context) error {
	snap, ok, err := s.store.Load(ctx)
	switch {
	case errors.Is(err, storage.ErrCorruptSnapshot):
		slog.WarnContext(ctx, "Stored snapshot is corrupt, seeding a new one", "error", err)
		ok = false
	case err != nil:
		return fmt.Errorf("load snapshot: %w", err)
	}

	if ok {
		s.mu.Lock()
		s.current = snap
		s.revision = 1
		s.mu.Unlock()
		s.metrics.SetRevision(1)
		slog.InfoContext(ctx, "Snapshot loaded", "entries", len(snap.Entries), "payments", len(snap.Payments))
		return nil
	}

	_, _, err = s.mutate(ctx, OpSeed, func(core.Snapshot) (core.Snapshot, error) {
		return s.seed(), nil
	})
	return err
}

// Snapshot returns a copy of the current snapshot and its revision.
func (s *LedgerService) Snapshot() (core.Snapshot, int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone(), s.revision
}

func (s *LedgerService) Revision() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

func (s *LedgerService) UpsertMonth(ctx context.Context, year int, month string, revenue, expense decimal.Decimal) (core.Snapshot, int64, error) {
	return s.mutate(ctx, OpUpsertMonth, func(cur core.Snapshot) (core.Snapshot, error) {
		return ledger.UpsertMonth(cur, year, month, revenue, expense)
	})
}

func (s *LedgerService) ReplaceExpenseCategories(ctx context.Context, cats []core.ExpenseCategory) (core.Snapshot, int64, error) {
	return s.mutate(ctx, OpReplaceCategories, func(cur core.Snapshot) (core.Snapshot, error) {
		return ledger.ReplaceExpenseCategories(cur, cats), nil
	})
}

func (s *LedgerService) AddPayment(ctx context.Context, p core.UpcomingPayment) (core.Snapshot, int64, error) {
	return s.mutate(ctx, OpAddPayment, func(cur core.Snapshot) (core.Snapshot, error) {
		if err := p.Validate(); err != nil {
			return cur, err
		}
		p.Kind = core.ParseKind(string(p.Kind))
		return ledger.AppendUpcomingPayment(cur, p), nil
	})
}

func (s *LedgerService) RemovePayment(ctx context.Context, index int) (core.Snapshot, int64, error) {
	return s.mutate(ctx, OpRemovePayment, func(cur core.Snapshot) (core.Snapshot, error) {
		return ledger.RemoveUpcomingPayment(cur, index)
	})
}

// Import replaces the whole snapshot with snap after normalizing it.
func (s *LedgerService) Import(ctx context.Context, snap core.Snapshot) (core.Snapshot, int64, error) {
	return s.mutate(ctx, OpImport, func(core.Snapshot) (core.Snapshot, error) {
		return ledger.Normalize(snap)
	})
}

// Reset clears the store and starts over from a fresh seed.
func (s *LedgerService) Reset(ctx context.Context) (core.Snapshot, int64, error) {
	return s.mutate(ctx, OpReset, func(core.Snapshot) (core.Snapshot, error) {
		if err := s.store.Reset(ctx); err != nil {
			return core.Snapshot{}, fmt.Errorf("reset store: %w", err)
		}
		return s.seed(), nil
	})
}

// mutate applies fn to the current snapshot and commits the result. The
// returned revision is the one the returned snapshot was committed under.
func (s *LedgerService) mutate(ctx context.Context, op string, fn func(core.Snapshot) (core.Snapshot, error)) (core.Snapshot, int64, error) {
	s.mu.Lock()
	next, err := fn(s.current)
	if err == nil {
		if serr := s.store.Save(ctx, next); serr != nil {
			err = fmt.Errorf("save snapshot: %w", serr)
		}
	}
	if err != nil {
		s.mu.Unlock()
		s.metrics.ObserveOperation(op, err)
		return core.Snapshot{}, 0, err
	}
	s.current = next
	s.revision++
	rev := s.revision
	out := next.Clone()
	s.mu.Unlock()

	s.metrics.ObserveOperation(op, nil)
	s.metrics.SetRevision(rev)
	s.publish(ctx, rev, op)
	return out, rev, nil
}

// publish never fails the caller: the snapshot is already committed.
func (s *LedgerService) publish(ctx context.Context, rev int64, op string) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.PublishSnapshotChanged(ctx, rev, op)
	s.metrics.ObservePublish(err)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to publish snapshot change", "revision", rev, "operation", op, "error", err)
	}
}

// Close closes the store and, when it holds resources, the notifier.
func (s *LedgerService) Close() error {
	var errs []error
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if c, ok := s.notifier.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("notifier: %w", err))
		}
	}
	return errors.Join(errs...)
}
