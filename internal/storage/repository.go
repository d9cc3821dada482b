package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"maliyye/internal/core"
	"maliyye/internal/ledger"

	_ "modernc.org/sqlite"
)

// SQLiteRepository keeps the snapshot as a JSON document in a single row.
type SQLiteRepository struct {
	db  *sql.DB
	key string
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Debug("SQLite schema ready", "path", dbPath, "version", version)

	return &SQLiteRepository{db: db, key: SnapshotKey}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Load(ctx context.Context) (core.Snapshot, bool, error) {
	var payload string
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM snapshots WHERE key = ?`, r.key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Snapshot{}, false, nil
	}
	if err != nil {
		return core.Snapshot{}, false, fmt.Errorf("select snapshot: %w", err)
	}

	s, err := ledger.Decode([]byte(payload))
	if err != nil {
		return core.Snapshot{}, false, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	return s, true, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, s core.Snapshot) error {
	payload, err := ledger.Encode(s)
	if err != nil {
		return err
	}

	var saves int64
	err = r.db.QueryRowContext(ctx, `
		INSERT INTO snapshots (key, payload, revision, updated_at)
		VALUES (?, ?, 1, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			revision = snapshots.revision + 1,
			updated_at = CURRENT_TIMESTAMP
		RETURNING revision`,
		r.key, string(payload)).Scan(&saves)
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}

	slog.DebugContext(ctx, "Snapshot saved to SQLite", "key", r.key, "saves", saves, "entries", len(s.Entries), "bytes", len(payload))
	return nil
}

func (r *SQLiteRepository) Reset(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE key = ?`, r.key); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	slog.InfoContext(ctx, "Snapshot reset", "key", r.key)
	return nil
}
