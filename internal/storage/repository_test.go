package storage_test

import (
	"path/filepath"
	"testing"

	"maliyye/internal/storage"
	"maliyye/internal/storage/storagetest"
)

func newSQLite(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "maliyye.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	return repo
}

func TestSQLiteRepository(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.SnapshotStore { return newSQLite(t) })
}

func TestSQLiteMigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "maliyye.db")
	for i := 0; i < 2; i++ {
		repo, err := storage.NewSQLiteRepository(path)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		repo.Close()
	}
}

func TestRunMigrationsReportsVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "maliyye.db")
	for i := 0; i < 2; i++ {
		version, err := storage.RunMigrations(path)
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if version != 1 {
			t.Errorf("run %d: version = %d, want 1", i, version)
		}
	}
}
