package backend

import (
	"context"

	"maliyye/internal/amqp"
	"maliyye/internal/services"
	"maliyye/internal/sheets"
	"maliyye/internal/storage"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult holds everything the commands need to run against one backend
type BackendResult struct {
	Store storage.SnapshotStore
	// Notifier is nil when no broker is configured
	Notifier services.ChangeNotifier
	// AMQP is the client behind Notifier, kept for consumers
	AMQP     *amqp.Client
	Exporter sheets.SnapshotExporter
	Cleanup  CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend creates a backend instance based on the provided config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	SnapshotFile string
	SQLiteDBPath string

	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	GoogleSpreadsheetID      string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
	// GoogleLayout names the exported sheets; empty names fall back to
	// sheets.DefaultLayout.
	GoogleLayout sheets.Layout
}

// BackendType represents the type of backend
type BackendType string

const (
	MemoryBackend BackendType = "memory"
	FileBackend   BackendType = "file"
	SQLiteBackend BackendType = "sqlite"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, FileBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}
