// Package backend assembles the snapshot store, change notifier and sheet
// exporter selected by configuration.
package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"maliyye/internal/amqp"
	"maliyye/internal/sheets"
	gsheet "maliyye/internal/sheets/google"
	sheetmem "maliyye/internal/sheets/memory"
	"maliyye/internal/storage"
	"maliyye/internal/storage/file"
	"maliyye/internal/storage/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend. A broker that cannot be
// reached is logged and skipped; a spreadsheet that cannot be opened is an
// error.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	store, err := f.createStore(config)
	if err != nil {
		return nil, err
	}

	res := &BackendResult{Store: store}

	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without change events", "error", err)
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
			res.AMQP = client
			res.Notifier = client
		}
	}

	exporter, err := f.createExporter(ctx, config)
	if err != nil {
		_ = closeAll(res.AMQP, store)
		return nil, err
	}
	res.Exporter = exporter

	res.Cleanup = func() error { return closeAll(res.AMQP, store) }
	return res, nil
}

func (f *DefaultFactory) createStore(config Config) (storage.SnapshotStore, error) {
	switch config.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
		return repo, nil
	case FileBackend:
		store, err := file.NewStore(config.SnapshotFile)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize file store: %w", err)
		}
		f.logger.Info("Initialized file backend", "path", config.SnapshotFile)
		return store, nil
	case MemoryBackend:
		f.logger.Info("Initialized memory backend")
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createExporter(ctx context.Context, config Config) (sheets.SnapshotExporter, error) {
	if config.GoogleSpreadsheetID == "" {
		f.logger.Info("No spreadsheet configured, exporting in memory")
		return sheetmem.New(config.layout()), nil
	}
	exp, err := gsheet.New(ctx, gsheet.Config{
		SpreadsheetID:   config.GoogleSpreadsheetID,
		Layout:          config.layout(),
		CredentialsJSON: config.GoogleServiceAccountJSON,
		CredentialsFile: config.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets exporter: %w", err)
	}
	f.logger.Info("Initialized Google Sheets exporter", "spreadsheet_id", config.GoogleSpreadsheetID)
	return exp, nil
}

func closeAll(client *amqp.Client, store storage.SnapshotStore) error {
	var errs []error
	if client != nil {
		if err := client.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}
	if err := store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("storage: %w", err))
	}
	return errors.Join(errs...)
}
