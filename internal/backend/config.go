package backend

import (
	"fmt"

	"maliyye/internal/config"
	"maliyye/internal/sheets"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type: backendType,

		SnapshotFile: appConfig.SnapshotFile,
		SQLiteDBPath: appConfig.SQLiteDBPath,

		AMQPURL:      appConfig.AMQPURL,
		AMQPExchange: appConfig.AMQPExchange,
		AMQPQueue:    appConfig.AMQPQueue,

		GoogleSpreadsheetID:      appConfig.GoogleSpreadsheetID,
		GoogleServiceAccountJSON: appConfig.GoogleServiceAccountJSON,
		GoogleServiceAccountFile: appConfig.GoogleServiceAccountFile,
		GoogleLayout: sheets.Layout{
			Ledger:     appConfig.GoogleLedgerSheet,
			Payments:   appConfig.GooglePaymentsSheet,
			Categories: appConfig.GoogleCategoriesSheet,
		},
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case FileBackend:
		if c.SnapshotFile == "" {
			return fmt.Errorf("snapshot file path is required for file backend")
		}
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
	}

	if c.AMQPURL != "" && (c.AMQPExchange == "" || c.AMQPQueue == "") {
		return fmt.Errorf("AMQP exchange and queue are required when AMQP URL is set")
	}
	if c.GoogleSpreadsheetID != "" && c.GoogleServiceAccountJSON == "" && c.GoogleServiceAccountFile == "" {
		return fmt.Errorf("Google service account credentials are required when a spreadsheet is configured")
	}
	return nil
}

// layout returns the configured sheet layout with defaults for unset names.
func (c Config) layout() sheets.Layout {
	l := sheets.DefaultLayout()
	if c.GoogleLayout.Ledger != "" {
		l.Ledger = c.GoogleLayout.Ledger
	}
	if c.GoogleLayout.Payments != "" {
		l.Payments = c.GoogleLayout.Payments
	}
	if c.GoogleLayout.Categories != "" {
		l.Categories = c.GoogleLayout.Categories
	}
	return l
}

// GetBackendTypes returns all valid backend types
func GetBackendTypes() []BackendType {
	return []BackendType{MemoryBackend, FileBackend, SQLiteBackend}
}

// GetBackendTypeStrings returns all valid backend type strings
func GetBackendTypeStrings() []string {
	types := GetBackendTypes()
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	return out
}
