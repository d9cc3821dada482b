package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"maliyye/internal/core"
	ports "maliyye/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

var ErrMissingSpreadsheet = errors.New("missing spreadsheet id")

type Config struct {
	SpreadsheetID   string
	Layout          ports.Layout
	CredentialsJSON string
	CredentialsFile string
}

// Exporter rewrites the ledger, payments and categories sheets of one
// spreadsheet on every export.
type Exporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	layout        ports.Layout
}

var _ ports.SnapshotExporter = (*Exporter)(nil)

func New(ctx context.Context, cfg Config) (*Exporter, error) {
	if cfg.SpreadsheetID == "" {
		return nil, ErrMissingSpreadsheet
	}
	creds, err := credentials(cfg)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Creating Google Sheets service with Service Account",
		"credentials_size", len(creds),
		"scope", gsheet.SpreadsheetsScope)

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Exporter{svc: svc, spreadsheetID: cfg.SpreadsheetID, layout: cfg.Layout}, nil
}

func credentials(cfg Config) ([]byte, error) {
	switch {
	case cfg.CredentialsJSON != "":
		return []byte(cfg.CredentialsJSON), nil
	case cfg.CredentialsFile != "":
		b, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials")
	}
}

func (e *Exporter) Export(ctx context.Context, s core.Snapshot) error {
	if e.svc == nil {
		return errors.New("sheets service not initialized")
	}
	tables := ports.Render(s, e.layout)

	_, err := e.svc.Spreadsheets.Values.BatchClear(e.spreadsheetID, &gsheet.BatchClearValuesRequest{
		Ranges: clearRanges(tables),
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear sheets: %w", err)
	}

	_, err = e.svc.Spreadsheets.Values.BatchUpdate(e.spreadsheetID, updateRequest(tables)).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write sheets: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot exported to spreadsheet",
		"spreadsheet_id", e.spreadsheetID,
		"entries", len(s.Entries),
		"payments", len(s.Payments))
	return nil
}

// clearRanges covers every column a table may have written.
func clearRanges(tables []ports.Table) []string {
	out := make([]string, 0, len(tables))
	for _, t := range tables {
		out = append(out, fmt.Sprintf("%s!A:Z", quoteSheet(t.Sheet)))
	}
	return out
}

// updateRequest writes cells as given. Periods stay text and titles starting
// with "=" are never evaluated as formulas.
func updateRequest(tables []ports.Table) *gsheet.BatchUpdateValuesRequest {
	return &gsheet.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data:             valueRanges(tables),
	}
}

func valueRanges(tables []ports.Table) []*gsheet.ValueRange {
	out := make([]*gsheet.ValueRange, 0, len(tables))
	for _, t := range tables {
		out = append(out, &gsheet.ValueRange{
			Range:  fmt.Sprintf("%s!A1", quoteSheet(t.Sheet)),
			Values: t.Rows,
		})
	}
	return out
}

// quoteSheet wraps names containing spaces or quotes in A1 notation quotes.
func quoteSheet(name string) string {
	if !strings.ContainsAny(name, " '!") {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
