package log

import (
	"context"
	"log/slog"
	"net/http"
)

// ContextKey type for context keys
type ContextKey string

const (
	// LoggerContextKey is the context key for the logger
	LoggerContextKey ContextKey = "logger"
)

// Middleware creates HTTP middleware that adds a logger to the request context
func Middleware(logger *Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), LoggerContextKey, logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext extracts a logger from the request context
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	return &Logger{
		Logger:    slog.Default(),
		component: "unknown",
	}
}

// RequestIDMiddleware adds the request ID to the logger in the context
func RequestIDMiddleware(extractRequestID func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := extractRequestID(r)
			if requestID == "" {
				next.ServeHTTP(w, r)
				return
			}
			logger := FromContext(r.Context()).With(FieldRequestID, requestID)
			ctx := context.WithValue(r.Context(), LoggerContextKey, logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// StructuredLogger writes the request and ledger events of the API. Events
// carry the request-scoped logger from the context when there is one.
type StructuredLogger struct {
	logger *Logger
}

func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{logger: logger}
}

func (sl *StructuredLogger) from(ctx context.Context, component string) *Logger {
	if l, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return l.WithComponent(component)
	}
	return sl.logger.WithComponent(component)
}

// LogHTTPEnd logs a finished request: info below 400, warn for client errors,
// error for server errors.
func (sl *StructuredLogger) LogHTTPEnd(ctx context.Context, r *http.Request, statusCode int, durationMs int64, clientIP, requestID string) {
	level := slog.LevelInfo
	switch {
	case statusCode >= 500:
		level = slog.LevelError
	case statusCode >= 400:
		level = slog.LevelWarn
	}

	fields := NewFields().
		WithRequestID(requestID).
		WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Get("User-Agent")).
		WithHTTPResponse(statusCode, durationMs).
		WithClientIP(clientIP)

	sl.from(ctx, ComponentHTTP).Log(ctx, level, "HTTP request completed", fields.ToSlice()...)
}

// LogLedgerChange logs a committed ledger mutation
func (sl *StructuredLogger) LogLedgerChange(ctx context.Context, operation string, revision int64, entries int) {
	fields := NewFields().
		WithOperation(operation).
		WithRevision(revision)
	fields[FieldEntries] = entries

	sl.from(ctx, ComponentLedger).InfoContext(ctx, "Ledger updated", fields.ToSlice()...)
}

// LogMonthUpsert records the figures written for one ledger month at debug.
func (sl *StructuredLogger) LogMonthUpsert(ctx context.Context, revision int64, year int, month, revenue, expense string) {
	fields := NewFields().
		WithRevision(revision).
		WithLedgerMonth(year, month, revenue, expense)

	sl.from(ctx, ComponentLedger).DebugContext(ctx, "Ledger month written", fields.ToSlice()...)
}

func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, errType, component, operation string) {
	fields := NewFields().
		WithError(err, errType).
		WithOperation(operation)

	sl.from(ctx, component).ErrorContext(ctx, msg, fields.ToSlice()...)
}
