package trace

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	applog "maliyye/internal/log"
	"maliyye/internal/metrics"
)

func newRouter(buf *bytes.Buffer) (http.Handler, *string) {
	logger := applog.New(applog.Config{Level: slog.LevelInfo, Component: applog.ComponentHTTP, Output: buf})
	mw := NewMiddleware(func(r *http.Request) string { return "192.0.2.1" }, logger, metrics.New())

	seen := new(string)
	r := chi.NewRouter()
	r.Use(mw.Middleware)
	r.Get("/api/ledger/{year}", func(w http.ResponseWriter, r *http.Request) {
		*seen = GetRequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})
	return r, seen
}

func TestMiddlewareIssuesRequestID(t *testing.T) {
	var buf bytes.Buffer
	h, seen := newRouter(&buf)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ledger/2024", nil))

	id := rec.Header().Get(RequestIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected a UUID request id, got %q", id)
	}
	if *seen != id {
		t.Errorf("handler saw %q, response carries %q", *seen, id)
	}
	out := buf.String()
	for _, want := range []string{"status_code=418", "client_ip=192.0.2.1", "level=WARN"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q: %s", want, out)
		}
	}
}

func TestMiddlewareKeepsValidIncomingID(t *testing.T) {
	var buf bytes.Buffer
	h, _ := newRouter(&buf)

	incoming := uuid.NewString()
	r := httptest.NewRequest(http.MethodGet, "/api/ledger/2024", nil)
	r.Header.Set(RequestIDHeader, incoming)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	if rec.Header().Get(RequestIDHeader) != incoming {
		t.Errorf("expected incoming id to be kept")
	}

	r = httptest.NewRequest(http.MethodGet, "/api/ledger/2024", nil)
	r.Header.Set(RequestIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	if rec.Header().Get(RequestIDHeader) == "not-a-uuid" {
		t.Errorf("expected malformed id to be replaced")
	}
}

func TestRoutePatternUnmatched(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	if got := routePattern(r); got != "unmatched" {
		t.Errorf("routePattern() = %q", got)
	}
}
