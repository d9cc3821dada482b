package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"maliyye/internal/core"
	"maliyye/internal/ledger"
	applog "maliyye/internal/log"
	"maliyye/internal/metrics"
	"maliyye/internal/services"
	"maliyye/internal/storage/memory"
)

var testNow = time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC)

func testSeed() core.Snapshot {
	return core.Snapshot{
		Entries: ledger.Recompute([]core.LedgerEntry{
			{Year: 2024, Month: core.Yan, Revenue: decimal.NewFromInt(100), Expense: decimal.NewFromInt(40)},
			{Year: 2024, Month: core.Fev, Revenue: decimal.NewFromInt(150), Expense: decimal.NewFromInt(50)},
		}),
		Categories: []core.ExpenseCategory{{Name: "İcarə", Amount: decimal.NewFromInt(30), Color: "#336699"}},
		Payments: []core.UpcomingPayment{
			{Title: "Vergi", Amount: decimal.NewFromInt(70), DueDate: core.NewDate(2024, 3, 10), Kind: core.KindTax},
		},
	}
}

func newTestServer(t *testing.T, opts Options) (*Server, *metrics.Metrics) {
	t.Helper()
	m := metrics.New()
	svc := services.NewLedgerService(memory.NewStore(), nil, m, testSeed)
	if err := svc.Open(context.Background()); err != nil {
		t.Fatalf("open service: %v", err)
	}
	if opts.Logger == nil {
		opts.Logger = applog.New(applog.Config{Output: io.Discard, Component: applog.ComponentHTTP})
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return testNow }
	}
	if opts.RateLimitPerMinute == 0 {
		opts.RateLimitPerMinute = 6000
		opts.RateLimitBurst = 1000
	}
	s := NewServer(":0", svc, m, opts)
	t.Cleanup(s.Close)
	return s, m
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

type snapshotBody struct {
	Revision int64 `json:"revision"`
	Data     struct {
		MonthlyData []struct {
			Month   string          `json:"month"`
			Year    int             `json:"year"`
			Profit  decimal.Decimal `json:"profit"`
			Balance decimal.Decimal `json:"balance"`
		} `json:"monthlyData"`
		UpcomingPayments []struct {
			Title string `json:"title"`
		} `json:"upcomingPayments"`
	} `json:"data"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	rec := do(t, s, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode[map[string]any](t, rec)
	if body["status"] != "ok" {
		t.Errorf("status field = %v", body["status"])
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected a request id header")
	}
}

func TestSnapshot(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	rec := do(t, s, http.MethodGet, "/api/snapshot", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode[snapshotBody](t, rec)
	if body.Revision != 1 {
		t.Errorf("revision = %d, want 1", body.Revision)
	}
	if len(body.Data.MonthlyData) != 2 {
		t.Fatalf("entries = %d, want 2", len(body.Data.MonthlyData))
	}
	if got := body.Data.MonthlyData[1].Balance; !got.Equal(decimal.NewFromInt(160)) {
		t.Errorf("balance = %s, want 160", got)
	}
}

func TestUpsertMonth(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	rec := do(t, s, http.MethodPut, "/api/ledger/2024/Mar", `{"revenue": 200, "expense": 120}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	body := decode[snapshotBody](t, rec)
	if body.Revision != 2 {
		t.Errorf("revision = %d, want 2", body.Revision)
	}
	if len(body.Data.MonthlyData) != 3 {
		t.Fatalf("entries = %d, want 3", len(body.Data.MonthlyData))
	}
	last := body.Data.MonthlyData[2]
	if last.Month != "Mar" || !last.Profit.Equal(decimal.NewFromInt(80)) || !last.Balance.Equal(decimal.NewFromInt(240)) {
		t.Errorf("last entry = %+v", last)
	}
}

func TestUpsertMonthEscapedLabels(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"/api/ledger/2024/%C4%B0yn", "İyn"},
		{"/api/ledger/2024/%c4%b0yn", "İyn"},
		{"/api/ledger/2024/%c4%b0yul", "İyl"},
		{"/api/ledger/2024/%C4%B0yul", "İyl"},
		{"/api/ledger/2024/%4Dar", "Mar"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			s, _ := newTestServer(t, Options{})
			rec := do(t, s, http.MethodPut, tt.target, `{"revenue": 10, "expense": 4}`)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
			}
			entries := decode[snapshotBody](t, rec).Data.MonthlyData
			if last := entries[len(entries)-1]; last.Month != tt.want {
				t.Errorf("month = %q, want %q", last.Month, tt.want)
			}
		})
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		body   string
		want   int
	}{
		{"unknown month", http.MethodPut, "/api/ledger/2024/Foo", `{"revenue":1,"expense":1}`, http.StatusBadRequest},
		{"non numeric year", http.MethodPut, "/api/ledger/abc/Mar", `{"revenue":1,"expense":1}`, http.StatusBadRequest},
		{"malformed body", http.MethodPut, "/api/ledger/2024/Mar", `{`, http.StatusBadRequest},
		{"missing expense", http.MethodPut, "/api/ledger/2024/Mar", `{"revenue":1}`, http.StatusBadRequest},
		{"payment index out of range", http.MethodDelete, "/api/payments/7", "", http.StatusNotFound},
		{"payment index not a number", http.MethodDelete, "/api/payments/x", "", http.StatusBadRequest},
		{"empty payment title", http.MethodPost, "/api/payments", `{"title":"","amount":1,"date":"2024-05-01"}`, http.StatusBadRequest},
		{"bad payment date", http.MethodPost, "/api/payments", `{"title":"x","amount":1,"date":"2024-13-01"}`, http.StatusBadRequest},
		{"negative payment amount", http.MethodPost, "/api/payments", `{"title":"x","amount":-5,"date":"2024-05-01"}`, http.StatusBadRequest},
		{"bad period filter", http.MethodGet, "/api/ledger?from=2024-xx", "", http.StatusBadRequest},
		{"zero trend window", http.MethodGet, "/api/trends?window=0", "", http.StatusBadRequest},
		{"negative loan", http.MethodPost, "/api/simulate", `{"loanAmount":-1}`, http.StatusBadRequest},
		{"loan term too long", http.MethodPost, "/api/simulate", `{"loanAmount":1,"loanTerm":2000000000}`, http.StatusBadRequest},
		{"import garbage", http.MethodPost, "/api/import", `not json`, http.StatusBadRequest},
		{"bad category color", http.MethodPut, "/api/expense-categories", `{"categories":[{"name":"x","value":1,"color":"red"}]}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t, Options{})
			rec := do(t, s, tt.method, tt.target, tt.body)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
			if body := decode[errorResponse](t, rec); body.Error == "" {
				t.Error("expected an error message")
			}
			if rev := s.svc.Revision(); rev != 1 {
				t.Errorf("revision = %d, failed request must not commit", rev)
			}
		})
	}
}

func TestPayments(t *testing.T) {
	s, _ := newTestServer(t, Options{})

	rec := do(t, s, http.MethodPost, "/api/payments", `{"title":"Sığorta","amount":25,"date":"2024-03-07","type":"insurance"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add status = %d: %s", rec.Code, rec.Body.String())
	}
	if n := len(decode[snapshotBody](t, rec).Data.UpcomingPayments); n != 2 {
		t.Fatalf("payments = %d, want 2", n)
	}

	rec = do(t, s, http.MethodGet, "/api/payments/due", "")
	due := decode[[]services.DuePayment](t, rec)
	if len(due) != 2 {
		t.Fatalf("due = %d, want 2", len(due))
	}
	if due[0].Title != "Sığorta" || due[0].DaysLeft != 2 {
		t.Errorf("first due = %+v", due[0])
	}

	rec = do(t, s, http.MethodDelete, "/api/payments/0", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("remove status = %d", rec.Code)
	}
	left := decode[snapshotBody](t, rec).Data.UpcomingPayments
	if len(left) != 1 || left[0].Title != "Sığorta" {
		t.Errorf("remaining payments = %+v", left)
	}
}

func TestLedgerFilters(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	do(t, s, http.MethodPut, "/api/ledger/2023/Dek", `{"revenue":10,"expense":5}`)

	tests := []struct {
		target string
		want   int
	}{
		{"/api/ledger", 3},
		{"/api/ledger?year=2024", 2},
		{"/api/ledger?year=2023", 1},
		{"/api/ledger?from=2024-02", 1},
		{"/api/ledger?to=2024-01", 2},
		{"/api/ledger?from=2023-12&to=2024-01", 2},
	}
	for _, tt := range tests {
		rec := do(t, s, http.MethodGet, tt.target, "")
		var body struct {
			MonthlyData []json.RawMessage `json:"monthlyData"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: %v", tt.target, err)
		}
		if len(body.MonthlyData) != tt.want {
			t.Errorf("%s: entries = %d, want %d", tt.target, len(body.MonthlyData), tt.want)
		}
	}
}

func TestViewsAreCachedPerRevision(t *testing.T) {
	s, m := newTestServer(t, Options{})

	do(t, s, http.MethodGet, "/api/kpi", "")
	rec := do(t, s, http.MethodGet, "/api/kpi", "")
	kpi := decode[core.KPI](t, rec)
	if !kpi.MonthlyProfit.Equal(decimal.NewFromInt(100)) {
		t.Errorf("monthly profit = %s, want 100", kpi.MonthlyProfit)
	}
	if hits := m.CacheHits("kpi"); hits != 1 {
		t.Errorf("kpi cache hits = %v, want 1", hits)
	}

	do(t, s, http.MethodPut, "/api/ledger/2024/Mar", `{"revenue":300,"expense":100}`)
	kpi = decode[core.KPI](t, do(t, s, http.MethodGet, "/api/kpi", ""))
	if !kpi.MonthlyProfit.Equal(decimal.NewFromInt(200)) {
		t.Errorf("monthly profit after upsert = %s, want 200", kpi.MonthlyProfit)
	}
	if hits := m.CacheHits("kpi"); hits != 1 {
		t.Errorf("kpi cache hits = %v, a new revision must miss", hits)
	}
}

func TestSummaryAndTrends(t *testing.T) {
	s, _ := newTestServer(t, Options{})

	sum := decode[core.Summary](t, do(t, s, http.MethodGet, "/api/summary", ""))
	if sum.Year != 2024 || !sum.YTDRevenue.Equal(decimal.NewFromInt(250)) {
		t.Errorf("summary = %+v", sum)
	}

	tr := decode[core.Trend](t, do(t, s, http.MethodGet, "/api/trends?window=2", ""))
	if tr.Months != 2 || !tr.AvgProfit.Equal(decimal.NewFromInt(80)) {
		t.Errorf("trend = %+v", tr)
	}

	years := decode[[]core.YearTotal](t, do(t, s, http.MethodGet, "/api/ledger/yearly", ""))
	if len(years) != 1 || years[0].Months != 2 {
		t.Errorf("yearly = %+v", years)
	}
}

func TestSimulate(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	rec := do(t, s, http.MethodPost, "/api/simulate", `{"revenueChange": 10}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if rev := s.svc.Revision(); rev != 1 {
		t.Errorf("simulation changed revision to %d", rev)
	}
}

func TestImportAndReset(t *testing.T) {
	s, _ := newTestServer(t, Options{})

	doc := `{"monthlyData":[{"month":"Yanvar","year":2022,"gelir":50,"xerc":20}],"expenseBreakdown":[],"upcomingPayments":[]}`
	rec := do(t, s, http.MethodPost, "/api/import", doc)
	if rec.Code != http.StatusOK {
		t.Fatalf("import status = %d: %s", rec.Code, rec.Body.String())
	}
	body := decode[snapshotBody](t, rec)
	if len(body.Data.MonthlyData) != 1 || !body.Data.MonthlyData[0].Balance.Equal(decimal.NewFromInt(30)) {
		t.Errorf("imported = %+v", body.Data.MonthlyData)
	}

	rec = do(t, s, http.MethodPost, "/api/reset", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("reset status = %d", rec.Code)
	}
	if n := len(decode[snapshotBody](t, rec).Data.MonthlyData); n != 2 {
		t.Errorf("entries after reset = %d, want 2", n)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	do(t, s, http.MethodGet, "/api/snapshot", "")

	rec := do(t, s, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `route="/api/snapshot"`) {
		t.Error("expected request metrics labelled by route pattern")
	}
}

func TestRateLimit(t *testing.T) {
	s, _ := newTestServer(t, Options{RateLimitPerMinute: 1, RateLimitBurst: 1})
	if rec := do(t, s, http.MethodGet, "/api/kpi", ""); rec.Code != http.StatusOK {
		t.Fatalf("first status = %d", rec.Code)
	}
	rec := do(t, s, http.MethodGet, "/api/kpi", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After")
	}
	if rec := do(t, s, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Errorf("health must not be rate limited, got %d", rec.Code)
	}
}

func TestRateLimitKeysForwardedClientBehindTrustedProxy(t *testing.T) {
	s, _ := newTestServer(t, Options{RateLimitPerMinute: 1, RateLimitBurst: 1, TrustedProxies: []string{"192.0.2.0/24"}})

	get := func(client string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/kpi", nil)
		req.RemoteAddr = "192.0.2.10:4000"
		req.Header.Set("X-Forwarded-For", client)
		rec := httptest.NewRecorder()
		s.Handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := get("198.51.100.1"); code != http.StatusOK {
		t.Fatalf("first client status = %d", code)
	}
	if code := get("198.51.100.2"); code != http.StatusOK {
		t.Fatalf("second client status = %d, want its own bucket", code)
	}
	if code := get("198.51.100.1"); code != http.StatusTooManyRequests {
		t.Fatalf("first client again status = %d, want 429", code)
	}
}
