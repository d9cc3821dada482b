package http

import (
	"fmt"
	"net/http"

	"maliyye/internal/core"
	"maliyye/internal/ledger"
	"maliyye/internal/services"
)

type snapshotResponse struct {
	Revision int64           `json:"revision"`
	Data     ledger.Document `json:"data"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "revision": s.svc.Revision()})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, rev := s.svc.Snapshot()
	writeJSON(w, http.StatusOK, snapshotResponse{Revision: rev, Data: ledger.NewDocument(snap)})
}

func (s *Server) handleKPI(w http.ResponseWriter, r *http.Request) {
	snap, rev := s.svc.Snapshot()
	kpi := s.kpiCache.Get(rev, "", func() core.KPI { return ledger.ComputeKPIs(snap) })
	writeJSON(w, http.StatusOK, kpi)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r.URL.Query(), "year", 0)
	if err != nil {
		s.handleServiceError(w, r, "summary", err)
		return
	}
	snap, rev := s.svc.Snapshot()
	summary := s.summaryCache.Get(rev, fmt.Sprintf("year=%d", year), func() core.Summary {
		return ledger.Summarize(snap, year)
	})
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	window, err := queryInt(r.URL.Query(), "window", ledger.DefaultTrendWindow)
	if err != nil || window < 1 {
		s.handleServiceError(w, r, "trends", fmt.Errorf("%w: window must be a positive integer", errBadRequest))
		return
	}
	snap, _ := s.svc.Snapshot()
	writeJSON(w, http.StatusOK, ledger.Trends(snap, window))
}

// handleLedger lists entries, optionally narrowed to one year or to an
// inclusive from/to period range.
func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, err := queryInt(q, "year", 0)
	if err != nil {
		s.handleServiceError(w, r, "ledger", err)
		return
	}
	from, hasFrom, err := queryPeriod(q, "from")
	if err != nil {
		s.handleServiceError(w, r, "ledger", err)
		return
	}
	to, hasTo, err := queryPeriod(q, "to")
	if err != nil {
		s.handleServiceError(w, r, "ledger", err)
		return
	}

	snap, rev := s.svc.Snapshot()
	entries := snap.Entries
	if year != 0 {
		entries = ledger.EntriesForYear(snap, year)
	}
	if hasFrom || hasTo {
		if !hasFrom {
			from = core.Period{Year: 0, Month: core.Yan}
		}
		if !hasTo {
			to = core.Period{Year: 9999, Month: core.Dek}
		}
		entries = ledger.EntriesBetween(core.Snapshot{Entries: entries}, from, to)
	}

	doc := ledger.NewDocument(core.Snapshot{Entries: entries})
	writeJSON(w, http.StatusOK, map[string]any{"revision": rev, "monthlyData": doc.MonthlyData})
}

func (s *Server) handleYearlyTotals(w http.ResponseWriter, r *http.Request) {
	snap, rev := s.svc.Snapshot()
	totals := s.yearlyCache.Get(rev, "", func() []core.YearTotal { return ledger.YearlyTotals(snap) })
	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) handleDuePayments(w http.ResponseWriter, r *http.Request) {
	snap, _ := s.svc.Snapshot()
	due := services.DuePayments(snap, s.now())
	if due == nil {
		due = []services.DuePayment{}
	}
	writeJSON(w, http.StatusOK, due)
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	sc := ledger.DefaultScenario()
	if err := s.decodeJSON(w, r, &sc); err != nil {
		s.handleServiceError(w, r, "simulate", err)
		return
	}
	snap, _ := s.svc.Snapshot()
	proj, err := ledger.Simulate(snap, sc)
	if err != nil {
		s.handleServiceError(w, r, "simulate", err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}
