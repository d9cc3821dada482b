package http

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"maliyye/internal/core"
	"maliyye/internal/ledger"
	"maliyye/internal/services"
)

// respondMutation answers a committed mutation with the new snapshot and the
// revision it was committed under
func (s *Server) respondMutation(w http.ResponseWriter, r *http.Request, op string, snap core.Snapshot, rev int64, status int) {
	s.log.LogLedgerChange(r.Context(), op, rev, len(snap.Entries))
	writeJSON(w, status, snapshotResponse{Revision: rev, Data: ledger.NewDocument(snap)})
}

func (s *Server) handleUpsertMonth(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "year must be an integer")
		return
	}
	var req upsertMonthRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.handleServiceError(w, r, services.OpUpsertMonth, err)
		return
	}

	month, err := url.PathUnescape(chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "month is not a valid path segment")
		return
	}
	snap, rev, err := s.svc.UpsertMonth(r.Context(), year, month, *req.Revenue, *req.Expense)
	if err != nil {
		s.handleServiceError(w, r, services.OpUpsertMonth, err)
		return
	}
	s.log.LogMonthUpsert(r.Context(), rev, year, month, req.Revenue.String(), req.Expense.String())
	s.respondMutation(w, r, services.OpUpsertMonth, snap, rev, http.StatusOK)
}

func (s *Server) handleReplaceCategories(w http.ResponseWriter, r *http.Request) {
	var req replaceCategoriesRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.handleServiceError(w, r, services.OpReplaceCategories, err)
		return
	}
	snap, rev, err := s.svc.ReplaceExpenseCategories(r.Context(), req.toCore())
	if err != nil {
		s.handleServiceError(w, r, services.OpReplaceCategories, err)
		return
	}
	s.respondMutation(w, r, services.OpReplaceCategories, snap, rev, http.StatusOK)
}

func (s *Server) handleAddPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.handleServiceError(w, r, services.OpAddPayment, err)
		return
	}
	p, err := req.toCore()
	if err != nil {
		s.handleServiceError(w, r, services.OpAddPayment, err)
		return
	}
	snap, rev, err := s.svc.AddPayment(r.Context(), p)
	if err != nil {
		s.handleServiceError(w, r, services.OpAddPayment, err)
		return
	}
	s.respondMutation(w, r, services.OpAddPayment, snap, rev, http.StatusCreated)
}

func (s *Server) handleRemovePayment(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "index must be an integer")
		return
	}
	snap, rev, err := s.svc.RemovePayment(r.Context(), index)
	if err != nil {
		s.handleServiceError(w, r, services.OpRemovePayment, err)
		return
	}
	s.respondMutation(w, r, services.OpRemovePayment, snap, rev, http.StatusOK)
}

// handleImport replaces the snapshot with a document in the persisted format
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.handleServiceError(w, r, services.OpImport, err)
		return
	}
	imported, err := ledger.Decode(body)
	if err != nil {
		if !ledger.IsValidation(err) {
			err = wrapBadRequest(err)
		}
		s.handleServiceError(w, r, services.OpImport, err)
		return
	}
	snap, rev, err := s.svc.Import(r.Context(), imported)
	if err != nil {
		s.handleServiceError(w, r, services.OpImport, err)
		return
	}
	s.respondMutation(w, r, services.OpImport, snap, rev, http.StatusOK)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	snap, rev, err := s.svc.Reset(r.Context())
	if err != nil {
		s.handleServiceError(w, r, services.OpReset, err)
		return
	}
	s.respondMutation(w, r, services.OpReset, snap, rev, http.StatusOK)
}
