package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"maliyye/internal/core"
	"maliyye/internal/ledger"
	applog "maliyye/internal/log"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode response", "component", applog.ComponentHTTP, "error", err)
	}
}

// errBadRequest marks malformed request bodies and parameters
var errBadRequest = errors.New("bad request")

// statusFor maps an error to the status code the API answers with
func statusFor(err error) int {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, core.ErrIndexOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest), errors.As(err, &verrs), ledger.IsValidation(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// handleServiceError answers with the mapped status. Internal errors are
// logged and hidden from the client.
func (s *Server) handleServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.LogError(r.Context(), "Request failed", err, applog.ErrorTypeInternal, applog.ComponentHTTP, op)
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

type badRequestError struct{ err error }

func (e badRequestError) Error() string { return e.err.Error() }

func (e badRequestError) Unwrap() []error { return []error{errBadRequest, e.err} }

// wrapBadRequest marks err as caused by the request while keeping its message
func wrapBadRequest(err error) error { return badRequestError{err: err} }
