package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"maliyye/internal/core"
)

// maxBodyBytes bounds request bodies, imports included
const maxBodyBytes = 4 << 20

// decodeJSON reads a JSON body into dst and validates its struct tags
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", errBadRequest, err)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: malformed JSON: %v", errBadRequest, err)
	}
	return s.validate.Struct(dst)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", errBadRequest, err)
	}
	return body, nil
}

// queryInt returns the integer query parameter key, or def when absent
func queryInt(q url.Values, key string, def int) (int, error) {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", errBadRequest, key)
	}
	return n, nil
}

// queryPeriod returns the YYYY-MM query parameter key, if present
func queryPeriod(q url.Values, key string) (core.Period, bool, error) {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return core.Period{}, false, nil
	}
	p, err := core.ParsePeriod(v)
	if err != nil {
		return core.Period{}, false, fmt.Errorf("%w: %s must look like 2024-01", errBadRequest, key)
	}
	return p, true, nil
}

type upsertMonthRequest struct {
	Revenue *decimal.Decimal `json:"revenue" validate:"required"`
	Expense *decimal.Decimal `json:"expense" validate:"required"`
}

type categoryRequest struct {
	Name  string          `json:"name" validate:"required,max=100"`
	Value decimal.Decimal `json:"value"`
	Color string          `json:"color" validate:"omitempty,hexcolor"`
}

type replaceCategoriesRequest struct {
	Categories []categoryRequest `json:"categories" validate:"dive"`
}

func (req replaceCategoriesRequest) toCore() []core.ExpenseCategory {
	out := make([]core.ExpenseCategory, 0, len(req.Categories))
	for _, c := range req.Categories {
		out = append(out, core.ExpenseCategory{Name: strings.TrimSpace(c.Name), Amount: c.Value, Color: c.Color})
	}
	return out
}

type paymentRequest struct {
	Title    string           `json:"title" validate:"required,max=200"`
	Amount   *decimal.Decimal `json:"amount" validate:"required"`
	Date     string           `json:"date" validate:"required,datetime=2006-01-02"`
	Type     string           `json:"type" validate:"omitempty,max=32"`
	Category string           `json:"category" validate:"max=100"`
}

func (req paymentRequest) toCore() (core.UpcomingPayment, error) {
	due, err := core.ParseDate(req.Date)
	if err != nil {
		return core.UpcomingPayment{}, err
	}
	if req.Amount.IsNegative() {
		return core.UpcomingPayment{}, fmt.Errorf("%w: amount must not be negative", core.ErrInvalidAmount)
	}
	return core.UpcomingPayment{
		Title:    strings.TrimSpace(req.Title),
		Amount:   *req.Amount,
		DueDate:  due,
		Kind:     core.ParseKind(req.Type),
		Category: strings.TrimSpace(req.Category),
	}, nil
}
