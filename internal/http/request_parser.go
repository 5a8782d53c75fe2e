package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"ledger/internal/core"
)

const maxBodyBytes = 64 << 10

// addExpenseRequest mirrors the add_expense tool arguments. Pointers tell a
// missing field apart from a zero value.
type addExpenseRequest struct {
	Date        *string  `json:"date"`
	Amount      *float64 `json:"amount"`
	Category    *string  `json:"category"`
	Subcategory string   `json:"subcategory"`
	Note        string   `json:"note"`
}

func parseNewExpense(w http.ResponseWriter, r *http.Request) (core.NewExpense, error) {
	var req addExpenseRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		return core.NewExpense{}, fmt.Errorf("invalid JSON body: %w", err)
	}

	switch {
	case req.Date == nil || strings.TrimSpace(*req.Date) == "":
		return core.NewExpense{}, missingField("date")
	case req.Amount == nil:
		return core.NewExpense{}, missingField("amount")
	case req.Category == nil || strings.TrimSpace(*req.Category) == "":
		return core.NewExpense{}, missingField("category")
	}

	return core.NewExpense{
		Date:        *req.Date,
		Amount:      *req.Amount,
		Category:    *req.Category,
		Subcategory: req.Subcategory,
		Note:        req.Note,
	}, nil
}

func parseDateRange(query url.Values) (core.DateRange, error) {
	start := query.Get("start_date")
	end := query.Get("end_date")
	if start == "" {
		return core.DateRange{}, missingField("start_date")
	}
	if end == "" {
		return core.DateRange{}, missingField("end_date")
	}
	return core.DateRange{Start: start, End: end}, nil
}

var errMissingField = errors.New("missing required field")

func missingField(name string) error {
	return fmt.Errorf("%w: %s", errMissingField, name)
}
