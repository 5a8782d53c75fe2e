package core

import (
	"errors"
	"strings"
)

type (
	// Expense is one persisted ledger entry. Date is kept as text and compared
	// lexically, so callers should use a sortable encoding such as YYYY-MM-DD.
	Expense struct {
		ID          int64   `json:"id" db:"id"`
		Date        string  `json:"date" db:"date"`
		Amount      float64 `json:"amount" db:"amount"`
		Category    string  `json:"category" db:"category"`
		Subcategory string  `json:"subcategory" db:"subcategory"`
		Note        string  `json:"note" db:"note"`
	}

	// NewExpense holds the arguments of an insert. Subcategory and Note default
	// to the empty string when omitted.
	NewExpense struct {
		Date        string  `json:"date"`
		Amount      float64 `json:"amount"`
		Category    string  `json:"category"`
		Subcategory string  `json:"subcategory,omitempty"`
		Note        string  `json:"note,omitempty"`
	}

	// DateRange is an inclusive pair of date bounds.
	DateRange struct {
		Start string
		End   string
	}

	// SummaryQuery selects the records to aggregate. An empty Category means
	// no category filter.
	SummaryQuery struct {
		Range    DateRange
		Category string
	}

	// CategorySummary is the sum and count of amounts for one category.
	CategorySummary struct {
		Category    string  `json:"category" db:"category"`
		TotalAmount float64 `json:"total_amount" db:"total_amount"`
		Count       int64   `json:"count" db:"count"`
	}
)

var (
	ErrEmptyDate     = errors.New("date is required")
	ErrEmptyCategory = errors.New("category is required")
)

// Validate only checks presence. Date format and amount sign are accepted as given.
func (e NewExpense) Validate() error {
	if strings.TrimSpace(e.Date) == "" {
		return ErrEmptyDate
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// Expense returns the record that results from persisting e under id.
func (e NewExpense) Expense(id int64) Expense {
	return Expense{
		ID:          id,
		Date:        e.Date,
		Amount:      e.Amount,
		Category:    e.Category,
		Subcategory: e.Subcategory,
		Note:        e.Note,
	}
}
