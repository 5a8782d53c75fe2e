package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"ledger/internal/core"
)

// Row is one mirrored expense.
type Row struct {
	Ref     string
	Expense core.Expense
}

// Store is an in-process sheet used when no spreadsheet is configured.
type Store struct {
	mu   sync.Mutex
	rows []Row
}

func New() *Store {
	return &Store{}
}

// Append stores the expense and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, e core.Expense) (string, error) {
	if e.ID <= 0 {
		return "", fmt.Errorf("expense id must be positive, got %d", e.ID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ref := "mem:" + uuid.NewString()
	s.rows = append(s.rows, Row{Ref: ref, Expense: e})
	return ref, nil
}

// Rows returns a copy of the mirrored rows in append order.
func (s *Store) Rows() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Row(nil), s.rows...)
}
