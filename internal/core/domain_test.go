package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewExpenseValidate(t *testing.T) {
	cases := []struct {
		name string
		e    NewExpense
		err  error
	}{
		{"complete", NewExpense{Date: "2025-01-05", Amount: 12.5, Category: "Food & Dining"}, nil},
		{"negative amount accepted", NewExpense{Date: "2025-01-05", Amount: -3, Category: "Other"}, nil},
		{"unparsed date accepted", NewExpense{Date: "last tuesday", Amount: 1, Category: "Other"}, nil},
		{"missing date", NewExpense{Amount: 1, Category: "Other"}, ErrEmptyDate},
		{"blank category", NewExpense{Date: "2025-01-05", Amount: 1, Category: "  "}, ErrEmptyCategory},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.e.Validate(), tc.err)
		})
	}
}

func TestNewExpenseDefaultsToEmptyText(t *testing.T) {
	got := NewExpense{Date: "2025-01-05", Amount: 12.5, Category: "Travel"}.Expense(7)
	assert.Equal(t, Expense{ID: 7, Date: "2025-01-05", Amount: 12.5, Category: "Travel"}, got)
	assert.Empty(t, got.Subcategory)
	assert.Empty(t, got.Note)
}

func TestResult(t *testing.T) {
	ok := Ok(int64(3))
	assert.True(t, ok.OK())
	assert.Equal(t, int64(3), ok.Value())
	assert.Empty(t, ok.Message())

	failed := Fail[[]Expense]("Error listing expenses: boom")
	assert.False(t, failed.OK())
	assert.Nil(t, failed.Value())
	assert.Equal(t, Failure{Status: "error", Message: "Error listing expenses: boom"}, failed.Failure())
}

func TestNewAddExpenseResponse(t *testing.T) {
	assert.Equal(t, AddExpenseResponse{Status: "success", ID: 4, Message: "Expense added successfully"}, NewAddExpenseResponse(4))
}
