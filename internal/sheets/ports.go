package sheets

import (
	"context"

	"ledger/internal/core"
)

// ExpenseWriter appends a persisted expense to an external sheet and returns
// a reference to the written row.
type ExpenseWriter interface {
	Append(ctx context.Context, e core.Expense) (rowRef string, err error)
}
