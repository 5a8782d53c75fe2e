package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ledger/internal/core"
)

const (
	insertExpenseSQL = `INSERT INTO expenses(date, amount, category, subcategory, note) VALUES (?, ?, ?, ?, ?)`

	listExpensesSQL = `
		SELECT id, date, amount, category, subcategory, note
		FROM expenses
		WHERE date BETWEEN ? AND ?
		ORDER BY date DESC, id DESC`

	summarizeExpensesSQL = `
		SELECT category, SUM(amount) AS total_amount, COUNT(*) AS count
		FROM expenses
		WHERE date BETWEEN ? AND ?`

	getExpenseSQL = `
		SELECT id, date, amount, category, subcategory, note
		FROM expenses
		WHERE id = ?`
)

// InsertExpense persists e and returns the identifier assigned by SQLite.
func (r *SQLiteRepository) InsertExpense(ctx context.Context, e core.NewExpense) (int64, error) {
	conn, err := r.db.Connx(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	res, err := conn.ExecContext(ctx, insertExpenseSQL, e.Date, e.Amount, e.Category, e.Subcategory, e.Note)
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted id: %w", err)
	}

	return id, nil
}

// ListExpenses returns the records dated within the inclusive range, newest
// first. Dates are compared as text.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, rng core.DateRange) ([]core.Expense, error) {
	conn, err := r.db.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	expenses := []core.Expense{}
	if err := conn.SelectContext(ctx, &expenses, listExpensesSQL, rng.Start, rng.End); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	return expenses, nil
}

// SummarizeExpenses groups the records in range by category, largest total
// first. Groups with equal totals are ordered by category name.
func (r *SQLiteRepository) SummarizeExpenses(ctx context.Context, q core.SummaryQuery) ([]core.CategorySummary, error) {
	query := summarizeExpensesSQL
	args := []any{q.Range.Start, q.Range.End}
	if q.Category != "" {
		query += " AND category = ?"
		args = append(args, q.Category)
	}
	query += " GROUP BY category ORDER BY total_amount DESC, category ASC"

	conn, err := r.db.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	summaries := []core.CategorySummary{}
	if err := conn.SelectContext(ctx, &summaries, query, args...); err != nil {
		return nil, fmt.Errorf("summarize expenses: %w", err)
	}

	return summaries, nil
}

// GetExpense retrieves a single expense by ID.
func (r *SQLiteRepository) GetExpense(ctx context.Context, id int64) (*core.Expense, error) {
	conn, err := r.db.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	var e core.Expense
	if err := conn.GetContext(ctx, &e, getExpenseSQL, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get expense %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get expense %d: %w", id, err)
	}
	return &e, nil
}
