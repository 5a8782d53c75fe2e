package worker

import (
	"context"
	"errors"
	"fmt"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/sheets"
	"ledger/internal/storage"
)

// ExpenseReader loads a persisted expense by id.
type ExpenseReader interface {
	GetExpense(ctx context.Context, id int64) (*core.Expense, error)
}

// SyncWorker mirrors newly created expenses into a sheet.
type SyncWorker struct {
	storage ExpenseReader
	sheets  sheets.ExpenseWriter
	logger  *log.Logger
}

func NewSyncWorker(storage ExpenseReader, sheets sheets.ExpenseWriter) *SyncWorker {
	return &SyncWorker{
		storage: storage,
		sheets:  sheets,
		logger:  log.Default(log.ComponentWorker),
	}
}

// HandleExpenseCreated appends the expense named by msg to the sheet. A
// returned error asks the broker to redeliver the message.
func (w *SyncWorker) HandleExpenseCreated(ctx context.Context, msg *amqp.ExpenseCreatedMessage) error {
	w.logger.InfoContext(ctx, "Processing expense created message",
		log.FieldOperation, log.OpSync,
		log.FieldExpenseID, msg.ID)

	expense, err := w.storage.GetExpense(ctx, msg.ID)
	if errors.Is(err, storage.ErrNotFound) {
		// Inserts commit before publishing, so a missing row will not appear later.
		w.logger.WarnContext(ctx, "Expense not found, skipping sync", log.FieldExpenseID, msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get expense from storage: %w", err)
	}

	ref, err := w.sheets.Append(ctx, *expense)
	if err != nil {
		return fmt.Errorf("append expense %d to sheet: %w", msg.ID, err)
	}

	w.logger.InfoContext(ctx, "Synced expense to sheet",
		append(log.NewFields().
			WithOperation(log.OpAppend).
			WithExpense(expense.Date, expense.Amount, expense.Category, expense.Subcategory).
			ToSlice(), log.FieldExpenseID, msg.ID, "row_ref", ref)...)

	return nil
}
