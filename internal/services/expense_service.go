package services

import (
	"context"
	"errors"
	"fmt"

	"ledger/internal/core"
	"ledger/internal/log"
)

// Store is the persistence the service needs.
type Store interface {
	InsertExpense(ctx context.Context, e core.NewExpense) (int64, error)
	ListExpenses(ctx context.Context, rng core.DateRange) ([]core.Expense, error)
	SummarizeExpenses(ctx context.Context, q core.SummaryQuery) ([]core.CategorySummary, error)
	Ping(ctx context.Context) error
	Close() error
}

// Publisher announces committed inserts. Optional.
type Publisher interface {
	PublishExpenseCreated(ctx context.Context, id int64) error
	Close() error
}

// ExpenseService runs ledger operations against the store and publishes
// creation events. Every operation returns a core.Result and never panics.
type ExpenseService struct {
	storage   Store
	publisher Publisher
	logger    *log.Logger
}

func NewExpenseService(storage Store, publisher Publisher) *ExpenseService {
	return &ExpenseService{
		storage:   storage,
		publisher: publisher,
		logger:    log.Default(log.ComponentExpense),
	}
}

// AddExpense persists one expense and returns its new id.
func (s *ExpenseService) AddExpense(ctx context.Context, e core.NewExpense) core.Result[int64] {
	if err := e.Validate(); err != nil {
		s.logger.WarnContext(ctx, "Rejected expense", log.FieldOperation, log.OpCreate, log.FieldError, err)
		return core.Fail[int64](fmt.Sprintf("Invalid expense: %v", err))
	}

	res := guard(ctx, s.logger, log.OpCreate, "Database error", func() (int64, error) {
		return s.storage.InsertExpense(ctx, e)
	})
	if !res.OK() {
		return res
	}

	id := res.Value()
	s.logger.InfoContext(ctx, "Expense added",
		append(log.NewFields().
			WithOperation(log.OpCreate).
			WithExpense(e.Date, e.Amount, e.Category, e.Subcategory).
			ToSlice(), log.FieldExpenseID, id)...)

	s.publishCreated(ctx, id)
	return res
}

// ListExpenses returns the expenses whose date lies in the inclusive range,
// newest first.
func (s *ExpenseService) ListExpenses(ctx context.Context, rng core.DateRange) core.Result[[]core.Expense] {
	res := guard(ctx, s.logger, log.OpList, "Error listing expenses", func() ([]core.Expense, error) {
		return s.storage.ListExpenses(ctx, rng)
	})
	if res.OK() {
		s.logger.DebugContext(ctx, "Listed expenses",
			append(log.NewFields().WithOperation(log.OpList).WithRange(rng.Start, rng.End).ToSlice(),
				log.FieldCount, len(res.Value()))...)
	}
	return res
}

// Summarize totals the expenses in range per category, largest total first.
func (s *ExpenseService) Summarize(ctx context.Context, q core.SummaryQuery) core.Result[[]core.CategorySummary] {
	res := guard(ctx, s.logger, log.OpSummarize, "Error summarizing expenses", func() ([]core.CategorySummary, error) {
		return s.storage.SummarizeExpenses(ctx, q)
	})
	if res.OK() {
		s.logger.DebugContext(ctx, "Summarized expenses",
			append(log.NewFields().WithOperation(log.OpSummarize).WithRange(q.Range.Start, q.Range.End).ToSlice(),
				log.FieldCategory, q.Category,
				log.FieldCount, len(res.Value()))...)
	}
	return res
}

// Categories returns a copy of the suggested category list.
func (s *ExpenseService) Categories() core.CategoryCatalog {
	return core.DefaultCategories()
}

// Ready reports whether the store can serve requests.
func (s *ExpenseService) Ready(ctx context.Context) error {
	if s.storage == nil {
		return errors.New("storage not configured")
	}
	return s.storage.Ping(ctx)
}

func (s *ExpenseService) publishCreated(ctx context.Context, id int64) {
	if s.publisher == nil {
		s.logger.DebugContext(ctx, "AMQP publisher not configured, skipping expense created message",
			log.FieldExpenseID, id)
		return
	}

	// The insert is committed; a lost event must not turn it into a failure.
	if err := s.publisher.PublishExpenseCreated(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish expense created message",
			log.FieldOperation, log.OpPublish,
			log.FieldExpenseID, id,
			log.FieldError, err)
	}
}

// guard runs fn and converts its error or panic into a failed Result whose
// message starts with prefix.
func guard[T any](ctx context.Context, logger *log.Logger, op, prefix string, fn func() (T, error)) (res core.Result[T]) {
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorContext(ctx, "Operation panicked", log.FieldOperation, op, "panic", r)
			res = core.Fail[T](fmt.Sprintf("%s: %v", prefix, r))
		}
	}()

	v, err := fn()
	if err != nil {
		logger.ErrorContext(ctx, "Operation failed", log.NewFields().WithOperation(op).WithError(err).ToSlice()...)
		return core.Fail[T](fmt.Sprintf("%s: %v", prefix, err))
	}
	return core.Ok(v)
}

// Close closes both storage and AMQP connections
func (s *ExpenseService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %w", errors.Join(errs...))
	}

	return nil
}
