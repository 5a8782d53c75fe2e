package core

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result is the outcome of a ledger operation: either a value or a failure
// message. Operations return a Result instead of an error so callers always
// receive a structured value.
type Result[T any] struct {
	value   T
	message string
	failed  bool
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Fail builds a failed result carrying a human-readable message.
func Fail[T any](message string) Result[T] {
	return Result[T]{message: message, failed: true}
}

func (r Result[T]) OK() bool { return !r.failed }

// Value returns the payload, the zero value for failures.
func (r Result[T]) Value() T { return r.value }

// Message returns the failure message, empty on success.
func (r Result[T]) Message() string { return r.message }

// Failure returns the wire shape of a failed result.
func (r Result[T]) Failure() Failure {
	return Failure{Status: StatusError, Message: r.message}
}

// Failure is the body returned to callers when an operation fails.
type Failure struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// AddExpenseResponse is the body returned after a successful insert.
type AddExpenseResponse struct {
	Status  string `json:"status"`
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// NewAddExpenseResponse builds the success body for a newly assigned id.
func NewAddExpenseResponse(id int64) AddExpenseResponse {
	return AddExpenseResponse{
		Status:  StatusSuccess,
		ID:      id,
		Message: "Expense added successfully",
	}
}
