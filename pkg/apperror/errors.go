package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError with the same code.
// This lets callers match against the constructors below with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// CodeOf returns the code of the first AppError in err's chain, or "" if there is none.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// ---- Accounts (ACC) ----

func ErrAccountNotFound(number int64) *AppError {
	return New("ACC_001", fmt.Sprintf("Account %d not found", number), http.StatusNotFound)
}

func ErrDuplicateAccount(number int64) *AppError {
	return New("ACC_002", fmt.Sprintf("Account %d already exists", number), http.StatusConflict)
}

func ErrInvalidAccount(message string) *AppError {
	return New("ACC_003", message, http.StatusBadRequest)
}

// ---- Balance movements (PAY) ----

func ErrInsufficientBalance() *AppError {
	return New("PAY_001", "Insufficient balance", http.StatusUnprocessableEntity)
}

func ErrInvalidAmount() *AppError {
	return New("PAY_002", "Amount must be positive, at most 1000000000000 and carry at most 2 decimal places", http.StatusBadRequest)
}

func ErrInvalidTransfer() *AppError {
	return New("PAY_003", "Source and destination accounts must differ", http.StatusBadRequest)
}

// ---- Loans (LOAN) ----

func ErrLoanAlreadyActive() *AppError {
	return New("LOAN_001", "A loan has already been taken on this account", http.StatusConflict)
}

func ErrLoanNotActiveOrPaid() *AppError {
	return New("LOAN_002", "No active loan, or the loan is already paid off", http.StatusConflict)
}

// ---- Requests (REQ) ----

// Validation returns a request validation error.
func Validation(message string) *AppError {
	return New("REQ_001", message, http.StatusBadRequest)
}

func ErrIdempotencyInProgress() *AppError {
	return New("REQ_002", "A request with this Idempotency-Key is still in progress", http.StatusConflict)
}

func ErrIdempotencyMismatch() *AppError {
	return New("REQ_003", "Idempotency-Key was already used with a different request", http.StatusUnprocessableEntity)
}

func ErrPayloadTooLarge() *AppError {
	return New("REQ_004", "Request body too large", http.StatusRequestEntityTooLarge)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
