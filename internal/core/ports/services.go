package ports

import (
	"context"
	"time"

	"bank-simulator/internal/core/domain"

	"github.com/shopspring/decimal"
)

// IdempotencyCache stores serialized responses keyed by Idempotency-Key.
type IdempotencyCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // Returns cached response JSON or nil
	// SetIfAbsent stores value only if key is unused and reports whether it did.
	SetIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RateLimitStore counts requests against a per-key budget.
type RateLimitStore interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (*RateLimitResult, error)
}

// RateLimitResult holds the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed   bool
	Limit     int64
	Remaining int64
	ResetAt   int64 // Unix timestamp
}

// --- Service Ports (Business Logic) ---

// LedgerService exposes account operations to the transport layer.
type LedgerService interface {
	CreateAccount(ctx context.Context, req CreateAccountRequest) (domain.AccountView, error)
	GetAccount(ctx context.Context, number int64) (domain.AccountView, error)
	ListAccounts(ctx context.Context) ([]domain.AccountView, error)
	History(ctx context.Context, number int64) ([]domain.Transaction, error)
	Deposit(ctx context.Context, number int64, amount decimal.Decimal) (domain.Transaction, error)
	Withdraw(ctx context.Context, number int64, amount decimal.Decimal) (domain.Transaction, error)
	Transfer(ctx context.Context, req TransferRequest) (domain.TransferResult, error)
	ApplyLoan(ctx context.Context, number int64, amount decimal.Decimal) (domain.Transaction, error)
	PayLoan(ctx context.Context, number int64) (domain.Transaction, error)
}

// CreateAccountRequest holds validated input for account creation.
type CreateAccountRequest struct {
	Owner          string
	Number         int64
	Type           string
	InitialBalance decimal.Decimal
}

// TransferRequest holds validated input for a transfer.
type TransferRequest struct {
	From   int64
	To     int64
	Amount decimal.Decimal
}

// ReportingService defines read-only projections over the ledger.
type ReportingService interface {
	AccountDetails(ctx context.Context, number int64) (*AccountDetails, error)
	LoanTakers(ctx context.Context) ([]domain.AccountView, error)
	Journal(ctx context.Context, limit int) ([]domain.Transaction, error)
	AccountsByOwner(ctx context.Context, owner string) ([]domain.AccountView, error)
	Summary(ctx context.Context) (*LedgerSummary, error)
}

// AccountDetails is an account snapshot with its full history.
type AccountDetails struct {
	Account       domain.AccountView   `json:"account"`
	RemainingLoan decimal.Decimal      `json:"remaining_loan"`
	Transactions  []domain.Transaction `json:"transactions"`
}

// LedgerSummary holds aggregate figures across every account.
type LedgerSummary struct {
	Accounts        int             `json:"accounts"`
	TotalBalance    decimal.Decimal `json:"total_balance"`
	LoanTakers      int             `json:"loan_takers"`
	ActiveLoans     int             `json:"active_loans"`
	OutstandingLoan decimal.Decimal `json:"outstanding_loan"`
	Transactions    int64           `json:"transactions"`
}

// AuditService records state-changing requests.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
	Recent(ctx context.Context, limit int) ([]domain.AuditLog, error)
}
