package domain

import (
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind represents the kind of balance-affecting event.
type TransactionKind string

const (
	TransactionKindDeposit          TransactionKind = "DEPOSIT"
	TransactionKindWithdrawal       TransactionKind = "WITHDRAWAL"
	TransactionKindTransfer         TransactionKind = "TRANSFER"
	TransactionKindLoanDisbursement TransactionKind = "LOAN_DISBURSEMENT"
	TransactionKindLoanPayment      TransactionKind = "LOAN_PAYMENT"
)

// Direction says whether a transaction added to or took from the balance.
type Direction string

const (
	DirectionCredit Direction = "CREDIT"
	DirectionDebit  Direction = "DEBIT"
)

// Transaction is an immutable entry in an account's history.
// Sequence is per account; JournalID is unique across the ledger.
type Transaction struct {
	Sequence      int64           `json:"sequence"`
	JournalID     int64           `json:"journal_id"`
	AccountNumber int64           `json:"account_number"`
	Kind          TransactionKind `json:"kind"`
	Direction     Direction       `json:"direction"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	Counterparty  *int64          `json:"counterparty,omitempty"` // transfers only
	CreatedAt     time.Time       `json:"created_at"`
}

// IsCredit returns true if the transaction increased the balance.
func (t Transaction) IsCredit() bool {
	return t.Direction == DirectionCredit
}

// Counter hands out monotonically increasing ids starting at 1.
// The zero value is ready to use.
type Counter struct {
	n atomic.Int64
}

// Next returns the next id.
func (c *Counter) Next() int64 {
	return c.n.Add(1)
}

// Current returns the last id handed out, or 0.
func (c *Counter) Current() int64 {
	return c.n.Load()
}

// TransferResult holds both halves of a completed transfer.
type TransferResult struct {
	Debit  Transaction `json:"debit"`
	Credit Transaction `json:"credit"`
}
