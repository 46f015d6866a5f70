package dto

import (
	"time"

	"bank-simulator/internal/core/domain"
	"bank-simulator/internal/core/ports"

	"github.com/shopspring/decimal"
)

// Amounts accept JSON numbers or strings. Their sign, scale and magnitude are
// checked by domain.ValidAmount, which reports InvalidAmount, so they carry no
// binding tags.

// CreateAccountRequest is the request body for opening an account.
type CreateAccountRequest struct {
	Owner          string          `json:"owner" binding:"required,max=100,safe_name"`
	Number         int64           `json:"number" binding:"required,gt=0"`
	Type           string          `json:"type" binding:"omitempty,max=30,safe_id"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

// AmountRequest is the request body for deposit, withdraw and loan applications.
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// TransferRequest is the request body for a transfer between accounts.
type TransferRequest struct {
	From   int64           `json:"from" binding:"required,gt=0"`
	To     int64           `json:"to" binding:"required,gt=0"`
	Amount decimal.Decimal `json:"amount"`
}

// AccountResponse is the response body describing one account.
type AccountResponse struct {
	Number           int64        `json:"number"`
	Owner            string       `json:"owner"`
	Type             string       `json:"type"`
	Kind             string       `json:"kind"`
	MinBalance       *string      `json:"min_balance,omitempty"`
	Balance          string       `json:"balance"`
	Loan             LoanResponse `json:"loan"`
	TransactionCount int          `json:"transaction_count"`
	CreatedAt        string       `json:"created_at"`
}

// LoanResponse is the response body describing an account's loan.
type LoanResponse struct {
	State          string `json:"state"`
	Principal      string `json:"principal"`
	MonthlyPayment string `json:"monthly_payment"`
	MonthsPaid     int    `json:"months_paid"`
	TotalMonths    int    `json:"total_months"`
	Remaining      string `json:"remaining"`
}

// TransactionResponse is the response body for one ledger entry.
type TransactionResponse struct {
	Sequence      int64  `json:"sequence"`
	JournalID     int64  `json:"journal_id"`
	AccountNumber int64  `json:"account_number"`
	Kind          string `json:"kind"`
	Direction     string `json:"direction"`
	Amount        string `json:"amount"`
	BalanceAfter  string `json:"balance_after"`
	Counterparty  *int64 `json:"counterparty,omitempty"`
	CreatedAt     string `json:"created_at"`
}

// TransferResponse is the response body for a completed transfer.
type TransferResponse struct {
	Debit  TransactionResponse `json:"debit"`
	Credit TransactionResponse `json:"credit"`
}

// AccountDetailsResponse is an account together with its history.
type AccountDetailsResponse struct {
	Account      AccountResponse       `json:"account"`
	Transactions []TransactionResponse `json:"transactions"`
}

// SummaryResponse is the response body for the ledger summary report.
type SummaryResponse struct {
	Accounts        int    `json:"accounts"`
	TotalBalance    string `json:"total_balance"`
	LoanTakers      int    `json:"loan_takers"`
	ActiveLoans     int    `json:"active_loans"`
	OutstandingLoan string `json:"outstanding_loan"`
	Transactions    int64  `json:"transactions"`
}

// ListResponse wraps a list with its length.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func ToAccountResponse(v domain.AccountView) AccountResponse {
	resp := AccountResponse{
		Number:           v.Number,
		Owner:            v.Owner,
		Type:             v.TypeTag,
		Kind:             string(v.Kind),
		Balance:          money(v.Balance),
		Loan:             ToLoanResponse(v.Loan),
		TransactionCount: v.TransactionCount,
		CreatedAt:        timestamp(v.CreatedAt),
	}
	if v.MinBalance != nil {
		minBalance := money(*v.MinBalance)
		resp.MinBalance = &minBalance
	}
	return resp
}

func ToLoanResponse(l domain.LoanView) LoanResponse {
	return LoanResponse{
		State:          string(l.State),
		Principal:      money(l.Principal),
		MonthlyPayment: money(l.MonthlyPayment),
		MonthsPaid:     l.MonthsPaid,
		TotalMonths:    l.TotalMonths,
		Remaining:      money(l.Remaining),
	}
}

func ToTransactionResponse(tx domain.Transaction) TransactionResponse {
	return TransactionResponse{
		Sequence:      tx.Sequence,
		JournalID:     tx.JournalID,
		AccountNumber: tx.AccountNumber,
		Kind:          string(tx.Kind),
		Direction:     string(tx.Direction),
		Amount:        money(tx.Amount),
		BalanceAfter:  money(tx.BalanceAfter),
		Counterparty:  tx.Counterparty,
		CreatedAt:     timestamp(tx.CreatedAt),
	}
}

func ToTransferResponse(res domain.TransferResult) TransferResponse {
	return TransferResponse{
		Debit:  ToTransactionResponse(res.Debit),
		Credit: ToTransactionResponse(res.Credit),
	}
}

func ToAccountDetailsResponse(d *ports.AccountDetails) AccountDetailsResponse {
	return AccountDetailsResponse{
		Account:      ToAccountResponse(d.Account),
		Transactions: ToTransactionResponses(d.Transactions),
	}
}

func ToSummaryResponse(s *ports.LedgerSummary) SummaryResponse {
	return SummaryResponse{
		Accounts:        s.Accounts,
		TotalBalance:    money(s.TotalBalance),
		LoanTakers:      s.LoanTakers,
		ActiveLoans:     s.ActiveLoans,
		OutstandingLoan: money(s.OutstandingLoan),
		Transactions:    s.Transactions,
	}
}

func ToAccountResponses(views []domain.AccountView) ListResponse[AccountResponse] {
	items := make([]AccountResponse, 0, len(views))
	for _, v := range views {
		items = append(items, ToAccountResponse(v))
	}
	return ListResponse[AccountResponse]{Items: items, Total: len(items)}
}

func ToTransactionResponses(txs []domain.Transaction) []TransactionResponse {
	items := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		items = append(items, ToTransactionResponse(tx))
	}
	return items
}
