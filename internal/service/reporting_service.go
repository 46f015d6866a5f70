package service

import (
	"context"

	"bank-simulator/internal/core/domain"
	"bank-simulator/internal/core/ledger"
	"bank-simulator/internal/core/ports"
	"bank-simulator/pkg/apperror"

	"github.com/shopspring/decimal"
)

// maxJournalLimit caps how many journal entries a single report returns.
const maxJournalLimit = 1000

// reportingService implements ports.ReportingService.
type reportingService struct {
	ledger *ledger.Ledger
}

// NewReportingService creates a new reporting service.
func NewReportingService(l *ledger.Ledger) ports.ReportingService {
	return &reportingService{ledger: l}
}

// AccountDetails returns an account snapshot with its history.
func (s *reportingService) AccountDetails(ctx context.Context, number int64) (*ports.AccountDetails, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperror.InternalError(err)
	}

	view, history, err := s.ledger.AccountDetails(number)
	if err != nil {
		return nil, err
	}
	return &ports.AccountDetails{
		Account:       view,
		RemainingLoan: view.Loan.Remaining,
		Transactions:  history,
	}, nil
}

// LoanTakers lists every account that has taken a loan.
func (s *reportingService) LoanTakers(ctx context.Context) ([]domain.AccountView, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperror.InternalError(err)
	}
	return nonNil(s.ledger.LoanTakersReport()), nil
}

// Journal returns the most recent ledger-wide transactions, oldest first.
func (s *reportingService) Journal(ctx context.Context, limit int) ([]domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperror.InternalError(err)
	}
	if limit < 0 {
		return nil, apperror.Validation("limit must not be negative")
	}
	if limit == 0 || limit > maxJournalLimit {
		limit = maxJournalLimit
	}

	entries := s.ledger.Journal(limit)
	if entries == nil {
		entries = []domain.Transaction{}
	}
	return entries, nil
}

// AccountsByOwner lists the accounts held by one customer.
func (s *reportingService) AccountsByOwner(ctx context.Context, owner string) ([]domain.AccountView, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperror.InternalError(err)
	}
	return nonNil(s.ledger.AccountsByOwner(owner)), nil
}

// Summary aggregates balances and loan exposure across the ledger.
func (s *reportingService) Summary(ctx context.Context) (*ports.LedgerSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperror.InternalError(err)
	}

	summary := &ports.LedgerSummary{
		TotalBalance:    decimal.Zero,
		OutstandingLoan: decimal.Zero,
		Transactions:    s.ledger.TransactionCount(),
	}
	for _, v := range s.ledger.ListAccounts() {
		summary.Accounts++
		summary.TotalBalance = summary.TotalBalance.Add(v.Balance)
		if v.Loan.Taken {
			summary.LoanTakers++
		}
		if v.Loan.State == domain.LoanStateActive {
			summary.ActiveLoans++
			summary.OutstandingLoan = summary.OutstandingLoan.Add(v.Loan.Remaining)
		}
	}
	return summary, nil
}

func nonNil(views []domain.AccountView) []domain.AccountView {
	if views == nil {
		return []domain.AccountView{}
	}
	return views
}
