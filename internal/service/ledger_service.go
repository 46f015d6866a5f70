package service

import (
	"context"

	"bank-simulator/internal/core/domain"
	"bank-simulator/internal/core/ledger"
	"bank-simulator/internal/core/ports"
	"bank-simulator/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var _ ports.LedgerService = (*LedgerServiceImpl)(nil)

// LedgerServiceImpl implements ports.LedgerService on top of the in-memory ledger.
type LedgerServiceImpl struct {
	ledger *ledger.Ledger
	log    zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(l *ledger.Ledger, log zerolog.Logger) *LedgerServiceImpl {
	return &LedgerServiceImpl{ledger: l, log: log}
}

// CreateAccount opens a new account.
func (s *LedgerServiceImpl) CreateAccount(ctx context.Context, req ports.CreateAccountRequest) (domain.AccountView, error) {
	if err := ctx.Err(); err != nil {
		return domain.AccountView{}, apperror.InternalError(err)
	}

	view, err := s.ledger.CreateAccount(req.Owner, req.Number, req.Type, req.InitialBalance)
	if err != nil {
		s.rejected(err, "create_account", req.Number)
		return domain.AccountView{}, err
	}

	s.log.Info().
		Int64("account", view.Number).
		Str("owner", view.Owner).
		Str("kind", string(view.Kind)).
		Str("initial_balance", view.Balance.String()).
		Msg("account created")

	return view, nil
}

func (s *LedgerServiceImpl) GetAccount(ctx context.Context, number int64) (domain.AccountView, error) {
	if err := ctx.Err(); err != nil {
		return domain.AccountView{}, apperror.InternalError(err)
	}
	return s.ledger.FindAccount(number)
}

func (s *LedgerServiceImpl) ListAccounts(ctx context.Context) ([]domain.AccountView, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperror.InternalError(err)
	}
	return s.ledger.ListAccounts(), nil
}

func (s *LedgerServiceImpl) History(ctx context.Context, number int64) ([]domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperror.InternalError(err)
	}
	return s.ledger.History(number)
}

// Deposit credits an account.
func (s *LedgerServiceImpl) Deposit(ctx context.Context, number int64, amount decimal.Decimal) (domain.Transaction, error) {
	return s.apply(ctx, "deposit", number, func() (domain.Transaction, error) {
		return s.ledger.Deposit(number, amount)
	})
}

// Withdraw debits an account subject to its withdrawal policy.
func (s *LedgerServiceImpl) Withdraw(ctx context.Context, number int64, amount decimal.Decimal) (domain.Transaction, error) {
	return s.apply(ctx, "withdraw", number, func() (domain.Transaction, error) {
		return s.ledger.Withdraw(number, amount)
	})
}

// ApplyLoan disburses the one loan an account may take.
func (s *LedgerServiceImpl) ApplyLoan(ctx context.Context, number int64, amount decimal.Decimal) (domain.Transaction, error) {
	return s.apply(ctx, "apply_loan", number, func() (domain.Transaction, error) {
		return s.ledger.ApplyLoan(number, amount)
	})
}

// PayLoan pays one monthly installment.
func (s *LedgerServiceImpl) PayLoan(ctx context.Context, number int64) (domain.Transaction, error) {
	return s.apply(ctx, "pay_loan", number, func() (domain.Transaction, error) {
		return s.ledger.PayLoan(number)
	})
}

// Transfer moves money between two accounts.
func (s *LedgerServiceImpl) Transfer(ctx context.Context, req ports.TransferRequest) (domain.TransferResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.TransferResult{}, apperror.InternalError(err)
	}

	res, err := s.ledger.Transfer(req.From, req.To, req.Amount)
	if err != nil {
		s.log.Debug().
			Err(err).
			Str("code", apperror.CodeOf(err)).
			Int64("from", req.From).
			Int64("to", req.To).
			Str("amount", req.Amount.String()).
			Msg("transfer rejected")
		return domain.TransferResult{}, err
	}

	s.log.Info().
		Int64("from", req.From).
		Int64("to", req.To).
		Str("amount", req.Amount.String()).
		Int64("debit_journal_id", res.Debit.JournalID).
		Int64("credit_journal_id", res.Credit.JournalID).
		Msg("transfer processed successfully")

	return res, nil
}

func (s *LedgerServiceImpl) apply(ctx context.Context, op string, number int64, fn func() (domain.Transaction, error)) (domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return domain.Transaction{}, apperror.InternalError(err)
	}

	tx, err := fn()
	if err != nil {
		s.rejected(err, op, number)
		return domain.Transaction{}, err
	}

	s.log.Info().
		Str("op", op).
		Int64("account", number).
		Int64("journal_id", tx.JournalID).
		Str("amount", tx.Amount.String()).
		Str("balance_after", tx.BalanceAfter.String()).
		Msg("ledger operation processed")

	return tx, nil
}

func (s *LedgerServiceImpl) rejected(err error, op string, number int64) {
	s.log.Debug().
		Err(err).
		Str("code", apperror.CodeOf(err)).
		Str("op", op).
		Int64("account", number).
		Msg("ledger operation rejected")
}
