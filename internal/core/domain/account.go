package domain

import (
	"strings"
	"time"

	"bank-simulator/pkg/apperror"

	"github.com/shopspring/decimal"
)

// AccountType selects the withdrawal policy of an account.
type AccountType string

const (
	AccountTypeRegular AccountType = "REGULAR"
	AccountTypeSavings AccountType = "SAVINGS"
)

// AccountKind is a tagged variant: Regular, or Savings with a minimum balance.
type AccountKind struct {
	Type       AccountType
	MinBalance decimal.Decimal // Savings only
}

// Regular returns the kind whose withdrawals only need to be covered by the balance.
func Regular() AccountKind {
	return AccountKind{Type: AccountTypeRegular}
}

// Savings returns the kind whose withdrawals must leave at least minBalance behind.
func Savings(minBalance decimal.Decimal) AccountKind {
	return AccountKind{Type: AccountTypeSavings, MinBalance: minBalance}
}

// KindForTag maps a free-form account type tag to its kind.
// Only "savings" (any case) selects the savings policy.
func KindForTag(tag string, savingsMin decimal.Decimal) AccountKind {
	if strings.EqualFold(strings.TrimSpace(tag), "savings") {
		return Savings(savingsMin)
	}
	return Regular()
}

// allowsWithdrawal applies the kind's withdrawal policy.
func (k AccountKind) allowsWithdrawal(balance, amount decimal.Decimal) bool {
	switch k.Type {
	case AccountTypeSavings:
		return balance.Sub(amount).GreaterThanOrEqual(k.MinBalance)
	default:
		return balance.GreaterThanOrEqual(amount)
	}
}

// Account holds a balance, its append-only history and the loan sub-state.
//
// Account is not safe for concurrent use; the ledger serializes access per account.
type Account struct {
	number    int64
	owner     string
	typeTag   string
	kind      AccountKind
	balance   decimal.Decimal
	loan      Loan
	history   []Transaction
	journal   *Counter
	createdAt time.Time
}

// NewAccount validates the inputs and creates an account. Journal ids for its
// transactions are drawn from journal.
func NewAccount(number int64, owner, typeTag string, kind AccountKind, initialBalance decimal.Decimal, journal *Counter) (*Account, error) {
	owner = strings.TrimSpace(owner)
	if number <= 0 {
		return nil, apperror.ErrInvalidAccount("account number must be positive")
	}
	if owner == "" {
		return nil, apperror.ErrInvalidAccount("owner name is required")
	}
	if initialBalance.IsNegative() || !withinBounds(initialBalance) {
		return nil, apperror.ErrInvalidAmount()
	}
	if journal == nil {
		journal = &Counter{}
	}
	return &Account{
		number:    number,
		owner:     owner,
		typeTag:   strings.TrimSpace(typeTag),
		kind:      kind,
		balance:   initialBalance,
		journal:   journal,
		createdAt: time.Now().UTC(),
	}, nil
}

func (a *Account) Number() int64            { return a.number }
func (a *Account) Owner() string            { return a.owner }
func (a *Account) Kind() AccountKind        { return a.kind }
func (a *Account) Balance() decimal.Decimal { return a.balance }
func (a *Account) Loan() Loan               { return a.loan }
func (a *Account) LoanState() LoanState     { return a.loan.State() }

// RemainingLoan returns the notional outstanding loan amount, 0 without a loan.
func (a *Account) RemainingLoan() decimal.Decimal { return a.loan.Remaining() }

// Deposit adds amount to the balance. An amount rejected by ValidAmount
// changes nothing.
func (a *Account) Deposit(amount decimal.Decimal) (Transaction, error) {
	if !ValidAmount(amount) {
		return Transaction{}, apperror.ErrInvalidAmount()
	}
	a.balance = a.balance.Add(amount)
	return a.record(TransactionKindDeposit, DirectionCredit, amount, nil), nil
}

// Withdraw takes amount from the balance if the account kind allows it.
// On failure the account is unchanged.
func (a *Account) Withdraw(amount decimal.Decimal) (Transaction, error) {
	if err := a.checkWithdrawal(amount); err != nil {
		return Transaction{}, err
	}
	a.balance = a.balance.Sub(amount)
	return a.record(TransactionKindWithdrawal, DirectionDebit, amount, nil), nil
}

// TransferOut is the source half of a transfer: a policy-checked withdrawal
// recorded as a Withdrawal entry followed by a Transfer entry naming the
// destination. The Transfer entry is returned.
func (a *Account) TransferOut(amount decimal.Decimal, to int64) (Transaction, error) {
	if err := a.checkWithdrawal(amount); err != nil {
		return Transaction{}, err
	}
	a.balance = a.balance.Sub(amount)
	a.record(TransactionKindWithdrawal, DirectionDebit, amount, nil)
	return a.record(TransactionKindTransfer, DirectionDebit, amount, &to), nil
}

// TransferIn is the destination half of a transfer, recorded as a Deposit
// entry followed by a Transfer entry naming the source. It only fails on an
// invalid amount, which TransferOut has already rejected.
func (a *Account) TransferIn(amount decimal.Decimal, from int64) (Transaction, error) {
	if !ValidAmount(amount) {
		return Transaction{}, apperror.ErrInvalidAmount()
	}
	a.balance = a.balance.Add(amount)
	a.record(TransactionKindDeposit, DirectionCredit, amount, nil)
	return a.record(TransactionKindTransfer, DirectionCredit, amount, &from), nil
}

// ApplyLoan disburses a loan of amount. Disbursement debits the balance, and
// only one loan may ever be taken on an account.
func (a *Account) ApplyLoan(amount decimal.Decimal) (Transaction, error) {
	if !ValidAmount(amount) {
		return Transaction{}, apperror.ErrInvalidAmount()
	}
	if a.loan.Taken() {
		return Transaction{}, apperror.ErrLoanAlreadyActive()
	}
	if a.balance.LessThan(amount) {
		return Transaction{}, apperror.ErrInsufficientBalance()
	}
	a.balance = a.balance.Sub(amount)
	a.loan = newLoan(amount)
	return a.record(TransactionKindLoanDisbursement, DirectionDebit, amount, nil), nil
}

// PayLoan pays one monthly installment. Once every month is paid it is a
// no-op reporting LOAN_002.
func (a *Account) PayLoan() (Transaction, error) {
	if a.loan.State() != LoanStateActive {
		return Transaction{}, apperror.ErrLoanNotActiveOrPaid()
	}
	payment := a.loan.MonthlyPayment()
	if a.balance.LessThan(payment) {
		return Transaction{}, apperror.ErrInsufficientBalance()
	}
	a.balance = a.balance.Sub(payment)
	a.loan.monthsPaid++
	return a.record(TransactionKindLoanPayment, DirectionDebit, payment, nil), nil
}

// History returns a copy of the account's transactions in order.
func (a *Account) History() []Transaction {
	out := make([]Transaction, len(a.history))
	copy(out, a.history)
	return out
}

// View returns a read-only snapshot of the account.
func (a *Account) View() AccountView {
	v := AccountView{
		Number:           a.number,
		Owner:            a.owner,
		TypeTag:          a.typeTag,
		Kind:             a.kind.Type,
		Balance:          a.balance,
		Loan:             a.loan.View(),
		TransactionCount: len(a.history),
		CreatedAt:        a.createdAt,
	}
	if a.kind.Type == AccountTypeSavings {
		minBalance := a.kind.MinBalance
		v.MinBalance = &minBalance
	}
	return v
}

func (a *Account) checkWithdrawal(amount decimal.Decimal) error {
	if !ValidAmount(amount) {
		return apperror.ErrInvalidAmount()
	}
	if !a.kind.allowsWithdrawal(a.balance, amount) {
		return apperror.ErrInsufficientBalance()
	}
	return nil
}

func (a *Account) record(kind TransactionKind, dir Direction, amount decimal.Decimal, counterparty *int64) Transaction {
	tx := Transaction{
		Sequence:      int64(len(a.history)) + 1,
		JournalID:     a.journal.Next(),
		AccountNumber: a.number,
		Kind:          kind,
		Direction:     dir,
		Amount:        amount,
		BalanceAfter:  a.balance,
		Counterparty:  counterparty,
		CreatedAt:     time.Now().UTC(),
	}
	a.history = append(a.history, tx)
	return tx
}

// AccountView is a value copy of an account handed to callers.
type AccountView struct {
	Number           int64            `json:"number"`
	Owner            string           `json:"owner"`
	TypeTag          string           `json:"type"`
	Kind             AccountType      `json:"kind"`
	MinBalance       *decimal.Decimal `json:"min_balance,omitempty"`
	Balance          decimal.Decimal  `json:"balance"`
	Loan             LoanView         `json:"loan"`
	TransactionCount int              `json:"transaction_count"`
	CreatedAt        time.Time        `json:"created_at"`
}
