// Package ledger owns the set of accounts and serializes access to them.
//
// Each account has its own mutex. Transfer locks both accounts in ascending
// account-number order so concurrent transfers in opposite directions cannot
// deadlock. The registry lock only guards the index; it is never held while
// waiting on an account lock.
package ledger

import (
	"sort"
	"strings"
	"sync"

	"bank-simulator/internal/core/domain"
	"bank-simulator/pkg/apperror"

	"github.com/shopspring/decimal"
)

type entry struct {
	mu      sync.Mutex
	account *domain.Account
}

// Ledger is an in-memory account registry. It is safe for concurrent use.
type Ledger struct {
	mu         sync.RWMutex
	entries    []*entry
	index      map[int64]int
	journal    *domain.Counter
	savingsMin decimal.Decimal
}

// New creates an empty ledger. savingsMin is the floor applied to savings accounts.
func New(savingsMin decimal.Decimal) *Ledger {
	return &Ledger{
		index:      make(map[int64]int),
		journal:    &domain.Counter{},
		savingsMin: savingsMin,
	}
}

// CreateAccount registers a new account. Account numbers are unique.
func (l *Ledger) CreateAccount(owner string, number int64, typeTag string, initialBalance decimal.Decimal) (domain.AccountView, error) {
	kind := domain.KindForTag(typeTag, l.savingsMin)
	acc, err := domain.NewAccount(number, owner, typeTag, kind, initialBalance, l.journal)
	if err != nil {
		return domain.AccountView{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.index[number]; exists {
		return domain.AccountView{}, apperror.ErrDuplicateAccount(number)
	}
	l.index[number] = len(l.entries)
	l.entries = append(l.entries, &entry{account: acc})

	return acc.View(), nil
}

// FindAccount returns a snapshot of the account.
func (l *Ledger) FindAccount(number int64) (domain.AccountView, error) {
	var view domain.AccountView
	err := l.withAccount(number, func(acc *domain.Account) error {
		view = acc.View()
		return nil
	})
	return view, err
}

// AccountDetails returns the account snapshot together with its history.
func (l *Ledger) AccountDetails(number int64) (domain.AccountView, []domain.Transaction, error) {
	var (
		view    domain.AccountView
		history []domain.Transaction
	)
	err := l.withAccount(number, func(acc *domain.Account) error {
		view = acc.View()
		history = acc.History()
		return nil
	})
	return view, history, err
}

// History returns a copy of the account's transactions.
func (l *Ledger) History(number int64) ([]domain.Transaction, error) {
	_, history, err := l.AccountDetails(number)
	return history, err
}

func (l *Ledger) Deposit(number int64, amount decimal.Decimal) (domain.Transaction, error) {
	return l.mutate(number, func(acc *domain.Account) (domain.Transaction, error) {
		return acc.Deposit(amount)
	})
}

func (l *Ledger) Withdraw(number int64, amount decimal.Decimal) (domain.Transaction, error) {
	return l.mutate(number, func(acc *domain.Account) (domain.Transaction, error) {
		return acc.Withdraw(amount)
	})
}

func (l *Ledger) ApplyLoan(number int64, amount decimal.Decimal) (domain.Transaction, error) {
	return l.mutate(number, func(acc *domain.Account) (domain.Transaction, error) {
		return acc.ApplyLoan(amount)
	})
}

func (l *Ledger) PayLoan(number int64) (domain.Transaction, error) {
	return l.mutate(number, func(acc *domain.Account) (domain.Transaction, error) {
		return acc.PayLoan()
	})
}

// RemainingLoan returns the notional outstanding loan amount.
func (l *Ledger) RemainingLoan(number int64) (decimal.Decimal, error) {
	var remaining decimal.Decimal
	err := l.withAccount(number, func(acc *domain.Account) error {
		remaining = acc.RemainingLoan()
		return nil
	})
	return remaining, err
}

// Transfer moves amount from one account to another. The source withdrawal is
// validated first; if it fails neither account changes.
func (l *Ledger) Transfer(from, to int64, amount decimal.Decimal) (domain.TransferResult, error) {
	if !domain.ValidAmount(amount) {
		return domain.TransferResult{}, apperror.ErrInvalidAmount()
	}
	if from == to {
		return domain.TransferResult{}, apperror.ErrInvalidTransfer()
	}

	src, dst, err := l.lookupPair(from, to)
	if err != nil {
		return domain.TransferResult{}, err
	}

	first, second := src, dst
	if to < from {
		first, second = dst, src
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	debit, err := src.account.TransferOut(amount, to)
	if err != nil {
		return domain.TransferResult{}, err
	}
	credit, err := dst.account.TransferIn(amount, from)
	if err != nil {
		// Unreachable: TransferOut already rejected invalid amounts.
		return domain.TransferResult{}, apperror.InternalError(err)
	}
	return domain.TransferResult{Debit: debit, Credit: credit}, nil
}

// ListAccounts returns a snapshot of every account in creation order.
func (l *Ledger) ListAccounts() []domain.AccountView {
	entries := l.snapshot()
	views := make([]domain.AccountView, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		views = append(views, e.account.View())
		e.mu.Unlock()
	}
	return views
}

// LoanTakersReport returns every account that has ever taken a loan, in creation order.
func (l *Ledger) LoanTakersReport() []domain.AccountView {
	entries := l.snapshot()
	var views []domain.AccountView
	for _, e := range entries {
		e.mu.Lock()
		if e.account.Loan().Taken() {
			views = append(views, e.account.View())
		}
		e.mu.Unlock()
	}
	return views
}

// AccountsByOwner returns the accounts whose owner matches name, ignoring case.
func (l *Ledger) AccountsByOwner(name string) []domain.AccountView {
	name = strings.TrimSpace(name)
	var views []domain.AccountView
	for _, v := range l.ListAccounts() {
		if strings.EqualFold(v.Owner, name) {
			views = append(views, v)
		}
	}
	return views
}

// Journal returns every transaction across the ledger ordered by journal id.
// If limit > 0 only the most recent limit entries are returned.
func (l *Ledger) Journal(limit int) []domain.Transaction {
	var all []domain.Transaction
	for _, e := range l.snapshot() {
		e.mu.Lock()
		all = append(all, e.account.History()...)
		e.mu.Unlock()
	}
	sort.Slice(all, func(i, j int) bool { return all[i].JournalID < all[j].JournalID })
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all
}

// TransactionCount returns how many transactions the ledger has recorded.
func (l *Ledger) TransactionCount() int64 {
	return l.journal.Current()
}

// Len returns the number of accounts.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

func (l *Ledger) lookup(number int64) (*entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	i, ok := l.index[number]
	if !ok {
		return nil, apperror.ErrAccountNotFound(number)
	}
	return l.entries[i], nil
}

func (l *Ledger) lookupPair(from, to int64) (*entry, *entry, error) {
	src, err := l.lookup(from)
	if err != nil {
		return nil, nil, err
	}
	dst, err := l.lookup(to)
	if err != nil {
		return nil, nil, err
	}
	return src, dst, nil
}

func (l *Ledger) snapshot() []*entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*entry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Ledger) withAccount(number int64, fn func(*domain.Account) error) error {
	e, err := l.lookup(number)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.account)
}

func (l *Ledger) mutate(number int64, fn func(*domain.Account) (domain.Transaction, error)) (domain.Transaction, error) {
	var tx domain.Transaction
	err := l.withAccount(number, func(acc *domain.Account) error {
		var err error
		tx, err = fn(acc)
		return err
	})
	return tx, err
}
