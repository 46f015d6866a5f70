package domain

import "github.com/shopspring/decimal"

// LoanTermMonths is the fixed length of every loan schedule.
const LoanTermMonths = 12

// LoanMonthlyRate is the flat share of the principal due each month.
var LoanMonthlyRate = decimal.NewFromFloat(0.05)

// LoanState represents where an account is in the loan lifecycle.
type LoanState string

const (
	LoanStateNone    LoanState = "NO_LOAN"
	LoanStateActive  LoanState = "ACTIVE"
	LoanStatePaidOff LoanState = "PAID_OFF"
)

// Loan is the loan sub-state embedded in an account.
// The monthly payment is LoanMonthlyRate of the original principal and never changes.
type Loan struct {
	taken       bool
	principal   decimal.Decimal
	monthsPaid  int
	totalMonths int
}

func newLoan(principal decimal.Decimal) Loan {
	return Loan{
		taken:       true,
		principal:   principal,
		monthsPaid:  0,
		totalMonths: LoanTermMonths,
	}
}

// Taken reports whether a loan was ever disbursed on the account.
func (l Loan) Taken() bool {
	return l.taken
}

// MonthlyPayment returns the flat, non-compounding installment.
func (l Loan) MonthlyPayment() decimal.Decimal {
	if !l.taken {
		return decimal.Zero
	}
	return l.principal.Mul(LoanMonthlyRate)
}

// Remaining returns max(0, principal - monthlyPayment*monthsPaid).
//
// This is the notional schedule balance. It is not reduced by true principal
// amortization, so after 12 payments of 5% it still reports 40% outstanding.
func (l Loan) Remaining() decimal.Decimal {
	if !l.taken {
		return decimal.Zero
	}
	paid := l.MonthlyPayment().Mul(decimal.NewFromInt(int64(l.monthsPaid)))
	remaining := l.principal.Sub(paid)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// State returns the loan lifecycle state.
func (l Loan) State() LoanState {
	switch {
	case !l.taken:
		return LoanStateNone
	case l.monthsPaid >= l.totalMonths:
		return LoanStatePaidOff
	default:
		return LoanStateActive
	}
}

// View returns a serializable snapshot of the loan.
func (l Loan) View() LoanView {
	return LoanView{
		Taken:          l.taken,
		State:          l.State(),
		Principal:      l.principal,
		MonthlyPayment: l.MonthlyPayment(),
		MonthsPaid:     l.monthsPaid,
		TotalMonths:    l.totalMonths,
		Remaining:      l.Remaining(),
	}
}

// LoanView is a read-only copy of an account's loan state.
type LoanView struct {
	Taken          bool            `json:"taken"`
	State          LoanState       `json:"state"`
	Principal      decimal.Decimal `json:"principal"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	MonthsPaid     int             `json:"months_paid"`
	TotalMonths    int             `json:"total_months"`
	Remaining      decimal.Decimal `json:"remaining"`
}
