package domain

import (
	"testing"

	"bank-simulator/pkg/apperror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAccount(t *testing.T, number int64, balance string) *Account {
	t.Helper()
	acc, err := NewAccount(number, "Alice", "current", Regular(), dec(balance), &Counter{})
	require.NoError(t, err)
	return acc
}

func TestNewAccount_Validation(t *testing.T) {
	tests := []struct {
		name    string
		number  int64
		owner   string
		balance string
		code    string
	}{
		{"zero number", 0, "Alice", "0", "ACC_003"},
		{"negative number", -5, "Alice", "0", "ACC_003"},
		{"blank owner", 1, "   ", "0", "ACC_003"},
		{"negative balance", 1, "Alice", "-0.01", "PAY_002"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc, err := NewAccount(tt.number, tt.owner, "current", Regular(), dec(tt.balance), nil)
			assert.Nil(t, acc)
			assert.Equal(t, tt.code, apperror.CodeOf(err))
		})
	}
}

func TestNewAccount_TrimsOwner(t *testing.T) {
	acc, err := NewAccount(7, "  Bob ", " savings ", Savings(dec("100")), dec("0"), nil)
	require.NoError(t, err)
	assert.Equal(t, "Bob", acc.Owner())

	v := acc.View()
	assert.Equal(t, "savings", v.TypeTag)
	assert.Equal(t, AccountTypeSavings, v.Kind)
	require.NotNil(t, v.MinBalance)
	assert.True(t, dec("100").Equal(*v.MinBalance))
	assert.Equal(t, LoanStateNone, v.Loan.State)
}

func TestAccount_DepositThenWithdraw(t *testing.T) {
	acc := newTestAccount(t, 1, "0")

	_, err := acc.Deposit(dec("100"))
	require.NoError(t, err)
	_, err = acc.Withdraw(dec("40"))
	require.NoError(t, err)

	assert.True(t, dec("60").Equal(acc.Balance()))
	history := acc.History()
	require.Len(t, history, 2)
	assert.Equal(t, TransactionKindDeposit, history[0].Kind)
	assert.Equal(t, TransactionKindWithdrawal, history[1].Kind)
	assert.True(t, dec("60").Equal(history[1].BalanceAfter))
}

func TestAccount_InvalidAmounts(t *testing.T) {
	for _, amount := range []string{"0", "-10"} {
		t.Run(amount, func(t *testing.T) {
			acc := newTestAccount(t, 1, "50")

			_, err := acc.Deposit(dec(amount))
			assert.True(t, apperror.ErrInvalidAmount().Is(err))
			_, err = acc.Withdraw(dec(amount))
			assert.Equal(t, "PAY_002", apperror.CodeOf(err))
			_, err = acc.ApplyLoan(dec(amount))
			assert.Equal(t, "PAY_002", apperror.CodeOf(err))

			assert.True(t, dec("50").Equal(acc.Balance()))
			assert.Empty(t, acc.History())
			assert.False(t, acc.Loan().Taken())
		})
	}
}

func TestAccount_WithdrawOverBalanceLeavesStateUnchanged(t *testing.T) {
	acc := newTestAccount(t, 1, "30")

	_, err := acc.Withdraw(dec("30.01"))
	assert.Equal(t, "PAY_001", apperror.CodeOf(err))
	assert.True(t, dec("30").Equal(acc.Balance()))
	assert.Empty(t, acc.History())
}

func TestAccount_SavingsWithdrawPolicy(t *testing.T) {
	acc, err := NewAccount(2, "Carol", "savings", Savings(dec("100")), dec("500"), nil)
	require.NoError(t, err)

	_, err = acc.Withdraw(dec("450"))
	assert.Equal(t, "PAY_001", apperror.CodeOf(err))

	_, err = acc.Withdraw(dec("400"))
	require.NoError(t, err)
	assert.True(t, dec("100").Equal(acc.Balance()))

	_, err = acc.Withdraw(dec("0.01"))
	assert.Equal(t, "PAY_001", apperror.CodeOf(err))
}

func TestAccount_ApplyLoanOnlyOnce(t *testing.T) {
	acc := newTestAccount(t, 1, "1000")

	_, err := acc.ApplyLoan(dec("500"))
	require.NoError(t, err)

	_, err = acc.ApplyLoan(dec("100"))
	assert.Equal(t, "LOAN_001", apperror.CodeOf(err))
	assert.True(t, dec("500").Equal(acc.Balance()))
}

func TestAccount_ApplyLoanRequiresBalance(t *testing.T) {
	acc := newTestAccount(t, 1, "100")

	_, err := acc.ApplyLoan(dec("100.01"))
	assert.Equal(t, "PAY_001", apperror.CodeOf(err))
	assert.Equal(t, LoanStateNone, acc.LoanState())
	assert.Empty(t, acc.History())
}

func TestAccount_PayLoanWithoutLoan(t *testing.T) {
	acc := newTestAccount(t, 1, "100")

	_, err := acc.PayLoan()
	assert.Equal(t, "LOAN_002", apperror.CodeOf(err))
	assert.True(t, dec("100").Equal(acc.Balance()))
}

func TestAccount_PayLoanInsufficientBalance(t *testing.T) {
	acc := newTestAccount(t, 1, "500")
	_, err := acc.ApplyLoan(dec("500"))
	require.NoError(t, err)

	_, err = acc.PayLoan()
	assert.Equal(t, "PAY_001", apperror.CodeOf(err))
	assert.Equal(t, 0, acc.Loan().View().MonthsPaid)
	assert.Equal(t, LoanStateActive, acc.LoanState())
}

func TestAccount_TwelvePaymentsPayOffLoan(t *testing.T) {
	acc := newTestAccount(t, 1, "1000")
	_, err := acc.ApplyLoan(dec("200"))
	require.NoError(t, err)

	for i := 1; i <= LoanTermMonths; i++ {
		tx, err := acc.PayLoan()
		require.NoError(t, err, "payment %d", i)
		assert.True(t, dec("10").Equal(tx.Amount))
	}
	assert.Equal(t, LoanStatePaidOff, acc.LoanState())
	assert.True(t, dec("680").Equal(acc.Balance()))

	before := len(acc.History())
	_, err = acc.PayLoan()
	assert.Equal(t, "LOAN_002", apperror.CodeOf(err))
	assert.True(t, dec("680").Equal(acc.Balance()))
	assert.Len(t, acc.History(), before)
	assert.Equal(t, LoanTermMonths, acc.Loan().View().MonthsPaid)

	_, err = acc.ApplyLoan(dec("10"))
	assert.Equal(t, "LOAN_001", apperror.CodeOf(err))
}

func TestAccount_TransferHalves(t *testing.T) {
	journal := &Counter{}
	src, err := NewAccount(101, "Alice", "current", Regular(), dec("100"), journal)
	require.NoError(t, err)
	dst, err := NewAccount(102, "Bob", "current", Regular(), dec("0"), journal)
	require.NoError(t, err)

	out, err := src.TransferOut(dec("70"), dst.Number())
	require.NoError(t, err)
	in, err := dst.TransferIn(dec("70"), src.Number())
	require.NoError(t, err)

	assert.Equal(t, TransactionKindTransfer, out.Kind)
	assert.Equal(t, DirectionDebit, out.Direction)
	require.NotNil(t, out.Counterparty)
	assert.Equal(t, int64(102), *out.Counterparty)

	assert.True(t, in.IsCredit())
	require.NotNil(t, in.Counterparty)
	assert.Equal(t, int64(101), *in.Counterparty)
	assert.Greater(t, in.JournalID, out.JournalID)

	srcHistory, dstHistory := src.History(), dst.History()
	require.Len(t, srcHistory, 2)
	require.Len(t, dstHistory, 2)
	assert.Equal(t, TransactionKindWithdrawal, srcHistory[0].Kind)
	assert.Nil(t, srcHistory[0].Counterparty)
	assert.Equal(t, out, srcHistory[1])
	assert.Equal(t, TransactionKindDeposit, dstHistory[0].Kind)
	assert.Equal(t, in, dstHistory[1])

	_, err = src.TransferOut(dec("30.5"), dst.Number())
	assert.Equal(t, "PAY_001", apperror.CodeOf(err))
	assert.True(t, dec("30").Equal(src.Balance()))
	assert.True(t, dec("70").Equal(dst.Balance()))
}

func TestAccount_SequenceIncreases(t *testing.T) {
	acc := newTestAccount(t, 1, "1000")
	_, _ = acc.Deposit(dec("1"))
	_, _ = acc.Withdraw(dec("5000")) // rejected, no entry
	_, _ = acc.Withdraw(dec("1"))
	_, _ = acc.ApplyLoan(dec("100"))
	_, _ = acc.PayLoan()

	history := acc.History()
	require.Len(t, history, 4)
	for i, tx := range history {
		assert.Equal(t, int64(i+1), tx.Sequence)
		assert.Equal(t, int64(1), tx.AccountNumber)
		assert.False(t, tx.BalanceAfter.IsNegative())
	}
}

func TestAccount_HistoryIsACopy(t *testing.T) {
	acc := newTestAccount(t, 1, "0")
	_, err := acc.Deposit(dec("10"))
	require.NoError(t, err)

	history := acc.History()
	history[0].Amount = decimal.NewFromInt(999)
	assert.True(t, dec("10").Equal(acc.History()[0].Amount))
}

func TestAccount_LoanScenario(t *testing.T) {
	acc := newTestAccount(t, 101, "1000")

	_, err := acc.ApplyLoan(dec("500"))
	require.NoError(t, err)
	assert.True(t, dec("500").Equal(acc.Balance()))
	assert.True(t, dec("25").Equal(acc.Loan().MonthlyPayment()))

	_, err = acc.PayLoan()
	require.NoError(t, err)
	assert.True(t, dec("475").Equal(acc.Balance()))
	assert.Equal(t, 1, acc.Loan().View().MonthsPaid)
	assert.True(t, dec("475").Equal(acc.RemainingLoan()))
}
