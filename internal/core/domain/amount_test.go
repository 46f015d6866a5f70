package domain

import (
	"testing"
	"time"

	"bank-simulator/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidAmount(t *testing.T) {
	tests := []struct {
		amount string
		want   bool
	}{
		{"0.01", true},
		{"10.5", true},
		{"10.50", true},
		{"10.500", true},
		{"1000000000000", true},
		{"1e2", true},
		{"0", false},
		{"-1", false},
		{"0.001", false},
		{"10.505", false},
		{"1000000000000.01", false},
		{"1e13", false},
		{"1e-3000000", false},
		{"1e3000000", false},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidAmount(dec(tt.amount)))
		})
	}
}

func TestAccount_RejectsOutOfBoundsAmounts(t *testing.T) {
	acc := newTestAccount(t, 1, "10.00")

	start := time.Now()
	_, err := acc.Deposit(dec("1e-3000000"))
	assert.Equal(t, "PAY_002", apperror.CodeOf(err))
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	ops := map[string]func() error{
		"deposit too precise":  func() error { _, err := acc.Deposit(dec("0.001")); return err },
		"deposit too large":    func() error { _, err := acc.Deposit(dec("1000000000000.01")); return err },
		"withdraw too precise": func() error { _, err := acc.Withdraw(dec("1.005")); return err },
		"loan too large":       func() error { _, err := acc.ApplyLoan(dec("1e15")); return err },
		"transfer too precise": func() error { _, err := acc.TransferOut(dec("0.015"), 2); return err },
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, "PAY_002", apperror.CodeOf(op()))
		})
	}

	assert.True(t, dec("10").Equal(acc.Balance()))
	assert.Empty(t, acc.History())
}

func TestNewAccount_InitialBalanceBounds(t *testing.T) {
	_, err := NewAccount(1, "Alice", "", Regular(), dec("0.005"), nil)
	assert.Equal(t, "PAY_002", apperror.CodeOf(err))

	_, err = NewAccount(1, "Alice", "", Regular(), dec("2e12"), nil)
	assert.Equal(t, "PAY_002", apperror.CodeOf(err))

	acc, err := NewAccount(1, "Alice", "", Regular(), MaxAmount, nil)
	require.NoError(t, err)
	assert.True(t, MaxAmount.Equal(acc.Balance()))
}
