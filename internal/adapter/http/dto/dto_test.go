package dto

import (
	"encoding/json"
	"testing"
	"time"

	"bank-simulator/internal/core/domain"
	"bank-simulator/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountRequest_AcceptsNumberOrString(t *testing.T) {
	for _, body := range []string{`{"amount": 12.5}`, `{"amount": "12.50"}`} {
		var req AmountRequest
		require.NoError(t, json.Unmarshal([]byte(body), &req), body)
		assert.True(t, decimal.RequireFromString("12.5").Equal(req.Amount), body)
	}

	var missing AmountRequest
	require.NoError(t, json.Unmarshal([]byte(`{}`), &missing))
	assert.True(t, missing.Amount.IsZero())

	var bad AmountRequest
	assert.Error(t, json.Unmarshal([]byte(`{"amount": "ten"}`), &bad))
}

func TestToAccountResponse(t *testing.T) {
	minBalance := decimal.NewFromInt(100)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	v := domain.AccountView{
		Number:     101,
		Owner:      "Alice",
		TypeTag:    "Savings",
		Kind:       domain.AccountTypeSavings,
		MinBalance: &minBalance,
		Balance:    decimal.RequireFromString("475"),
		Loan: domain.LoanView{
			Taken:          true,
			State:          domain.LoanStateActive,
			Principal:      decimal.NewFromInt(500),
			MonthlyPayment: decimal.NewFromInt(25),
			MonthsPaid:     1,
			TotalMonths:    12,
			Remaining:      decimal.NewFromInt(475),
		},
		TransactionCount: 2,
		CreatedAt:        created,
	}

	resp := ToAccountResponse(v)
	assert.Equal(t, int64(101), resp.Number)
	assert.Equal(t, "Savings", resp.Type)
	assert.Equal(t, "SAVINGS", resp.Kind)
	require.NotNil(t, resp.MinBalance)
	assert.Equal(t, "100.00", *resp.MinBalance)
	assert.Equal(t, "475.00", resp.Balance)
	assert.Equal(t, "ACTIVE", resp.Loan.State)
	assert.Equal(t, "25.00", resp.Loan.MonthlyPayment)
	assert.Equal(t, "475.00", resp.Loan.Remaining)
	assert.Equal(t, 12, resp.Loan.TotalMonths)
	assert.Equal(t, "2026-01-02T03:04:05Z", resp.CreatedAt)
}

func TestToAccountResponse_RegularHasNoMinBalance(t *testing.T) {
	resp := ToAccountResponse(domain.AccountView{Kind: domain.AccountTypeRegular})
	assert.Nil(t, resp.MinBalance)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "min_balance")
}

func TestToTransferResponse(t *testing.T) {
	from, to := int64(101), int64(102)
	res := domain.TransferResult{
		Debit: domain.Transaction{
			Sequence: 3, JournalID: 5, AccountNumber: 101,
			Kind: domain.TransactionKindTransfer, Direction: domain.DirectionDebit,
			Amount: decimal.NewFromInt(300), BalanceAfter: decimal.NewFromInt(175), Counterparty: &to,
		},
		Credit: domain.Transaction{
			Sequence: 1, JournalID: 6, AccountNumber: 102,
			Kind: domain.TransactionKindTransfer, Direction: domain.DirectionCredit,
			Amount: decimal.NewFromInt(300), BalanceAfter: decimal.NewFromInt(300), Counterparty: &from,
		},
	}

	resp := ToTransferResponse(res)
	assert.Equal(t, "DEBIT", resp.Debit.Direction)
	assert.Equal(t, "175.00", resp.Debit.BalanceAfter)
	assert.Equal(t, int64(102), *resp.Debit.Counterparty)
	assert.Equal(t, "CREDIT", resp.Credit.Direction)
	assert.Equal(t, "300.00", resp.Credit.Amount)
}

func TestToAccountResponses_EmptyListIsNotNull(t *testing.T) {
	raw, err := json.Marshal(ToAccountResponses(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"total":0}`, string(raw))
}

func TestToSummaryResponse(t *testing.T) {
	resp := ToSummaryResponse(&ports.LedgerSummary{
		Accounts:        2,
		TotalBalance:    decimal.RequireFromString("475.5"),
		LoanTakers:      1,
		ActiveLoans:     1,
		OutstandingLoan: decimal.NewFromInt(475),
		Transactions:    4,
	})
	assert.Equal(t, "475.50", resp.TotalBalance)
	assert.Equal(t, "475.00", resp.OutstandingLoan)
	assert.Equal(t, int64(4), resp.Transactions)
}
