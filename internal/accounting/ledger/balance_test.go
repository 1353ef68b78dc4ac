package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerdesk/ledgerdesk/internal/accounting/accounts"
)

func TestSignedBalanceConventions(t *testing.T) {
	// Debit-normal types.
	assert.Equal(t, 600.0, SignedBalance(accounts.AccountTypeAsset, 1000, 400))
	assert.Equal(t, 600.0, SignedBalance(accounts.AccountTypeExpense, 1000, 400))
	// Credit-normal types.
	assert.Equal(t, -600.0, SignedBalance(accounts.AccountTypeLiability, 1000, 400))
	assert.Equal(t, 600.0, SignedBalance(accounts.AccountTypeIncome, 400, 1000))
	assert.Equal(t, 600.0, SignedBalance(accounts.AccountTypeEquity, 400, 1000))
}

func TestBalanceLabelInvertsByType(t *testing.T) {
	assert.Equal(t, "Dr", BalanceLabel(100, accounts.AccountTypeAsset))
	assert.Equal(t, "Cr", BalanceLabel(-100, accounts.AccountTypeAsset))
	assert.Equal(t, "Dr", BalanceLabel(0, accounts.AccountTypeExpense))
	assert.Equal(t, "Cr", BalanceLabel(100, accounts.AccountTypeLiability))
	assert.Equal(t, "Dr", BalanceLabel(-100, accounts.AccountTypeLiability))
	assert.Equal(t, "Cr", BalanceLabel(0, accounts.AccountTypeIncome))
}

func day(n int) time.Time {
	return time.Date(2025, time.March, n, 0, 0, 0, 0, time.UTC)
}

func TestRunningBalanceFoldIsDeterministic(t *testing.T) {
	rows := []LedgerLine{
		{Date: day(1), TransactionID: 1, Debit: 1000},
		{Date: day(2), TransactionID: 2, Credit: 400},
		{Date: day(3), TransactionID: 3, Debit: 50},
		{Date: day(4), TransactionID: 4, Credit: 700},
	}

	first := AnnotateRunning(accounts.AccountTypeAsset, 100, rows)
	second := AnnotateRunning(accounts.AccountTypeAsset, 100, rows)
	require.Equal(t, first, second)

	assert.Equal(t, 1100.0, first[0].RunningBalance)
	assert.Equal(t, 700.0, first[1].RunningBalance)
	assert.Equal(t, 750.0, first[2].RunningBalance)
	assert.Equal(t, 50.0, first[3].RunningBalance)
	assert.Equal(t, "Dr", first[3].Label)

	// Final running balance equals opening + the signed aggregate.
	var debit, credit float64
	for _, r := range rows {
		debit += r.Debit
		credit += r.Credit
	}
	assert.InDelta(t, 100+SignedBalance(accounts.AccountTypeAsset, debit, credit),
		first[len(first)-1].RunningBalance, 0.01)
}

func TestRunningBalanceCreditNormal(t *testing.T) {
	rows := []LedgerLine{
		{Date: day(1), Credit: 600},
		{Date: day(2), Debit: 200},
	}
	out := AnnotateRunning(accounts.AccountTypeLiability, 0, rows)
	assert.Equal(t, 600.0, out[0].RunningBalance)
	assert.Equal(t, "Cr", out[0].Label)
	assert.Equal(t, 400.0, out[1].RunningBalance)

	// A debit-normal account reduced below zero flips the label.
	out = AnnotateRunning(accounts.AccountTypeAsset, 0, []LedgerLine{{Date: day(1), Credit: 400}})
	assert.Equal(t, -400.0, out[0].RunningBalance)
	assert.Equal(t, "Cr", out[0].Label)
}
