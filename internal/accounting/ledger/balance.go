package ledger

import (
	"github.com/ledgerdesk/ledgerdesk/internal/accounting/accounts"
)

// SignedBalance applies the type-aware debit/credit convention:
// ASSET and EXPENSE accounts are debit-normal, the rest credit-normal.
func SignedBalance(t accounts.AccountType, debit, credit float64) float64 {
	if t.DebitNormal() {
		return debit - credit
	}
	return credit - debit
}

// BalanceLabel names the side a balance sits on. A non-negative balance
// on a debit-normal account reads "Dr"; the labels invert for
// credit-normal types. Pure function of (sign, type).
func BalanceLabel(amount float64, t accounts.AccountType) string {
	if t.DebitNormal() {
		if amount >= 0 {
			return "Dr"
		}
		return "Cr"
	}
	if amount >= 0 {
		return "Cr"
	}
	return "Dr"
}

// entryDelta is the signed contribution of one entry to the running balance.
func entryDelta(t accounts.AccountType, debit, credit float64) float64 {
	if t.DebitNormal() {
		return debit - credit
	}
	return credit - debit
}

// AnnotateRunning folds running balances onto date-ordered ledger rows,
// seeded at the opening balance. The fold is pure: recomputing over the
// same rows always yields identical balances.
func AnnotateRunning(t accounts.AccountType, opening float64, rows []LedgerLine) []LedgerLine {
	out := make([]LedgerLine, len(rows))
	running := opening
	for i, row := range rows {
		running += entryDelta(t, row.Debit, row.Credit)
		row.RunningBalance = running
		row.Label = BalanceLabel(running, t)
		out[i] = row
	}
	return out
}
