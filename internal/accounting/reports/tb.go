package reports

import (
	"math"
	"sort"
)

// tolerance is the currency rounding slack used by all report identities.
const tolerance = 0.01

// AccountTotals carries an account's raw debit/credit aggregates.
type AccountTotals struct {
	AccountID   int64
	Code        string
	Name        string
	Type        string
	DebitTotal  float64
	CreditTotal float64
}

// TrialBalanceRow is one account's column placement in the trial balance.
type TrialBalanceRow struct {
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	DebitBalance  float64 `json:"debitBalance"`
	CreditBalance float64 `json:"creditBalance"`
}

// TrialBalance is the systemwide Σdebit=Σcredit check.
type TrialBalance struct {
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  float64           `json:"totalDebit"`
	TotalCredit float64           `json:"totalCredit"`
	IsBalanced  bool              `json:"isBalanced"`
}

// BuildTrialBalance places each account's raw (not type-signed) net on
// the debit or credit column and checks the column totals.
func BuildTrialBalance(totals []AccountTotals) TrialBalance {
	rows := make([]TrialBalanceRow, 0, len(totals))
	var tb TrialBalance
	for _, acc := range totals {
		row := TrialBalanceRow{
			Code:          acc.Code,
			Name:          acc.Name,
			Type:          acc.Type,
			DebitBalance:  math.Max(0, acc.DebitTotal-acc.CreditTotal),
			CreditBalance: math.Max(0, acc.CreditTotal-acc.DebitTotal),
		}
		rows = append(rows, row)
		tb.TotalDebit += row.DebitBalance
		tb.TotalCredit += row.CreditBalance
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Code < rows[j].Code })
	tb.Rows = rows
	tb.IsBalanced = math.Abs(tb.TotalDebit-tb.TotalCredit) < tolerance
	return tb
}
