package reports

import (
	"math"
	"sort"
)

// BalanceSheetAccount summarises an account for assets, liabilities, or equity.
type BalanceSheetAccount struct {
	Code    string  `json:"code"`
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
}

// BalanceSheetSection contains the accounts and total for a classification.
type BalanceSheetSection struct {
	Label    string                `json:"label"`
	Accounts []BalanceSheetAccount `json:"accounts"`
	Total    float64               `json:"total"`
}

// BalanceSheet is the structured response for the balance sheet report.
type BalanceSheet struct {
	Assets      BalanceSheetSection `json:"assets"`
	Liabilities BalanceSheetSection `json:"liabilities"`
	Equity      BalanceSheetSection `json:"equity"`
	IsBalanced  bool                `json:"isBalanced"`
}

// BuildBalanceSheet groups type-signed balances into the three sections
// and verifies Assets = Liabilities + Equity within tolerance.
func BuildBalanceSheet(totals []AccountTotals) BalanceSheet {
	assets := BalanceSheetSection{Label: "Assets"}
	liabilities := BalanceSheetSection{Label: "Liabilities"}
	equity := BalanceSheetSection{Label: "Equity"}

	var earnings float64
	for _, acc := range totals {
		switch acc.Type {
		case "ASSET":
			row := BalanceSheetAccount{Code: acc.Code, Name: acc.Name, Balance: acc.DebitTotal - acc.CreditTotal}
			assets.Accounts = append(assets.Accounts, row)
			assets.Total += row.Balance
		case "LIABILITY":
			row := BalanceSheetAccount{Code: acc.Code, Name: acc.Name, Balance: acc.CreditTotal - acc.DebitTotal}
			liabilities.Accounts = append(liabilities.Accounts, row)
			liabilities.Total += row.Balance
		case "EQUITY":
			row := BalanceSheetAccount{Code: acc.Code, Name: acc.Name, Balance: acc.CreditTotal - acc.DebitTotal}
			equity.Accounts = append(equity.Accounts, row)
			equity.Total += row.Balance
		case "INCOME":
			earnings += acc.CreditTotal - acc.DebitTotal
		case "EXPENSE":
			earnings -= acc.DebitTotal - acc.CreditTotal
		}
	}

	for _, section := range []*BalanceSheetSection{&assets, &liabilities, &equity} {
		sort.Slice(section.Accounts, func(i, j int) bool {
			return section.Accounts[i].Code < section.Accounts[j].Code
		})
	}

	// Income and expense roll up into equity as current-period
	// earnings; without this line Assets = Liabilities + Equity cannot
	// hold while the books are open.
	equity.Accounts = append(equity.Accounts, BalanceSheetAccount{Name: "Current Period Earnings", Balance: earnings})
	equity.Total += earnings

	return BalanceSheet{
		Assets:      assets,
		Liabilities: liabilities,
		Equity:      equity,
		IsBalanced:  math.Abs(assets.Total-(liabilities.Total+equity.Total)) < tolerance,
	}
}
