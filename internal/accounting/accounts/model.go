package accounts

import "time"

// AccountType enumerates CoA categories.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeIncome    AccountType = "INCOME"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// Valid reports whether t is one of the five fundamental types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeIncome, AccountTypeExpense:
		return true
	}
	return false
}

// DebitNormal reports whether accounts of this type increase with debits.
func (t AccountType) DebitNormal() bool {
	return t == AccountTypeAsset || t == AccountTypeExpense
}

// Account models a chart of accounts node.
type Account struct {
	ID                 int64
	Code               string
	Name               string
	Type               AccountType
	Description        string
	ParentID           *int64
	IsActive           bool
	IsSeeded           bool
	OpeningBalance     float64
	CanDebitOnPayment  bool
	CanCreditOnReceipt bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ChartNode is an account with its children nested for tree views.
type ChartNode struct {
	Account
	Children []ChartNode
}
