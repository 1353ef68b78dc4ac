package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/ledgerdesk/ledgerdesk/internal/accounting/accounts"
)

// TransactionType enumerates business events that produce postings.
type TransactionType string

const (
	TransactionTypePurchase TransactionType = "PURCHASE"
	TransactionTypeSale     TransactionType = "SALE"
	TransactionTypePayment  TransactionType = "PAYMENT"
	TransactionTypeReceipt  TransactionType = "RECEIPT"
	TransactionTypeExpense  TransactionType = "EXPENSE"
)

// PaymentMethod enumerates settlement channels.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "CASH"
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	MethodCheque       PaymentMethod = "CHEQUE"
	MethodUPI          PaymentMethod = "UPI"
	MethodCard         PaymentMethod = "CARD"
)

// Valid reports whether m is a known settlement method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodBankTransfer, MethodCheque, MethodUPI, MethodCard:
		return true
	}
	return false
}

// Transaction is one balanced accounting event.
type Transaction struct {
	ID          int64
	Type        TransactionType
	Date        time.Time
	Amount      float64
	Description string
	Reference   uuid.UUID
	SourceTable string
	SourceID    *int64
	CreatedAt   time.Time
	Entries     []Entry
}

// Entry is one debit-or-credit line against one account.
type Entry struct {
	ID            int64
	TransactionID int64
	AccountID     int64
	Debit         float64
	Credit        float64
	Description   string
	CreatedAt     time.Time
}

// BalanceSummary is the result of aggregating an account's entries.
type BalanceSummary struct {
	DebitTotal  float64              `json:"debitTotal"`
	CreditTotal float64              `json:"creditTotal"`
	Balance     float64              `json:"balance"`
	AccountType accounts.AccountType `json:"accountType"`
}

// LedgerLine is one ledger-view row annotated with the running balance.
type LedgerLine struct {
	Date           time.Time `json:"date"`
	TransactionID  int64     `json:"transactionId"`
	Description    string    `json:"description"`
	Debit          float64   `json:"debitAmount"`
	Credit         float64   `json:"creditAmount"`
	RunningBalance float64   `json:"runningBalance"`
	Label          string    `json:"label"`
}

// LedgerView is the ledger report for a single account.
type LedgerView struct {
	OpeningBalance float64              `json:"openingBalance"`
	AccountType    accounts.AccountType `json:"accountType"`
	Entries        []LedgerLine         `json:"entries"`
}
