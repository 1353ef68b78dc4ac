package ledger

import (
	"github.com/ledgerdesk/ledgerdesk/internal/accounting/shared"
)

// AccountSource resolves the fixed system accounts posting rules hit.
type AccountSource interface {
	Account(code SystemCode) (int64, error)
	SettlementAccount(method PaymentMethod) (int64, error)
}

// PurchaseEntries derives the balanced entry set for a purchase of
// totalAmount with paidAmount settled immediately via method.
// Zero-amount sides are omitted, never written as no-op entries.
func PurchaseEntries(src AccountSource, totalAmount, paidAmount float64, method PaymentMethod, description string) ([]EntryInput, error) {
	if totalAmount <= 0 {
		return nil, shared.NewValidationError("totalAmount", "must be positive")
	}
	if paidAmount < 0 || paidAmount > totalAmount {
		return nil, shared.NewValidationError("paidAmount", "must be between 0 and totalAmount")
	}
	inventoryID, err := src.Account(CodeInventory)
	if err != nil {
		return nil, err
	}
	entries := []EntryInput{
		{AccountID: inventoryID, Debit: totalAmount, Description: description},
	}
	if unpaid := totalAmount - paidAmount; unpaid > 0 {
		apID, err := src.Account(CodeAccountsPayable)
		if err != nil {
			return nil, err
		}
		entries = append(entries, EntryInput{AccountID: apID, Credit: unpaid, Description: description})
	}
	if paidAmount > 0 {
		settleID, err := src.SettlementAccount(method)
		if err != nil {
			return nil, err
		}
		entries = append(entries, EntryInput{AccountID: settleID, Credit: paidAmount, Description: description})
	}
	return entries, nil
}

// SaleEntries derives the balanced entry set for a sale of totalAmount
// with receivedAmount collected immediately via method.
func SaleEntries(src AccountSource, totalAmount, receivedAmount float64, method PaymentMethod, description string) ([]EntryInput, error) {
	if totalAmount <= 0 {
		return nil, shared.NewValidationError("totalAmount", "must be positive")
	}
	if receivedAmount < 0 || receivedAmount > totalAmount {
		return nil, shared.NewValidationError("receivedAmount", "must be between 0 and totalAmount")
	}
	var entries []EntryInput
	if outstanding := totalAmount - receivedAmount; outstanding > 0 {
		arID, err := src.Account(CodeAccountsReceivable)
		if err != nil {
			return nil, err
		}
		entries = append(entries, EntryInput{AccountID: arID, Debit: outstanding, Description: description})
	}
	if receivedAmount > 0 {
		settleID, err := src.SettlementAccount(method)
		if err != nil {
			return nil, err
		}
		entries = append(entries, EntryInput{AccountID: settleID, Debit: receivedAmount, Description: description})
	}
	revenueID, err := src.Account(CodeSalesRevenue)
	if err != nil {
		return nil, err
	}
	entries = append(entries, EntryInput{AccountID: revenueID, Credit: totalAmount, Description: description})
	return entries, nil
}

// PaymentEntries settles accounts payable via method.
func PaymentEntries(src AccountSource, amount float64, method PaymentMethod, description string) ([]EntryInput, error) {
	if amount <= 0 {
		return nil, shared.NewValidationError("amount", "must be positive")
	}
	apID, err := src.Account(CodeAccountsPayable)
	if err != nil {
		return nil, err
	}
	settleID, err := src.SettlementAccount(method)
	if err != nil {
		return nil, err
	}
	return []EntryInput{
		{AccountID: apID, Debit: amount, Description: description},
		{AccountID: settleID, Credit: amount, Description: description},
	}, nil
}

// ReceiptEntries collects accounts receivable via method.
func ReceiptEntries(src AccountSource, amount float64, method PaymentMethod, description string) ([]EntryInput, error) {
	if amount <= 0 {
		return nil, shared.NewValidationError("amount", "must be positive")
	}
	settleID, err := src.SettlementAccount(method)
	if err != nil {
		return nil, err
	}
	arID, err := src.Account(CodeAccountsReceivable)
	if err != nil {
		return nil, err
	}
	return []EntryInput{
		{AccountID: settleID, Debit: amount, Description: description},
		{AccountID: arID, Credit: amount, Description: description},
	}, nil
}

// ExpenseEntries books an expense against its category account, paid in cash.
func ExpenseEntries(src AccountSource, amount float64, expenseAccountID int64, description string) ([]EntryInput, error) {
	if amount <= 0 {
		return nil, shared.NewValidationError("amount", "must be positive")
	}
	if expenseAccountID == 0 {
		return nil, shared.NewValidationError("categoryId", "expense account required")
	}
	cashID, err := src.Account(CodeCash)
	if err != nil {
		return nil, err
	}
	return []EntryInput{
		{AccountID: expenseAccountID, Debit: amount, Description: description},
		{AccountID: cashID, Credit: amount, Description: description},
	}, nil
}
