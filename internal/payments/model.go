package payments

import (
	"time"

	"github.com/ledgerdesk/ledgerdesk/internal/accounting/ledger"
)

// Payment is money out to a supplier. Posting books Dr Accounts Payable
// against Cr Cash/Bank. When linked to a purchase it raises that
// purchase's paid amount.
type Payment struct {
	ID           int64                `json:"id"`
	SupplierID   int64                `json:"supplierId"`
	SupplierName string               `json:"supplierName,omitempty"`
	PurchaseID   *int64               `json:"purchaseId,omitempty"`
	Date         time.Time            `json:"date"`
	Amount       float64              `json:"amount"`
	Method       ledger.PaymentMethod `json:"method"`
	Notes        string               `json:"notes"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
}

// Receipt is money in from a customer. Posting books Dr Cash/Bank
// against Cr Accounts Receivable. When linked to a sale it raises that
// sale's received amount.
type Receipt struct {
	ID           int64                `json:"id"`
	CustomerID   int64                `json:"customerId"`
	CustomerName string               `json:"customerName,omitempty"`
	SaleID       *int64               `json:"saleId,omitempty"`
	Date         time.Time            `json:"date"`
	Amount       float64              `json:"amount"`
	Method       ledger.PaymentMethod `json:"method"`
	Notes        string               `json:"notes"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
}
