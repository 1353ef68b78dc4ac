package purchases

import (
	"time"

	"github.com/ledgerdesk/ledgerdesk/internal/accounting/ledger"
)

// Purchase is a stock-in record. Posting it books Dr Inventory and
// Cr Accounts Payable / settlement for the paid split.
type Purchase struct {
	ID            int64                `json:"id"`
	InvoiceNumber string               `json:"invoiceNumber"`
	SupplierID    int64                `json:"supplierId"`
	SupplierName  string               `json:"supplierName,omitempty"`
	Date          time.Time            `json:"date"`
	TotalAmount   float64              `json:"totalAmount"`
	PaidAmount    float64              `json:"paidAmount"`
	Method        ledger.PaymentMethod `json:"method"`
	Notes         string               `json:"notes"`
	Lines         []Line               `json:"lines,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// Balance is the unpaid remainder.
func (p Purchase) Balance() float64 {
	return p.TotalAmount - p.PaidAmount
}

// Line is one purchased item. Weight deduction shrinks both the
// booked quantity and the line amount.
type Line struct {
	ID              int64   `json:"id"`
	PurchaseID      int64   `json:"purchaseId"`
	ItemID          int64   `json:"itemId"`
	ItemName        string  `json:"itemName,omitempty"`
	Quantity        float64 `json:"quantity"`
	WeightDeduction float64 `json:"weightDeduction"`
	UnitPrice       float64 `json:"unitPrice"`
	Amount          float64 `json:"amount"`
}

// NetQuantity is the stock movement the line causes.
func (l Line) NetQuantity() float64 {
	return l.Quantity - l.WeightDeduction
}
