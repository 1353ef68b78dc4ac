package sales

import (
	"time"

	"github.com/ledgerdesk/ledgerdesk/internal/accounting/ledger"
)

// Sale is a revenue record. Posting it books Dr Accounts Receivable
// and/or the settlement account against Cr Sales Revenue. Stock is not
// touched by sales.
type Sale struct {
	ID             int64                `json:"id"`
	InvoiceNumber  string               `json:"invoiceNumber"`
	CustomerID     int64                `json:"customerId"`
	CustomerName   string               `json:"customerName,omitempty"`
	Date           time.Time            `json:"date"`
	TotalAmount    float64              `json:"totalAmount"`
	ReceivedAmount float64              `json:"receivedAmount"`
	Method         ledger.PaymentMethod `json:"method"`
	Notes          string               `json:"notes"`
	Lines          []Line               `json:"lines,omitempty"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
}

// Balance is the uncollected remainder.
func (s Sale) Balance() float64 {
	return s.TotalAmount - s.ReceivedAmount
}

// Line is one sold item.
type Line struct {
	ID        int64   `json:"id"`
	SaleID    int64   `json:"saleId"`
	ItemID    int64   `json:"itemId"`
	ItemName  string  `json:"itemName,omitempty"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Amount    float64 `json:"amount"`
}
