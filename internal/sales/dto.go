package sales

import (
	"time"

	"github.com/ledgerdesk/ledgerdesk/internal/accounting/ledger"
	"github.com/ledgerdesk/ledgerdesk/internal/accounting/shared"
)

// LineInput is one requested sale line.
type LineInput struct {
	ItemID    int64   `json:"itemId" validate:"required,gt=0"`
	Quantity  float64 `json:"quantity" validate:"required,gt=0"`
	UnitPrice float64 `json:"unitPrice" validate:"required,gt=0"`
}

// CreateSaleInput is the request payload for recording a sale.
type CreateSaleInput struct {
	CustomerID     int64                `json:"customerId" validate:"required,gt=0"`
	Date           time.Time            `json:"date"`
	ReceivedAmount float64              `json:"receivedAmount" validate:"gte=0"`
	Method         ledger.PaymentMethod `json:"method"`
	Notes          string               `json:"notes"`
	Lines          []LineInput          `json:"lines" validate:"required,min=1,dive"`
}

// Validate checks the input and returns the computed total.
func (in CreateSaleInput) Validate() (float64, error) {
	if in.CustomerID <= 0 {
		return 0, shared.NewValidationError("customerId", "is required")
	}
	if len(in.Lines) == 0 {
		return 0, shared.NewValidationError("lines", "at least one line required")
	}
	var total float64
	for _, line := range in.Lines {
		if line.ItemID <= 0 {
			return 0, shared.NewValidationError("lines", "item required")
		}
		if line.Quantity <= 0 {
			return 0, shared.NewValidationError("lines", "quantity must be positive")
		}
		if line.UnitPrice <= 0 {
			return 0, shared.NewValidationError("lines", "unit price must be positive")
		}
		total += line.Quantity * line.UnitPrice
	}
	if in.ReceivedAmount < 0 || in.ReceivedAmount > total {
		return 0, shared.NewValidationError("receivedAmount", "must be between 0 and the sale total")
	}
	if in.ReceivedAmount > 0 && !in.Method.Valid() {
		return 0, shared.NewValidationError("method", "unknown payment method")
	}
	return total, nil
}
