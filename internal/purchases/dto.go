package purchases

import (
	"time"

	"github.com/ledgerdesk/ledgerdesk/internal/accounting/ledger"
	"github.com/ledgerdesk/ledgerdesk/internal/accounting/shared"
)

// LineInput is one requested purchase line.
type LineInput struct {
	ItemID          int64   `json:"itemId" validate:"required,gt=0"`
	Quantity        float64 `json:"quantity" validate:"required,gt=0"`
	WeightDeduction float64 `json:"weightDeduction" validate:"gte=0"`
	UnitPrice       float64 `json:"unitPrice" validate:"required,gt=0"`
}

// CreatePurchaseInput is the request payload for recording a purchase.
type CreatePurchaseInput struct {
	SupplierID int64                `json:"supplierId" validate:"required,gt=0"`
	Date       time.Time            `json:"date"`
	PaidAmount float64              `json:"paidAmount" validate:"gte=0"`
	Method     ledger.PaymentMethod `json:"method"`
	Notes      string               `json:"notes"`
	Lines      []LineInput          `json:"lines" validate:"required,min=1,dive"`
}

// Validate checks the input and returns the computed total.
func (in CreatePurchaseInput) Validate() (float64, error) {
	if in.SupplierID <= 0 {
		return 0, shared.NewValidationError("supplierId", "is required")
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
		if line.WeightDeduction < 0 || line.WeightDeduction >= line.Quantity {
			return 0, shared.NewValidationError("lines", "weight deduction must be below quantity")
		}
		if line.UnitPrice <= 0 {
			return 0, shared.NewValidationError("lines", "unit price must be positive")
		}
		total += (line.Quantity - line.WeightDeduction) * line.UnitPrice
	}
	if in.PaidAmount < 0 || in.PaidAmount > total {
		return 0, shared.NewValidationError("paidAmount", "must be between 0 and the purchase total")
	}
	if in.PaidAmount > 0 && !in.Method.Valid() {
		return 0, shared.NewValidationError("method", "unknown payment method")
	}
	return total, nil
}
