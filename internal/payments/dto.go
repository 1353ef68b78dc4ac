package payments

import (
	"time"

	"github.com/ledgerdesk/ledgerdesk/internal/accounting/ledger"
	"github.com/ledgerdesk/ledgerdesk/internal/accounting/shared"
)

// CreatePaymentInput records money paid out to a supplier.
type CreatePaymentInput struct {
	SupplierID int64                `json:"supplierId" validate:"required,gt=0"`
	PurchaseID *int64               `json:"purchaseId"`
	Date       time.Time            `json:"date"`
	Amount     float64              `json:"amount" validate:"required,gt=0"`
	Method     ledger.PaymentMethod `json:"method" validate:"required"`
	Notes      string               `json:"notes"`
}

func (in CreatePaymentInput) Validate() error {
	if in.SupplierID <= 0 {
		return shared.NewValidationError("supplierId", "is required")
	}
	if in.Amount <= 0 {
		return shared.NewValidationError("amount", "must be positive")
	}
	if !in.Method.Valid() {
		return shared.NewValidationError("method", "unknown payment method")
	}
	if in.PurchaseID != nil && *in.PurchaseID <= 0 {
		return shared.NewValidationError("purchaseId", "must be positive")
	}
	return nil
}

// CreateReceiptInput records money received from a customer.
type CreateReceiptInput struct {
	CustomerID int64                `json:"customerId" validate:"required,gt=0"`
	SaleID     *int64               `json:"saleId"`
	Date       time.Time            `json:"date"`
	Amount     float64              `json:"amount" validate:"required,gt=0"`
	Method     ledger.PaymentMethod `json:"method" validate:"required"`
	Notes      string               `json:"notes"`
}

func (in CreateReceiptInput) Validate() error {
	if in.CustomerID <= 0 {
		return shared.NewValidationError("customerId", "is required")
	}
	if in.Amount <= 0 {
		return shared.NewValidationError("amount", "must be positive")
	}
	if !in.Method.Valid() {
		return shared.NewValidationError("method", "unknown payment method")
	}
	if in.SaleID != nil && *in.SaleID <= 0 {
		return shared.NewValidationError("saleId", "must be positive")
	}
	return nil
}
