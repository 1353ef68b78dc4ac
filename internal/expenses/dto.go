package expenses

import (
	"time"

	"github.com/ledgerdesk/ledgerdesk/internal/accounting/shared"
)

// CategoryInput carries the editable fields of an expense category.
type CategoryInput struct {
	Name      string `json:"name" validate:"required"`
	AccountID int64  `json:"accountId" validate:"required,gt=0"`
}

func (in CategoryInput) Validate() error {
	if in.Name == "" {
		return shared.NewValidationError("name", "is required")
	}
	if in.AccountID <= 0 {
		return shared.NewValidationError("accountId", "is required")
	}
	return nil
}

// CreateExpenseInput records one spend.
type CreateExpenseInput struct {
	CategoryID  int64     `json:"categoryId" validate:"required,gt=0"`
	Date        time.Time `json:"date"`
	Amount      float64   `json:"amount" validate:"required,gt=0"`
	Description string    `json:"description"`
}

func (in CreateExpenseInput) Validate() error {
	if in.CategoryID <= 0 {
		return shared.NewValidationError("categoryId", "is required")
	}
	if in.Amount <= 0 {
		return shared.NewValidationError("amount", "must be positive")
	}
	return nil
}
