package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerdesk/ledgerdesk/internal/accounting/shared"
)

// EntryInput describes one posting line.
type EntryInput struct {
	AccountID   int64
	Debit       float64
	Credit      float64
	Description string
}

// PostingInput groups fields required to create a transaction with entries.
type PostingInput struct {
	Type        TransactionType
	Date        time.Time
	Amount      float64
	Description string
	Reference   uuid.UUID
	SourceTable string
	SourceID    *int64
	Entries     []EntryInput
}

// Validate enforces the double-entry balance law before any write.
func (in PostingInput) Validate() error {
	if in.Type == "" {
		return shared.NewValidationError("type", "transaction type required")
	}
	if in.Date.IsZero() {
		return shared.NewValidationError("date", "transaction date required")
	}
	if len(in.Entries) < 2 {
		return shared.ErrTooFewEntries
	}
	var debit, credit float64
	for idx, line := range in.Entries {
		if line.AccountID == 0 {
			return shared.NewValidationError(fmt.Sprintf("entries[%d].accountId", idx), "account required")
		}
		if line.Debit < 0 || line.Credit < 0 {
			return shared.NewValidationError(fmt.Sprintf("entries[%d]", idx), "negative amount")
		}
		if line.Debit > 0 && line.Credit > 0 {
			return shared.NewValidationError(fmt.Sprintf("entries[%d]", idx), "cannot be both debit and credit")
		}
		if line.Debit == 0 && line.Credit == 0 {
			return shared.NewValidationError(fmt.Sprintf("entries[%d]", idx), "zero-value entry")
		}
		debit += line.Debit
		credit += line.Credit
	}
	if fmt.Sprintf("%.2f", debit) != fmt.Sprintf("%.2f", credit) {
		return shared.ErrUnbalanced
	}
	return nil
}
