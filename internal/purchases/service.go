package purchases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerdesk/ledgerdesk/internal/accounting/ledger"
	acctshared "github.com/ledgerdesk/ledgerdesk/internal/accounting/shared"
	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

// InvoicePrefix tags purchase invoice numbers.
const InvoicePrefix = "PUR"

type Service struct {
	repo     Repository
	accounts ledger.AccountSource
	notify   shared.ChangeNotifier
	now      func() time.Time
}

func NewService(repo Repository, accounts ledger.AccountSource, notify shared.ChangeNotifier) *Service {
	if notify == nil {
		notify = shared.NopNotifier{}
	}
	return &Service{repo: repo, accounts: accounts, notify: notify, now: time.Now}
}

// WithNow overrides the clock, for tests.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Purchase, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Purchase, error) {
	if id <= 0 {
		return Purchase{}, acctshared.NewValidationError("id", "must be positive")
	}
	return s.repo.Get(ctx, id)
}

// Create records the purchase, moves stock, raises the supplier balance
// by the unpaid portion, and posts the balanced transaction. All of it
// commits or rolls back as one unit.
func (s *Service) Create(ctx context.Context, in CreatePurchaseInput) (Purchase, error) {
	total, err := in.Validate()
	if err != nil {
		return Purchase{}, err
	}
	date := in.Date
	if date.IsZero() {
		date = s.now()
	}

	var created Purchase
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
		invoice, err := tx.NextInvoiceNumber(ctx, InvoicePrefix, day)
		if err != nil {
			return err
		}

		purchase, err := tx.Insert(ctx, Purchase{
			InvoiceNumber: invoice,
			SupplierID:    in.SupplierID,
			Date:          date,
			TotalAmount:   total,
			PaidAmount:    in.PaidAmount,
			Method:        in.Method,
			Notes:         in.Notes,
		})
		if err != nil {
			return err
		}

		lines := make([]Line, 0, len(in.Lines))
		for _, l := range in.Lines {
			line := Line{
				PurchaseID:      purchase.ID,
				ItemID:          l.ItemID,
				Quantity:        l.Quantity,
				WeightDeduction: l.WeightDeduction,
				UnitPrice:       l.UnitPrice,
				Amount:          (l.Quantity - l.WeightDeduction) * l.UnitPrice,
			}
			lines = append(lines, line)
			if err := tx.AdjustStock(ctx, line.ItemID, line.NetQuantity()); err != nil {
				return err
			}
		}
		if err := tx.InsertLines(ctx, purchase.ID, lines); err != nil {
			return err
		}

		if unpaid := total - in.PaidAmount; unpaid > 0 {
			if err := tx.AdjustSupplierBalance(ctx, in.SupplierID, unpaid); err != nil {
				return err
			}
		}

		description := fmt.Sprintf("Purchase %s", invoice)
		entries, err := ledger.PurchaseEntries(s.accounts, total, in.PaidAmount, in.Method, description)
		if err != nil {
			return err
		}
		if _, err := tx.PostTransaction(ctx, ledger.PostingInput{
			Type:        ledger.TransactionTypePurchase,
			Date:        date,
			Amount:      total,
			Description: description,
			Reference:   uuid.New(),
			SourceTable: "purchases",
			SourceID:    &purchase.ID,
			Entries:     entries,
		}); err != nil {
			return err
		}

		purchase.Lines = lines
		created = purchase
		return nil
	})
	if err != nil {
		return Purchase{}, err
	}
	s.notify.BooksChanged(ctx)
	return created, nil
}

// Delete reverses the purchase: stock back out, supplier balance down
// by the still-unpaid portion, transaction and entries removed, record
// removed. The record is re-read under lock before deltas are computed.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return acctshared.NewValidationError("id", "must be positive")
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		purchase, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		lines, err := tx.Lines(ctx, id)
		if err != nil {
			return err
		}
		for _, line := range lines {
			if err := tx.AdjustStock(ctx, line.ItemID, -line.NetQuantity()); err != nil {
				return err
			}
		}
		if unpaid := purchase.Balance(); unpaid > 0 {
			if err := tx.AdjustSupplierBalance(ctx, purchase.SupplierID, -unpaid); err != nil {
				return err
			}
		}
		if err := tx.DeleteTransactionForSource(ctx, id); err != nil {
			return err
		}
		return tx.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.notify.BooksChanged(ctx)
	return nil
}
