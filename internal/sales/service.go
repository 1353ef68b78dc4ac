package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerdesk/ledgerdesk/internal/accounting/ledger"
	acctshared "github.com/ledgerdesk/ledgerdesk/internal/accounting/shared"
	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

// InvoicePrefix tags sale invoice numbers.
const InvoicePrefix = "SAL"

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

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Sale, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Sale, error) {
	if id <= 0 {
		return Sale{}, acctshared.NewValidationError("id", "must be positive")
	}
	return s.repo.Get(ctx, id)
}

// Create records the sale, raises the customer balance by the
// uncollected portion, and posts the balanced transaction. Item stock
// is left alone.
func (s *Service) Create(ctx context.Context, in CreateSaleInput) (Sale, error) {
	total, err := in.Validate()
	if err != nil {
		return Sale{}, err
	}
	date := in.Date
	if date.IsZero() {
		date = s.now()
	}

	var created Sale
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
		invoice, err := tx.NextInvoiceNumber(ctx, InvoicePrefix, day)
		if err != nil {
			return err
		}

		sale, err := tx.Insert(ctx, Sale{
			InvoiceNumber:  invoice,
			CustomerID:     in.CustomerID,
			Date:           date,
			TotalAmount:    total,
			ReceivedAmount: in.ReceivedAmount,
			Method:         in.Method,
			Notes:          in.Notes,
		})
		if err != nil {
			return err
		}

		lines := make([]Line, 0, len(in.Lines))
		for _, l := range in.Lines {
			lines = append(lines, Line{
				SaleID:    sale.ID,
				ItemID:    l.ItemID,
				Quantity:  l.Quantity,
				UnitPrice: l.UnitPrice,
				Amount:    l.Quantity * l.UnitPrice,
			})
		}
		if err := tx.InsertLines(ctx, sale.ID, lines); err != nil {
			return err
		}

		if owed := total - in.ReceivedAmount; owed > 0 {
			if err := tx.AdjustCustomerBalance(ctx, in.CustomerID, owed); err != nil {
				return err
			}
		}

		description := fmt.Sprintf("Sale %s", invoice)
		entries, err := ledger.SaleEntries(s.accounts, total, in.ReceivedAmount, in.Method, description)
		if err != nil {
			return err
		}
		if _, err := tx.PostTransaction(ctx, ledger.PostingInput{
			Type:        ledger.TransactionTypeSale,
			Date:        date,
			Amount:      total,
			Description: description,
			Reference:   uuid.New(),
			SourceTable: "sales",
			SourceID:    &sale.ID,
			Entries:     entries,
		}); err != nil {
			return err
		}

		sale.Lines = lines
		created = sale
		return nil
	})
	if err != nil {
		return Sale{}, err
	}
	s.notify.BooksChanged(ctx)
	return created, nil
}

// Delete reverses the sale: customer balance down by the uncollected
// portion, transaction and entries removed, record removed.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return acctshared.NewValidationError("id", "must be positive")
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		sale, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if owed := sale.Balance(); owed > 0 {
			if err := tx.AdjustCustomerBalance(ctx, sale.CustomerID, -owed); err != nil {
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
