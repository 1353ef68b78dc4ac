package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerdesk/ledgerdesk/internal/accounting/ledger"
	acctshared "github.com/ledgerdesk/ledgerdesk/internal/accounting/shared"
	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

const settleTolerance = 0.01

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

func (s *Service) ListPayments(ctx context.Context, page, limit int) ([]Payment, int, error) {
	return s.repo.ListPayments(ctx, page, limit)
}

func (s *Service) GetPayment(ctx context.Context, id int64) (Payment, error) {
	if id <= 0 {
		return Payment{}, acctshared.NewValidationError("id", "must be positive")
	}
	return s.repo.GetPayment(ctx, id)
}

func (s *Service) ListReceipts(ctx context.Context, page, limit int) ([]Receipt, int, error) {
	return s.repo.ListReceipts(ctx, page, limit)
}

func (s *Service) GetReceipt(ctx context.Context, id int64) (Receipt, error) {
	if id <= 0 {
		return Receipt{}, acctshared.NewValidationError("id", "must be positive")
	}
	return s.repo.GetReceipt(ctx, id)
}

// CreatePayment settles supplier debt: Dr Accounts Payable, Cr the
// settlement account. A linked purchase must still owe at least the
// paid amount; its paid total and the supplier balance move together.
func (s *Service) CreatePayment(ctx context.Context, in CreatePaymentInput) (Payment, error) {
	if err := in.Validate(); err != nil {
		return Payment{}, err
	}
	date := in.Date
	if date.IsZero() {
		date = s.now()
	}

	var created Payment
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if in.PurchaseID != nil {
			linked, err := tx.PurchaseForUpdate(ctx, *in.PurchaseID)
			if err != nil {
				return err
			}
			if in.Amount > linked.Total-linked.Settled+settleTolerance {
				return acctshared.NewValidationError("amount", "exceeds the purchase balance")
			}
			if err := tx.AddPurchasePaid(ctx, *in.PurchaseID, in.Amount); err != nil {
				return err
			}
		}

		payment, err := tx.InsertPayment(ctx, Payment{
			SupplierID: in.SupplierID,
			PurchaseID: in.PurchaseID,
			Date:       date,
			Amount:     in.Amount,
			Method:     in.Method,
			Notes:      in.Notes,
		})
		if err != nil {
			return err
		}

		if err := tx.AdjustSupplierBalance(ctx, in.SupplierID, -in.Amount); err != nil {
			return err
		}

		description := fmt.Sprintf("Payment #%d", payment.ID)
		entries, err := ledger.PaymentEntries(s.accounts, in.Amount, in.Method, description)
		if err != nil {
			return err
		}
		if _, err := tx.PostTransaction(ctx, ledger.PostingInput{
			Type:        ledger.TransactionTypePayment,
			Date:        date,
			Amount:      in.Amount,
			Description: description,
			Reference:   uuid.New(),
			SourceTable: "payments",
			SourceID:    &payment.ID,
			Entries:     entries,
		}); err != nil {
			return err
		}

		created = payment
		return nil
	})
	if err != nil {
		return Payment{}, err
	}
	s.notify.BooksChanged(ctx)
	return created, nil
}

// DeletePayment reverses the settlement: supplier owes the amount
// again, a linked purchase loses the paid increment, and the posted
// transaction goes away with the record.
func (s *Service) DeletePayment(ctx context.Context, id int64) error {
	if id <= 0 {
		return acctshared.NewValidationError("id", "must be positive")
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		payment, err := tx.GetPaymentForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if payment.PurchaseID != nil {
			if err := tx.AddPurchasePaid(ctx, *payment.PurchaseID, -payment.Amount); err != nil {
				return err
			}
		}
		if err := tx.AdjustSupplierBalance(ctx, payment.SupplierID, payment.Amount); err != nil {
			return err
		}
		if err := tx.DeleteTransactionForSource(ctx, "payments", id); err != nil {
			return err
		}
		return tx.DeletePayment(ctx, id)
	})
	if err != nil {
		return err
	}
	s.notify.BooksChanged(ctx)
	return nil
}

// CreateReceipt collects customer debt: Dr the settlement account,
// Cr Accounts Receivable. A linked sale must still be owed at least
// the received amount.
func (s *Service) CreateReceipt(ctx context.Context, in CreateReceiptInput) (Receipt, error) {
	if err := in.Validate(); err != nil {
		return Receipt{}, err
	}
	date := in.Date
	if date.IsZero() {
		date = s.now()
	}

	var created Receipt
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if in.SaleID != nil {
			linked, err := tx.SaleForUpdate(ctx, *in.SaleID)
			if err != nil {
				return err
			}
			if in.Amount > linked.Total-linked.Settled+settleTolerance {
				return acctshared.NewValidationError("amount", "exceeds the sale balance")
			}
			if err := tx.AddSaleReceived(ctx, *in.SaleID, in.Amount); err != nil {
				return err
			}
		}

		receipt, err := tx.InsertReceipt(ctx, Receipt{
			CustomerID: in.CustomerID,
			SaleID:     in.SaleID,
			Date:       date,
			Amount:     in.Amount,
			Method:     in.Method,
			Notes:      in.Notes,
		})
		if err != nil {
			return err
		}

		if err := tx.AdjustCustomerBalance(ctx, in.CustomerID, -in.Amount); err != nil {
			return err
		}

		description := fmt.Sprintf("Receipt #%d", receipt.ID)
		entries, err := ledger.ReceiptEntries(s.accounts, in.Amount, in.Method, description)
		if err != nil {
			return err
		}
		if _, err := tx.PostTransaction(ctx, ledger.PostingInput{
			Type:        ledger.TransactionTypeReceipt,
			Date:        date,
			Amount:      in.Amount,
			Description: description,
			Reference:   uuid.New(),
			SourceTable: "receipts",
			SourceID:    &receipt.ID,
			Entries:     entries,
		}); err != nil {
			return err
		}

		created = receipt
		return nil
	})
	if err != nil {
		return Receipt{}, err
	}
	s.notify.BooksChanged(ctx)
	return created, nil
}

// DeleteReceipt reverses the collection.
func (s *Service) DeleteReceipt(ctx context.Context, id int64) error {
	if id <= 0 {
		return acctshared.NewValidationError("id", "must be positive")
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		receipt, err := tx.GetReceiptForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if receipt.SaleID != nil {
			if err := tx.AddSaleReceived(ctx, *receipt.SaleID, -receipt.Amount); err != nil {
				return err
			}
		}
		if err := tx.AdjustCustomerBalance(ctx, receipt.CustomerID, receipt.Amount); err != nil {
			return err
		}
		if err := tx.DeleteTransactionForSource(ctx, "receipts", id); err != nil {
			return err
		}
		return tx.DeleteReceipt(ctx, id)
	})
	if err != nil {
		return err
	}
	s.notify.BooksChanged(ctx)
	return nil
}
