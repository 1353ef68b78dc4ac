package expenses

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerdesk/ledgerdesk/internal/accounting/accounts"
	"github.com/ledgerdesk/ledgerdesk/internal/accounting/ledger"
	acctshared "github.com/ledgerdesk/ledgerdesk/internal/accounting/shared"
	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

// ErrCategoryInUse blocks deleting a category that still owns expenses.
var ErrCategoryInUse = errors.New("expenses: category has expense records")

type Service struct {
	repo        Repository
	accountRepo accounts.Repository
	accounts    ledger.AccountSource
	notify      shared.ChangeNotifier
	now         func() time.Time
}

func NewService(repo Repository, accountRepo accounts.Repository, source ledger.AccountSource, notify shared.ChangeNotifier) *Service {
	if notify == nil {
		notify = shared.NopNotifier{}
	}
	return &Service{repo: repo, accountRepo: accountRepo, accounts: source, notify: notify, now: time.Now}
}

// WithNow overrides the clock, for tests.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	return s.repo.ListCategories(ctx)
}

// CreateCategory binds a category to an existing EXPENSE account.
func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (Category, error) {
	if err := in.Validate(); err != nil {
		return Category{}, err
	}
	if err := s.checkExpenseAccount(ctx, in.AccountID); err != nil {
		return Category{}, err
	}
	return s.repo.CreateCategory(ctx, Category{Name: in.Name, AccountID: in.AccountID})
}

func (s *Service) UpdateCategory(ctx context.Context, id int64, in CategoryInput) (Category, error) {
	if err := in.Validate(); err != nil {
		return Category{}, err
	}
	if err := s.checkExpenseAccount(ctx, in.AccountID); err != nil {
		return Category{}, err
	}
	if err := s.repo.UpdateCategory(ctx, id, Category{Name: in.Name, AccountID: in.AccountID}); err != nil {
		return Category{}, err
	}
	return s.repo.GetCategory(ctx, id)
}

func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	inUse, err := s.repo.CategoryHasExpenses(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return ErrCategoryInUse
	}
	return s.repo.DeleteCategory(ctx, id)
}

func (s *Service) checkExpenseAccount(ctx context.Context, accountID int64) error {
	account, err := s.accountRepo.Get(ctx, accountID)
	if err != nil {
		return err
	}
	if account.Type != accounts.AccountTypeExpense {
		return acctshared.ErrTypeMismatch
	}
	return nil
}

func (s *Service) List(ctx context.Context, from, to *time.Time, page, limit int) ([]Expense, int, error) {
	return s.repo.List(ctx, from, to, page, limit)
}

func (s *Service) Get(ctx context.Context, id int64) (Expense, error) {
	if id <= 0 {
		return Expense{}, acctshared.NewValidationError("id", "must be positive")
	}
	return s.repo.Get(ctx, id)
}

// Create records the expense and posts Dr the category's account,
// Cr Cash, atomically with the record.
func (s *Service) Create(ctx context.Context, in CreateExpenseInput) (Expense, error) {
	if err := in.Validate(); err != nil {
		return Expense{}, err
	}
	category, err := s.repo.GetCategory(ctx, in.CategoryID)
	if err != nil {
		return Expense{}, err
	}
	date := in.Date
	if date.IsZero() {
		date = s.now()
	}

	var created Expense
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		expense, err := tx.Insert(ctx, Expense{
			CategoryID:  in.CategoryID,
			Date:        date,
			Amount:      in.Amount,
			Description: in.Description,
		})
		if err != nil {
			return err
		}

		description := in.Description
		if description == "" {
			description = fmt.Sprintf("Expense: %s", category.Name)
		}
		entries, err := ledger.ExpenseEntries(s.accounts, in.Amount, category.AccountID, description)
		if err != nil {
			return err
		}
		if _, err := tx.PostTransaction(ctx, ledger.PostingInput{
			Type:        ledger.TransactionTypeExpense,
			Date:        date,
			Amount:      in.Amount,
			Description: description,
			Reference:   uuid.New(),
			SourceTable: "expenses",
			SourceID:    &expense.ID,
			Entries:     entries,
		}); err != nil {
			return err
		}

		expense.CategoryName = category.Name
		created = expense
		return nil
	})
	if err != nil {
		return Expense{}, err
	}
	s.notify.BooksChanged(ctx)
	return created, nil
}

// Delete removes the expense and its transaction in one unit.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return acctshared.NewValidationError("id", "must be positive")
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if _, err := tx.GetForUpdate(ctx, id); err != nil {
			return err
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
