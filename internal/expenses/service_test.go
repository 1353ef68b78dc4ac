package expenses

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ledgerdesk/ledgerdesk/internal/accounting/accounts"
	"github.com/ledgerdesk/ledgerdesk/internal/accounting/ledger"
	acctshared "github.com/ledgerdesk/ledgerdesk/internal/accounting/shared"
	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

const (
	cashID = int64(1)
	rentID = int64(70)
)

type stubAccounts struct{}

func (stubAccounts) Account(code ledger.SystemCode) (int64, error) {
	if code == ledger.CodeCash {
		return cashID, nil
	}
	return 0, acctshared.ErrSystemAccountMissing
}

func (stubAccounts) SettlementAccount(ledger.PaymentMethod) (int64, error) {
	return cashID, nil
}

// chartStub only needs Get; categories never touch the rest.
type chartStub struct {
	byID map[int64]accounts.Account
}

func (c *chartStub) List(context.Context) ([]accounts.Account, error) { return nil, nil }
func (c *chartStub) Get(_ context.Context, id int64) (accounts.Account, error) {
	a, ok := c.byID[id]
	if !ok {
		return accounts.Account{}, acctshared.ErrAccountNotFound
	}
	return a, nil
}
func (c *chartStub) GetByCode(context.Context, string) (accounts.Account, error) {
	return accounts.Account{}, acctshared.ErrAccountNotFound
}
func (c *chartStub) Create(_ context.Context, a accounts.Account) (accounts.Account, error) {
	return a, nil
}
func (c *chartStub) Update(context.Context, accounts.Account) error     { return nil }
func (c *chartStub) Delete(context.Context, int64) error                { return nil }
func (c *chartStub) Children(context.Context, int64) ([]accounts.Account, error) {
	return nil, nil
}
func (c *chartStub) ReparentChildrenToRoot(context.Context, int64) error { return nil }
func (c *chartStub) HasEntries(context.Context, int64) (bool, error)     { return false, nil }

type fakeRepo struct {
	categories map[int64]Category
	expenses   map[int64]Expense
	txns       map[int64]ledger.PostingInput
	nextID     int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		categories: map[int64]Category{},
		expenses:   map[int64]Expense{},
		txns:       map[int64]ledger.PostingInput{},
		nextID:     1,
	}
}

func (f *fakeRepo) snapshot() *fakeRepo {
	c := newFakeRepo()
	c.nextID = f.nextID
	for k, v := range f.categories {
		c.categories[k] = v
	}
	for k, v := range f.expenses {
		c.expenses[k] = v
	}
	for k, v := range f.txns {
		c.txns[k] = v
	}
	return c
}

func (f *fakeRepo) restore(snap *fakeRepo) {
	f.categories = snap.categories
	f.expenses = snap.expenses
	f.txns = snap.txns
	f.nextID = snap.nextID
}

func (f *fakeRepo) ListCategories(context.Context) ([]Category, error) {
	out := make([]Category, 0, len(f.categories))
	for _, c := range f.categories {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeRepo) GetCategory(_ context.Context, id int64) (Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return Category{}, shared.ErrNotFound
	}
	return c, nil
}

func (f *fakeRepo) CreateCategory(_ context.Context, c Category) (Category, error) {
	c.ID = f.nextID
	f.nextID++
	f.categories[c.ID] = c
	return c, nil
}

func (f *fakeRepo) UpdateCategory(_ context.Context, id int64, c Category) error {
	existing, ok := f.categories[id]
	if !ok {
		return shared.ErrNotFound
	}
	existing.Name = c.Name
	existing.AccountID = c.AccountID
	f.categories[id] = existing
	return nil
}

func (f *fakeRepo) DeleteCategory(_ context.Context, id int64) error {
	if _, ok := f.categories[id]; !ok {
		return shared.ErrNotFound
	}
	delete(f.categories, id)
	return nil
}

func (f *fakeRepo) CategoryHasExpenses(_ context.Context, id int64) (bool, error) {
	for _, e := range f.expenses {
		if e.CategoryID == id {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) List(_ context.Context, _, _ *time.Time, _, _ int) ([]Expense, int, error) {
	out := make([]Expense, 0, len(f.expenses))
	for _, e := range f.expenses {
		out = append(out, e)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Get(_ context.Context, id int64) (Expense, error) {
	e, ok := f.expenses[id]
	if !ok {
		return Expense{}, shared.ErrNotFound
	}
	return e, nil
}

func (f *fakeRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	snap := f.snapshot()
	if err := fn(ctx, f); err != nil {
		f.restore(snap)
		return err
	}
	return nil
}

func (f *fakeRepo) Insert(_ context.Context, e Expense) (Expense, error) {
	e.ID = f.nextID
	f.nextID++
	f.expenses[e.ID] = e
	return e, nil
}

func (f *fakeRepo) GetForUpdate(_ context.Context, id int64) (Expense, error) {
	e, ok := f.expenses[id]
	if !ok {
		return Expense{}, shared.ErrNotFound
	}
	return e, nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.expenses[id]; !ok {
		return shared.ErrNotFound
	}
	delete(f.expenses, id)
	return nil
}

func (f *fakeRepo) PostTransaction(_ context.Context, in ledger.PostingInput) (ledger.Transaction, error) {
	if err := in.Validate(); err != nil {
		return ledger.Transaction{}, err
	}
	f.txns[*in.SourceID] = in
	return ledger.Transaction{ID: *in.SourceID}, nil
}

func (f *fakeRepo) DeleteTransactionForSource(_ context.Context, sourceID int64) error {
	if _, ok := f.txns[sourceID]; !ok {
		return acctshared.ErrTransactionMissing
	}
	delete(f.txns, sourceID)
	return nil
}

func newTestService(repo *fakeRepo) *Service {
	chart := &chartStub{byID: map[int64]accounts.Account{
		cashID: {ID: cashID, Code: "CASH", Type: accounts.AccountTypeAsset},
		rentID: {ID: rentID, Code: "RENT", Name: "Rent", Type: accounts.AccountTypeExpense},
	}}
	return NewService(repo, chart, stubAccounts{}, nil).WithNow(func() time.Time {
		return time.Date(2025, 7, 14, 9, 0, 0, 0, time.UTC)
	})
}

func TestCreateCategoryRequiresExpenseAccount(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.CreateCategory(context.Background(), CategoryInput{Name: "Rent", AccountID: cashID})
	require.True(t, errors.Is(err, acctshared.ErrTypeMismatch))

	category, err := svc.CreateCategory(context.Background(), CategoryInput{Name: "Rent", AccountID: rentID})
	require.NoError(t, err)
	require.Equal(t, rentID, category.AccountID)
}

func TestCreateExpensePostsAgainstCategoryAccount(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	category, err := svc.CreateCategory(context.Background(), CategoryInput{Name: "Rent", AccountID: rentID})
	require.NoError(t, err)

	expense, err := svc.Create(context.Background(), CreateExpenseInput{
		CategoryID:  category.ID,
		Amount:      1200,
		Description: "July rent",
	})
	require.NoError(t, err)

	posted := repo.txns[expense.ID]
	require.Equal(t, ledger.TransactionTypeExpense, posted.Type)
	require.Len(t, posted.Entries, 2)
	var debit, credit ledger.EntryInput
	for _, e := range posted.Entries {
		if e.Debit > 0 {
			debit = e
		} else {
			credit = e
		}
	}
	require.Equal(t, rentID, debit.AccountID)
	require.Equal(t, 1200.0, debit.Debit)
	require.Equal(t, cashID, credit.AccountID)
	require.Equal(t, 1200.0, credit.Credit)
}

func TestDeleteExpenseRemovesTransaction(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	category, err := svc.CreateCategory(context.Background(), CategoryInput{Name: "Rent", AccountID: rentID})
	require.NoError(t, err)
	expense, err := svc.Create(context.Background(), CreateExpenseInput{CategoryID: category.ID, Amount: 500})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), expense.ID))
	require.Empty(t, repo.expenses)
	require.Empty(t, repo.txns)
}

func TestDeleteCategoryInUse(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	category, err := svc.CreateCategory(context.Background(), CategoryInput{Name: "Rent", AccountID: rentID})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateExpenseInput{CategoryID: category.ID, Amount: 500})
	require.NoError(t, err)

	err = svc.DeleteCategory(context.Background(), category.ID)
	require.ErrorIs(t, err, ErrCategoryInUse)
}

func TestCreateExpenseRejectsNonPositiveAmount(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.Create(context.Background(), CreateExpenseInput{CategoryID: 1, Amount: 0})
	var vErr *acctshared.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "amount", vErr.Field)
}
