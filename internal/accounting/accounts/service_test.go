package accounts

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerdesk/ledgerdesk/internal/accounting/shared"
)

type mockRepository struct {
	accounts map[int64]*Account
	entries  map[int64]bool
	nextID   int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		accounts: make(map[int64]*Account),
		entries:  make(map[int64]bool),
		nextID:   1,
	}
}

func (m *mockRepository) List(ctx context.Context) ([]Account, error) {
	out := make([]Account, 0, len(m.accounts))
	for _, a := range m.accounts {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (m *mockRepository) Get(ctx context.Context, id int64) (Account, error) {
	a, ok := m.accounts[id]
	if !ok {
		return Account{}, shared.ErrAccountNotFound
	}
	return *a, nil
}

func (m *mockRepository) GetByCode(ctx context.Context, code string) (Account, error) {
	for _, a := range m.accounts {
		if a.Code == code {
			return *a, nil
		}
	}
	return Account{}, shared.ErrAccountNotFound
}

func (m *mockRepository) Create(ctx context.Context, a Account) (Account, error) {
	for _, existing := range m.accounts {
		if existing.Code == a.Code {
			return Account{}, shared.ErrDuplicateCode
		}
	}
	a.ID = m.nextID
	m.nextID++
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	copied := a
	m.accounts[a.ID] = &copied
	return a, nil
}

func (m *mockRepository) Update(ctx context.Context, a Account) error {
	stored, ok := m.accounts[a.ID]
	if !ok {
		return shared.ErrAccountNotFound
	}
	for _, existing := range m.accounts {
		if existing.ID != a.ID && existing.Code == a.Code {
			return shared.ErrDuplicateCode
		}
	}
	a.CreatedAt = stored.CreatedAt
	a.UpdatedAt = time.Now()
	*stored = a
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.accounts[id]; !ok {
		return shared.ErrAccountNotFound
	}
	delete(m.accounts, id)
	return nil
}

func (m *mockRepository) Children(ctx context.Context, id int64) ([]Account, error) {
	var out []Account
	for _, a := range m.accounts {
		if a.ParentID != nil && *a.ParentID == id {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (m *mockRepository) ReparentChildrenToRoot(ctx context.Context, id int64) error {
	for _, a := range m.accounts {
		if a.ParentID != nil && *a.ParentID == id {
			a.ParentID = nil
		}
	}
	return nil
}

func (m *mockRepository) HasEntries(ctx context.Context, id int64) (bool, error) {
	return m.entries[id], nil
}

func seedAccount(t *testing.T, svc *Service, code, name string, typ AccountType, parentID *int64) Account {
	t.Helper()
	a, err := svc.Create(context.Background(), CreateAccountInput{
		Code: code, Name: name, Type: typ, ParentID: parentID,
	})
	require.NoError(t, err)
	return a
}

func TestCreateRejectsDuplicateCode(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	seedAccount(t, svc, "1000", "Cash", AccountTypeAsset, nil)

	_, err := svc.Create(context.Background(), CreateAccountInput{Code: "1000", Name: "Other", Type: AccountTypeAsset})
	assert.ErrorIs(t, err, shared.ErrDuplicateCode)
}

func TestCreateRejectsParentTypeMismatch(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	cash := seedAccount(t, svc, "1000", "Cash", AccountTypeAsset, nil)

	_, err := svc.Create(context.Background(), CreateAccountInput{
		Code: "4000", Name: "Sales", Type: AccountTypeIncome, ParentID: &cash.ID,
	})
	assert.ErrorIs(t, err, shared.ErrTypeMismatch)
}

func TestCreateRejectsUnknownType(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), CreateAccountInput{Code: "9", Name: "X", Type: "GOODWILL"})
	var vErr *shared.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestUpdateRejectsSeededAccount(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	a := seedAccount(t, svc, "1000", "Cash", AccountTypeAsset, nil)
	repo.accounts[a.ID].IsSeeded = true

	name := "Renamed"
	_, err := svc.Update(context.Background(), a.ID, UpdateAccountInput{Name: &name})
	assert.ErrorIs(t, err, shared.ErrSeededAccount)

	err = svc.Delete(context.Background(), a.ID, true)
	assert.ErrorIs(t, err, shared.ErrSeededAccount)
}

func TestUpdateRejectsCircularParent(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	root := seedAccount(t, svc, "1000", "Current Assets", AccountTypeAsset, nil)
	mid := seedAccount(t, svc, "1100", "Bank Accounts", AccountTypeAsset, &root.ID)
	leaf := seedAccount(t, svc, "1110", "Main Bank", AccountTypeAsset, &mid.ID)

	_, err := svc.Update(context.Background(), root.ID, UpdateAccountInput{ParentID: &leaf.ID})
	assert.ErrorIs(t, err, shared.ErrCircularParent)

	_, err = svc.Update(context.Background(), root.ID, UpdateAccountInput{ParentID: &root.ID})
	assert.ErrorIs(t, err, shared.ErrCircularParent)

	// Tree must remain a forest after the rejected attempt.
	stored, err := repo.Get(context.Background(), root.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.ParentID)
}

func TestUpdateTypeChangeGuards(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	parent := seedAccount(t, svc, "1000", "Assets", AccountTypeAsset, nil)
	seedAccount(t, svc, "1100", "Bank", AccountTypeAsset, &parent.ID)

	newType := AccountTypeLiability
	_, err := svc.Update(context.Background(), parent.ID, UpdateAccountInput{Type: &newType})
	assert.ErrorIs(t, err, shared.ErrTypeMismatch)

	lone := seedAccount(t, svc, "5000", "Rent", AccountTypeExpense, nil)
	repo.entries[lone.ID] = true
	asset := AccountTypeAsset
	_, err = svc.Update(context.Background(), lone.ID, UpdateAccountInput{Type: &asset})
	assert.ErrorIs(t, err, shared.ErrAccountHasEntries)
}

func TestDeleteGuards(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	parent := seedAccount(t, svc, "1000", "Assets", AccountTypeAsset, nil)
	child := seedAccount(t, svc, "1100", "Bank", AccountTypeAsset, &parent.ID)

	err := svc.Delete(context.Background(), parent.ID, false)
	assert.ErrorIs(t, err, shared.ErrAccountHasChildren)

	// Force delete re-parents children to the root but never touches
	// an account holding ledger entries.
	require.NoError(t, svc.Delete(context.Background(), parent.ID, true))
	stored, err := repo.Get(context.Background(), child.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.ParentID)

	repo.entries[child.ID] = true
	err = svc.Delete(context.Background(), child.ID, true)
	assert.ErrorIs(t, err, shared.ErrAccountHasEntries)
}

func TestChartNestsByCode(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	assets := seedAccount(t, svc, "1000", "Assets", AccountTypeAsset, nil)
	seedAccount(t, svc, "1200", "Inventory", AccountTypeAsset, &assets.ID)
	seedAccount(t, svc, "1100", "Cash", AccountTypeAsset, &assets.ID)
	seedAccount(t, svc, "2000", "Liabilities", AccountTypeLiability, nil)

	chart, err := svc.Chart(context.Background())
	require.NoError(t, err)
	require.Len(t, chart, 2)
	assert.Equal(t, "1000", chart[0].Code)
	require.Len(t, chart[0].Children, 2)
	assert.Equal(t, "1100", chart[0].Children[0].Code)
	assert.Equal(t, "1200", chart[0].Children[1].Code)
	assert.Equal(t, "2000", chart[1].Code)
}
