package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	acctshared "github.com/ledgerdesk/ledgerdesk/internal/accounting/shared"
	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

type mockRepo struct {
	byID      map[int64]Item
	nextID    int64
	snapshots []Snapshot
	snapID    int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{byID: map[int64]Item{}, nextID: 1, snapID: 1}
}

func (m *mockRepo) List(_ context.Context) ([]Item, error) {
	out := make([]Item, 0, len(m.byID))
	for _, it := range m.byID {
		out = append(out, it)
	}
	return out, nil
}

func (m *mockRepo) ListLowStock(_ context.Context) ([]Item, error) {
	var out []Item
	for _, it := range m.byID {
		if it.LowStockLevel > 0 && it.Stock <= it.LowStockLevel {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *mockRepo) Get(_ context.Context, id int64) (Item, error) {
	it, ok := m.byID[id]
	if !ok {
		return Item{}, shared.ErrNotFound
	}
	return it, nil
}

func (m *mockRepo) Create(_ context.Context, item Item) (Item, error) {
	item.ID = m.nextID
	m.nextID++
	m.byID[item.ID] = item
	return item, nil
}

func (m *mockRepo) Update(_ context.Context, id int64, item Item) error {
	existing, ok := m.byID[id]
	if !ok {
		return shared.ErrNotFound
	}
	existing.Name = item.Name
	existing.Unit = item.Unit
	existing.PurchasePrice = item.PurchasePrice
	existing.SalePrice = item.SalePrice
	existing.LowStockLevel = item.LowStockLevel
	m.byID[id] = existing
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.byID[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *mockRepo) SnapshotAll(_ context.Context, takenAt time.Time) (int, error) {
	for id, it := range m.byID {
		m.snapshots = append(m.snapshots, Snapshot{ID: m.snapID, ItemID: id, ItemName: it.Name, Stock: it.Stock, TakenAt: takenAt})
		m.snapID++
	}
	return len(m.byID), nil
}

func (m *mockRepo) Snapshots(_ context.Context, itemID int64, _ int) ([]Snapshot, error) {
	var out []Snapshot
	for _, s := range m.snapshots {
		if s.ItemID == itemID {
			out = append(out, s)
		}
	}
	return out, nil
}

func TestCreateItemWithOpeningStock(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	item, err := svc.Create(context.Background(), ItemInput{Name: "Rice", Unit: "kg", OpeningStock: 40, PurchasePrice: 30, SalePrice: 38})
	require.NoError(t, err)
	require.Equal(t, 40.0, item.Stock)
}

func TestCreateItemRejectsNegativePrice(t *testing.T) {
	svc := NewService(newMockRepo())

	_, err := svc.Create(context.Background(), ItemInput{Name: "Rice", Unit: "kg", PurchasePrice: -1})
	var vErr *acctshared.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestUpdateItemDoesNotTouchStock(t *testing.T) {
	repo := newMockRepo()
	repo.byID[1] = Item{ID: 1, Name: "Rice", Unit: "kg", Stock: 75}
	repo.nextID = 2
	svc := NewService(repo)

	updated, err := svc.Update(context.Background(), 1, ItemInput{Name: "Basmati Rice", Unit: "kg", OpeningStock: 999})
	require.NoError(t, err)
	require.Equal(t, 75.0, updated.Stock)
}

func TestLowStockListing(t *testing.T) {
	repo := newMockRepo()
	repo.byID[1] = Item{ID: 1, Name: "Rice", Stock: 4, LowStockLevel: 5}
	repo.byID[2] = Item{ID: 2, Name: "Wheat", Stock: 50, LowStockLevel: 5}
	repo.byID[3] = Item{ID: 3, Name: "Salt", Stock: 0, LowStockLevel: 0}
	svc := NewService(repo)

	low, err := svc.ListLowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, low, 1)
	require.Equal(t, "Rice", low[0].Name)
}

func TestTakeSnapshotUsesInjectedClock(t *testing.T) {
	repo := newMockRepo()
	repo.byID[1] = Item{ID: 1, Name: "Rice", Stock: 12}
	at := time.Date(2025, 7, 14, 23, 30, 0, 0, time.UTC)
	svc := NewService(repo).WithNow(func() time.Time { return at })

	n, err := svc.TakeSnapshot(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)

	snaps, err := svc.Snapshots(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	require.Equal(t, at, snaps[0].TakenAt)
	require.Equal(t, 12.0, snaps[0].Stock)
}
