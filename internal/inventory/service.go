package inventory

import (
	"context"
	"time"

	acctshared "github.com/ledgerdesk/ledgerdesk/internal/accounting/shared"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithNow overrides the clock, for tests.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) List(ctx context.Context) ([]Item, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListLowStock(ctx context.Context) ([]Item, error) {
	return s.repo.ListLowStock(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Item, error) {
	if id <= 0 {
		return Item{}, acctshared.NewValidationError("id", "must be positive")
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in ItemInput) (Item, error) {
	if err := validateInput(in); err != nil {
		return Item{}, err
	}
	return s.repo.Create(ctx, Item{
		Name:          in.Name,
		Unit:          in.Unit,
		Stock:         in.OpeningStock,
		PurchasePrice: in.PurchasePrice,
		SalePrice:     in.SalePrice,
		LowStockLevel: in.LowStockLevel,
	})
}

func (s *Service) Update(ctx context.Context, id int64, in ItemInput) (Item, error) {
	if err := validateInput(in); err != nil {
		return Item{}, err
	}
	err := s.repo.Update(ctx, id, Item{
		Name:          in.Name,
		Unit:          in.Unit,
		PurchasePrice: in.PurchasePrice,
		SalePrice:     in.SalePrice,
		LowStockLevel: in.LowStockLevel,
	})
	if err != nil {
		return Item{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return acctshared.NewValidationError("id", "must be positive")
	}
	return s.repo.Delete(ctx, id)
}

// TakeSnapshot records the current stock of every item. The worker runs
// this nightly; the count of captured rows is returned for logging.
func (s *Service) TakeSnapshot(ctx context.Context) (int, error) {
	return s.repo.SnapshotAll(ctx, s.now().UTC())
}

func (s *Service) Snapshots(ctx context.Context, itemID int64, limit int) ([]Snapshot, error) {
	if itemID <= 0 {
		return nil, acctshared.NewValidationError("itemId", "must be positive")
	}
	return s.repo.Snapshots(ctx, itemID, limit)
}

func validateInput(in ItemInput) error {
	if in.Name == "" {
		return acctshared.NewValidationError("name", "is required")
	}
	if in.Unit == "" {
		return acctshared.NewValidationError("unit", "is required")
	}
	if in.PurchasePrice < 0 || in.SalePrice < 0 {
		return acctshared.NewValidationError("price", "must not be negative")
	}
	if in.LowStockLevel < 0 {
		return acctshared.NewValidationError("lowStockLevel", "must not be negative")
	}
	if in.OpeningStock < 0 {
		return acctshared.NewValidationError("openingStock", "must not be negative")
	}
	return nil
}
