package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

type Repository interface {
	List(ctx context.Context) ([]Item, error)
	ListLowStock(ctx context.Context) ([]Item, error)
	Get(ctx context.Context, id int64) (Item, error)
	Create(ctx context.Context, item Item) (Item, error)
	Update(ctx context.Context, id int64, item Item) error
	Delete(ctx context.Context, id int64) error
	SnapshotAll(ctx context.Context, takenAt time.Time) (int, error)
	Snapshots(ctx context.Context, itemID int64, limit int) ([]Snapshot, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const itemColumns = `id, name, unit, stock, purchase_price, sale_price, low_stock_level, created_at, updated_at`

func scanItem(row pgx.Row) (Item, error) {
	var it Item
	err := row.Scan(&it.ID, &it.Name, &it.Unit, &it.Stock, &it.PurchasePrice, &it.SalePrice, &it.LowStockLevel, &it.CreatedAt, &it.UpdatedAt)
	return it, err
}

func (r *repository) List(ctx context.Context) ([]Item, error) {
	rows, err := r.db.Query(ctx, `SELECT `+itemColumns+` FROM items ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repository) ListLowStock(ctx context.Context) ([]Item, error) {
	rows, err := r.db.Query(ctx, `SELECT `+itemColumns+` FROM items WHERE low_stock_level > 0 AND stock <= low_stock_level ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Item, error) {
	it, err := scanItem(r.db.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, shared.ErrNotFound
	}
	return it, err
}

func (r *repository) Create(ctx context.Context, item Item) (Item, error) {
	query := `INSERT INTO items (name, unit, stock, purchase_price, sale_price, low_stock_level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7) RETURNING id`
	now := time.Now()
	if err := r.db.QueryRow(ctx, query, item.Name, item.Unit, item.Stock, item.PurchasePrice, item.SalePrice, item.LowStockLevel, now).Scan(&item.ID); err != nil {
		return Item{}, err
	}
	item.CreatedAt = now
	item.UpdatedAt = now
	return item, nil
}

func (r *repository) Update(ctx context.Context, id int64, item Item) error {
	query := `UPDATE items SET name = $1, unit = $2, purchase_price = $3, sale_price = $4, low_stock_level = $5, updated_at = $6 WHERE id = $7`
	tag, err := r.db.Exec(ctx, query, item.Name, item.Unit, item.PurchasePrice, item.SalePrice, item.LowStockLevel, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SnapshotAll copies every item's current stock into inventory_snapshots.
func (r *repository) SnapshotAll(ctx context.Context, takenAt time.Time) (int, error) {
	query := `INSERT INTO inventory_snapshots (item_id, stock, taken_at, created_at)
		SELECT id, stock, $1, $2 FROM items`
	tag, err := r.db.Exec(ctx, query, takenAt, time.Now())
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *repository) Snapshots(ctx context.Context, itemID int64, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 30
	}
	query := `SELECT s.id, s.item_id, i.name, s.stock, s.taken_at, s.created_at
		FROM inventory_snapshots s
		JOIN items i ON i.id = s.item_id
		WHERE s.item_id = $1
		ORDER BY s.taken_at DESC
		LIMIT $2`
	rows, err := r.db.Query(ctx, query, itemID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var s Snapshot
		if err := rows.Scan(&s.ID, &s.ItemID, &s.ItemName, &s.Stock, &s.TakenAt, &s.CreatedAt); err != nil {
			return nil, err
		}
		snaps = append(snaps, s)
	}
	return snaps, rows.Err()
}

// AdjustStockTx shifts an item's stock by delta inside an open
// transaction. Purchases pass quantity minus weight deduction.
func AdjustStockTx(ctx context.Context, tx pgx.Tx, itemID int64, delta float64) error {
	tag, err := tx.Exec(ctx, `UPDATE items SET stock = stock + $1, updated_at = $2 WHERE id = $3`, delta, time.Now(), itemID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
