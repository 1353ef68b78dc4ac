package purchases

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerdesk/ledgerdesk/internal/accounting/ledger"
	"github.com/ledgerdesk/ledgerdesk/internal/inventory"
	"github.com/ledgerdesk/ledgerdesk/internal/invoicing"
	"github.com/ledgerdesk/ledgerdesk/internal/partners"
	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Purchase, int, error)
	Get(ctx context.Context, id int64) (Purchase, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes the writes a purchase posting or reversal needs,
// all against one open transaction.
type TxRepository interface {
	NextInvoiceNumber(ctx context.Context, prefix string, day time.Time) (string, error)
	Insert(ctx context.Context, p Purchase) (Purchase, error)
	InsertLines(ctx context.Context, purchaseID int64, lines []Line) error
	GetForUpdate(ctx context.Context, id int64) (Purchase, error)
	Lines(ctx context.Context, purchaseID int64) ([]Line, error)
	Delete(ctx context.Context, id int64) error
	AdjustStock(ctx context.Context, itemID int64, delta float64) error
	AdjustSupplierBalance(ctx context.Context, supplierID int64, delta float64) error
	PostTransaction(ctx context.Context, in ledger.PostingInput) (ledger.Transaction, error)
	DeleteTransactionForSource(ctx context.Context, sourceID int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

// ListFilters narrows purchase listings.
type ListFilters struct {
	SupplierID int64
	From       *time.Time
	To         *time.Time
	Page       int
	Limit      int
}

const purchaseColumns = `p.id, p.invoice_number, p.supplier_id, s.name, p.date, p.total_amount, p.paid_amount, p.method, p.notes, p.created_at, p.updated_at`

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Purchase, int, error) {
	where := ` FROM purchases p JOIN suppliers s ON s.id = p.supplier_id
		WHERE ($1::bigint = 0 OR p.supplier_id = $1)
		AND ($2::timestamptz IS NULL OR p.date >= $2)
		AND ($3::timestamptz IS NULL OR p.date <= $3)`
	args := []interface{}{filters.SupplierID, filters.From, filters.To}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + purchaseColumns + where + ` ORDER BY p.date DESC, p.id DESC`
	if filters.Limit > 0 {
		offset := (filters.Page - 1) * filters.Limit
		if offset < 0 {
			offset = 0
		}
		query += ` LIMIT $4 OFFSET $5`
		args = append(args, filters.Limit, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Purchase
	for rows.Next() {
		var p Purchase
		if err := rows.Scan(&p.ID, &p.InvoiceNumber, &p.SupplierID, &p.SupplierName, &p.Date, &p.TotalAmount, &p.PaidAmount, &p.Method, &p.Notes, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Purchase, error) {
	var p Purchase
	err := r.db.QueryRow(ctx, `SELECT `+purchaseColumns+` FROM purchases p JOIN suppliers s ON s.id = p.supplier_id WHERE p.id = $1`, id).
		Scan(&p.ID, &p.InvoiceNumber, &p.SupplierID, &p.SupplierName, &p.Date, &p.TotalAmount, &p.PaidAmount, &p.Method, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Purchase{}, shared.ErrNotFound
	}
	if err != nil {
		return Purchase{}, err
	}
	lines, err := linesOf(ctx, r.db, p.ID)
	if err != nil {
		return Purchase{}, err
	}
	p.Lines = lines
	return p, nil
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return err
	}
	wrapper := &txRepository{tx: tx}
	if err := fn(ctx, wrapper); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) NextInvoiceNumber(ctx context.Context, prefix string, day time.Time) (string, error) {
	n, err := invoicing.NextNumberTx(ctx, r.tx, prefix, day)
	if err != nil {
		return "", err
	}
	return invoicing.Format(prefix, day, n), nil
}

func (r *txRepository) Insert(ctx context.Context, p Purchase) (Purchase, error) {
	row := r.tx.QueryRow(ctx, `INSERT INTO purchases (invoice_number, supplier_id, date, total_amount, paid_amount, method, notes)
VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id, created_at, updated_at`,
		p.InvoiceNumber, p.SupplierID, p.Date, p.TotalAmount, p.PaidAmount, p.Method, p.Notes)
	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return Purchase{}, err
	}
	return p, nil
}

func (r *txRepository) InsertLines(ctx context.Context, purchaseID int64, lines []Line) error {
	for _, line := range lines {
		_, err := r.tx.Exec(ctx, `INSERT INTO purchase_lines (purchase_id, item_id, quantity, weight_deduction, unit_price, amount)
VALUES ($1,$2,$3,$4,$5,$6)`,
			purchaseID, line.ItemID, line.Quantity, line.WeightDeduction, line.UnitPrice, line.Amount)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *txRepository) GetForUpdate(ctx context.Context, id int64) (Purchase, error) {
	var p Purchase
	err := r.tx.QueryRow(ctx, `SELECT id, invoice_number, supplier_id, date, total_amount, paid_amount, method, notes, created_at, updated_at
FROM purchases WHERE id = $1 FOR UPDATE`, id).
		Scan(&p.ID, &p.InvoiceNumber, &p.SupplierID, &p.Date, &p.TotalAmount, &p.PaidAmount, &p.Method, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Purchase{}, shared.ErrNotFound
	}
	return p, err
}

func (r *txRepository) Lines(ctx context.Context, purchaseID int64) ([]Line, error) {
	return linesOf(ctx, r.tx, purchaseID)
}

func (r *txRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.tx.Exec(ctx, `DELETE FROM purchase_lines WHERE purchase_id = $1`, id); err != nil {
		return err
	}
	tag, err := r.tx.Exec(ctx, `DELETE FROM purchases WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *txRepository) AdjustStock(ctx context.Context, itemID int64, delta float64) error {
	return inventory.AdjustStockTx(ctx, r.tx, itemID, delta)
}

func (r *txRepository) AdjustSupplierBalance(ctx context.Context, supplierID int64, delta float64) error {
	return partners.AdjustSupplierBalanceTx(ctx, r.tx, supplierID, delta)
}

func (r *txRepository) PostTransaction(ctx context.Context, in ledger.PostingInput) (ledger.Transaction, error) {
	return ledger.InsertTransactionTx(ctx, r.tx, in)
}

func (r *txRepository) DeleteTransactionForSource(ctx context.Context, sourceID int64) error {
	txnID, err := ledger.FindTransactionBySourceTx(ctx, r.tx, "purchases", sourceID)
	if err != nil {
		return err
	}
	return ledger.DeleteTransactionTx(ctx, r.tx, txnID)
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func linesOf(ctx context.Context, q queryer, purchaseID int64) ([]Line, error) {
	rows, err := q.Query(ctx, `SELECT l.id, l.purchase_id, l.item_id, i.name, l.quantity, l.weight_deduction, l.unit_price, l.amount
FROM purchase_lines l JOIN items i ON i.id = l.item_id WHERE l.purchase_id = $1 ORDER BY l.id`, purchaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.PurchaseID, &l.ItemID, &l.ItemName, &l.Quantity, &l.WeightDeduction, &l.UnitPrice, &l.Amount); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
