package sales

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerdesk/ledgerdesk/internal/accounting/ledger"
	"github.com/ledgerdesk/ledgerdesk/internal/invoicing"
	"github.com/ledgerdesk/ledgerdesk/internal/partners"
	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Sale, int, error)
	Get(ctx context.Context, id int64) (Sale, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes the writes a sale posting or reversal needs.
type TxRepository interface {
	NextInvoiceNumber(ctx context.Context, prefix string, day time.Time) (string, error)
	Insert(ctx context.Context, s Sale) (Sale, error)
	InsertLines(ctx context.Context, saleID int64, lines []Line) error
	GetForUpdate(ctx context.Context, id int64) (Sale, error)
	Delete(ctx context.Context, id int64) error
	AdjustCustomerBalance(ctx context.Context, customerID int64, delta float64) error
	PostTransaction(ctx context.Context, in ledger.PostingInput) (ledger.Transaction, error)
	DeleteTransactionForSource(ctx context.Context, sourceID int64) error
}

// ListFilters narrows sale listings.
type ListFilters struct {
	CustomerID int64
	From       *time.Time
	To         *time.Time
	Page       int
	Limit      int
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const saleColumns = `s.id, s.invoice_number, s.customer_id, c.name, s.date, s.total_amount, s.received_amount, s.method, s.notes, s.created_at, s.updated_at`

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Sale, int, error) {
	where := ` FROM sales s JOIN customers c ON c.id = s.customer_id
		WHERE ($1::bigint = 0 OR s.customer_id = $1)
		AND ($2::timestamptz IS NULL OR s.date >= $2)
		AND ($3::timestamptz IS NULL OR s.date <= $3)`
	args := []interface{}{filters.CustomerID, filters.From, filters.To}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + saleColumns + where + ` ORDER BY s.date DESC, s.id DESC`
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

	var out []Sale
	for rows.Next() {
		var s Sale
		if err := rows.Scan(&s.ID, &s.InvoiceNumber, &s.CustomerID, &s.CustomerName, &s.Date, &s.TotalAmount, &s.ReceivedAmount, &s.Method, &s.Notes, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Sale, error) {
	var s Sale
	err := r.db.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales s JOIN customers c ON c.id = s.customer_id WHERE s.id = $1`, id).
		Scan(&s.ID, &s.InvoiceNumber, &s.CustomerID, &s.CustomerName, &s.Date, &s.TotalAmount, &s.ReceivedAmount, &s.Method, &s.Notes, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Sale{}, shared.ErrNotFound
	}
	if err != nil {
		return Sale{}, err
	}
	rows, err := r.db.Query(ctx, `SELECT l.id, l.sale_id, l.item_id, i.name, l.quantity, l.unit_price, l.amount
FROM sale_lines l JOIN items i ON i.id = l.item_id WHERE l.sale_id = $1 ORDER BY l.id`, id)
	if err != nil {
		return Sale{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.SaleID, &l.ItemID, &l.ItemName, &l.Quantity, &l.UnitPrice, &l.Amount); err != nil {
			return Sale{}, err
		}
		s.Lines = append(s.Lines, l)
	}
	return s, rows.Err()
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

func (r *txRepository) Insert(ctx context.Context, s Sale) (Sale, error) {
	row := r.tx.QueryRow(ctx, `INSERT INTO sales (invoice_number, customer_id, date, total_amount, received_amount, method, notes)
VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id, created_at, updated_at`,
		s.InvoiceNumber, s.CustomerID, s.Date, s.TotalAmount, s.ReceivedAmount, s.Method, s.Notes)
	if err := row.Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return Sale{}, err
	}
	return s, nil
}

func (r *txRepository) InsertLines(ctx context.Context, saleID int64, lines []Line) error {
	for _, line := range lines {
		_, err := r.tx.Exec(ctx, `INSERT INTO sale_lines (sale_id, item_id, quantity, unit_price, amount)
VALUES ($1,$2,$3,$4,$5)`, saleID, line.ItemID, line.Quantity, line.UnitPrice, line.Amount)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *txRepository) GetForUpdate(ctx context.Context, id int64) (Sale, error) {
	var s Sale
	err := r.tx.QueryRow(ctx, `SELECT id, invoice_number, customer_id, date, total_amount, received_amount, method, notes, created_at, updated_at
FROM sales WHERE id = $1 FOR UPDATE`, id).
		Scan(&s.ID, &s.InvoiceNumber, &s.CustomerID, &s.Date, &s.TotalAmount, &s.ReceivedAmount, &s.Method, &s.Notes, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Sale{}, shared.ErrNotFound
	}
	return s, err
}

func (r *txRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.tx.Exec(ctx, `DELETE FROM sale_lines WHERE sale_id = $1`, id); err != nil {
		return err
	}
	tag, err := r.tx.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *txRepository) AdjustCustomerBalance(ctx context.Context, customerID int64, delta float64) error {
	return partners.AdjustCustomerBalanceTx(ctx, r.tx, customerID, delta)
}

func (r *txRepository) PostTransaction(ctx context.Context, in ledger.PostingInput) (ledger.Transaction, error) {
	return ledger.InsertTransactionTx(ctx, r.tx, in)
}

func (r *txRepository) DeleteTransactionForSource(ctx context.Context, sourceID int64) error {
	txnID, err := ledger.FindTransactionBySourceTx(ctx, r.tx, "sales", sourceID)
	if err != nil {
		return err
	}
	return ledger.DeleteTransactionTx(ctx, r.tx, txnID)
}
