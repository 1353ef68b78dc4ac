package payments

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerdesk/ledgerdesk/internal/accounting/ledger"
	"github.com/ledgerdesk/ledgerdesk/internal/partners"
	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

type Repository interface {
	ListPayments(ctx context.Context, page, limit int) ([]Payment, int, error)
	GetPayment(ctx context.Context, id int64) (Payment, error)
	ListReceipts(ctx context.Context, page, limit int) ([]Receipt, int, error)
	GetReceipt(ctx context.Context, id int64) (Receipt, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// LinkedTotals carries the locked state of a linked business record.
type LinkedTotals struct {
	Total   float64
	Settled float64
}

// TxRepository exposes the writes a settlement posting or reversal
// needs, all against one open transaction.
type TxRepository interface {
	InsertPayment(ctx context.Context, p Payment) (Payment, error)
	GetPaymentForUpdate(ctx context.Context, id int64) (Payment, error)
	DeletePayment(ctx context.Context, id int64) error
	InsertReceipt(ctx context.Context, r Receipt) (Receipt, error)
	GetReceiptForUpdate(ctx context.Context, id int64) (Receipt, error)
	DeleteReceipt(ctx context.Context, id int64) error

	PurchaseForUpdate(ctx context.Context, id int64) (LinkedTotals, error)
	AddPurchasePaid(ctx context.Context, id int64, delta float64) error
	SaleForUpdate(ctx context.Context, id int64) (LinkedTotals, error)
	AddSaleReceived(ctx context.Context, id int64, delta float64) error

	AdjustSupplierBalance(ctx context.Context, supplierID int64, delta float64) error
	AdjustCustomerBalance(ctx context.Context, customerID int64, delta float64) error
	PostTransaction(ctx context.Context, in ledger.PostingInput) (ledger.Transaction, error)
	DeleteTransactionForSource(ctx context.Context, sourceTable string, sourceID int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) ListPayments(ctx context.Context, page, limit int) ([]Payment, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM payments`).Scan(&total); err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.Query(ctx, `SELECT p.id, p.supplier_id, s.name, p.purchase_id, p.date, p.amount, p.method, p.notes, p.created_at, p.updated_at
FROM payments p JOIN suppliers s ON s.id = p.supplier_id ORDER BY p.date DESC, p.id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.SupplierID, &p.SupplierName, &p.PurchaseID, &p.Date, &p.Amount, &p.Method, &p.Notes, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *repository) GetPayment(ctx context.Context, id int64) (Payment, error) {
	var p Payment
	err := r.db.QueryRow(ctx, `SELECT p.id, p.supplier_id, s.name, p.purchase_id, p.date, p.amount, p.method, p.notes, p.created_at, p.updated_at
FROM payments p JOIN suppliers s ON s.id = p.supplier_id WHERE p.id = $1`, id).
		Scan(&p.ID, &p.SupplierID, &p.SupplierName, &p.PurchaseID, &p.Date, &p.Amount, &p.Method, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Payment{}, shared.ErrNotFound
	}
	return p, err
}

func (r *repository) ListReceipts(ctx context.Context, page, limit int) ([]Receipt, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM receipts`).Scan(&total); err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.Query(ctx, `SELECT r.id, r.customer_id, c.name, r.sale_id, r.date, r.amount, r.method, r.notes, r.created_at, r.updated_at
FROM receipts r JOIN customers c ON c.id = r.customer_id ORDER BY r.date DESC, r.id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Receipt
	for rows.Next() {
		var rec Receipt
		if err := rows.Scan(&rec.ID, &rec.CustomerID, &rec.CustomerName, &rec.SaleID, &rec.Date, &rec.Amount, &rec.Method, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, rec)
	}
	return out, total, rows.Err()
}

func (r *repository) GetReceipt(ctx context.Context, id int64) (Receipt, error) {
	var rec Receipt
	err := r.db.QueryRow(ctx, `SELECT r.id, r.customer_id, c.name, r.sale_id, r.date, r.amount, r.method, r.notes, r.created_at, r.updated_at
FROM receipts r JOIN customers c ON c.id = r.customer_id WHERE r.id = $1`, id).
		Scan(&rec.ID, &rec.CustomerID, &rec.CustomerName, &rec.SaleID, &rec.Date, &rec.Amount, &rec.Method, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Receipt{}, shared.ErrNotFound
	}
	return rec, err
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

func (r *txRepository) InsertPayment(ctx context.Context, p Payment) (Payment, error) {
	row := r.tx.QueryRow(ctx, `INSERT INTO payments (supplier_id, purchase_id, date, amount, method, notes)
VALUES ($1,$2,$3,$4,$5,$6) RETURNING id, created_at, updated_at`,
		p.SupplierID, p.PurchaseID, p.Date, p.Amount, p.Method, p.Notes)
	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return Payment{}, err
	}
	return p, nil
}

func (r *txRepository) GetPaymentForUpdate(ctx context.Context, id int64) (Payment, error) {
	var p Payment
	err := r.tx.QueryRow(ctx, `SELECT id, supplier_id, purchase_id, date, amount, method, notes, created_at, updated_at
FROM payments WHERE id = $1 FOR UPDATE`, id).
		Scan(&p.ID, &p.SupplierID, &p.PurchaseID, &p.Date, &p.Amount, &p.Method, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Payment{}, shared.ErrNotFound
	}
	return p, err
}

func (r *txRepository) DeletePayment(ctx context.Context, id int64) error {
	tag, err := r.tx.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *txRepository) InsertReceipt(ctx context.Context, rec Receipt) (Receipt, error) {
	row := r.tx.QueryRow(ctx, `INSERT INTO receipts (customer_id, sale_id, date, amount, method, notes)
VALUES ($1,$2,$3,$4,$5,$6) RETURNING id, created_at, updated_at`,
		rec.CustomerID, rec.SaleID, rec.Date, rec.Amount, rec.Method, rec.Notes)
	if err := row.Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return Receipt{}, err
	}
	return rec, nil
}

func (r *txRepository) GetReceiptForUpdate(ctx context.Context, id int64) (Receipt, error) {
	var rec Receipt
	err := r.tx.QueryRow(ctx, `SELECT id, customer_id, sale_id, date, amount, method, notes, created_at, updated_at
FROM receipts WHERE id = $1 FOR UPDATE`, id).
		Scan(&rec.ID, &rec.CustomerID, &rec.SaleID, &rec.Date, &rec.Amount, &rec.Method, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Receipt{}, shared.ErrNotFound
	}
	return rec, err
}

func (r *txRepository) DeleteReceipt(ctx context.Context, id int64) error {
	tag, err := r.tx.Exec(ctx, `DELETE FROM receipts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *txRepository) PurchaseForUpdate(ctx context.Context, id int64) (LinkedTotals, error) {
	var lt LinkedTotals
	err := r.tx.QueryRow(ctx, `SELECT total_amount, paid_amount FROM purchases WHERE id = $1 FOR UPDATE`, id).
		Scan(&lt.Total, &lt.Settled)
	if errors.Is(err, pgx.ErrNoRows) {
		return LinkedTotals{}, shared.ErrNotFound
	}
	return lt, err
}

func (r *txRepository) AddPurchasePaid(ctx context.Context, id int64, delta float64) error {
	tag, err := r.tx.Exec(ctx, `UPDATE purchases SET paid_amount = paid_amount + $1, updated_at = $2 WHERE id = $3`, delta, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *txRepository) SaleForUpdate(ctx context.Context, id int64) (LinkedTotals, error) {
	var lt LinkedTotals
	err := r.tx.QueryRow(ctx, `SELECT total_amount, received_amount FROM sales WHERE id = $1 FOR UPDATE`, id).
		Scan(&lt.Total, &lt.Settled)
	if errors.Is(err, pgx.ErrNoRows) {
		return LinkedTotals{}, shared.ErrNotFound
	}
	return lt, err
}

func (r *txRepository) AddSaleReceived(ctx context.Context, id int64, delta float64) error {
	tag, err := r.tx.Exec(ctx, `UPDATE sales SET received_amount = received_amount + $1, updated_at = $2 WHERE id = $3`, delta, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *txRepository) AdjustSupplierBalance(ctx context.Context, supplierID int64, delta float64) error {
	return partners.AdjustSupplierBalanceTx(ctx, r.tx, supplierID, delta)
}

func (r *txRepository) AdjustCustomerBalance(ctx context.Context, customerID int64, delta float64) error {
	return partners.AdjustCustomerBalanceTx(ctx, r.tx, customerID, delta)
}

func (r *txRepository) PostTransaction(ctx context.Context, in ledger.PostingInput) (ledger.Transaction, error) {
	return ledger.InsertTransactionTx(ctx, r.tx, in)
}

func (r *txRepository) DeleteTransactionForSource(ctx context.Context, sourceTable string, sourceID int64) error {
	txnID, err := ledger.FindTransactionBySourceTx(ctx, r.tx, sourceTable, sourceID)
	if err != nil {
		return err
	}
	return ledger.DeleteTransactionTx(ctx, r.tx, txnID)
}
