package reports

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository exposes the raw aggregates the report generators compose.
// Every query re-derives its numbers from committed rows so report
// output is reproducible from the entry log alone.
type Repository interface {
	ActiveAccountTotals(ctx context.Context, asOf *time.Time) ([]AccountTotals, error)
	SumSales(ctx context.Context, start, end time.Time) (float64, error)
	SumPurchases(ctx context.Context, start, end time.Time) (float64, error)
	SumExpenseTransactions(ctx context.Context, start, end time.Time) (float64, error)
	CashMethodReceipts(ctx context.Context, start, end time.Time) (float64, error)
	CashMethodPayments(ctx context.Context, start, end time.Time) (float64, error)
	CashMovements(ctx context.Context, start, end time.Time) ([]CashMovement, error)
	OutstandingReceivables(ctx context.Context, asOf time.Time) ([]AgingItem, error)
	OutstandingPayables(ctx context.Context, asOf time.Time) ([]AgingItem, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository builds a pgx-backed report repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) ActiveAccountTotals(ctx context.Context, asOf *time.Time) ([]AccountTotals, error) {
	const q = `SELECT a.id, a.code, a.name, a.type,
COALESCE(SUM(e.debit_amount),0), COALESCE(SUM(e.credit_amount),0)
FROM accounts a
LEFT JOIN transaction_entries e ON e.account_id = a.id
LEFT JOIN transactions t ON t.id = e.transaction_id
WHERE a.is_active AND ($1::timestamptz IS NULL OR t.date <= $1 OR t.id IS NULL)
GROUP BY a.id, a.code, a.name, a.type
ORDER BY a.code`
	rows, err := r.db.Query(ctx, q, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AccountTotals
	for rows.Next() {
		var row AccountTotals
		if err := rows.Scan(&row.AccountID, &row.Code, &row.Name, &row.Type, &row.DebitTotal, &row.CreditTotal); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *repository) sumOne(ctx context.Context, query string, args ...any) (float64, error) {
	var total float64
	err := r.db.QueryRow(ctx, query, args...).Scan(&total)
	return total, err
}

func (r *repository) SumSales(ctx context.Context, start, end time.Time) (float64, error) {
	return r.sumOne(ctx, `SELECT COALESCE(SUM(total_amount),0) FROM sales WHERE date BETWEEN $1 AND $2`, start, end)
}

func (r *repository) SumPurchases(ctx context.Context, start, end time.Time) (float64, error) {
	return r.sumOne(ctx, `SELECT COALESCE(SUM(total_amount),0) FROM purchases WHERE date BETWEEN $1 AND $2`, start, end)
}

func (r *repository) SumExpenseTransactions(ctx context.Context, start, end time.Time) (float64, error) {
	return r.sumOne(ctx, `SELECT COALESCE(SUM(amount),0) FROM transactions WHERE type='EXPENSE' AND date BETWEEN $1 AND $2`, start, end)
}

func (r *repository) CashMethodReceipts(ctx context.Context, start, end time.Time) (float64, error) {
	return r.sumOne(ctx, `SELECT COALESCE(SUM(amount),0) FROM receipts WHERE method='CASH' AND date BETWEEN $1 AND $2`, start, end)
}

func (r *repository) CashMethodPayments(ctx context.Context, start, end time.Time) (float64, error) {
	return r.sumOne(ctx, `SELECT COALESCE(SUM(amount),0) FROM payments WHERE method='CASH' AND date BETWEEN $1 AND $2`, start, end)
}

func (r *repository) CashMovements(ctx context.Context, start, end time.Time) ([]CashMovement, error) {
	const q = `SELECT description,
CASE WHEN type IN ('SALE','RECEIPT') THEN amount ELSE -amount END
FROM transactions WHERE date BETWEEN $1 AND $2 ORDER BY date`
	rows, err := r.db.Query(ctx, q, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CashMovement
	for rows.Next() {
		var m CashMovement
		if err := rows.Scan(&m.Description, &m.Amount); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *repository) OutstandingReceivables(ctx context.Context, asOf time.Time) ([]AgingItem, error) {
	const q = `SELECT s.invoice_number, c.name, s.date, s.total_amount - s.received_amount
FROM sales s JOIN customers c ON c.id = s.customer_id
WHERE s.date <= $1 AND s.total_amount - s.received_amount > 0
ORDER BY s.date`
	return r.scanAgingItems(ctx, q, asOf)
}

func (r *repository) OutstandingPayables(ctx context.Context, asOf time.Time) ([]AgingItem, error) {
	const q = `SELECT p.invoice_number, s.name, p.date, p.total_amount - p.paid_amount
FROM purchases p JOIN suppliers s ON s.id = p.supplier_id
WHERE p.date <= $1 AND p.total_amount - p.paid_amount > 0
ORDER BY p.date`
	return r.scanAgingItems(ctx, q, asOf)
}

func (r *repository) scanAgingItems(ctx context.Context, query string, asOf time.Time) ([]AgingItem, error) {
	rows, err := r.db.Query(ctx, query, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AgingItem
	for rows.Next() {
		var item AgingItem
		if err := rows.Scan(&item.Reference, &item.PartyName, &item.Date, &item.Outstanding); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
