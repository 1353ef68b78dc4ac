package invoicing

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Counter is the persisted per-prefix sequence state.
type Counter struct {
	Prefix     string
	LastNumber int
	LastDate   time.Time
}

// Repository increments the per-prefix daily counter atomically.
// The increment and the day-reset happen in one upsert so concurrent
// callers never observe the same number.
type Repository interface {
	NextNumber(ctx context.Context, prefix string, day time.Time) (int, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository builds a pgx-backed counter repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const nextNumberSQL = `INSERT INTO invoice_counters (prefix, last_number, last_date)
VALUES ($1, 1, $2)
ON CONFLICT (prefix) DO UPDATE SET
	last_number = CASE WHEN invoice_counters.last_date = EXCLUDED.last_date
		THEN invoice_counters.last_number + 1 ELSE 1 END,
	last_date = EXCLUDED.last_date
RETURNING last_number`

func (r *repository) NextNumber(ctx context.Context, prefix string, day time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, nextNumberSQL, prefix, day).Scan(&n)
	return n, err
}

// NextNumberTx runs the same upsert inside an existing transaction so a
// document and its number commit together.
func NextNumberTx(ctx context.Context, tx pgx.Tx, prefix string, day time.Time) (int, error) {
	var n int
	err := tx.QueryRow(ctx, nextNumberSQL, prefix, day).Scan(&n)
	return n, err
}

// Format renders an invoice number like PUR-20250630-0004.
func Format(prefix string, day time.Time, n int) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, day.Format("20060102"), n)
}
