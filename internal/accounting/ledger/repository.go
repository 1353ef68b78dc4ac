package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerdesk/ledgerdesk/internal/accounting/shared"
)

// Repository exposes read-side ledger aggregates. Balances are always
// computed from committed rows at read time, never cached in mutable
// shared state, so concurrent postings need no read locks.
type Repository interface {
	AccountTotals(ctx context.Context, accountID int64, asOf *time.Time) (debit, credit float64, err error)
	AccountEntries(ctx context.Context, accountID int64, asOf *time.Time) ([]LedgerLine, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository builds a pgx-backed ledger read repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) AccountTotals(ctx context.Context, accountID int64, asOf *time.Time) (float64, float64, error) {
	const q = `SELECT COALESCE(SUM(e.debit_amount),0), COALESCE(SUM(e.credit_amount),0)
FROM transaction_entries e
JOIN transactions t ON t.id = e.transaction_id
WHERE e.account_id = $1 AND ($2::timestamptz IS NULL OR t.date <= $2)`
	var debit, credit float64
	if err := r.db.QueryRow(ctx, q, accountID, asOf).Scan(&debit, &credit); err != nil {
		return 0, 0, err
	}
	return debit, credit, nil
}

func (r *repository) AccountEntries(ctx context.Context, accountID int64, asOf *time.Time) ([]LedgerLine, error) {
	const q = `SELECT t.date, t.id, e.description, e.debit_amount, e.credit_amount
FROM transaction_entries e
JOIN transactions t ON t.id = e.transaction_id
WHERE e.account_id = $1 AND ($2::timestamptz IS NULL OR t.date <= $2)
ORDER BY t.date ASC, t.id ASC, e.id ASC`
	rows, err := r.db.Query(ctx, q, accountID, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []LedgerLine
	for rows.Next() {
		var line LedgerLine
		if err := rows.Scan(&line.Date, &line.TransactionID, &line.Description, &line.Debit, &line.Credit); err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	return out, rows.Err()
}

// ObservePosting, when set, is called once per inserted transaction
// with its type. Wired to the Prometheus posting counter at startup.
var ObservePosting func(txType string)

// InsertTransactionTx validates in and writes the transaction with its
// entries inside the caller's transaction scope. Business record,
// side effects, and postings commit or roll back as one unit.
func InsertTransactionTx(ctx context.Context, tx pgx.Tx, in PostingInput) (Transaction, error) {
	if err := in.Validate(); err != nil {
		return Transaction{}, err
	}
	row := tx.QueryRow(ctx, `INSERT INTO transactions (type, date, amount, description, reference, source_table, source_id)
VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id, created_at`,
		in.Type, in.Date, in.Amount, in.Description, in.Reference, in.SourceTable, in.SourceID)
	txn := Transaction{
		Type:        in.Type,
		Date:        in.Date,
		Amount:      in.Amount,
		Description: in.Description,
		Reference:   in.Reference,
		SourceTable: in.SourceTable,
		SourceID:    in.SourceID,
	}
	if err := row.Scan(&txn.ID, &txn.CreatedAt); err != nil {
		return Transaction{}, err
	}
	for _, line := range in.Entries {
		var entry Entry
		err := tx.QueryRow(ctx, `INSERT INTO transaction_entries (transaction_id, account_id, debit_amount, credit_amount, description)
VALUES ($1,$2,$3,$4,$5) RETURNING id, created_at`,
			txn.ID, line.AccountID, line.Debit, line.Credit, line.Description).
			Scan(&entry.ID, &entry.CreatedAt)
		if err != nil {
			return Transaction{}, err
		}
		entry.TransactionID = txn.ID
		entry.AccountID = line.AccountID
		entry.Debit = line.Debit
		entry.Credit = line.Credit
		entry.Description = line.Description
		txn.Entries = append(txn.Entries, entry)
	}
	if ObservePosting != nil {
		ObservePosting(string(txn.Type))
	}
	return txn, nil
}

// GetTransactionTx loads the transaction a business record points at.
// A record whose transaction is gone is an inconsistency, not a no-op.
func GetTransactionTx(ctx context.Context, tx pgx.Tx, id int64) (Transaction, error) {
	var txn Transaction
	err := tx.QueryRow(ctx, `SELECT id, type, date, amount, description, reference, source_table, source_id, created_at
FROM transactions WHERE id=$1`, id).
		Scan(&txn.ID, &txn.Type, &txn.Date, &txn.Amount, &txn.Description, &txn.Reference, &txn.SourceTable, &txn.SourceID, &txn.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, shared.ErrTransactionMissing
		}
		return Transaction{}, err
	}
	return txn, nil
}

// FindTransactionBySourceTx locates the transaction posted for a
// business record. Missing means the books are inconsistent.
func FindTransactionBySourceTx(ctx context.Context, tx pgx.Tx, sourceTable string, sourceID int64) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx, `SELECT id FROM transactions WHERE source_table=$1 AND source_id=$2`, sourceTable, sourceID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, shared.ErrTransactionMissing
		}
		return 0, err
	}
	return id, nil
}

// DeleteTransactionTx removes a transaction and its entries.
func DeleteTransactionTx(ctx context.Context, tx pgx.Tx, id int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM transaction_entries WHERE transaction_id=$1`, id); err != nil {
		return err
	}
	cmd, err := tx.Exec(ctx, `DELETE FROM transactions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrTransactionMissing
	}
	return nil
}
