package expenses

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerdesk/ledgerdesk/internal/accounting/ledger"
	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

type Repository interface {
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id int64) (Category, error)
	CreateCategory(ctx context.Context, c Category) (Category, error)
	UpdateCategory(ctx context.Context, id int64, c Category) error
	DeleteCategory(ctx context.Context, id int64) error
	CategoryHasExpenses(ctx context.Context, id int64) (bool, error)

	List(ctx context.Context, from, to *time.Time, page, limit int) ([]Expense, int, error)
	Get(ctx context.Context, id int64) (Expense, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes the writes an expense posting or reversal needs.
type TxRepository interface {
	Insert(ctx context.Context, e Expense) (Expense, error)
	GetForUpdate(ctx context.Context, id int64) (Expense, error)
	Delete(ctx context.Context, id int64) error
	PostTransaction(ctx context.Context, in ledger.PostingInput) (ledger.Transaction, error)
	DeleteTransactionForSource(ctx context.Context, sourceID int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.db.Query(ctx, `SELECT c.id, c.name, c.account_id, a.name, c.created_at, c.updated_at
FROM expense_categories c JOIN accounts a ON a.id = c.account_id ORDER BY c.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.AccountID, &c.AccountName, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *repository) GetCategory(ctx context.Context, id int64) (Category, error) {
	var c Category
	err := r.db.QueryRow(ctx, `SELECT c.id, c.name, c.account_id, a.name, c.created_at, c.updated_at
FROM expense_categories c JOIN accounts a ON a.id = c.account_id WHERE c.id = $1`, id).
		Scan(&c.ID, &c.Name, &c.AccountID, &c.AccountName, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, shared.ErrNotFound
	}
	return c, err
}

func (r *repository) CreateCategory(ctx context.Context, c Category) (Category, error) {
	now := time.Now()
	err := r.db.QueryRow(ctx, `INSERT INTO expense_categories (name, account_id, created_at, updated_at)
VALUES ($1, $2, $3, $3) RETURNING id`, c.Name, c.AccountID, now).Scan(&c.ID)
	if err != nil {
		return Category{}, err
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	return c, nil
}

func (r *repository) UpdateCategory(ctx context.Context, id int64, c Category) error {
	tag, err := r.db.Exec(ctx, `UPDATE expense_categories SET name = $1, account_id = $2, updated_at = $3 WHERE id = $4`,
		c.Name, c.AccountID, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) DeleteCategory(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM expense_categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) CategoryHasExpenses(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM expenses WHERE category_id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *repository) List(ctx context.Context, from, to *time.Time, page, limit int) ([]Expense, int, error) {
	where := ` FROM expenses e JOIN expense_categories c ON c.id = e.category_id
		WHERE ($1::timestamptz IS NULL OR e.date >= $1)
		AND ($2::timestamptz IS NULL OR e.date <= $2)`
	args := []interface{}{from, to}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if offset < 0 {
		offset = 0
	}
	query := `SELECT e.id, e.category_id, c.name, e.date, e.amount, e.description, e.created_at, e.updated_at` +
		where + ` ORDER BY e.date DESC, e.id DESC LIMIT $3 OFFSET $4`
	rows, err := r.db.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Expense
	for rows.Next() {
		var e Expense
		if err := rows.Scan(&e.ID, &e.CategoryID, &e.CategoryName, &e.Date, &e.Amount, &e.Description, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Expense, error) {
	var e Expense
	err := r.db.QueryRow(ctx, `SELECT e.id, e.category_id, c.name, e.date, e.amount, e.description, e.created_at, e.updated_at
FROM expenses e JOIN expense_categories c ON c.id = e.category_id WHERE e.id = $1`, id).
		Scan(&e.ID, &e.CategoryID, &e.CategoryName, &e.Date, &e.Amount, &e.Description, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Expense{}, shared.ErrNotFound
	}
	return e, err
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

func (r *txRepository) Insert(ctx context.Context, e Expense) (Expense, error) {
	row := r.tx.QueryRow(ctx, `INSERT INTO expenses (category_id, date, amount, description)
VALUES ($1,$2,$3,$4) RETURNING id, created_at, updated_at`, e.CategoryID, e.Date, e.Amount, e.Description)
	if err := row.Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return Expense{}, err
	}
	return e, nil
}

func (r *txRepository) GetForUpdate(ctx context.Context, id int64) (Expense, error) {
	var e Expense
	err := r.tx.QueryRow(ctx, `SELECT id, category_id, date, amount, description, created_at, updated_at
FROM expenses WHERE id = $1 FOR UPDATE`, id).
		Scan(&e.ID, &e.CategoryID, &e.Date, &e.Amount, &e.Description, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Expense{}, shared.ErrNotFound
	}
	return e, err
}

func (r *txRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.tx.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *txRepository) PostTransaction(ctx context.Context, in ledger.PostingInput) (ledger.Transaction, error) {
	return ledger.InsertTransactionTx(ctx, r.tx, in)
}

func (r *txRepository) DeleteTransactionForSource(ctx context.Context, sourceID int64) error {
	txnID, err := ledger.FindTransactionBySourceTx(ctx, r.tx, "expenses", sourceID)
	if err != nil {
		return err
	}
	return ledger.DeleteTransactionTx(ctx, r.tx, txnID)
}
