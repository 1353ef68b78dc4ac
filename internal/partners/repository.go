package partners

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

type SupplierRepository interface {
	List(ctx context.Context, filters ListFilters) ([]Supplier, int, error)
	Get(ctx context.Context, id int64) (Supplier, error)
	Create(ctx context.Context, s Supplier) (Supplier, error)
	Update(ctx context.Context, id int64, s Supplier) error
	Delete(ctx context.Context, id int64) error
}

type CustomerRepository interface {
	List(ctx context.Context, filters ListFilters) ([]Customer, int, error)
	Get(ctx context.Context, id int64) (Customer, error)
	Create(ctx context.Context, c Customer) (Customer, error)
	Update(ctx context.Context, id int64, c Customer) error
	Delete(ctx context.Context, id int64) error
}

type supplierRepository struct {
	db *pgxpool.Pool
}

func NewSupplierRepository(db *pgxpool.Pool) SupplierRepository {
	return &supplierRepository{db: db}
}

func (r *supplierRepository) List(ctx context.Context, filters ListFilters) ([]Supplier, int, error) {
	query := `SELECT id, name, phone, address, balance, created_at, updated_at FROM suppliers WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM suppliers WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		clause := ` AND (name ILIKE $` + strconv.Itoa(argCount) + ` OR phone ILIKE $` + strconv.Itoa(argCount) + `)`
		query += clause
		countQuery += clause
		args = append(args, "%"+filters.Search+"%")
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY name ASC`
	if filters.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.Limit)

		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		offset := (filters.Page - 1) * filters.Limit
		if offset < 0 {
			offset = 0
		}
		args = append(args, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var suppliers []Supplier
	for rows.Next() {
		var s Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.Phone, &s.Address, &s.Balance, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, err
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, total, rows.Err()
}

func (r *supplierRepository) Get(ctx context.Context, id int64) (Supplier, error) {
	query := `SELECT id, name, phone, address, balance, created_at, updated_at FROM suppliers WHERE id = $1`
	var s Supplier
	err := r.db.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.Phone, &s.Address, &s.Balance, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Supplier{}, shared.ErrNotFound
	}
	return s, err
}

func (r *supplierRepository) Create(ctx context.Context, s Supplier) (Supplier, error) {
	query := `INSERT INTO suppliers (name, phone, address, balance, created_at, updated_at) VALUES ($1, $2, $3, 0, $4, $4) RETURNING id`
	now := time.Now()
	if err := r.db.QueryRow(ctx, query, s.Name, s.Phone, s.Address, now).Scan(&s.ID); err != nil {
		return Supplier{}, err
	}
	s.Balance = 0
	s.CreatedAt = now
	s.UpdatedAt = now
	return s, nil
}

func (r *supplierRepository) Update(ctx context.Context, id int64, s Supplier) error {
	query := `UPDATE suppliers SET name = $1, phone = $2, address = $3, updated_at = $4 WHERE id = $5`
	tag, err := r.db.Exec(ctx, query, s.Name, s.Phone, s.Address, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *supplierRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

type customerRepository struct {
	db *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) List(ctx context.Context, filters ListFilters) ([]Customer, int, error) {
	query := `SELECT id, name, phone, address, balance, created_at, updated_at FROM customers WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM customers WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		clause := ` AND (name ILIKE $` + strconv.Itoa(argCount) + ` OR phone ILIKE $` + strconv.Itoa(argCount) + `)`
		query += clause
		countQuery += clause
		args = append(args, "%"+filters.Search+"%")
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY name ASC`
	if filters.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.Limit)

		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		offset := (filters.Page - 1) * filters.Limit
		if offset < 0 {
			offset = 0
		}
		args = append(args, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &c.Balance, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		customers = append(customers, c)
	}
	return customers, total, rows.Err()
}

func (r *customerRepository) Get(ctx context.Context, id int64) (Customer, error) {
	query := `SELECT id, name, phone, address, balance, created_at, updated_at FROM customers WHERE id = $1`
	var c Customer
	err := r.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &c.Balance, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Customer{}, shared.ErrNotFound
	}
	return c, err
}

func (r *customerRepository) Create(ctx context.Context, c Customer) (Customer, error) {
	query := `INSERT INTO customers (name, phone, address, balance, created_at, updated_at) VALUES ($1, $2, $3, 0, $4, $4) RETURNING id`
	now := time.Now()
	if err := r.db.QueryRow(ctx, query, c.Name, c.Phone, c.Address, now).Scan(&c.ID); err != nil {
		return Customer{}, err
	}
	c.Balance = 0
	c.CreatedAt = now
	c.UpdatedAt = now
	return c, nil
}

func (r *customerRepository) Update(ctx context.Context, id int64, c Customer) error {
	query := `UPDATE customers SET name = $1, phone = $2, address = $3, updated_at = $4 WHERE id = $5`
	tag, err := r.db.Exec(ctx, query, c.Name, c.Phone, c.Address, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *customerRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// AdjustSupplierBalanceTx shifts a supplier balance by delta inside an
// open transaction. Positive delta means the business owes more.
func AdjustSupplierBalanceTx(ctx context.Context, tx pgx.Tx, id int64, delta float64) error {
	tag, err := tx.Exec(ctx, `UPDATE suppliers SET balance = balance + $1, updated_at = $2 WHERE id = $3`, delta, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// AdjustCustomerBalanceTx shifts a customer balance by delta inside an
// open transaction. Positive delta means the customer owes more.
func AdjustCustomerBalanceTx(ctx context.Context, tx pgx.Tx, id int64, delta float64) error {
	tag, err := tx.Exec(ctx, `UPDATE customers SET balance = balance + $1, updated_at = $2 WHERE id = $3`, delta, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
