package expenses

import "time"

// Category groups expenses and binds them to one EXPENSE account that
// receives the debit when an expense posts.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	AccountID   int64     `json:"accountId"`
	AccountName string    `json:"accountName,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Expense is one spend record. Posting books Dr the category account,
// Cr Cash.
type Expense struct {
	ID           int64     `json:"id"`
	CategoryID   int64     `json:"categoryId"`
	CategoryName string    `json:"categoryName,omitempty"`
	Date         time.Time `json:"date"`
	Amount       float64   `json:"amount"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
