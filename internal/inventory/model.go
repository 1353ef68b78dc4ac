package inventory

import "time"

// Item is a traded good tracked by quantity. Stock moves when purchase
// transactions post or reverse; sales do not touch it.
type Item struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Unit          string    `json:"unit"`
	Stock         float64   `json:"stock"`
	PurchasePrice float64   `json:"purchasePrice"`
	SalePrice     float64   `json:"salePrice"`
	LowStockLevel float64   `json:"lowStockLevel"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Snapshot is a point-in-time stock capture written by the nightly job.
type Snapshot struct {
	ID        int64     `json:"id"`
	ItemID    int64     `json:"itemId"`
	ItemName  string    `json:"itemName"`
	Stock     float64   `json:"stock"`
	TakenAt   time.Time `json:"takenAt"`
	CreatedAt time.Time `json:"createdAt"`
}
