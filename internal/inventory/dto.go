package inventory

// ItemInput carries the editable fields of an item.
type ItemInput struct {
	Name          string  `json:"name" validate:"required"`
	Unit          string  `json:"unit" validate:"required"`
	PurchasePrice float64 `json:"purchasePrice" validate:"gte=0"`
	SalePrice     float64 `json:"salePrice" validate:"gte=0"`
	LowStockLevel float64 `json:"lowStockLevel" validate:"gte=0"`
	OpeningStock  float64 `json:"openingStock" validate:"gte=0"`
}
