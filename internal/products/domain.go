package products

import "time"

// LowStockThreshold is the stock level below which a product is flagged.
const LowStockThreshold = 10

// Product is a catalog entry with its on-hand stock.
type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SKU       string    `json:"sku"`
	Price     float64   `json:"price"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Input carries the editable fields of a product. Stock is a pointer so a
// missing value can be told apart from zero.
type Input struct {
	Name  string  `json:"name"`
	SKU   string  `json:"sku"`
	Price float64 `json:"price"`
	Stock *int    `json:"stock"`
}

// StockStatus labels a stock level.
type StockStatus string

const (
	OutOfStock StockStatus = "out_of_stock"
	LowStock   StockStatus = "low_stock"
	InStock    StockStatus = "in_stock"
)

// StatusFor classifies a stock level.
func StatusFor(stock int) StockStatus {
	switch {
	case stock <= 0:
		return OutOfStock
	case stock < LowStockThreshold:
		return LowStock
	default:
		return InStock
	}
}

// IsLowStock reports whether the product is under the threshold.
func (p *Product) IsLowStock() bool {
	return p.Stock < LowStockThreshold
}
