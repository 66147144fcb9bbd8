package sales

import "time"

// Sale represents a recorded sale of a single product.
type Sale struct {
	ID               string    `json:"id"`
	ProductID        string    `json:"product_id"`
	ProductName      string    `json:"product_name"`
	QuantitySold     int       `json:"quantity_sold"`
	CustomerName     string    `json:"customer_name"`
	SaleDate         time.Time `json:"sale_date"`
	SalespersonID    string    `json:"salesperson_id"`
	SalespersonEmail string    `json:"salesperson_email"`
	UnitPrice        float64   `json:"unit_price"`
	TotalPrice       float64   `json:"total_price"`
}

// NewSale is the sale form as submitted by a salesperson. Quantity is a
// pointer so a missing value can be told apart from zero.
type NewSale struct {
	ProductID    string `json:"product_id"`
	Quantity     *int   `json:"quantity"`
	CustomerName string `json:"customer_name"`
}

// SalesMetadata summarises a sales search.
type SalesMetadata struct {
	Quantity     int      `json:"quantity"`
	TotalUnits   int      `json:"total_units"`
	TotalRevenue float64  `json:"total_revenue"`
	Salespersons []string `json:"salespersons"`
}
