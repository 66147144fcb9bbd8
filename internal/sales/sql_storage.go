package sales

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"zamflow/internal/store"
)

// SQLStorage keeps sales in the sales table.
type SQLStorage struct {
	db *store.DB
}

// NewSQLStorage creates a SQLStorage on an opened database.
func NewSQLStorage(db *store.DB) *SQLStorage {
	return &SQLStorage{db: db}
}

const saleColumns = `id, product_id, product_name, quantity_sold, customer_name, sale_date,
	salesperson_id, salesperson_email, unit_price, total_price`

func (s *SQLStorage) Set(ctx context.Context, sale *Sale) error {
	if sale.ID == "" {
		return ErrEmptyID
	}
	query := s.db.Rebind(`
		INSERT INTO sales (` + saleColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			product_name = excluded.product_name,
			quantity_sold = excluded.quantity_sold,
			customer_name = excluded.customer_name,
			unit_price = excluded.unit_price,
			total_price = excluded.total_price
	`)
	_, err := s.db.ExecContext(ctx, query,
		sale.ID, sale.ProductID, sale.ProductName, sale.QuantitySold, sale.CustomerName, sale.SaleDate,
		sale.SalespersonID, sale.SalespersonEmail, sale.UnitPrice, sale.TotalPrice)
	if err != nil {
		return fmt.Errorf("failed to save sale: %w", err)
	}
	return nil
}

func (s *SQLStorage) Read(ctx context.Context, id string) (*Sale, error) {
	row := s.db.QueryRowContext(ctx, s.db.Rebind(`SELECT `+saleColumns+` FROM sales WHERE id = ?`), id)
	sale, err := scanSale(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read sale: %w", err)
	}
	return sale, nil
}

func (s *SQLStorage) GetAll(ctx context.Context) ([]*Sale, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+saleColumns+` FROM sales ORDER BY sale_date DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	defer rows.Close()

	all := make([]*Sale, 0)
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		all = append(all, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// SQLite compares timestamps as text; keep the order independent of it.
	sortNewestFirst(all)
	return all, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSale(row scanner) (*Sale, error) {
	var s Sale
	err := row.Scan(&s.ID, &s.ProductID, &s.ProductName, &s.QuantitySold, &s.CustomerName, &s.SaleDate,
		&s.SalespersonID, &s.SalespersonEmail, &s.UnitPrice, &s.TotalPrice)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
