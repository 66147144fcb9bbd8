package products

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"zamflow/internal/store"
)

// SQLStorage keeps the catalog in the products table.
type SQLStorage struct {
	db *store.DB
}

// NewSQLStorage creates a SQLStorage on an opened database.
func NewSQLStorage(db *store.DB) *SQLStorage {
	return &SQLStorage{db: db}
}

const productColumns = `id, name, sku, price, stock, created_at, updated_at`

func (s *SQLStorage) Set(ctx context.Context, p *Product) error {
	if p.ID == "" {
		return ErrEmptyID
	}
	query := s.db.Rebind(`
		INSERT INTO products (` + productColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			sku = excluded.sku,
			price = excluded.price,
			stock = excluded.stock,
			updated_at = excluded.updated_at
	`)
	_, err := s.db.ExecContext(ctx, query, p.ID, p.Name, p.SKU, p.Price, p.Stock, p.CreatedAt, p.UpdatedAt)
	if store.IsUniqueViolation(err) {
		return ErrDuplicateSKU
	}
	if err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}
	return nil
}

func (s *SQLStorage) Read(ctx context.Context, id string) (*Product, error) {
	row := s.db.QueryRowContext(ctx, s.db.Rebind(`SELECT `+productColumns+` FROM products WHERE id = ?`), id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read product: %w", err)
	}
	return p, nil
}

func (s *SQLStorage) GetAll(ctx context.Context) ([]*Product, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	all := make([]*Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		all = append(all, p)
	}
	return all, rows.Err()
}

func (s *SQLStorage) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM products WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// AdjustStock applies delta with a guarded UPDATE so concurrent sales cannot
// oversell.
func (s *SQLStorage) AdjustStock(ctx context.Context, id string, delta int) (*Product, error) {
	res, err := s.db.ExecContext(ctx,
		s.db.Rebind(`UPDATE products SET stock = stock + ? WHERE id = ? AND stock + ? >= 0`),
		delta, id, delta)
	if err != nil {
		return nil, fmt.Errorf("failed to adjust stock: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to adjust stock: %w", err)
	}

	p, err := s.Read(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, &StockError{Available: p.Stock}
	}
	return p, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (*Product, error) {
	var p Product
	if err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
