package products

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrNotFound is returned when a product with the given ID is not found.
	ErrNotFound = errors.New("product not found")
	// ErrEmptyID is returned when trying to store a product with an empty ID.
	ErrEmptyID = errors.New("empty product ID")
	// ErrInsufficientStock is returned when a decrement would drop stock below zero.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// StockError reports the stock available when a decrement was refused.
type StockError struct {
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock. available: %d", e.Available)
}

func (e *StockError) Unwrap() error {
	return ErrInsufficientStock
}

// Storage persists the product catalog.
type Storage interface {
	Set(ctx context.Context, product *Product) error
	Read(ctx context.Context, id string) (*Product, error)
	GetAll(ctx context.Context) ([]*Product, error)
	Delete(ctx context.Context, id string) error
	// AdjustStock adds delta to the stock atomically. It fails with a
	// *StockError when the result would be negative.
	AdjustStock(ctx context.Context, id string, delta int) (*Product, error)
}

// LocalStorage provides an in-memory implementation for storing products.
type LocalStorage struct {
	mu sync.RWMutex
	m  map[string]Product
}

// NewLocalStorage instantiates a new LocalStorage with an empty map.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{
		m: map[string]Product{},
	}
}

// Set stores a copy of product. Returns ErrDuplicateSKU when another product
// already holds the SKU, matching the unique index of the SQL storage.
func (l *LocalStorage) Set(_ context.Context, product *Product) error {
	if product.ID == "" {
		return ErrEmptyID
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, p := range l.m {
		if id != product.ID && strings.EqualFold(p.SKU, product.SKU) {
			return ErrDuplicateSKU
		}
	}
	l.m[product.ID] = *product
	return nil
}

func (l *LocalStorage) Read(_ context.Context, id string) (*Product, error) {
	l.mu.RLock()
	p, ok := l.m[id]
	l.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

// GetAll returns the catalog ordered by creation time.
func (l *LocalStorage) GetAll(_ context.Context) ([]*Product, error) {
	l.mu.RLock()
	all := make([]*Product, 0, len(l.m))
	for _, p := range l.m {
		all = append(all, &p)
	}
	l.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})
	return all, nil
}

func (l *LocalStorage) Delete(_ context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.m[id]; !ok {
		return ErrNotFound
	}
	delete(l.m, id)
	return nil
}

func (l *LocalStorage) AdjustStock(_ context.Context, id string, delta int) (*Product, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.m[id]
	if !ok {
		return nil, ErrNotFound
	}
	if p.Stock+delta < 0 {
		return nil, &StockError{Available: p.Stock}
	}
	p.Stock += delta
	l.m[id] = p
	return &p, nil
}
