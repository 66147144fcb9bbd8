package sales

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrNotFound is returned when a sale with the given ID is not found.
var ErrNotFound = errors.New("sale not found")

// ErrEmptyID is returned when trying to store a sale with an empty ID.
var ErrEmptyID = errors.New("empty sale ID")

// Storage is the main interface for our sales storage layer.
type Storage interface {
	Set(ctx context.Context, sale *Sale) error
	Read(ctx context.Context, id string) (*Sale, error)
	// GetAll returns every sale, newest first.
	GetAll(ctx context.Context) ([]*Sale, error)
}

// LocalStorage provides an in-memory implementation for storing sales.
type LocalStorage struct {
	mu sync.RWMutex
	m  map[string]Sale
}

// NewLocalStorage instantiates a new LocalStorage for sales with an empty map.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{
		m: map[string]Sale{},
	}
}

// Set stores a copy of sale. Returns ErrEmptyID if the sale has an empty ID.
func (l *LocalStorage) Set(_ context.Context, sale *Sale) error {
	if sale.ID == "" {
		return ErrEmptyID
	}
	l.mu.Lock()
	l.m[sale.ID] = *sale
	l.mu.Unlock()
	return nil
}

// Read retrieves a sale from the local storage by ID.
// Returns ErrNotFound if the sale is not found.
func (l *LocalStorage) Read(_ context.Context, id string) (*Sale, error) {
	l.mu.RLock()
	s, ok := l.m[id]
	l.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

// GetAll retrieves all sales from the local storage, newest first.
func (l *LocalStorage) GetAll(_ context.Context) ([]*Sale, error) {
	l.mu.RLock()
	all := make([]*Sale, 0, len(l.m))
	for _, s := range l.m {
		all = append(all, &s)
	}
	l.mu.RUnlock()

	sortNewestFirst(all)
	return all, nil
}

func sortNewestFirst(all []*Sale) {
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].SaleDate.Equal(all[j].SaleDate) {
			return all[i].ID < all[j].ID
		}
		return all[i].SaleDate.After(all[j].SaleDate)
	})
}
