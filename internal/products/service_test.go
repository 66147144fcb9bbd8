package products

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"zamflow/internal/events"
)

func intPtr(v int) *int { return &v }

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(NewLocalStorage(), nil, zaptest.NewLogger(t))
}

func TestCreate_NormalisesInput(t *testing.T) {
	svc := newTestService(t)

	p, err := svc.Create(context.Background(), Input{Name: "  Coffee Beans ", SKU: " cb-001 ", Price: 12.5, Stock: intPtr(40)})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Coffee Beans", p.Name)
	assert.Equal(t, "CB-001", p.SKU)
	assert.Equal(t, 12.5, p.Price)
	assert.Equal(t, 40, p.Stock)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want error
	}{
		{"missing name", Input{Name: " ", SKU: "A", Price: 1, Stock: intPtr(1)}, ErrMissingFields},
		{"missing sku", Input{Name: "A", SKU: "", Price: 1, Stock: intPtr(1)}, ErrMissingFields},
		{"missing stock", Input{Name: "A", SKU: "A", Price: 1}, ErrMissingFields},
		{"zero price", Input{Name: "A", SKU: "A", Price: 0, Stock: intPtr(1)}, ErrInvalidPrice},
		{"negative price", Input{Name: "A", SKU: "A", Price: -3, Stock: intPtr(1)}, ErrInvalidPrice},
		{"negative stock", Input{Name: "A", SKU: "A", Price: 1, Stock: intPtr(-1)}, ErrNegativeStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestService(t).Create(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCreate_ZeroStockAllowed(t *testing.T) {
	p, err := newTestService(t).Create(context.Background(), Input{Name: "A", SKU: "A", Price: 1, Stock: intPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, OutOfStock, StatusFor(p.Stock))
}

func TestSKU_UniqueCaseInsensitive(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, Input{Name: "A", SKU: "abc", Price: 1, Stock: intPtr(1)})
	require.NoError(t, err)

	_, err = svc.Create(ctx, Input{Name: "B", SKU: "ABC", Price: 1, Stock: intPtr(1)})
	assert.ErrorIs(t, err, ErrDuplicateSKU)

	// Editing a product may keep its own SKU.
	updated, err := svc.Update(ctx, first.ID, Input{Name: "A2", SKU: "Abc", Price: 2, Stock: intPtr(5)})
	require.NoError(t, err)
	assert.Equal(t, "A2", updated.Name)
	assert.Equal(t, "ABC", updated.SKU)

	second, err := svc.Create(ctx, Input{Name: "B", SKU: "xyz", Price: 1, Stock: intPtr(1)})
	require.NoError(t, err)
	_, err = svc.Update(ctx, second.ID, Input{Name: "B", SKU: "abc", Price: 1, Stock: intPtr(1)})
	assert.ErrorIs(t, err, ErrDuplicateSKU)
}

func TestUpdate_NotFound(t *testing.T) {
	_, err := newTestService(t).Update(context.Background(), "missing", Input{Name: "A", SKU: "A", Price: 1, Stock: intPtr(1)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	p, err := svc.Create(ctx, Input{Name: "A", SKU: "A", Price: 1, Stock: intPtr(1)})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, p.ID))
	_, err = svc.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, p.ID), ErrNotFound)
}

func TestSetStock(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	p, err := svc.Create(ctx, Input{Name: "A", SKU: "A", Price: 1, Stock: intPtr(1)})
	require.NoError(t, err)

	_, err = svc.SetStock(ctx, p.ID, -1)
	assert.ErrorIs(t, err, ErrNegativeStock)

	got, err := svc.SetStock(ctx, p.ID, 25)
	require.NoError(t, err)
	assert.Equal(t, 25, got.Stock)
}

func TestDecrementAndRestock(t *testing.T) {
	broker := events.NewMemoryBroker()
	defer broker.Close()
	svc := NewService(NewLocalStorage(), broker, zaptest.NewLogger(t))
	ctx := context.Background()

	p, err := svc.Create(ctx, Input{Name: "A", SKU: "A", Price: 1, Stock: intPtr(5)})
	require.NoError(t, err)

	sub, cancel := broker.Subscribe(ctx)
	defer cancel()

	got, err := svc.Decrement(ctx, p.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stock)
	ev := <-sub
	assert.Equal(t, events.Products, ev.Collection)
	assert.Equal(t, events.Updated, ev.Type)

	_, err = svc.Decrement(ctx, p.ID, 3)
	require.ErrorIs(t, err, ErrInsufficientStock)
	var stockErr *StockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 2, stockErr.Available)

	_, err = svc.Decrement(ctx, p.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	got, err = svc.Restock(ctx, p.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)

	_, err = svc.Decrement(ctx, "missing", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDecrement_ConcurrentNeverOversells(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	p, err := svc.Create(ctx, Input{Name: "A", SKU: "A", Price: 1, Stock: intPtr(10)})
	require.NoError(t, err)

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Decrement(ctx, p.ID, 1); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)
}

func TestCreate_ConcurrentSameSKU(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(ctx, Input{Name: "Tea", SKU: "tea", Price: 1, Stock: intPtr(1)})
			if err == nil {
				mu.Lock()
				created++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, ErrDuplicateSKU)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, OutOfStock, StatusFor(0))
	assert.Equal(t, LowStock, StatusFor(1))
	assert.Equal(t, LowStock, StatusFor(9))
	assert.Equal(t, InStock, StatusFor(10))
	assert.True(t, (&Product{Stock: 9}).IsLowStock())
	assert.False(t, (&Product{Stock: 10}).IsLowStock())
}
