package products

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"zamflow/internal/events"
)

var (
	// ErrMissingFields is returned when a required product field is empty.
	ErrMissingFields = errors.New("please fill in all fields")
	// ErrInvalidPrice is returned for a price that is not positive.
	ErrInvalidPrice = errors.New("price must be greater than 0")
	// ErrNegativeStock is returned for a stock value below zero.
	ErrNegativeStock = errors.New("stock cannot be negative")
	// ErrDuplicateSKU is returned when the SKU is already used by another product.
	ErrDuplicateSKU = errors.New("SKU already exists")
	// ErrInvalidQuantity is returned for a stock movement that is not positive.
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
)

// Service manages the product catalog and its stock.
type Service struct {
	storage Storage
	events  events.Publisher
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates a new Service.
func NewService(storage Storage, publisher events.Publisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		storage: storage,
		events:  publisher,
		logger:  logger,
		now:     time.Now,
	}
}

// Create validates in and adds a new product.
func (s *Service) Create(ctx context.Context, in Input) (*Product, error) {
	if err := s.validate(ctx, &in, ""); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	p := &Product{
		ID:        uuid.NewString(),
		Name:      in.Name,
		SKU:       in.SKU,
		Price:     in.Price,
		Stock:     *in.Stock,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.storage.Set(ctx, p); err != nil {
		s.logger.Error("failed to save product", zap.String("product_id", p.ID), zap.Error(err))
		if errors.Is(err, ErrDuplicateSKU) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	s.logger.Info("product created", zap.String("product_id", p.ID), zap.String("sku", p.SKU))
	s.publish(ctx, events.Created, p.ID, p)
	return p, nil
}

// Update replaces the editable fields of an existing product.
func (s *Service) Update(ctx context.Context, id string, in Input) (*Product, error) {
	p, err := s.storage.Read(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, &in, id); err != nil {
		return nil, err
	}

	p.Name = in.Name
	p.SKU = in.SKU
	p.Price = in.Price
	p.Stock = *in.Stock
	p.UpdatedAt = s.now().UTC()

	if err := s.storage.Set(ctx, p); err != nil {
		s.logger.Error("failed to update product", zap.String("product_id", id), zap.Error(err))
		if errors.Is(err, ErrDuplicateSKU) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.logger.Info("product updated", zap.String("product_id", id))
	s.publish(ctx, events.Updated, id, p)
	return p, nil
}

// Delete removes a product from the catalog. Past sales keep their copy of
// the product name and price.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.storage.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("product deleted", zap.String("product_id", id))
	s.publish(ctx, events.Deleted, id, nil)
	return nil
}

// Get returns a single product.
func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	return s.storage.Read(ctx, id)
}

// List returns the whole catalog.
func (s *Service) List(ctx context.Context) ([]*Product, error) {
	all, err := s.storage.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to list products", zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}
	return all, nil
}

// SetStock overwrites the stock level of a product.
func (s *Service) SetStock(ctx context.Context, id string, stock int) (*Product, error) {
	if stock < 0 {
		return nil, ErrNegativeStock
	}
	p, err := s.storage.Read(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Stock = stock
	p.UpdatedAt = s.now().UTC()
	if err := s.storage.Set(ctx, p); err != nil {
		s.logger.Error("failed to update stock", zap.String("product_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to update stock: %w", err)
	}
	s.publish(ctx, events.Updated, id, p)
	return p, nil
}

// Decrement removes qty units from stock. It fails with ErrInsufficientStock
// (as a *StockError) when fewer than qty units are available.
func (s *Service) Decrement(ctx context.Context, id string, qty int) (*Product, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}
	p, err := s.storage.AdjustStock(ctx, id, -qty)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.Updated, id, p)
	return p, nil
}

// Restock returns qty units to stock.
func (s *Service) Restock(ctx context.Context, id string, qty int) (*Product, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}
	p, err := s.storage.AdjustStock(ctx, id, qty)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.Updated, id, p)
	return p, nil
}

// validate normalises in and checks it. editingID is skipped in the SKU
// uniqueness check.
func (s *Service) validate(ctx context.Context, in *Input, editingID string) error {
	in.Name = strings.TrimSpace(in.Name)
	in.SKU = strings.ToUpper(strings.TrimSpace(in.SKU))

	if in.Name == "" || in.SKU == "" || in.Stock == nil {
		return ErrMissingFields
	}
	if in.Price <= 0 {
		return ErrInvalidPrice
	}
	if *in.Stock < 0 {
		return ErrNegativeStock
	}

	all, err := s.storage.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to check SKU: %w", err)
	}
	for _, p := range all {
		if strings.EqualFold(p.SKU, in.SKU) && p.ID != editingID {
			return ErrDuplicateSKU
		}
	}
	return nil
}

func (s *Service) publish(ctx context.Context, typ, id string, p *Product) {
	ev := events.Event{Collection: events.Products, Type: typ, ID: id, At: s.now().UTC()}
	if p != nil {
		ev.Data = p
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.logger.Warn("failed to publish product event", zap.String("product_id", id), zap.Error(err))
	}
}
