package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"zamflow/internal/events"
	"zamflow/internal/products"
	"zamflow/internal/users"
)

var (
	// ErrMissingFields is returned when the sale form is incomplete.
	ErrMissingFields = errors.New("please fill in all fields")
	// ErrInvalidQuantity is returned for a quantity that is not positive.
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
	// ErrProductNotFound is returned when the sold product does not exist.
	ErrProductNotFound = errors.New("product not found")
)

// Catalog is the part of the product service a sale needs.
type Catalog interface {
	Get(ctx context.Context, id string) (*products.Product, error)
	Decrement(ctx context.Context, id string, qty int) (*products.Product, error)
	Restock(ctx context.Context, id string, qty int) (*products.Product, error)
}

// Service provides high-level sales management operations on a Storage backend.
type Service struct {
	storage Storage
	catalog Catalog
	events  events.Publisher
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates a new Service.
func NewService(storage Storage, catalog Catalog, publisher events.Publisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		storage: storage,
		catalog: catalog,
		events:  publisher,
		logger:  logger,
		now:     time.Now,
	}
}

// CreateSale records a sale for seller and takes the sold units out of stock.
func (s *Service) CreateSale(ctx context.Context, seller *users.User, in NewSale) (*Sale, error) {
	customer := strings.TrimSpace(in.CustomerName)
	if in.ProductID == "" || in.Quantity == nil || customer == "" {
		return nil, ErrMissingFields
	}
	qty := *in.Quantity
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.catalog.Get(ctx, in.ProductID)
	if errors.Is(err, products.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if qty > product.Stock {
		return nil, &products.StockError{Available: product.Stock}
	}

	// The conditional decrement is the real guard; the check above only
	// produces the friendly error for the common case.
	if _, err := s.catalog.Decrement(ctx, product.ID, qty); err != nil {
		if errors.Is(err, products.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	sale := &Sale{
		ID:               uuid.NewString(),
		ProductID:        product.ID,
		ProductName:      product.Name,
		QuantitySold:     qty,
		CustomerName:     customer,
		SaleDate:         s.now().UTC(),
		SalespersonID:    seller.ID,
		SalespersonEmail: seller.Email,
		UnitPrice:        product.Price,
		TotalPrice:       float64(qty) * product.Price,
	}

	if err := s.storage.Set(ctx, sale); err != nil {
		s.logger.Error("failed to save sale", zap.String("sale_id", sale.ID), zap.Error(err))
		if _, rerr := s.catalog.Restock(ctx, product.ID, qty); rerr != nil {
			s.logger.Error("failed to restore stock after sale failure",
				zap.String("product_id", product.ID), zap.Int("quantity", qty), zap.Error(rerr))
		}
		return nil, fmt.Errorf("failed to save sale: %w", err)
	}

	s.logger.Info("sale created", zap.String("sale_id", sale.ID), zap.Any("sale", sale))
	ev := events.Event{Collection: events.Sales, Type: events.Created, ID: sale.ID, Data: sale, At: sale.SaleDate}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.logger.Warn("failed to publish sale event", zap.String("sale_id", sale.ID), zap.Error(err))
	}
	return sale, nil
}

// Get returns a single sale.
func (s *Service) Get(ctx context.Context, id string) (*Sale, error) {
	return s.storage.Read(ctx, id)
}

// List returns every sale, newest first.
func (s *Service) List(ctx context.Context) ([]*Sale, error) {
	all, err := s.storage.GetAll(ctx)
	if err != nil {
		s.logger.Error("Failed to get all sales from storage", zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve sales: %w", err)
	}
	return all, nil
}

// Recent returns the n newest sales.
func (s *Service) Recent(ctx context.Context, n int) ([]*Sale, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if n >= 0 && len(all) > n {
		all = all[:n]
	}
	return all, nil
}

// Search runs the sales history query for viewer and computes its metadata.
func (s *Service) Search(ctx context.Context, viewer *users.User, f Filter) ([]*Sale, SalesMetadata, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, SalesMetadata{}, err
	}

	if !canFilterBySalesperson(viewer) {
		f.Salesperson = ""
	}
	filtered, err := f.Apply(all, s.now())
	if err != nil {
		s.logger.Warn("Invalid sales filter provided", zap.String("range", string(f.Range)), zap.Error(err))
		return nil, SalesMetadata{}, err
	}

	metadata := Summarize(filtered)
	metadata.Salespersons = UniqueSalespersons(all)

	s.logger.Info("Sales search completed",
		zap.String("term", f.Term),
		zap.String("range", string(f.Range)),
		zap.String("salesperson", f.Salesperson),
		zap.Int("results_count", len(filtered)),
	)
	return filtered, metadata, nil
}

func canFilterBySalesperson(viewer *users.User) bool {
	return viewer != nil && (viewer.Role == users.RoleAdmin || viewer.Role == users.RoleManager)
}
