package analytics

import (
	"context"
	"time"

	"go.uber.org/zap"

	"zamflow/internal/products"
	"zamflow/internal/sales"
)

// SalesSource lists the sales history, newest first.
type SalesSource interface {
	List(ctx context.Context) ([]*sales.Sale, error)
}

// CatalogSource lists the product catalog.
type CatalogSource interface {
	List(ctx context.Context) ([]*products.Product, error)
}

// Service loads current data and runs the aggregations over it.
type Service struct {
	sales   SalesSource
	catalog CatalogSource
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates a new Service.
func NewService(salesSrc SalesSource, catalog CatalogSource, logger *zap.Logger) *Service {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &Service{sales: salesSrc, catalog: catalog, logger: logger, now: time.Now}
}

// Dashboard returns the landing page summary.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	salesList, err := s.sales.List(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	catalog, err := s.catalog.List(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	return BuildDashboard(salesList, catalog, s.now()), nil
}

// Report returns the analytics for the given window.
func (s *Service) Report(ctx context.Context, r Range) (Report, error) {
	salesList, err := s.sales.List(ctx)
	if err != nil {
		return Report{}, err
	}
	rep := BuildReport(salesList, r, s.now())
	s.logger.Debug("analytics report built",
		zap.String("range", rep.Range),
		zap.Int("total_sales", rep.TotalSales),
		zap.Float64("total_revenue", rep.TotalRevenue),
	)
	return rep, nil
}
