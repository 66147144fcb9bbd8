// Package analytics derives dashboard and report figures from the sales
// history and the product catalog.
package analytics

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"zamflow/internal/products"
	"zamflow/internal/sales"
)

const (
	// RecentSalesLimit caps the recent sales list on the dashboard.
	RecentSalesLimit = 5
	// LowStockLimit caps the low stock list on the dashboard.
	LowStockLimit = 5
	// TopProductsLimit caps the top products ranking.
	TopProductsLimit = 5
	// DefaultRangeDays is used when no report range is given.
	DefaultRangeDays = 30
)

// ErrInvalidRange is returned for a report range other than 7, 30, 90 or all.
var ErrInvalidRange = errors.New("invalid analytics range")

// Dashboard is the landing page summary.
type Dashboard struct {
	TotalSales       int                 `json:"total_sales"`
	TotalRevenue     float64             `json:"total_revenue"`
	SalesThisMonth   int                 `json:"sales_this_month"`
	RecentSales      []*sales.Sale       `json:"recent_sales"`
	TotalProducts    int                 `json:"total_products"`
	LowStockProducts []*products.Product `json:"low_stock_products"`
}

// BuildDashboard summarises sales (newest first) and the catalog at now.
func BuildDashboard(salesList []*sales.Sale, catalog []*products.Product, now time.Time) Dashboard {
	d := Dashboard{
		TotalSales:       len(salesList),
		TotalProducts:    len(catalog),
		RecentSales:      make([]*sales.Sale, 0, RecentSalesLimit),
		LowStockProducts: make([]*products.Product, 0, LowStockLimit),
	}

	year, month, _ := now.Date()
	for _, s := range salesList {
		d.TotalRevenue += s.TotalPrice
		if s.SaleDate.IsZero() {
			continue
		}
		sy, sm, _ := s.SaleDate.In(now.Location()).Date()
		if sy == year && sm == month {
			d.SalesThisMonth++
		}
	}

	for i := 0; i < len(salesList) && i < RecentSalesLimit; i++ {
		d.RecentSales = append(d.RecentSales, salesList[i])
	}
	for _, p := range catalog {
		if len(d.LowStockProducts) == LowStockLimit {
			break
		}
		if p.IsLowStock() {
			d.LowStockProducts = append(d.LowStockProducts, p)
		}
	}
	return d
}

// Range is a report window in days; zero means all time.
type Range int

// ParseRange accepts "7", "30", "90" or "all". An empty value gives the
// default window.
func ParseRange(v string) (Range, error) {
	v = strings.TrimSpace(v)
	switch v {
	case "":
		return Range(DefaultRangeDays), nil
	case "all":
		return 0, nil
	case "7", "30", "90":
		n, _ := strconv.Atoi(v)
		return Range(n), nil
	default:
		return 0, ErrInvalidRange
	}
}

// String renders the range the way ParseRange reads it.
func (r Range) String() string {
	if r == 0 {
		return "all"
	}
	return strconv.Itoa(int(r))
}

// DailyRevenue is the revenue of one calendar day.
type DailyRevenue struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

// ProductSales aggregates sales of one product.
type ProductSales struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// SalespersonSales aggregates sales of one salesperson.
type SalespersonSales struct {
	Name    string  `json:"name"`
	Sales   int     `json:"sales"`
	Revenue float64 `json:"revenue"`
}

// Report is the analytics page payload.
type Report struct {
	Range             string             `json:"range"`
	TotalRevenue      float64            `json:"total_revenue"`
	TotalSales        int                `json:"total_sales"`
	AverageOrderValue float64            `json:"average_order_value"`
	DailyRevenue      []DailyRevenue     `json:"daily_revenue"`
	TopProducts       []ProductSales     `json:"top_products"`
	Salespersons      []SalespersonSales `json:"salespersons"`
}

// BuildReport aggregates the sales that fall in r, counted back from now.
func BuildReport(salesList []*sales.Sale, r Range, now time.Time) Report {
	filtered := salesList
	if r > 0 {
		cutoff := now.AddDate(0, 0, -int(r))
		filtered = make([]*sales.Sale, 0, len(salesList))
		for _, s := range salesList {
			if !s.SaleDate.IsZero() && !s.SaleDate.Before(cutoff) {
				filtered = append(filtered, s)
			}
		}
	}

	rep := Report{
		Range:        r.String(),
		TotalSales:   len(filtered),
		DailyRevenue: dailyRevenue(filtered),
		TopProducts:  topProducts(filtered),
		Salespersons: bySalesperson(filtered),
	}
	for _, s := range filtered {
		rep.TotalRevenue += s.TotalPrice
	}
	if rep.TotalSales > 0 {
		rep.AverageOrderValue = rep.TotalRevenue / float64(rep.TotalSales)
	}
	return rep
}

func dailyRevenue(list []*sales.Sale) []DailyRevenue {
	byDate := map[string]float64{}
	for _, s := range list {
		if s.SaleDate.IsZero() {
			continue
		}
		byDate[s.SaleDate.UTC().Format("2006-01-02")] += s.TotalPrice
	}

	out := make([]DailyRevenue, 0, len(byDate))
	for date, revenue := range byDate {
		out = append(out, DailyRevenue{Date: date, Revenue: revenue})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func topProducts(list []*sales.Sale) []ProductSales {
	index := map[string]int{}
	out := make([]ProductSales, 0)
	for _, s := range list {
		i, ok := index[s.ProductName]
		if !ok {
			i = len(out)
			index[s.ProductName] = i
			out = append(out, ProductSales{Name: s.ProductName})
		}
		out[i].Quantity += s.QuantitySold
		out[i].Revenue += s.TotalPrice
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Quantity > out[j].Quantity })
	if len(out) > TopProductsLimit {
		out = out[:TopProductsLimit]
	}
	return out
}

func bySalesperson(list []*sales.Sale) []SalespersonSales {
	index := map[string]int{}
	out := make([]SalespersonSales, 0)
	for _, s := range list {
		name := "Unknown"
		if local, _, _ := strings.Cut(s.SalespersonEmail, "@"); local != "" {
			name = local
		}
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, SalespersonSales{Name: name})
		}
		out[i].Sales++
		out[i].Revenue += s.TotalPrice
	}
	return out
}
