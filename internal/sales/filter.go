package sales

import (
	"errors"
	"strings"
	"time"
)

// ErrInvalidRange is returned for an unknown history date range.
var ErrInvalidRange = errors.New("invalid date range")

// Range is a sales history date window.
type Range string

const (
	RangeAll   Range = "all"
	RangeToday Range = "today"
	RangeWeek  Range = "week"
	RangeMonth Range = "month"
)

// Since returns the lower bound of the window relative to now, and false
// for RangeAll.
func (r Range) Since(now time.Time) (time.Time, bool, error) {
	switch r {
	case "", RangeAll:
		return time.Time{}, false, nil
	case RangeToday:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), true, nil
	case RangeWeek:
		return now.AddDate(0, 0, -7), true, nil
	case RangeMonth:
		return now.AddDate(0, -1, 0), true, nil
	default:
		return time.Time{}, false, ErrInvalidRange
	}
}

// Filter selects sales in the history view.
type Filter struct {
	// Term matches product, customer or salesperson email, case-insensitively.
	Term string
	// Range limits sales to a date window.
	Range Range
	// Salesperson is an exact salesperson email; empty or "all" disables it.
	Salesperson string
}

// Apply returns the sales matching f, keeping their order.
func (f Filter) Apply(all []*Sale, now time.Time) ([]*Sale, error) {
	since, bounded, err := f.Range.Since(now)
	if err != nil {
		return nil, err
	}
	term := strings.ToLower(strings.TrimSpace(f.Term))

	out := make([]*Sale, 0, len(all))
	for _, sale := range all {
		if term != "" &&
			!strings.Contains(strings.ToLower(sale.ProductName), term) &&
			!strings.Contains(strings.ToLower(sale.CustomerName), term) &&
			!strings.Contains(strings.ToLower(sale.SalespersonEmail), term) {
			continue
		}
		if bounded && sale.SaleDate.Before(since) {
			continue
		}
		if f.Salesperson != "" && f.Salesperson != "all" && sale.SalespersonEmail != f.Salesperson {
			continue
		}
		out = append(out, sale)
	}
	return out, nil
}

// Summarize totals a list of sales.
func Summarize(list []*Sale) SalesMetadata {
	md := SalesMetadata{Salespersons: []string{}}
	for _, sale := range list {
		md.Quantity++
		md.TotalUnits += sale.QuantitySold
		md.TotalRevenue += sale.TotalPrice
	}
	return md
}

// UniqueSalespersons lists the distinct non-empty salesperson emails in
// order of first appearance.
func UniqueSalespersons(list []*Sale) []string {
	seen := map[string]bool{}
	out := make([]string, 0)
	for _, sale := range list {
		if sale.SalespersonEmail == "" || seen[sale.SalespersonEmail] {
			continue
		}
		seen[sale.SalespersonEmail] = true
		out = append(out, sale.SalespersonEmail)
	}
	return out
}
