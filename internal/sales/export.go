package sales

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

var exportHeaders = []string{"Date", "Product", "Customer", "Quantity", "Unit Price", "Total", "Salesperson"}

// ExportFilename is the download name of a history export made at now.
func ExportFilename(now time.Time) string {
	return "sales-history-" + now.UTC().Format("2006-01-02") + ".csv"
}

// ExportCSV writes list as CSV with every field quoted. Dates are the
// server's local calendar date.
func ExportCSV(w io.Writer, list []*Sale) error {
	return ExportCSVIn(w, list, time.Local)
}

// ExportCSVIn is ExportCSV with dates rendered in loc.
func ExportCSVIn(w io.Writer, list []*Sale, loc *time.Location) error {
	bw := bufio.NewWriter(w)
	if err := writeRow(bw, exportHeaders); err != nil {
		return err
	}
	for _, sale := range list {
		row := []string{
			sale.SaleDate.In(loc).Format("1/2/2006"),
			sale.ProductName,
			sale.CustomerName,
			strconv.Itoa(sale.QuantitySold),
			fmt.Sprintf("$%.2f", sale.UnitPrice),
			fmt.Sprintf("$%.2f", sale.TotalPrice),
			sale.SalespersonEmail,
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
		if err := writeRow(bw, row); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeRow(w *bufio.Writer, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(`"` + strings.ReplaceAll(f, `"`, `""`) + `"`); err != nil {
			return err
		}
	}
	return nil
}
