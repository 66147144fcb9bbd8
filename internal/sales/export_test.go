package sales

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	list := []*Sale{
		{ProductName: `12" Pan`, CustomerName: "Ann", QuantitySold: 2, UnitPrice: 9.5, TotalPrice: 19, SalespersonEmail: "sam@example.com", SaleDate: time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC)},
	}
	require.NoError(t, ExportCSVIn(&buf, list, time.UTC))

	lines := strings.Split(buf.String(), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `"Date","Product","Customer","Quantity","Unit Price","Total","Salesperson"`, lines[0])
	assert.Equal(t, `"3/7/2025","12"" Pan","Ann","2","$9.50","$19.00","sam@example.com"`, lines[1])
}

func TestExportCSVIn_UsesLocalCalendarDay(t *testing.T) {
	var buf bytes.Buffer
	// 02:00 UTC on the 8th is still the evening of the 7th in New York.
	list := []*Sale{{ProductName: "Tea", CustomerName: "Ann", QuantitySold: 1, UnitPrice: 1, TotalPrice: 1, SaleDate: time.Date(2025, 3, 8, 2, 0, 0, 0, time.UTC)}}
	require.NoError(t, ExportCSVIn(&buf, list, time.FixedZone("EST", -5*3600)))

	lines := strings.Split(buf.String(), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], `"3/7/2025",`), lines[1])
}

func TestExportCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, nil))
	assert.Equal(t, `"Date","Product","Customer","Quantity","Unit Price","Total","Salesperson"`, buf.String())
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "sales-history-2025-03-07.csv", ExportFilename(time.Date(2025, 3, 7, 23, 0, 0, 0, time.UTC)))
}
