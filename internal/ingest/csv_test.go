package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reportPreamble = `TBS Price Change Summary Report
Report Date,October 13 2025
,
Distributor,TBS
,
,
,
`

func TestReadPriceChangeReport(t *testing.T) {
	input := reportPreamble +
		"Product Name,Pack Size,Type of Sale,Old Price,New Price\n" +
		"Lagerhaus Pilsner,6 x 330ml,TBS - Retail Price,10.00,9.00\n" +
		"Harbor Cider,4 x 440ml,New SKU,0.00,12.50\n"

	table, err := ReadPriceChangeReport(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, PriceChangeColumns, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Lagerhaus Pilsner", table.Rows[0]["Product Name"])
	assert.Equal(t, "TBS - Retail Price", table.Rows[0]["Type of Sale"])
	assert.Equal(t, "12.50", table.Rows[1]["New Price"])
}

func TestReadPriceChangeReport_BlankPreambleLines(t *testing.T) {
	// Report exports leave some metadata lines entirely blank. The
	// seven-row skip counts them like any other line.
	preamble := "TBS Price Change Summary Report\n" +
		"Report Date,October 13 2025\n" +
		"\n" +
		"Distributor,TBS\n" +
		"\n" +
		"\n" +
		"\n"
	input := preamble +
		"Product Name,Pack Size,Type of Sale,Old Price,New Price\n" +
		"Lagerhaus Pilsner,6 x 330ml,TBS - Retail Price,10.00,9.00\n" +
		"Harbor Cider,4 x 440ml,New SKU,0.00,12.50\n"

	table, err := ReadPriceChangeReport(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, PriceChangeColumns, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Lagerhaus Pilsner", table.Rows[0]["Product Name"])
}

func TestReadPriceChangeReport_HeaderWithNewlines(t *testing.T) {
	input := reportPreamble +
		"Product Name,Pack Size,\"Type of\nSale\",\"Old\nPrice\",New Price\n" +
		"Lagerhaus Pilsner,6 x 330ml,TBS - Retail Price,10.00,9.00\n"

	table, err := ReadPriceChangeReport(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, PriceChangeColumns, table.Columns)
}

func TestReadPriceChangeReport_MissingColumn(t *testing.T) {
	input := reportPreamble +
		"Product Name,Pack Size,Old Price,New Price\n" +
		"Lagerhaus Pilsner,6 x 330ml,10.00,9.00\n"

	_, err := ReadPriceChangeReport(strings.NewReader(input))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumns)
	assert.Contains(t, err.Error(), "Type of Sale")
}

func TestReadPriceChangeReport_TruncatedPreamble(t *testing.T) {
	_, err := ReadPriceChangeReport(strings.NewReader("only one line\n"))
	require.Error(t, err)
}

func TestReadHistoricalTable(t *testing.T) {
	input := "SKU,BRAND,Pack Size,Pack Volume ml,Pack Type,Week,Price\n" +
		"SKU-1,Lagerhaus,6,330,can,2025-09-01,10.00\n" +
		"SKU-1,Lagerhaus,6,330,can,2025-09-08,Delisted\n"

	table, err := ReadHistoricalTable(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Delisted", table.Rows[1]["Price"])
}

func TestReadHistoricalTable_ShortRowPadded(t *testing.T) {
	input := "SKU,BRAND,Pack Size,Pack Volume ml,Pack Type,Week,Price\n" +
		"SKU-1,Lagerhaus,6,330,can\n"

	table, err := ReadHistoricalTable(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "", table.Rows[0]["Price"])
}
