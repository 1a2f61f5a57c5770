package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricelab/internal/domain"
	"pricelab/internal/ingest"
)

func TestPriceRows_Basic(t *testing.T) {
	rows := []ingest.Row{
		{
			"Product Name": "  Lagerhaus   Pilsner ",
			"Pack Size":    "6 x 330ml",
			"Type of Sale": "TBS - Retail Price",
			"Old Price":    "10.00",
			"New Price":    "9.00",
		},
	}

	res := PriceRows(rows)
	require.Len(t, res.Records, 1)

	rec := res.Records[0]
	assert.Equal(t, "Lagerhaus Pilsner", rec.ProductName)
	assert.Equal(t, domain.SaleTypeRetailPrice, rec.SaleType)
	assert.True(t, rec.PricesValid)
	assert.Equal(t, "10", rec.OldPrice.String())
	assert.Equal(t, "-1", rec.PriceChange().String())
}

func TestPriceRows_EmptyRowDropped(t *testing.T) {
	rows := []ingest.Row{
		{"Product Name": "", "Pack Size": "  ", "Type of Sale": "", "Old Price": "", "New Price": ""},
		{"Product Name": "Harbor Cider", "Pack Size": "4 x 440ml", "Type of Sale": "New SKU", "Old Price": "0.00", "New Price": "12.50"},
	}

	res := PriceRows(rows)
	assert.Equal(t, 1, res.EmptyRowsDropped)
	require.Len(t, res.Records, 1)
	assert.Equal(t, domain.SaleTypeNewSku, res.Records[0].SaleType)
}

func TestPriceRows_InvalidPriceSentinel(t *testing.T) {
	rows := []ingest.Row{
		{"Product Name": "Mystery Ale", "Pack Size": "6", "Type of Sale": "TBS - Retail Price", "Old Price": "n/a", "New Price": "9.00"},
		{"Product Name": "Negative Ale", "Pack Size": "6", "Type of Sale": "TBS - Retail Price", "Old Price": "-1.00", "New Price": "9.00"},
	}

	res := PriceRows(rows)
	assert.Equal(t, 2, res.InvalidPriceRows)
	require.Len(t, res.Records, 2)
	for _, rec := range res.Records {
		assert.False(t, rec.PricesValid)
		// Sentinel, not a zero substitution: the record is excluded from
		// classification downstream.
		assert.True(t, rec.OldPrice.IsZero())
	}
}

func TestPriceRows_OrderPreserving(t *testing.T) {
	rows := []ingest.Row{
		{"Product Name": "A", "Type of Sale": "New SKU", "Old Price": "0", "New Price": "1"},
		{"Product Name": "B", "Type of Sale": "New SKU", "Old Price": "0", "New Price": "2"},
		{"Product Name": "C", "Type of Sale": "New SKU", "Old Price": "0", "New Price": "3"},
	}

	res := PriceRows(rows)
	require.Len(t, res.Records, 3)
	assert.Equal(t, "A", res.Records[0].ProductName)
	assert.Equal(t, "B", res.Records[1].ProductName)
	assert.Equal(t, "C", res.Records[2].ProductName)
}

func TestParseSaleType(t *testing.T) {
	tests := []struct {
		in   string
		want domain.SaleType
	}{
		{"TBS - Licensee", domain.SaleTypeLicensee},
		{"New SKU", domain.SaleTypeNewSku},
		{"TBS - Retail Price", domain.SaleTypeRetailPrice},
		{"TBS – Retail Price", domain.SaleTypeRetailPrice}, // en dash export variant
		{"Depot Transfer", domain.SaleTypeOther},
		{"", domain.SaleTypeOther},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseSaleType(tt.in), "input %q", tt.in)
	}
}

func TestCollapseSpace(t *testing.T) {
	assert.Equal(t, "a b c", CollapseSpace("  a \t b \n c "))
	assert.Equal(t, "", CollapseSpace("   "))
}
