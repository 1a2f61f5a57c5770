// Package ingest reads the two tabular inputs of the pipeline: the
// current-period price-change report and the historical weekly price
// table. Both arrive as CSV exports of the distributor spreadsheets.
package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrMissingColumns is returned when a required column is absent.
// The wrapped message lists expected vs found columns; a run must abort
// on this rather than guess.
var ErrMissingColumns = errors.New("missing required columns")

// Row is one loosely-typed table row, column name → raw cell text.
type Row map[string]string

// Table is a parsed tabular input.
type Table struct {
	Columns []string
	Rows    []Row
}

// PriceChangeColumns are the required columns of the current-period report.
var PriceChangeColumns = []string{"Product Name", "Pack Size", "Type of Sale", "Old Price", "New Price"}

// HistoricalColumns are the required columns of the historical price table.
var HistoricalColumns = []string{"SKU", "BRAND", "Pack Size", "Pack Volume ml", "Pack Type", "Week", "Price"}

// priceChangeSkipRows is the number of metadata rows above the header
// in the distributor's price-change report layout.
const priceChangeSkipRows = 7

// ReadPriceChangeReport parses the current-period report from r.
func ReadPriceChangeReport(r io.Reader) (*Table, error) {
	t, err := readTable(r, priceChangeSkipRows)
	if err != nil {
		return nil, fmt.Errorf("read price change report: %w", err)
	}
	if err := requireColumns(t, PriceChangeColumns); err != nil {
		return nil, err
	}
	return t, nil
}

// ReadHistoricalTable parses the historical weekly price table from r.
func ReadHistoricalTable(r io.Reader) (*Table, error) {
	t, err := readTable(r, 0)
	if err != nil {
		return nil, fmt.Errorf("read historical table: %w", err)
	}
	if err := requireColumns(t, HistoricalColumns); err != nil {
		return nil, err
	}
	return t, nil
}

// ReadPriceChangeReportFile opens and parses a report file.
func ReadPriceChangeReportFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open price change report: %w", err)
	}
	defer f.Close()
	return ReadPriceChangeReport(f)
}

// ReadHistoricalTableFile opens and parses a historical table file.
func ReadHistoricalTableFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open historical table: %w", err)
	}
	defer f.Close()
	return ReadHistoricalTable(f)
}

// readTable skips skipRows physical lines above the header, then reads
// CSV records, cleans header names, and maps each record to a Row.
func readTable(r io.Reader, skipRows int) (*Table, error) {
	br := bufio.NewReader(r)

	// The metadata preamble is counted in physical lines, not CSV
	// records: the report layout includes blank lines, which a
	// csv.Reader would skip silently and throw the count off.
	for i := 0; i < skipRows; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("input ended inside the %d metadata rows", skipRows)
			}
			return nil, fmt.Errorf("skip metadata row %d: %w", i+1, err)
		}
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1 // rows may be ragged

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, errors.New("input has no header row")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = cleanHeader(h)
	}

	t := &Table{Columns: columns}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(t.Rows)+1, err)
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

// cleanHeader trims whitespace and collapses embedded newlines to spaces.
// Spreadsheet exports wrap long header cells across lines.
func cleanHeader(h string) string {
	h = strings.ReplaceAll(h, "\n", " ")
	return strings.Join(strings.Fields(h), " ")
}

// requireColumns verifies all required columns exist, reporting expected
// vs found on failure.
func requireColumns(t *Table, required []string) error {
	present := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		present[c] = true
	}

	var missing []string
	for _, c := range required {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: expected %v, missing %v, found %v",
			ErrMissingColumns, required, missing, t.Columns)
	}
	return nil
}
