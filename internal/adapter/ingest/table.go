package ingest

import (
	"fmt"
	"strings"

	"github.com/scaap/striperecon/internal/domain"
)

// Table is a parsed tabular input addressed by normalized column name. The
// column names are the contract with each upstream export; where the rows
// came from (CSV, XLSX) is the parser's concern.
type Table struct {
	Name    string
	Rows    [][]string
	columns map[string]int
}

// NormalizeColumn canonicalizes a header cell the way every export is
// normalized on ingestion: trimmed, lowercased, spaces to underscores.
func NormalizeColumn(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// NewTable builds a table from a raw header row and data rows.
func NewTable(name string, header []string, rows [][]string) *Table {
	columns := make(map[string]int, len(header))
	for i, h := range header {
		key := NormalizeColumn(h)
		if _, ok := columns[key]; !ok {
			columns[key] = i
		}
	}
	return &Table{Name: name, Rows: rows, columns: columns}
}

// Require verifies the table carries every named column, reporting the first
// missing one by table and column name.
func (t *Table) Require(cols ...string) error {
	for _, col := range cols {
		if _, ok := t.columns[col]; !ok {
			return fmt.Errorf("%w: %s: %q", domain.ErrMissingColumn, t.Name, col)
		}
	}
	return nil
}

// Has reports whether the table carries a column.
func (t *Table) Has(col string) bool {
	_, ok := t.columns[col]
	return ok
}

// Get returns the named cell of a row, or "" when the column is absent or the
// row is short (ragged exports are common).
func (t *Table) Get(row []string, col string) string {
	i, ok := t.columns[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
