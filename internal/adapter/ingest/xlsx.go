package ingest

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/scaap/striperecon/internal/domain"
)

// Registrant table names for error reporting.
const (
	TableAttendees  = "attendee registrants"
	TableExhibitors = "exhibitor registrants"
)

// ReadXLSXTable parses the first sheet of an XLSX workbook into a Table.
func ReadXLSXTable(name string, r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%s: open workbook: %w", name, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: workbook has no sheets", name)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%s: read sheet %q: %w", name, sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: sheet %q is empty", name, sheets[0])
	}

	return NewTable(name, rows[0], rows[1:]), nil
}

// ParseRegistrants converts a registration workbook table, tagging every row
// with the registrant type of its source export.
func ParseRegistrants(t *Table, typ domain.RegistrantType) ([]domain.Registrant, error) {
	if err := t.Require("conf_#", "attendee_category"); err != nil {
		return nil, err
	}

	registrants := make([]domain.Registrant, 0, len(t.Rows))
	for _, row := range t.Rows {
		confID := domain.CanonicalID(t.Get(row, "conf_#"))
		if confID == "" {
			continue
		}
		registrants = append(registrants, domain.Registrant{
			ConfID:           confID,
			AttendeeCategory: t.Get(row, "attendee_category"),
			Type:             typ,
		})
	}
	return registrants, nil
}
