package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/scaap/striperecon/internal/domain"
)

// Input table names, used in error messages so a failure identifies its
// offending export.
const (
	TablePayments       = "payments"
	TablePayouts        = "payouts"
	TableBalanceHistory = "balance history"
	TableLedger         = "ledger"
)

// ReadCSVTable parses a CSV stream into a Table. The first record is the
// header; short records are kept and read as empty cells.
func ReadCSVTable(name string, r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: empty file", name)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", name, err)
	}

	var rows [][]string
	line := 1
	for {
		line++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", name, line, err)
		}
		rows = append(rows, row)
	}

	return NewTable(name, header, rows), nil
}

// ParsePayments converts the unified payments export.
func ParsePayments(t *Table) ([]domain.Payment, error) {
	if err := t.Require("attendeeid_(metadata)", "amount", "captured", "transfer"); err != nil {
		return nil, err
	}

	payments := make([]domain.Payment, 0, len(t.Rows))
	for i, row := range t.Rows {
		amount, err := parseAmount(t.Get(row, "amount"))
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: amount: %w", t.Name, i+2, err)
		}
		payments = append(payments, domain.Payment{
			AttendeeID: domain.CanonicalID(t.Get(row, "attendeeid_(metadata)")),
			TransferID: domain.CanonicalID(t.Get(row, "transfer")),
			Amount:     amount,
			Captured:   parseBool(t.Get(row, "captured")),
		})
	}
	return payments, nil
}

// ParsePayouts converts the payouts export.
func ParsePayouts(t *Table) ([]domain.Payout, error) {
	if err := t.Require("id", "amount", "arrival_date_(utc)"); err != nil {
		return nil, err
	}

	payouts := make([]domain.Payout, 0, len(t.Rows))
	for i, row := range t.Rows {
		amount, err := parseAmount(t.Get(row, "amount"))
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: amount: %w", t.Name, i+2, err)
		}
		arrival, err := parseDate(t.Get(row, "arrival_date_(utc)"))
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: arrival date: %w", t.Name, i+2, err)
		}
		payouts = append(payouts, domain.Payout{
			ID:          domain.CanonicalID(t.Get(row, "id")),
			ArrivalDate: arrival,
			Amount:      amount,
		})
	}
	return payouts, nil
}

// ParseActivity converts the optional balance-history export. Only the
// columns the engine consumes are required; descriptive metadata columns stay
// optional and read as empty.
func ParseActivity(t *Table) ([]domain.Activity, error) {
	if err := t.Require("transfer", "type", "amount", "fee"); err != nil {
		return nil, err
	}

	activity := make([]domain.Activity, 0, len(t.Rows))
	for i, row := range t.Rows {
		amount, err := parseOptionalAmount(t.Get(row, "amount"))
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: amount: %w", t.Name, i+2, err)
		}
		fee, err := parseOptionalAmount(t.Get(row, "fee"))
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: fee: %w", t.Name, i+2, err)
		}
		net, err := parseOptionalAmount(t.Get(row, "net"))
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: net: %w", t.Name, i+2, err)
		}

		a := domain.Activity{
			TransferID: domain.CanonicalID(t.Get(row, "transfer")),
			Type:       t.Get(row, "type"),
			Amount:     amount,
			Fee:        fee,
			Net:        net,
			Source:     t.Get(row, "source"),
			AttendeeID: domain.CanonicalID(t.Get(row, "attendeeid_(metadata)")),
			Company:    t.Get(row, "company_(metadata)"),
		}
		if created := t.Get(row, "created_(utc)"); created != "" {
			when, err := parseDate(created)
			if err != nil {
				return nil, fmt.Errorf("%s: row %d: created: %w", t.Name, i+2, err)
			}
			a.Created = when
		}
		activity = append(activity, a)
	}
	return activity, nil
}

// ParseLedger converts the processed-transfers ledger export.
func ParseLedger(t *Table) ([]string, error) {
	if err := t.Require("transfer"); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		if id := domain.CanonicalID(t.Get(row, "transfer")); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimPrefix(s, "$"), ",", "")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	return decimal.NewFromString(cleaned)
}

// parseOptionalAmount treats an empty cell as zero.
func parseOptionalAmount(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	return parseAmount(s)
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "yes", "y", "1":
		return true
	default:
		return false
	}
}

// dateLayouts covers the formats seen across the Stripe exports.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"1/2/2006",
	"01/02/2006",
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
