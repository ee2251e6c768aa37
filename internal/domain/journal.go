package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// JournalLine is a single double-entry journal row. Exactly one of Debit and
// Credit is valid.
type JournalLine struct {
	Date        time.Time
	Account     string
	Debit       decimal.NullDecimal
	Credit      decimal.NullDecimal
	Description string
}

// DebitLine builds a debit journal line rounded to cents.
func DebitLine(date time.Time, account string, amount decimal.Decimal, description string) JournalLine {
	return JournalLine{
		Date:        date,
		Account:     account,
		Debit:       decimal.NullDecimal{Decimal: amount.Round(2), Valid: true},
		Description: description,
	}
}

// CreditLine builds a credit journal line rounded to cents.
func CreditLine(date time.Time, account string, amount decimal.Decimal, description string) JournalLine {
	return JournalLine{
		Date:        date,
		Account:     account,
		Credit:      decimal.NullDecimal{Decimal: amount.Round(2), Valid: true},
		Description: description,
	}
}

// SortJournal orders lines by (date, description, credit, debit) ascending
// with null amounts sorting last, so repeated runs over the same inputs emit
// an identical, auditable journal.
func SortJournal(lines []JournalLine) {
	sort.SliceStable(lines, func(i, j int) bool {
		a, b := lines[i], lines[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Description != b.Description {
			return a.Description < b.Description
		}
		if c := compareNullDecimal(a.Credit, b.Credit); c != 0 {
			return c < 0
		}
		return compareNullDecimal(a.Debit, b.Debit) < 0
	})
}

// compareNullDecimal orders valid values ascending and nulls after any value.
func compareNullDecimal(a, b decimal.NullDecimal) int {
	switch {
	case a.Valid && b.Valid:
		return a.Decimal.Cmp(b.Decimal)
	case a.Valid:
		return -1
	case b.Valid:
		return 1
	default:
		return 0
	}
}

// TotalDebits sums the debit side of a journal.
func TotalDebits(lines []JournalLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		if l.Debit.Valid {
			total = total.Add(l.Debit.Decimal)
		}
	}
	return total
}

// TotalCredits sums the credit side of a journal.
func TotalCredits(lines []JournalLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		if l.Credit.Valid {
			total = total.Add(l.Credit.Decimal)
		}
	}
	return total
}

// PayoutDescription is the journal description shared by every line of a
// payout batch. Refund lines reuse it so they sort next to their batch.
func PayoutDescription(transferID string) string {
	return "Stripe Payout " + transferID
}
