package usecase

import (
	"github.com/shopspring/decimal"
)

// validationTolerance absorbs per-payment cent rounding in the cross-check.
var validationTolerance = decimal.RequireFromString("0.01")

// SummaryRow is one payout batch in the reconciliation summary.
type SummaryRow struct {
	PayoutID   string
	Gross      decimal.Decimal
	NetDeposit decimal.Decimal
	Fees       decimal.Decimal
	Refunds    decimal.Decimal
	// Difference is gross minus (net + fees + refunds). Balanced is false
	// when it exceeds the tolerance; the row is flagged, never corrected.
	Difference decimal.Decimal
	Balanced   bool
}

// BuildSummary cross-checks each settled batch: the net deposit plus fees
// plus refund debits must tie back to the captured gross within tolerance.
func BuildSummary(settled []*BatchGroup, fees FeeLookup, refunds *RefundExtract) []SummaryRow {
	rows := make([]SummaryRow, 0, len(settled))
	for _, g := range settled {
		row := SummaryRow{
			PayoutID:   g.TransferID,
			Gross:      g.Gross().Round(2),
			NetDeposit: g.Payout.Amount.Round(2),
			Fees:       fees.For(g.TransferID).Round(2),
			Refunds:    refunds.TotalFor(g.TransferID),
		}
		row.Difference = row.Gross.Sub(row.NetDeposit.Add(row.Fees).Add(row.Refunds))
		row.Balanced = row.Difference.Abs().LessThanOrEqual(validationTolerance)
		rows = append(rows, row)
	}
	return rows
}
