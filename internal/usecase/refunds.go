package usecase

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/scaap/striperecon/internal/domain"
)

// RefundScheduleRow carries one refund through to the schedule an accountant
// uses to assign the suspense amount a real account.
type RefundScheduleRow struct {
	Date             time.Time
	PayoutID         string
	Description      string
	Gross            decimal.Decimal
	Fee              decimal.Decimal
	Net              decimal.Decimal
	AttendeeID       string
	Company          string
	SuggestedAccount string
}

// RefundExtract is the refund side of a run: suspense journal lines, the
// parallel schedule, and per-batch totals for the reconciliation cross-check.
type RefundExtract struct {
	Lines    []domain.JournalLine
	Schedule []RefundScheduleRow
	// Dropped counts refund rows whose batch has no settled payout yet. They
	// appear in neither the journal nor the schedule.
	Dropped int

	totals map[string]decimal.Decimal
}

// TotalFor returns the summed refund debits referencing a batch.
func (e *RefundExtract) TotalFor(transferID string) decimal.Decimal {
	if e == nil || e.totals == nil {
		return decimal.Zero
	}
	if total, ok := e.totals[domain.CanonicalID(transferID)]; ok {
		return total
	}
	return decimal.Zero
}

// ExtractRefunds isolates refund activity and books each refund against its
// batch's settlement date. Refunds whose batch has not settled are dropped
// and counted; a nil feed produces an empty extract.
func ExtractRefunds(activity []domain.Activity, payouts []domain.Payout) *RefundExtract {
	dates := make(map[string]time.Time, len(payouts))
	for _, p := range payouts {
		dates[domain.CanonicalID(p.ID)] = p.ArrivalDate
	}

	extract := &RefundExtract{totals: make(map[string]decimal.Decimal)}
	for _, a := range activity {
		if !a.IsRefund() {
			continue
		}
		id := domain.CanonicalID(a.TransferID)
		arrival, ok := dates[id]
		if !ok {
			extract.Dropped++
			continue
		}
		amount := a.Amount.Abs()
		if !amount.IsPositive() {
			continue
		}

		desc := domain.PayoutDescription(id)
		extract.Lines = append(extract.Lines, domain.DebitLine(arrival, domain.AccountRefundSuspense, amount, desc))
		extract.Schedule = append(extract.Schedule, RefundScheduleRow{
			Date:             a.Created,
			PayoutID:         id,
			Description:      "Refund for Stripe Charge " + a.Source,
			Gross:            a.Amount,
			Fee:              a.Fee,
			Net:              a.Net,
			AttendeeID:       a.AttendeeID,
			Company:          a.Company,
			SuggestedAccount: domain.AccountRefundSuspense,
		})
		extract.totals[id] = extract.totals[id].Add(amount.Round(2))
	}
	return extract
}
