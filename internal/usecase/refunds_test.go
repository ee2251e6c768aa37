package usecase

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/scaap/striperecon/internal/domain"
)

func TestExtractRefunds(t *testing.T) {
	payouts := []domain.Payout{
		{ID: "po_1", ArrivalDate: day("2024-01-05"), Amount: decimal.NewFromInt(145)},
	}
	activity := []domain.Activity{
		{
			TransferID: "po_1",
			Type:       "Refund",
			Amount:     decimal.RequireFromString("-40.00"),
			Fee:        decimal.RequireFromString("-1.20"),
			Net:        decimal.RequireFromString("-38.80"),
			Source:     "ch_123",
			Created:    day("2024-01-03"),
			AttendeeID: "10234",
			Company:    "Acme Exhibits",
		},
		{TransferID: "po_1", Type: "charge", Amount: decimal.NewFromInt(100)},
		// Refund against a batch that has not settled: dropped, counted.
		{TransferID: "po_pending", Type: "refund", Amount: decimal.NewFromInt(-10), Source: "ch_456"},
	}

	extract := ExtractRefunds(activity, payouts)

	if len(extract.Lines) != 1 {
		t.Fatalf("refund lines = %d, want 1", len(extract.Lines))
	}
	line := extract.Lines[0]
	if line.Account != domain.AccountRefundSuspense {
		t.Errorf("refund line account = %q, want suspense", line.Account)
	}
	if !line.Debit.Valid || !line.Debit.Decimal.Equal(decimal.RequireFromString("40.00")) {
		t.Errorf("refund debit = %+v, want 40.00", line.Debit)
	}
	if !line.Date.Equal(day("2024-01-05")) {
		t.Error("refund line must carry the batch settlement date")
	}
	if line.Description != "Stripe Payout po_1" {
		t.Errorf("description = %q", line.Description)
	}

	if len(extract.Schedule) != 1 {
		t.Fatalf("schedule rows = %d, want 1", len(extract.Schedule))
	}
	row := extract.Schedule[0]
	if row.Description != "Refund for Stripe Charge ch_123" {
		t.Errorf("schedule description = %q", row.Description)
	}
	if row.PayoutID != "po_1" || row.AttendeeID != "10234" || row.Company != "Acme Exhibits" {
		t.Errorf("schedule row = %+v", row)
	}
	if row.SuggestedAccount != domain.AccountRefundSuspense {
		t.Errorf("suggested account = %q", row.SuggestedAccount)
	}
	if !row.Gross.Equal(decimal.RequireFromString("-40.00")) {
		t.Errorf("schedule keeps the original signed amount, got %s", row.Gross)
	}

	if extract.Dropped != 1 {
		t.Errorf("dropped = %d, want 1", extract.Dropped)
	}

	if got := extract.TotalFor("po_1"); !got.Equal(decimal.RequireFromString("40.00")) {
		t.Errorf("TotalFor(po_1) = %s, want 40.00", got)
	}
	if got := extract.TotalFor("po_pending"); !got.IsZero() {
		t.Errorf("TotalFor(po_pending) = %s, want 0", got)
	}
}

func TestExtractRefunds_ZeroAmountSkipped(t *testing.T) {
	payouts := []domain.Payout{{ID: "po_1", ArrivalDate: day("2024-01-05")}}
	extract := ExtractRefunds([]domain.Activity{
		{TransferID: "po_1", Type: "refund", Amount: decimal.Zero},
	}, payouts)

	if len(extract.Lines) != 0 || len(extract.Schedule) != 0 {
		t.Error("zero-magnitude refunds must not produce output")
	}
	if extract.Dropped != 0 {
		t.Errorf("zero-magnitude refund is not a dropped refund, got %d", extract.Dropped)
	}
}

func TestExtractRefunds_NilFeed(t *testing.T) {
	extract := ExtractRefunds(nil, []domain.Payout{{ID: "po_1"}})

	if len(extract.Lines) != 0 || len(extract.Schedule) != 0 || extract.Dropped != 0 {
		t.Errorf("nil feed must produce an empty extract, got %+v", extract)
	}
}
