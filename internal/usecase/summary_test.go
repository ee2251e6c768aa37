package usecase

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/scaap/striperecon/internal/domain"
)

func TestBuildSummary_Balanced(t *testing.T) {
	group := settledGroup("po_1",
		domain.Payout{ID: "po_1", ArrivalDate: day("2024-01-05"), Amount: decimal.NewFromInt(145)},
		domain.Payment{Amount: decimal.NewFromInt(150), RevenueAccount: domain.AccountMeetingRegistration},
	)
	fees := FeeLookup{"po_1": decimal.NewFromInt(5)}

	rows := BuildSummary([]*BatchGroup{group}, fees, ExtractRefunds(nil, nil))

	if len(rows) != 1 {
		t.Fatalf("summary rows = %d, want 1", len(rows))
	}
	row := rows[0]
	if !row.Balanced {
		t.Errorf("expected balanced row, difference = %s", row.Difference)
	}
	if row.PayoutID != "po_1" || !row.Gross.Equal(decimal.NewFromInt(150)) ||
		!row.NetDeposit.Equal(decimal.NewFromInt(145)) || !row.Fees.Equal(decimal.NewFromInt(5)) {
		t.Errorf("row = %+v", row)
	}
}

func TestBuildSummary_RefundsIncludedInIdentity(t *testing.T) {
	// Gross 150 = net 105 + fees 5 + refund 40.
	group := settledGroup("po_1",
		domain.Payout{ID: "po_1", ArrivalDate: day("2024-01-05"), Amount: decimal.NewFromInt(105)},
		domain.Payment{Amount: decimal.NewFromInt(150), RevenueAccount: domain.AccountMeetingRegistration},
	)
	fees := FeeLookup{"po_1": decimal.NewFromInt(5)}
	refunds := ExtractRefunds([]domain.Activity{
		{TransferID: "po_1", Type: "refund", Amount: decimal.NewFromInt(-40)},
	}, []domain.Payout{{ID: "po_1", ArrivalDate: day("2024-01-05")}})

	rows := BuildSummary([]*BatchGroup{group}, fees, refunds)

	if !rows[0].Balanced {
		t.Errorf("expected refund-adjusted row to balance, difference = %s", rows[0].Difference)
	}
	if !rows[0].Refunds.Equal(decimal.NewFromInt(40)) {
		t.Errorf("refunds = %s, want 40", rows[0].Refunds)
	}
}

func TestBuildSummary_MismatchFlaggedNotCorrected(t *testing.T) {
	group := settledGroup("po_1",
		domain.Payout{ID: "po_1", ArrivalDate: day("2024-01-05"), Amount: decimal.NewFromInt(100)},
		domain.Payment{Amount: decimal.NewFromInt(150), RevenueAccount: domain.AccountMeetingRegistration},
	)

	rows := BuildSummary([]*BatchGroup{group}, nil, ExtractRefunds(nil, nil))

	row := rows[0]
	if row.Balanced {
		t.Fatal("expected mismatch flag")
	}
	if !row.Difference.Equal(decimal.NewFromInt(50)) {
		t.Errorf("difference = %s, want 50", row.Difference)
	}
	// The reported amounts stay as found.
	if !row.Gross.Equal(decimal.NewFromInt(150)) || !row.NetDeposit.Equal(decimal.NewFromInt(100)) {
		t.Errorf("row amounts were altered: %+v", row)
	}
}

func TestBuildSummary_WithinTolerance(t *testing.T) {
	group := settledGroup("po_1",
		domain.Payout{ID: "po_1", ArrivalDate: day("2024-01-05"), Amount: decimal.RequireFromString("144.99")},
		domain.Payment{Amount: decimal.NewFromInt(150), RevenueAccount: domain.AccountMeetingRegistration},
	)
	fees := FeeLookup{"po_1": decimal.NewFromInt(5)}

	rows := BuildSummary([]*BatchGroup{group}, fees, ExtractRefunds(nil, nil))

	if !rows[0].Balanced {
		t.Errorf("one-cent difference must stay within tolerance, difference = %s", rows[0].Difference)
	}
}
