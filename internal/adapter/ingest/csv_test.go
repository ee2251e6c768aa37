package ingest

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/scaap/striperecon/internal/domain"
)

func TestParsePayments(t *testing.T) {
	csv := strings.Join([]string{
		"id,Amount,Captured,transfer,attendeeid (metadata)",
		"ch_1,\"1,250.00\",true,po_1,10234.0",
		"ch_2,$50.25,false,,10235",
	}, "\n")

	table, err := ReadCSVTable(TablePayments, strings.NewReader(csv))
	require.NoError(t, err)

	payments, err := ParsePayments(table)
	require.NoError(t, err)
	require.Len(t, payments, 2)

	require.Equal(t, "10234", payments[0].AttendeeID)
	require.Equal(t, "po_1", payments[0].TransferID)
	require.True(t, payments[0].Captured)
	require.True(t, payments[0].Amount.Equal(decimal.RequireFromString("1250.00")))

	require.False(t, payments[1].Captured)
	require.Empty(t, payments[1].TransferID)
	require.True(t, payments[1].Amount.Equal(decimal.RequireFromString("50.25")))
}

func TestParsePayments_MissingColumn(t *testing.T) {
	table, err := ReadCSVTable(TablePayments, strings.NewReader("amount,captured\n10,true"))
	require.NoError(t, err)

	_, err = ParsePayments(table)
	require.ErrorIs(t, err, domain.ErrMissingColumn)
	require.Contains(t, err.Error(), TablePayments)
	require.Contains(t, err.Error(), "transfer")
}

func TestParsePayouts(t *testing.T) {
	csv := strings.Join([]string{
		"id,Amount,arrival_date (utc)",
		"po_1,145.00,2024-01-05",
	}, "\n")

	table, err := ReadCSVTable(TablePayouts, strings.NewReader(csv))
	require.NoError(t, err)

	payouts, err := ParsePayouts(table)
	require.NoError(t, err)
	require.Len(t, payouts, 1)
	require.Equal(t, "po_1", payouts[0].ID)
	require.Equal(t, "2024-01-05", payouts[0].ArrivalDate.Format("2006-01-02"))
	require.True(t, payouts[0].Amount.Equal(decimal.RequireFromString("145.00")))
}

func TestParsePayouts_BadDate(t *testing.T) {
	csv := "id,amount,arrival_date (utc)\npo_1,145.00,not-a-date"
	table, err := ReadCSVTable(TablePayouts, strings.NewReader(csv))
	require.NoError(t, err)

	_, err = ParsePayouts(table)
	require.Error(t, err)
	require.Contains(t, err.Error(), "row 2")
}

func TestParseActivity(t *testing.T) {
	csv := strings.Join([]string{
		"Transfer,Type,Amount,Fee,Net,Source,Created (UTC),attendeeid (metadata),company (metadata)",
		"po_1,charge,100.00,3.20,96.80,ch_1,2024-01-02 08:15:00,10234,Acme",
		"po_1,refund,-40.00,-1.20,-38.80,ch_2,2024-01-03,10235,Beta LLC",
		"po_2,charge,50.00,,,,,,",
	}, "\n")

	table, err := ReadCSVTable(TableBalanceHistory, strings.NewReader(csv))
	require.NoError(t, err)

	activity, err := ParseActivity(table)
	require.NoError(t, err)
	require.Len(t, activity, 3)

	require.False(t, activity[0].IsRefund())
	require.True(t, activity[1].IsRefund())
	require.Equal(t, "Beta LLC", activity[1].Company)
	require.Equal(t, "ch_2", activity[1].Source)
	require.Equal(t, "2024-01-03", activity[1].Created.Format("2006-01-02"))

	// Blank optional cells read as zero.
	require.True(t, activity[2].Fee.IsZero())
	require.True(t, activity[2].Net.IsZero())
}

func TestParseLedger(t *testing.T) {
	table, err := ReadCSVTable(TableLedger, strings.NewReader("transfer\npo_1\n\npo_2.0\n"))
	require.NoError(t, err)

	ids, err := ParseLedger(table)
	require.NoError(t, err)
	require.Equal(t, []string{"po_1", "po_2.0"}, ids)
}

func TestReadCSVTable_Empty(t *testing.T) {
	_, err := ReadCSVTable(TableLedger, strings.NewReader(""))
	require.Error(t, err)
	require.Contains(t, err.Error(), "empty file")
}

func TestParseAmountFormats(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "145.00", want: "145.00"},
		{in: "$1,234.56", want: "1234.56"},
		{in: "-40", want: "-40"},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseAmount(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseAmount(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseAmount(%q): %v", tt.in, err)
			continue
		}
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("parseAmount(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
