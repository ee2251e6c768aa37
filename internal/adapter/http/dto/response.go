package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/scaap/striperecon/internal/domain"
	"github.com/scaap/striperecon/internal/usecase"
)

// JournalLineResponse represents a journal line in API responses.
type JournalLineResponse struct {
	Date        string  `json:"date"`
	Account     string  `json:"account"`
	Debit       *string `json:"debit"`
	Credit      *string `json:"credit"`
	Description string  `json:"description"`
}

// JournalFromDomain converts journal lines to responses.
func JournalFromDomain(journal []domain.JournalLine) []JournalLineResponse {
	result := make([]JournalLineResponse, len(journal))
	for i, l := range journal {
		result[i] = JournalLineResponse{
			Date:        l.Date.Format("2006-01-02"),
			Account:     l.Account,
			Debit:       nullString(l.Debit),
			Credit:      nullString(l.Credit),
			Description: l.Description,
		}
	}
	return result
}

// SummaryRowResponse represents a reconciliation summary row.
type SummaryRowResponse struct {
	PayoutID   string `json:"payout_id"`
	Gross      string `json:"gross"`
	NetDeposit string `json:"net_deposit"`
	Fees       string `json:"fees"`
	Refunds    string `json:"refunds"`
	Difference string `json:"difference"`
	Balanced   bool   `json:"balanced"`
}

// UnmatchedPaymentResponse represents a payment with no payout batch.
type UnmatchedPaymentResponse struct {
	AttendeeID     string `json:"attendee_id"`
	Amount         string `json:"amount"`
	RevenueAccount string `json:"revenue_account"`
}

// DeferredBatchResponse represents a payout batch awaiting a deposit.
type DeferredBatchResponse struct {
	TransferID string `json:"transfer_id"`
	Gross      string `json:"gross"`
	Payments   int    `json:"payments"`
}

// RefundResponse represents a refund schedule row.
type RefundResponse struct {
	Date             string `json:"date"`
	PayoutID         string `json:"payout_id"`
	Description      string `json:"description"`
	Gross            string `json:"gross"`
	Fee              string `json:"fee"`
	Net              string `json:"net"`
	AttendeeID       string `json:"attendee_id,omitempty"`
	Company          string `json:"company,omitempty"`
	SuggestedAccount string `json:"suggested_account"`
}

// ReconcileResponse is the JSON form of a reconciliation run.
type ReconcileResponse struct {
	RunID          string                     `json:"run_id"`
	Journal        []JournalLineResponse      `json:"journal"`
	Summary        []SummaryRowResponse       `json:"summary"`
	Unmatched      []UnmatchedPaymentResponse `json:"unmatched"`
	Deferred       []DeferredBatchResponse    `json:"deferred"`
	Refunds        []RefundResponse           `json:"refunds"`
	Ledger         []string                   `json:"ledger"`
	Skipped        []string                   `json:"skipped,omitempty"`
	DroppedRefunds int                        `json:"dropped_refunds"`
	CompletedAt    time.Time                  `json:"completed_at"`
}

// ReconcileFromResult converts a run result to its JSON response.
func ReconcileFromResult(r *usecase.RunResult) *ReconcileResponse {
	resp := &ReconcileResponse{
		RunID:          r.RunID,
		Journal:        JournalFromDomain(r.Journal),
		Summary:        make([]SummaryRowResponse, len(r.Summary)),
		Unmatched:      make([]UnmatchedPaymentResponse, len(r.Unmatched)),
		Deferred:       make([]DeferredBatchResponse, len(r.Deferred)),
		Ledger:         r.UpdatedLedger,
		Skipped:        r.Skipped,
		DroppedRefunds: r.DroppedRefunds,
		CompletedAt:    r.CompletedAt,
	}
	for i, row := range r.Summary {
		resp.Summary[i] = SummaryRowResponse{
			PayoutID:   row.PayoutID,
			Gross:      row.Gross.StringFixed(2),
			NetDeposit: row.NetDeposit.StringFixed(2),
			Fees:       row.Fees.StringFixed(2),
			Refunds:    row.Refunds.StringFixed(2),
			Difference: row.Difference.StringFixed(2),
			Balanced:   row.Balanced,
		}
	}
	for i, p := range r.Unmatched {
		resp.Unmatched[i] = UnmatchedPaymentResponse{
			AttendeeID:     p.AttendeeID,
			Amount:         p.Amount.StringFixed(2),
			RevenueAccount: p.RevenueAccount,
		}
	}
	for i, g := range r.Deferred {
		resp.Deferred[i] = DeferredBatchResponse{
			TransferID: g.TransferID,
			Gross:      g.Gross().StringFixed(2),
			Payments:   len(g.Payments),
		}
	}
	if r.Refunds != nil {
		resp.Refunds = make([]RefundResponse, len(r.Refunds))
		for i, row := range r.Refunds {
			resp.Refunds[i] = RefundResponse{
				Date:             row.Date.Format("2006-01-02"),
				PayoutID:         row.PayoutID,
				Description:      row.Description,
				Gross:            row.Gross.StringFixed(2),
				Fee:              row.Fee.StringFixed(2),
				Net:              row.Net.StringFixed(2),
				AttendeeID:       row.AttendeeID,
				Company:          row.Company,
				SuggestedAccount: row.SuggestedAccount,
			}
		}
	}
	return resp
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func nullString(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := d.Decimal.StringFixed(2)
	return &s
}
