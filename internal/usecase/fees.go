package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/scaap/striperecon/internal/domain"
)

// FeeLookup maps a canonical transfer id to the summed processor fees of its
// batch, stored as a debit magnitude.
type FeeLookup map[string]decimal.Decimal

// For returns the aggregated fee for a batch. A missing key means no fee
// activity was reported and is zero, never an error.
func (f FeeLookup) For(transferID string) decimal.Decimal {
	if f == nil {
		return decimal.Zero
	}
	if fee, ok := f[domain.CanonicalID(transferID)]; ok {
		return fee
	}
	return decimal.Zero
}

// AggregateFees sums fee amounts per payout batch from the balance-history
// feed. Rows are summed signed so refund fee reversals net against charge
// fees; only the final per-batch total is normalized to a magnitude. A nil
// feed yields an empty lookup: the degraded no-fee-data mode.
func AggregateFees(activity []domain.Activity) FeeLookup {
	lookup := make(FeeLookup, len(activity))
	for _, a := range activity {
		id := domain.CanonicalID(a.TransferID)
		if id == "" {
			continue
		}
		lookup[id] = lookup[id].Add(a.Fee)
	}
	for id, total := range lookup {
		lookup[id] = total.Abs()
	}
	return lookup
}
