package usecase

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/scaap/striperecon/internal/domain"
)

// BatchGroup is the set of captured payments the processor settled together
// into one payout batch.
type BatchGroup struct {
	TransferID string
	Payments   []domain.Payment
	// Payout is nil while the batch has no matching deposit (deferred).
	Payout *domain.Payout
}

// Gross sums the captured payment amounts in the group.
func (g *BatchGroup) Gross() decimal.Decimal {
	total := decimal.Zero
	for _, p := range g.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

// MatchResult partitions captured payments by payout status. Every captured
// payment lands in exactly one of the three buckets.
type MatchResult struct {
	// Settled batches have a matching payout with arrival date and net amount.
	Settled []*BatchGroup
	// Deferred batches reference a transfer id with no payout yet. They are
	// held back whole, never dropped.
	Deferred []*BatchGroup
	// Unmatched payments carry no transfer id at all.
	Unmatched []domain.Payment
}

// MatchPayouts groups captured payments by canonical transfer id and joins
// each group to its payout record. Uncaptured payments are ignored. Ids are
// compared in canonical string form so a numeric export on one side cannot
// produce a false miss.
func MatchPayouts(payments []domain.Payment, payouts []domain.Payout) *MatchResult {
	byID := make(map[string]*domain.Payout, len(payouts))
	for i := range payouts {
		byID[domain.CanonicalID(payouts[i].ID)] = &payouts[i]
	}

	groups := make(map[string]*BatchGroup)
	result := &MatchResult{}

	for _, p := range payments {
		if !p.Captured {
			continue
		}
		id := domain.CanonicalID(p.TransferID)
		if id == "" {
			result.Unmatched = append(result.Unmatched, p)
			continue
		}
		g, ok := groups[id]
		if !ok {
			g = &BatchGroup{TransferID: id, Payout: byID[id]}
			groups[id] = g
		}
		g.Payments = append(g.Payments, p)
	}

	for _, g := range groups {
		if g.Payout != nil {
			result.Settled = append(result.Settled, g)
		} else {
			result.Deferred = append(result.Deferred, g)
		}
	}

	sortGroups(result.Settled)
	sortGroups(result.Deferred)

	return result
}

func sortGroups(groups []*BatchGroup) {
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].TransferID < groups[j].TransferID
	})
}
