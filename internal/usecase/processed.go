package usecase

import (
	"sort"

	"github.com/scaap/striperecon/internal/domain"
)

// ProcessedSet is the idempotency ledger: transfer ids journalized by earlier
// runs, held in canonical form.
type ProcessedSet map[string]struct{}

// NewProcessedSet builds a set from loaded ledger ids.
func NewProcessedSet(ids []string) ProcessedSet {
	set := make(ProcessedSet, len(ids))
	for _, id := range ids {
		if c := domain.CanonicalID(id); c != "" {
			set[c] = struct{}{}
		}
	}
	return set
}

// Contains reports whether a transfer id was already journalized.
func (s ProcessedSet) Contains(transferID string) bool {
	_, ok := s[domain.CanonicalID(transferID)]
	return ok
}

// FilterProcessed splits settled batches into fresh ones and ones already in
// the ledger. Filtering happens before any journal construction, so a batch
// recorded in a prior run is never re-debited.
func FilterProcessed(settled []*BatchGroup, processed ProcessedSet) (fresh, skipped []*BatchGroup) {
	for _, g := range settled {
		if processed.Contains(g.TransferID) {
			skipped = append(skipped, g)
			continue
		}
		fresh = append(fresh, g)
	}
	return fresh, skipped
}

// UpdatedLedger unions the loaded ledger with this run's freshly settled
// batches: loaded ids keep their order, new ids follow sorted, duplicates
// collapse to the first occurrence.
func UpdatedLedger(loaded []string, fresh []*BatchGroup) []string {
	seen := make(map[string]struct{}, len(loaded)+len(fresh))
	out := make([]string, 0, len(loaded)+len(fresh))
	for _, id := range loaded {
		c := domain.CanonicalID(id)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}

	added := make([]string, 0, len(fresh))
	for _, g := range fresh {
		if _, ok := seen[g.TransferID]; ok {
			continue
		}
		seen[g.TransferID] = struct{}{}
		added = append(added, g.TransferID)
	}
	sort.Strings(added)

	return append(out, added...)
}
