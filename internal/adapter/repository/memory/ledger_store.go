package memory

import "context"

// LedgerStore implements usecase.LedgerStore over an in-memory id list. The
// HTTP surface uses it when the ledger arrives as an uploaded CSV: the
// updated ledger leaves in the response bundle, so there is nothing durable
// to write.
type LedgerStore struct {
	ids []string
}

// NewLedgerStore wraps an already-parsed ledger.
func NewLedgerStore(ids []string) *LedgerStore {
	if ids == nil {
		ids = []string{}
	}
	return &LedgerStore{ids: ids}
}

// Load returns the wrapped ids.
func (s *LedgerStore) Load(ctx context.Context) ([]string, error) {
	return s.ids, nil
}

// Save retains the updated set for inspection.
func (s *LedgerStore) Save(ctx context.Context, transferIDs []string) error {
	s.ids = transferIDs
	return nil
}
