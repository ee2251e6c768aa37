package usecase

import (
	"context"
	"time"
)

// LedgerStore persists the set of payout transfer ids journalized in prior
// runs. The engine never writes through it mid-run; callers load before Run
// and save the updated ledger afterwards, so a failed run leaves the ledger
// untouched.
type LedgerStore interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, transferIDs []string) error
}

// IDGenerator generates run identifiers.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore caches HTTP responses keyed by client idempotency keys.
type IdempotencyStore interface {
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (exists bool, cached []byte, err error)
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
