package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scaap/striperecon/internal/domain"
)

// LedgerStore implements usecase.LedgerStore on a shared Postgres table, for
// teams that run reconciliation from more than one place and cannot pass a
// ledger CSV around.
type LedgerStore struct {
	pool    *pgxpool.Pool
	retrier *Retrier
}

// NewLedgerStore creates a new LedgerStore.
func NewLedgerStore(pool *pgxpool.Pool) *LedgerStore {
	return &LedgerStore{
		pool:    pool,
		retrier: NewRetrier(),
	}
}

// Load reads every processed transfer id in recorded order.
func (s *LedgerStore) Load(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT transfer_id FROM processed_payouts ORDER BY recorded_at, transfer_id`)
	if err != nil {
		return nil, fmt.Errorf("load processed payouts: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan processed payout: %w", err)
		}
		ids = append(ids, domain.CanonicalID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load processed payouts: %w", err)
	}
	return ids, nil
}

// Save records the updated ledger. Ids already present are left untouched,
// so concurrent writers converge on the union instead of failing.
func (s *LedgerStore) Save(ctx context.Context, transferIDs []string) error {
	return s.retrier.Retry(ctx, func() error {
		return s.saveOnce(ctx, transferIDs)
	})
}

func (s *LedgerStore) saveOnce(ctx context.Context, transferIDs []string) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, id := range transferIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO processed_payouts (transfer_id) VALUES ($1)
			 ON CONFLICT (transfer_id) DO NOTHING`,
			domain.CanonicalID(id))
		if err != nil {
			return fmt.Errorf("record payout %s: %w", id, err)
		}
	}

	return tx.Commit(ctx)
}
