package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/scaap/striperecon/internal/domain"
)

// ReconcileUseCase runs one reconciliation pass over fully materialized
// inputs. The computation is synchronous and pure apart from logging: the
// ledger is loaded and persisted by the caller, so a failed or repeated run
// cannot corrupt it.
type ReconcileUseCase struct {
	idGen  IDGenerator
	logger zerolog.Logger
}

// NewReconcileUseCase creates a new ReconcileUseCase.
func NewReconcileUseCase(idGen IDGenerator, logger zerolog.Logger) *ReconcileUseCase {
	return &ReconcileUseCase{
		idGen:  idGen,
		logger: logger,
	}
}

// RunInput holds the materialized input tables for one run. A nil slice means
// the table was not supplied; an empty non-nil slice is a supplied, empty
// table. Activity is the only optional table: nil switches the run into the
// degraded zero-fee, no-refunds mode.
type RunInput struct {
	Attendees  []domain.Registrant
	Exhibitors []domain.Registrant
	Payments   []domain.Payment
	Payouts    []domain.Payout
	Activity   []domain.Activity
	// Ledger is the loaded idempotency ledger of previously journalized
	// transfer ids.
	Ledger []string
}

// RunResult is everything one reconciliation run produces.
type RunResult struct {
	RunID   string
	Journal []domain.JournalLine
	// Unmatched payments carry no transfer id and are excluded from the
	// journal and summary.
	Unmatched []domain.Payment
	// Deferred batches await a payout and will settle on a later run.
	Deferred []*BatchGroup
	Summary  []SummaryRow
	// Refunds is nil exactly when no balance-history feed was supplied.
	Refunds []RefundScheduleRow
	// UpdatedLedger is the deduplicated union of the loaded ledger and this
	// run's settled batches, for the caller to persist.
	UpdatedLedger []string
	// Skipped lists settled batches filtered out by the ledger this run.
	Skipped []string
	// DroppedRefunds counts refund rows whose batch has not settled yet.
	DroppedRefunds int
	CompletedAt    time.Time
}

// Run executes the reconciliation pipeline. Structural problems (missing
// required inputs) abort before any output; data-level anomalies come back as
// flagged rows on the result.
func (uc *ReconcileUseCase) Run(ctx context.Context, input RunInput) (*RunResult, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	runID := uc.idGen.Generate()
	log := uc.logger.With().Str("run_id", runID).Logger()

	index := domain.BuildRegistrantIndex(input.Attendees, input.Exhibitors)
	payments := ClassifyPayments(input.Payments, index)
	log.Debug().
		Int("registrants", len(index)).
		Int("payments", len(payments)).
		Msg("classified payments")

	match := MatchPayouts(payments, input.Payouts)
	fees := AggregateFees(input.Activity)
	refunds := ExtractRefunds(input.Activity, input.Payouts)

	processed := NewProcessedSet(input.Ledger)
	fresh, skipped := FilterProcessed(match.Settled, processed)

	journal := BuildJournal(fresh, fees)
	journal = append(journal, refunds.Lines...)
	domain.SortJournal(journal)

	result := &RunResult{
		RunID:          runID,
		Journal:        journal,
		Unmatched:      match.Unmatched,
		Deferred:       match.Deferred,
		Summary:        BuildSummary(fresh, fees, refunds),
		UpdatedLedger:  UpdatedLedger(input.Ledger, fresh),
		DroppedRefunds: refunds.Dropped,
		CompletedAt:    time.Now().UTC(),
	}
	if input.Activity != nil {
		result.Refunds = refunds.Schedule
		if result.Refunds == nil {
			result.Refunds = []RefundScheduleRow{}
		}
	}
	for _, g := range skipped {
		result.Skipped = append(result.Skipped, g.TransferID)
	}

	mismatches := 0
	for _, row := range result.Summary {
		if !row.Balanced {
			mismatches++
			log.Warn().
				Str("payout_id", row.PayoutID).
				Str("difference", row.Difference.String()).
				Msg("reconciliation identity does not tie out")
		}
	}

	log.Info().
		Int("journal_lines", len(result.Journal)).
		Int("settled_batches", len(fresh)).
		Int("skipped_batches", len(result.Skipped)).
		Int("deferred_batches", len(result.Deferred)).
		Int("unmatched_payments", len(result.Unmatched)).
		Int("validation_mismatches", mismatches).
		Int("dropped_refunds", result.DroppedRefunds).
		Msg("reconciliation run completed")

	return result, nil
}

func validateInput(input RunInput) error {
	required := []struct {
		name    string
		present bool
	}{
		{"attendee registrants", input.Attendees != nil},
		{"exhibitor registrants", input.Exhibitors != nil},
		{"payments", input.Payments != nil},
		{"payouts", input.Payouts != nil},
		{"ledger", input.Ledger != nil},
	}
	for _, in := range required {
		if !in.present {
			return fmt.Errorf("%w: %s", domain.ErrMissingInput, in.name)
		}
	}
	return nil
}
