package handler

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/scaap/striperecon/internal/adapter/export"
	"github.com/scaap/striperecon/internal/adapter/http/dto"
	"github.com/scaap/striperecon/internal/adapter/ingest"
	"github.com/scaap/striperecon/internal/adapter/repository/memory"
	"github.com/scaap/striperecon/internal/domain"
	"github.com/scaap/striperecon/internal/infrastructure/metrics"
	"github.com/scaap/striperecon/internal/usecase"
)

// Multipart form field names for the reconcile endpoint.
const (
	FieldAttendees      = "attendees"
	FieldExhibitors     = "exhibitors"
	FieldPayments       = "payments"
	FieldPayouts        = "payouts"
	FieldBalanceHistory = "balance_history"
	FieldLedger         = "ledger"
)

// ReconcileHandler handles reconciliation run requests.
type ReconcileHandler struct {
	uc *usecase.ReconcileUseCase
	// store is the shared processed-payouts ledger. Nil when the service
	// runs without a database; the ledger must then arrive as an upload.
	store          usecase.LedgerStore
	metrics        *metrics.Metrics
	logger         zerolog.Logger
	maxUploadBytes int64
}

// NewReconcileHandler creates a new ReconcileHandler.
func NewReconcileHandler(uc *usecase.ReconcileUseCase, store usecase.LedgerStore, m *metrics.Metrics, logger zerolog.Logger, maxUploadBytes int64) *ReconcileHandler {
	return &ReconcileHandler{
		uc:             uc,
		store:          store,
		metrics:        m,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// Run accepts the exported source files as a multipart form, executes one
// reconciliation run and returns either the output bundle (a zip with the
// workbook and updated ledger) or, with ?format=json, the run as JSON.
func (h *ReconcileHandler) Run(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form", err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	input, err := h.buildInput(r)
	if err != nil {
		h.countFailure("bad_input")
		writeError(w, mapDomainError(err), "invalid input", err.Error())
		return
	}

	if input.Ledger == nil && h.store != nil {
		ledger, err := h.store.Load(r.Context())
		if err != nil {
			h.countFailure("ledger_load")
			writeError(w, http.StatusInternalServerError, "ledger load failed", err.Error())
			return
		}
		input.Ledger = ledger
	}

	start := time.Now()
	if h.metrics != nil {
		h.metrics.RunsStarted.Inc()
	}

	result, err := h.uc.Run(r.Context(), *input)
	if err != nil {
		h.countFailure("run")
		writeError(w, mapDomainError(err), "reconciliation failed", err.Error())
		return
	}

	if err := h.persistLedger(r, input, result); err != nil {
		h.countFailure("ledger_save")
		writeError(w, http.StatusInternalServerError, "ledger save failed", err.Error())
		return
	}

	h.observe(result, time.Since(start))

	if r.URL.Query().Get("format") == "json" {
		writeJSON(w, http.StatusOK, dto.ReconcileFromResult(result))
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "reconciliation_"+result.RunID+".zip"))
	if err := export.WriteBundle(w, result); err != nil {
		h.logger.Error().Err(err).Str("run_id", result.RunID).Msg("failed to write output bundle")
	}
}

// buildInput parses the uploaded files into a run input. Missing required
// files are left nil so run validation reports them uniformly.
func (h *ReconcileHandler) buildInput(r *http.Request) (*usecase.RunInput, error) {
	input := &usecase.RunInput{}

	if t, err := h.formXLSX(r, FieldAttendees, ingest.TableAttendees); err != nil {
		return nil, err
	} else if t != nil {
		if input.Attendees, err = ingest.ParseRegistrants(t, domain.RegistrantAttendee); err != nil {
			return nil, err
		}
	}

	if t, err := h.formXLSX(r, FieldExhibitors, ingest.TableExhibitors); err != nil {
		return nil, err
	} else if t != nil {
		if input.Exhibitors, err = ingest.ParseRegistrants(t, domain.RegistrantExhibitorSponsor); err != nil {
			return nil, err
		}
	}

	if t, err := h.formCSV(r, FieldPayments, ingest.TablePayments); err != nil {
		return nil, err
	} else if t != nil {
		if input.Payments, err = ingest.ParsePayments(t); err != nil {
			return nil, err
		}
	}

	if t, err := h.formCSV(r, FieldPayouts, ingest.TablePayouts); err != nil {
		return nil, err
	} else if t != nil {
		if input.Payouts, err = ingest.ParsePayouts(t); err != nil {
			return nil, err
		}
	}

	if t, err := h.formCSV(r, FieldBalanceHistory, ingest.TableBalanceHistory); err != nil {
		return nil, err
	} else if t != nil {
		if input.Activity, err = ingest.ParseActivity(t); err != nil {
			return nil, err
		}
	}

	if t, err := h.formCSV(r, FieldLedger, ingest.TableLedger); err != nil {
		return nil, err
	} else if t != nil {
		if input.Ledger, err = ingest.ParseLedger(t); err != nil {
			return nil, err
		}
	}

	return input, nil
}

// persistLedger saves the updated ledger to whichever store backs this run.
// An uploaded ledger wins over the shared store so a manual rerun with an
// explicit ledger file never mutates shared state.
func (h *ReconcileHandler) persistLedger(r *http.Request, input *usecase.RunInput, result *usecase.RunResult) error {
	var store usecase.LedgerStore
	if _, ok := r.MultipartForm.File[FieldLedger]; ok {
		store = memory.NewLedgerStore(input.Ledger)
	} else {
		store = h.store
	}
	if store == nil {
		return nil
	}
	return store.Save(r.Context(), result.UpdatedLedger)
}

func (h *ReconcileHandler) formCSV(r *http.Request, field, name string) (*ingest.Table, error) {
	f, ok, err := openForm(r, field)
	if err != nil || !ok {
		return nil, err
	}
	defer f.Close()
	return ingest.ReadCSVTable(name, f)
}

func (h *ReconcileHandler) formXLSX(r *http.Request, field, name string) (*ingest.Table, error) {
	f, ok, err := openForm(r, field)
	if err != nil || !ok {
		return nil, err
	}
	defer f.Close()
	return ingest.ReadXLSXTable(name, f)
}

func openForm(r *http.Request, field string) (multipart.File, bool, error) {
	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		return nil, false, nil
	}
	f, err := headers[0].Open()
	if err != nil {
		return nil, false, fmt.Errorf("failed to open %s upload: %w", field, err)
	}
	return f, true, nil
}

func (h *ReconcileHandler) countFailure(reason string) {
	if h.metrics != nil {
		h.metrics.RunsFailed.WithLabelValues(reason).Inc()
	}
}

func (h *ReconcileHandler) observe(result *usecase.RunResult, elapsed time.Duration) {
	if h.metrics == nil {
		return
	}
	h.metrics.RunDuration.Observe(elapsed.Seconds())
	h.metrics.JournalLines.Add(float64(len(result.Journal)))
	h.metrics.LedgerEntries.Set(float64(len(result.UpdatedLedger)))
	h.metrics.SettledBatches.Add(float64(len(result.Summary)))
	h.metrics.DeferredBatches.Add(float64(len(result.Deferred)))
	h.metrics.UnmatchedPayments.Add(float64(len(result.Unmatched)))
	h.metrics.SkippedBatches.Add(float64(len(result.Skipped)))
	h.metrics.DroppedRefunds.Add(float64(result.DroppedRefunds))

	mismatches := 0
	for _, row := range result.Summary {
		if !row.Balanced {
			mismatches++
		}
	}
	h.metrics.ValidationMismatches.Add(float64(mismatches))
}
