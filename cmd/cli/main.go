package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/scaap/striperecon/internal/adapter/export"
	"github.com/scaap/striperecon/internal/adapter/ingest"
	"github.com/scaap/striperecon/internal/adapter/repository/file"
	"github.com/scaap/striperecon/internal/domain"
	"github.com/scaap/striperecon/internal/infrastructure/idgen"
	"github.com/scaap/striperecon/internal/infrastructure/logger"
	"github.com/scaap/striperecon/internal/usecase"
)

var (
	attendeesPath  string
	exhibitorsPath string
	paymentsPath   string
	payoutsPath    string
	balancePath    string
	ledgerPath     string
	outDir         string
	logLevel       string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "striperecon",
		Short: "Stripe payout reconciliation",
		Long:  `Reconciles Stripe payout exports against registration records and produces a journal entry workbook.`,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run one reconciliation pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconciliation(cmd.Context())
		},
	}

	runCmd.Flags().StringVar(&attendeesPath, "attendees", "", "Attendee registration export (xlsx)")
	runCmd.Flags().StringVar(&exhibitorsPath, "exhibitors", "", "Exhibitor/sponsor registration export (xlsx)")
	runCmd.Flags().StringVar(&paymentsPath, "payments", "", "Stripe payments export (csv)")
	runCmd.Flags().StringVar(&payoutsPath, "payouts", "", "Stripe payouts export (csv)")
	runCmd.Flags().StringVar(&balancePath, "balance-history", "", "Stripe balance history export (csv, optional)")
	runCmd.Flags().StringVar(&ledgerPath, "ledger", export.LedgerName, "Processed payouts ledger (csv, created if missing)")
	runCmd.Flags().StringVar(&outDir, "out", ".", "Output directory")

	for _, flag := range []string{"attendees", "exhibitors", "payments", "payouts"} {
		runCmd.MarkFlagRequired(flag)
	}

	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runReconciliation(ctx context.Context) error {
	log := logger.New(logger.Config{Level: logLevel, Format: "console"})

	attendees, err := readRegistrants(attendeesPath, ingest.TableAttendees, domain.RegistrantAttendee)
	if err != nil {
		return err
	}
	exhibitors, err := readRegistrants(exhibitorsPath, ingest.TableExhibitors, domain.RegistrantExhibitorSponsor)
	if err != nil {
		return err
	}

	payments, err := readCSV(paymentsPath, ingest.TablePayments, ingest.ParsePayments)
	if err != nil {
		return err
	}
	payouts, err := readCSV(payoutsPath, ingest.TablePayouts, ingest.ParsePayouts)
	if err != nil {
		return err
	}

	var activity []domain.Activity
	if balancePath != "" {
		activity, err = readCSV(balancePath, ingest.TableBalanceHistory, ingest.ParseActivity)
		if err != nil {
			return err
		}
	} else {
		log.Warn().Msg("no balance history supplied; fees default to zero and refunds are skipped")
	}

	store := file.NewLedgerStore(ledgerPath)
	ledger, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}

	uc := usecase.NewReconcileUseCase(idgen.NewULIDGenerator(), log)
	result, err := uc.Run(ctx, usecase.RunInput{
		Attendees:  attendees,
		Exhibitors: exhibitors,
		Payments:   payments,
		Payouts:    payouts,
		Activity:   activity,
		Ledger:     ledger,
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	workbook, err := export.BuildWorkbook(result)
	if err != nil {
		return fmt.Errorf("failed to build workbook: %w", err)
	}
	workbookPath := filepath.Join(outDir, export.WorkbookName)
	if err := workbook.SaveAs(workbookPath); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	if err := store.Save(ctx, result.UpdatedLedger); err != nil {
		return fmt.Errorf("failed to save ledger: %w", err)
	}

	log.Info().
		Str("workbook", workbookPath).
		Str("ledger", ledgerPath).
		Int("journal_lines", len(result.Journal)).
		Int("deferred_batches", len(result.Deferred)).
		Int("unmatched_payments", len(result.Unmatched)).
		Msg("reconciliation complete")

	return nil
}

func readRegistrants(path, name string, typ domain.RegistrantType) ([]domain.Registrant, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	table, err := ingest.ReadXLSXTable(name, f)
	if err != nil {
		return nil, err
	}
	return ingest.ParseRegistrants(table, typ)
}

func readCSV[T any](path, name string, parse func(*ingest.Table) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	table, err := ingest.ReadCSVTable(name, f)
	if err != nil {
		return nil, err
	}
	return parse(table)
}
