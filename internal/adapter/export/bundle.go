package export

import (
	"archive/zip"
	"fmt"
	"io"

	"github.com/scaap/striperecon/internal/usecase"
)

// Artifact names inside the download bundle.
const (
	WorkbookName = "Stripe_Reconciliation_Output.xlsx"
	LedgerName   = "processed_transfers_ledger.csv"
)

// WriteBundle streams a zip archive holding the reconciliation workbook and
// the updated ledger CSV.
func WriteBundle(w io.Writer, result *usecase.RunResult) error {
	workbook, err := BuildWorkbook(result)
	if err != nil {
		return fmt.Errorf("build workbook: %w", err)
	}
	defer workbook.Close()

	zw := zip.NewWriter(w)

	wb, err := zw.Create(WorkbookName)
	if err != nil {
		return fmt.Errorf("create %s: %w", WorkbookName, err)
	}
	if err := workbook.Write(wb); err != nil {
		return fmt.Errorf("write %s: %w", WorkbookName, err)
	}

	lg, err := zw.Create(LedgerName)
	if err != nil {
		return fmt.Errorf("create %s: %w", LedgerName, err)
	}
	if err := WriteLedgerCSV(lg, result.UpdatedLedger); err != nil {
		return fmt.Errorf("write %s: %w", LedgerName, err)
	}

	return zw.Close()
}
