package export

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/scaap/striperecon/internal/domain"
	"github.com/scaap/striperecon/internal/usecase"
)

// Output sheet names. They match what the accounting team's checklists refer
// to, so keep them stable.
const (
	SheetJournal   = "Journal Entries"
	SheetUnmatched = "Unmatched Stripe Txns"
	SheetDeferred  = "Deferred Entries"
	SheetSummary   = "Reconciliation Summary"
	SheetRefunds   = "Refunds Schedule"
)

const (
	dateFormat     = "2006-01-02"
	currencyNumFmt = "$#,##0.00"
	highlightColor = "FFFF99"
)

// BuildWorkbook renders a run result as the reconciliation workbook. The
// refunds sheet is present exactly when the run had a balance-history feed.
// All validation totals were computed by the engine; the SUM formulas written
// here are presentation only.
func BuildWorkbook(result *usecase.RunResult) (*excelize.File, error) {
	f := excelize.NewFile()

	currency, err := f.NewStyle(&excelize.Style{CustomNumFmt: ptr(currencyNumFmt)})
	if err != nil {
		return nil, fmt.Errorf("currency style: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("bold style: %w", err)
	}
	highlight, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{highlightColor}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("highlight style: %w", err)
	}

	if err := writeJournalSheet(f, result.Journal, currency, bold, highlight); err != nil {
		return nil, err
	}
	if err := writeUnmatchedSheet(f, result.Unmatched, currency); err != nil {
		return nil, err
	}
	if err := writeDeferredSheet(f, result.Deferred, currency); err != nil {
		return nil, err
	}
	if err := writeSummarySheet(f, result.Summary, currency, bold); err != nil {
		return nil, err
	}
	if result.Refunds != nil {
		if err := writeRefundsSheet(f, result.Refunds, currency); err != nil {
			return nil, err
		}
	}

	return f, nil
}

func writeJournalSheet(f *excelize.File, journal []domain.JournalLine, currency, bold, highlight int) error {
	// NewFile starts with one default sheet; rename it instead of adding.
	if err := f.SetSheetName(f.GetSheetName(0), SheetJournal); err != nil {
		return err
	}
	if err := setRow(f, SheetJournal, 1, "Date", "Account", "Debit", "Credit", "Description"); err != nil {
		return err
	}

	for i, line := range journal {
		row := []any{
			line.Date.Format(dateFormat),
			line.Account,
			nullAmount(line.Debit),
			nullAmount(line.Credit),
			line.Description,
		}
		if err := setRow(f, SheetJournal, i+2, row...); err != nil {
			return err
		}
	}

	if err := moneyColumns(f, SheetJournal, currency, "C", "D"); err != nil {
		return err
	}
	if err := totalsRow(f, SheetJournal, len(journal), bold, currency, "C", "D"); err != nil {
		return err
	}

	// Flag suspense-account rows for the accountant's follow-up.
	if len(journal) > 0 {
		area := fmt.Sprintf("A2:E%d", len(journal)+1)
		err := f.SetConditionalFormat(SheetJournal, area, []excelize.ConditionalFormatOptions{
			{Type: "formula", Criteria: `=ISNUMBER(SEARCH("XXXX",$B2))`, Format: &highlight},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func writeUnmatchedSheet(f *excelize.File, unmatched []domain.Payment, currency int) error {
	if _, err := f.NewSheet(SheetUnmatched); err != nil {
		return err
	}
	if err := setRow(f, SheetUnmatched, 1, "Attendee ID", "Amount", "Revenue Account"); err != nil {
		return err
	}
	for i, p := range unmatched {
		if err := setRow(f, SheetUnmatched, i+2, p.AttendeeID, amount(p.Amount), p.RevenueAccount); err != nil {
			return err
		}
	}
	return moneyColumns(f, SheetUnmatched, currency, "B")
}

func writeDeferredSheet(f *excelize.File, deferred []*usecase.BatchGroup, currency int) error {
	if _, err := f.NewSheet(SheetDeferred); err != nil {
		return err
	}
	if err := setRow(f, SheetDeferred, 1, "Transfer", "Attendee ID", "Amount", "Revenue Account"); err != nil {
		return err
	}
	row := 2
	for _, g := range deferred {
		for _, p := range g.Payments {
			if err := setRow(f, SheetDeferred, row, g.TransferID, p.AttendeeID, amount(p.Amount), p.RevenueAccount); err != nil {
				return err
			}
			row++
		}
	}
	return moneyColumns(f, SheetDeferred, currency, "C")
}

func writeSummarySheet(f *excelize.File, summary []usecase.SummaryRow, currency, bold int) error {
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return err
	}
	header := []any{"Stripe Payout ID", "Gross Amount", "Net Deposit", "Stripe Fees", "Refunds", "Difference", "Balanced"}
	if err := setRow(f, SheetSummary, 1, header...); err != nil {
		return err
	}
	for i, row := range summary {
		cells := []any{
			row.PayoutID,
			amount(row.Gross),
			amount(row.NetDeposit),
			amount(row.Fees),
			amount(row.Refunds),
			amount(row.Difference),
			row.Balanced,
		}
		if err := setRow(f, SheetSummary, i+2, cells...); err != nil {
			return err
		}
	}
	if err := moneyColumns(f, SheetSummary, currency, "B", "C", "D", "E", "F"); err != nil {
		return err
	}
	return totalsRow(f, SheetSummary, len(summary), bold, currency, "B", "C", "D")
}

func writeRefundsSheet(f *excelize.File, refunds []usecase.RefundScheduleRow, currency int) error {
	if _, err := f.NewSheet(SheetRefunds); err != nil {
		return err
	}
	header := []any{
		"Date", "Stripe Payout ID", "Description", "Gross Amount", "Fee Amount",
		"Net Amount", "Attendee ID", "Company", "Suggested Account",
	}
	if err := setRow(f, SheetRefunds, 1, header...); err != nil {
		return err
	}
	for i, r := range refunds {
		date := ""
		if !r.Date.IsZero() {
			date = r.Date.Format(dateFormat)
		}
		cells := []any{
			date, r.PayoutID, r.Description, amount(r.Gross), amount(r.Fee),
			amount(r.Net), r.AttendeeID, r.Company, r.SuggestedAccount,
		}
		if err := setRow(f, SheetRefunds, i+2, cells...); err != nil {
			return err
		}
	}
	return moneyColumns(f, SheetRefunds, currency, "D", "E", "F")
}

func setRow(f *excelize.File, sheet string, row int, cells ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &cells)
}

// moneyColumns widens currency columns and applies the dollar format.
func moneyColumns(f *excelize.File, sheet string, style int, cols ...string) error {
	for _, col := range cols {
		if err := f.SetColWidth(sheet, col, col, 18); err != nil {
			return err
		}
		if err := f.SetColStyle(sheet, col, style); err != nil {
			return err
		}
	}
	return nil
}

// totalsRow writes a bold TOTALS label and a SUM formula under each money
// column.
func totalsRow(f *excelize.File, sheet string, dataRows int, bold, currency int, cols ...string) error {
	total := dataRows + 2
	labelCell := fmt.Sprintf("A%d", total)
	if err := f.SetCellValue(sheet, labelCell, "TOTALS"); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, labelCell, labelCell, bold); err != nil {
		return err
	}
	for _, col := range cols {
		cell := fmt.Sprintf("%s%d", col, total)
		formula := fmt.Sprintf("SUM(%s2:%s%d)", col, col, dataRows+1)
		if err := f.SetCellFormula(sheet, cell, formula); err != nil {
			return err
		}
	}
	return nil
}

func amount(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

// nullAmount renders the unset side of a journal line as an empty cell.
func nullAmount(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.InexactFloat64()
}

func ptr[T any](v T) *T { return &v }
