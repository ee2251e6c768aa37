package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteLedgerCSV renders the updated processed-transfers ledger in the same
// single-column format it is loaded from, so the output of one run is the
// ledger input of the next.
func WriteLedgerCSV(w io.Writer, transferIDs []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"transfer"}); err != nil {
		return fmt.Errorf("write ledger header: %w", err)
	}
	for _, id := range transferIDs {
		if err := cw.Write([]string{id}); err != nil {
			return fmt.Errorf("write ledger row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
