package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/scaap/striperecon/internal/adapter/export"
	"github.com/scaap/striperecon/internal/adapter/ingest"
)

// LedgerStore implements usecase.LedgerStore on a single-column CSV file,
// the same format the original ledger exports use. Writes go through a temp
// file and rename so a crashed run cannot leave a half-written ledger.
type LedgerStore struct {
	path string
}

// NewLedgerStore creates a LedgerStore backed by the CSV at path.
func NewLedgerStore(path string) *LedgerStore {
	return &LedgerStore{path: path}
}

// Load reads the processed transfer ids. A missing file is an empty ledger,
// not an error: the first run of a reporting period starts from nothing.
func (s *LedgerStore) Load(ctx context.Context) ([]string, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open ledger %s: %w", s.path, err)
	}
	defer f.Close()

	table, err := ingest.ReadCSVTable(ingest.TableLedger, f)
	if err != nil {
		return nil, err
	}
	return ingest.ParseLedger(table)
}

// Save atomically replaces the ledger file with the updated id set.
func (s *LedgerStore) Save(ctx context.Context, transferIDs []string) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".ledger-*")
	if err != nil {
		return fmt.Errorf("create temp ledger: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := export.WriteLedgerCSV(tmp, transferIDs); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp ledger: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace ledger %s: %w", s.path, err)
	}
	return nil
}
