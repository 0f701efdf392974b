package fs

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/trebuchet-org/treb-vault/internal/domain/config"
	"github.com/trebuchet-org/treb-vault/internal/domain/models"
	"github.com/trebuchet-org/treb-vault/internal/usecase"
)

const snapshotSuffix = "-snapshot.json"

// SnapshotStoreAdapter implements ProposalSnapshotStore using one JSON file per ledger
type SnapshotStoreAdapter struct {
	dir string
}

// NewSnapshotStoreAdapter creates a new SnapshotStoreAdapter
func NewSnapshotStoreAdapter(cfg *config.RuntimeConfig) *SnapshotStoreAdapter {
	return &SnapshotStoreAdapter{
		dir: filepath.Join(cfg.DataDir, "priv"),
	}
}

// Path returns the snapshot file of a ledger
func (s *SnapshotStoreAdapter) Path(ledgerID string) string {
	return filepath.Join(s.dir, strings.ToLower(ledgerID)+snapshotSuffix)
}

// Load reads the snapshot of a ledger. Returns nil if none was saved yet.
func (s *SnapshotStoreAdapter) Load(_ context.Context, ledgerID string) (*models.LedgerSnapshot, error) {
	var snapshot models.LedgerSnapshot
	found, err := readJSON(s.Path(ledgerID), &snapshot)
	if err != nil || !found {
		return nil, err
	}

	if snapshot.LedgerID != "" && !strings.EqualFold(snapshot.LedgerID, ledgerID) {
		return nil, fmt.Errorf("snapshot file %s belongs to ledger %s", s.Path(ledgerID), snapshot.LedgerID)
	}
	return &snapshot, nil
}

// Save replaces the snapshot of the ledger on disk
func (s *SnapshotStoreAdapter) Save(_ context.Context, snapshot *models.LedgerSnapshot) error {
	return writeJSON(s.Path(snapshot.LedgerID), snapshot, 0644)
}

// Delete removes the snapshot of a ledger
func (s *SnapshotStoreAdapter) Delete(_ context.Context, ledgerID string) error {
	return removeFile(s.Path(ledgerID))
}

// List returns the ledger ids that have a snapshot on disk
func (s *SnapshotStoreAdapter) List(_ context.Context) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*"+snapshotSuffix))
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(matches))
	for _, path := range matches {
		ids = append(ids, strings.TrimSuffix(filepath.Base(path), snapshotSuffix))
	}
	sort.Strings(ids)
	return ids, nil
}

var (
	_ usecase.ProposalSnapshotStore = (*SnapshotStoreAdapter)(nil)
	_ usecase.SnapshotPruner        = (*SnapshotStoreAdapter)(nil)
)
