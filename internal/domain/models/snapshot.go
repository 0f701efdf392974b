package models

import "time"

// LedgerSnapshot is the locally cached state of one ledger
type LedgerSnapshot struct {
	LedgerID    string      `json:"ledgerId"`
	BlockHeight uint64      `json:"blockHeight"`
	SyncedAt    time.Time   `json:"syncedAt"`
	Proposals   []*Proposal `json:"proposals"`
}
