package ledger

import (
	"context"
	"log/slog"
	"reflect"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/trebuchet-org/treb-vault/internal/domain"
	"github.com/trebuchet-org/treb-vault/internal/domain/models"
)

// Submitter turns a validated transition into a transaction on the vault contract.
// Each call blocks until the transaction is confirmed or has failed.
type Submitter interface {
	SubmitApprove(ctx context.Context, ledgerID, proposalID string) (*models.TxResult, error)
	SubmitReject(ctx context.Context, ledgerID, proposalID, reason string) (*models.TxResult, error)
	SubmitExecute(ctx context.Context, ledgerID, proposalID string) (*models.TxResult, error)
}

// SyncResult summarises a Sync call
type SyncResult struct {
	Added      int
	Updated    int
	Unchanged  int
	Violations []error
}

type entry struct {
	// op serializes transitions on a single proposal. It is held across the
	// submission call, ledger state is not.
	op       sync.Mutex
	proposal *models.Proposal
}

// ProposalLedger holds the proposals of one vault and the last observed block
// height. It is safe for concurrent use.
type ProposalLedger struct {
	vault models.Vault
	log   *slog.Logger
	now   func() time.Time

	mu      sync.RWMutex
	entries map[string]*entry

	currentBlock atomic.Uint64
}

// New creates an empty ledger for the given vault
func New(vault models.Vault, log *slog.Logger) *ProposalLedger {
	if log == nil {
		log = slog.Default()
	}
	return &ProposalLedger{
		vault:   vault,
		log:     log.With("ledger", vault.ID),
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

// ID returns the ledger id (the vault id)
func (l *ProposalLedger) ID() string {
	return l.vault.ID
}

// Vault returns the vault configuration backing this ledger
func (l *ProposalLedger) Vault() models.Vault {
	return l.vault
}

// IsAdmin reports whether identity is a configured vault admin
func (l *ProposalLedger) IsAdmin(identity string) bool {
	return domain.ContainsIdentity(l.vault.Admins, identity)
}

// IsSigner reports whether identity is a configured vault signer
func (l *ProposalLedger) IsSigner(identity string) bool {
	return domain.ContainsIdentity(l.vault.Signers, identity)
}

// CurrentBlock returns the last observed block height
func (l *ProposalLedger) CurrentBlock() uint64 {
	return l.currentBlock.Load()
}

// RefreshBlockHeight moves the ledger's block height forward. A lower height is
// ignored and reported as a StaleBlockHeightErr so that timelocks never re-lock.
func (l *ProposalLedger) RefreshBlockHeight(newBlock uint64) error {
	for {
		current := l.currentBlock.Load()
		if newBlock < current {
			return domain.StaleBlockHeightErr{Current: current, Offered: newBlock}
		}
		if newBlock == current || l.currentBlock.CompareAndSwap(current, newBlock) {
			return nil
		}
	}
}

// Sync ingests proposal records from the external source. Unknown ids are added,
// known ids are updated when the update respects the proposal invariants.
// Records are never removed.
func (l *ProposalLedger) Sync(records []*models.Proposal) SyncResult {
	var result SyncResult

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, record := range records {
		if record == nil {
			continue
		}
		if err := record.Validate(); err != nil {
			result.Violations = append(result.Violations, domain.InvariantViolationErr{
				ProposalID: record.ID,
				Field:      "record",
				Reason:     err.Error(),
			})
			continue
		}

		e, ok := l.entries[record.ID]
		if !ok {
			p := record.Clone()
			p.Version = 1
			l.entries[p.ID] = &entry{proposal: p}
			result.Added++
			continue
		}

		current := e.proposal
		if err := checkUpdate(current, record); err != nil {
			result.Violations = append(result.Violations, err)
			continue
		}

		next := record.Clone()
		keepLocalMetadata(current, next)
		next.Version = current.Version
		if reflect.DeepEqual(current, next) {
			result.Unchanged++
			continue
		}
		next.Version = current.Version + 1
		e.proposal = next
		result.Updated++
	}

	if len(result.Violations) > 0 {
		l.log.Warn("skipped proposal records", "count", len(result.Violations))
	}
	return result
}

// checkUpdate rejects external updates that would break a proposal invariant
func checkUpdate(current, next *models.Proposal) error {
	switch {
	case next.Threshold != current.Threshold:
		return domain.InvariantViolationErr{ProposalID: current.ID, Field: "threshold", Reason: "is immutable after creation"}
	case next.UnlockBlock != current.UnlockBlock:
		return domain.InvariantViolationErr{ProposalID: current.ID, Field: "unlockBlock", Reason: "is fixed at creation"}
	case next.Approvals < current.Approvals:
		return domain.InvariantViolationErr{ProposalID: current.ID, Field: "approvals", Reason: "cannot decrease"}
	case next.Status != current.Status && !current.Status.CanReach(next.Status):
		return domain.InvariantViolationErr{
			ProposalID: current.ID,
			Field:      "status",
			Reason:     "cannot move from " + current.Status.String() + " to " + next.Status.String(),
		}
	}
	return nil
}

// keepLocalMetadata carries transition metadata recorded locally that the
// external record does not know about
func keepLocalMetadata(current, next *models.Proposal) {
	if next.RejectionReason == "" {
		next.RejectionReason = current.RejectionReason
	}
	if next.RejectionTxHash == "" {
		next.RejectionTxHash = current.RejectionTxHash
	}
	if next.RejectedAt == nil && current.RejectedAt != nil {
		t := *current.RejectedAt
		next.RejectedAt = &t
	}
	if next.ExecutionTxHash == "" {
		next.ExecutionTxHash = current.ExecutionTxHash
	}
	if next.ExecutedAt == nil && current.ExecutedAt != nil {
		t := *current.ExecutedAt
		next.ExecutedAt = &t
	}
}

// Get returns a copy of the proposal with the given id
func (l *ProposalLedger) Get(id string) (*models.Proposal, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	e, ok := l.entries[id]
	if !ok {
		return nil, domain.ProposalNotFoundErr{LedgerID: l.vault.ID, ProposalID: id}
	}
	return e.proposal.Clone(), nil
}

// View returns the proposal with its status derived at the current block height
func (l *ProposalLedger) View(id string) (*domain.ProposalView, error) {
	p, err := l.Get(id)
	if err != nil {
		return nil, err
	}
	return domain.Derive(p, l.CurrentBlock()), nil
}

// List returns copies of the proposals matching filter, oldest first
func (l *ProposalLedger) List(filter domain.ProposalFilter) []*models.Proposal {
	block := l.CurrentBlock()

	l.mu.RLock()
	proposals := make([]*models.Proposal, 0, len(l.entries))
	for _, e := range l.entries {
		if filter.Matches(e.proposal, block) {
			proposals = append(proposals, e.proposal.Clone())
		}
	}
	l.mu.RUnlock()

	sort.Slice(proposals, func(i, j int) bool {
		if !proposals[i].CreatedAt.Equal(proposals[j].CreatedAt) {
			return proposals[i].CreatedAt.Before(proposals[j].CreatedAt)
		}
		return proposals[i].ID < proposals[j].ID
	})
	return proposals
}

// Views returns the derived views of the proposals matching filter
func (l *ProposalLedger) Views(filter domain.ProposalFilter) []*domain.ProposalView {
	block := l.CurrentBlock()
	proposals := l.List(filter)
	views := make([]*domain.ProposalView, len(proposals))
	for i, p := range proposals {
		views[i] = domain.Derive(p, block)
	}
	return views
}

// Len returns the number of known proposals
func (l *ProposalLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
