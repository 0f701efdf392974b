package usecase

import (
	"context"

	"github.com/trebuchet-org/treb-vault/internal/domain"
	"github.com/trebuchet-org/treb-vault/internal/domain/config"
	"github.com/trebuchet-org/treb-vault/internal/domain/models"
	"github.com/trebuchet-org/treb-vault/internal/ledger"
)

// LedgerProvider resolves ledger ids (or vault names) to proposal ledgers
type LedgerProvider interface {
	Ledger(id string) (*ledger.ProposalLedger, error)
	Vaults() []models.Vault
}

// WalletSession exposes the identity of the connected wallet
type WalletSession interface {
	CurrentIdentity(ctx context.Context) (string, bool)
	IsConnected(ctx context.Context) bool
	Connect(ctx context.Context, identity string) error
	Disconnect(ctx context.Context) error
}

// Submitter relays approve/reject/execute transitions to the vault contract.
// Each call returns once the transaction is confirmed or has failed.
type Submitter interface {
	SubmitApprove(ctx context.Context, ledgerID, proposalID string) (*models.TxResult, error)
	SubmitReject(ctx context.Context, ledgerID, proposalID, reason string) (*models.TxResult, error)
	SubmitExecute(ctx context.Context, ledgerID, proposalID string) (*models.TxResult, error)
}

// BlockHeightFeed reports the current block height of the vault's network
type BlockHeightFeed interface {
	CurrentBlockHeight(ctx context.Context) (uint64, error)
}

// ContractChecker verifies that a vault contract is deployed
type ContractChecker interface {
	HasCode(ctx context.Context, address string) (deployed bool, reason string, err error)
}

// ChainIDProbe asks an RPC endpoint for its chain id
type ChainIDProbe interface {
	ProbeChainID(ctx context.Context, rpcURL string) (uint64, error)
}

// ProposalSource fetches the authoritative proposal records of a ledger
type ProposalSource interface {
	FetchProposals(ctx context.Context, ledgerID string) ([]*models.Proposal, error)
}

// NotificationSink delivers user-facing outcome notifications. It has no effect on ledger state.
type NotificationSink interface {
	Notify(ctx context.Context, n models.Notification)
}

// ProposalSnapshotStore caches the last synced state of each ledger locally
type ProposalSnapshotStore interface {
	Load(ctx context.Context, ledgerID string) (*models.LedgerSnapshot, error)
	Save(ctx context.Context, snapshot *models.LedgerSnapshot) error
}

// SnapshotPruner lists and removes ledger snapshots on disk
type SnapshotPruner interface {
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, ledgerID string) error
}

// ProposalSelector handles interactive selection of proposals
type ProposalSelector interface {
	SelectProposal(ctx context.Context, views []*domain.ProposalView, prompt string) (*domain.ProposalView, error)
	SelectProposals(ctx context.Context, views []*domain.ProposalView, prompt string) ([]*domain.ProposalView, error)
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// LocalConfigRepository manages local configuration persistence
type LocalConfigRepository interface {
	Exists() bool
	Load(ctx context.Context) (*config.LocalConfig, error)
	Save(ctx context.Context, config *config.LocalConfig) error
	GetPath() string
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// Use case result types

// TransitionResult contains the outcome of a confirmed proposal transition
type TransitionResult struct {
	LedgerID string
	Proposal *models.Proposal
	View     *domain.ProposalView
	TxHash   string
}

// Ensure the ledger's submitter contract matches the port
var _ ledger.Submitter = Submitter(nil)
