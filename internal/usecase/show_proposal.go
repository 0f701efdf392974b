package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/treb-vault/internal/domain"
	"github.com/trebuchet-org/treb-vault/internal/domain/config"
)

// ShowProposalParams contains parameters for showing a proposal
type ShowProposalParams struct {
	LedgerID   string
	ProposalID string
	Refresh    bool
}

// ShowProposalResult contains a proposal view and the vault it belongs to
type ShowProposalResult struct {
	LedgerID  string
	VaultName string
	View      *domain.ProposalView
	// Connected identity, if any, and what it may do with the proposal
	Identity   string
	CanReject  bool
	CanApprove bool
}

// ShowProposal is the use case for showing proposal details
type ShowProposal struct {
	cfg      *config.RuntimeConfig
	loader   *LedgerLoader
	session  WalletSession
	selector ProposalSelector
	sink     ProgressSink
}

// NewShowProposal creates a new ShowProposal use case
func NewShowProposal(
	cfg *config.RuntimeConfig,
	loader *LedgerLoader,
	session WalletSession,
	selector ProposalSelector,
	sink ProgressSink,
) *ShowProposal {
	return &ShowProposal{
		cfg:      cfg,
		loader:   loader,
		session:  session,
		selector: selector,
		sink:     sink,
	}
}

// Run executes the show proposal use case
func (uc *ShowProposal) Run(ctx context.Context, params ShowProposalParams) (*ShowProposalResult, error) {
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "loading",
		Message: "Loading proposal details",
		Spinner: true,
	})

	pl, err := uc.loader.Open(ctx, params.LedgerID, params.Refresh && uc.loader.Online())
	if err != nil {
		return nil, err
	}

	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "complete"})

	id, err := pickProposal(ctx, uc.cfg, uc.selector, pl, params.ProposalID, domain.ProposalFilter{}, "Select proposal")
	if err != nil {
		return nil, err
	}

	view, err := pl.View(id)
	if err != nil {
		return nil, fmt.Errorf("failed to show proposal: %w", err)
	}

	result := &ShowProposalResult{
		LedgerID:  pl.ID(),
		VaultName: pl.Vault().Name,
		View:      view,
	}

	if identity, ok := uc.session.CurrentIdentity(ctx); ok {
		result.Identity = identity
		result.CanReject = domain.CanReject(view.Proposal, identity, pl.IsAdmin(identity))
		result.CanApprove = pl.IsSigner(identity) && domain.ApproveBlocker(view.Proposal, identity) == nil
	}

	return result, nil
}
