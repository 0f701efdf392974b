package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/treb-vault/internal/domain"
	"github.com/trebuchet-org/treb-vault/internal/domain/config"
	"github.com/trebuchet-org/treb-vault/internal/domain/models"
)

// RejectProposal handles rejection of pending proposals
type RejectProposal struct {
	cfg       *config.RuntimeConfig
	loader    *LedgerLoader
	session   WalletSession
	submitter Submitter
	selector  ProposalSelector
	notifier  NotificationSink
	progress  ProgressSink
	log       *slog.Logger
}

// NewRejectProposal creates a new reject proposal use case
func NewRejectProposal(
	cfg *config.RuntimeConfig,
	loader *LedgerLoader,
	session WalletSession,
	submitter Submitter,
	selector ProposalSelector,
	notifier NotificationSink,
	progress ProgressSink,
	log *slog.Logger,
) *RejectProposal {
	return &RejectProposal{
		cfg:       cfg,
		loader:    loader,
		session:   session,
		submitter: submitter,
		selector:  selector,
		notifier:  notifier,
		progress:  progress,
		log:       log,
	}
}

// RejectProposalParams contains parameters for rejecting a proposal
type RejectProposalParams struct {
	LedgerID   string
	ProposalID string
	// Reason is free-form and optional
	Reason string
}

// Run rejects the proposal on behalf of the connected wallet
func (uc *RejectProposal) Run(ctx context.Context, params RejectProposalParams) (*TransitionResult, error) {
	actor, ok := uc.session.CurrentIdentity(ctx)
	if !ok {
		notifyFailure(ctx, uc.notifier, models.NotifyRejected, domain.ErrNotConnected)
		return nil, domain.ErrNotConnected
	}

	pl, err := uc.loader.Open(ctx, params.LedgerID, uc.loader.Online())
	if err != nil {
		return nil, err
	}

	id, err := pickProposal(ctx, uc.cfg, uc.selector, pl, params.ProposalID,
		domain.ProposalFilter{Statuses: []models.ProposalStatus{models.ProposalStatusPending}},
		"Select proposal to reject")
	if err != nil {
		return nil, err
	}

	isAdmin := pl.IsAdmin(actor)
	uc.log.Debug("rejecting proposal", "ledger", pl.ID(), "proposal", id, "actor", actor, "admin", isAdmin)

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "submitting", Message: fmt.Sprintf("Rejecting proposal %s...", id), Spinner: true})
	p, err := pl.Reject(ctx, uc.submitter, id, actor, isAdmin, params.Reason)
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "complete"})
	if err != nil {
		notifyFailure(ctx, uc.notifier, models.NotifyRejected, err)
		return nil, err
	}

	if err := uc.loader.Persist(ctx, pl); err != nil {
		uc.log.Warn("failed to save ledger snapshot", "error", err)
	}

	notifySuccess(ctx, uc.notifier, models.NotifyRejected,
		fmt.Sprintf("Proposal %s rejected%s", p.ID, txSuffix(p.RejectionTxHash)))

	return &TransitionResult{
		LedgerID: pl.ID(),
		Proposal: p,
		View:     domain.Derive(p, pl.CurrentBlock()),
		TxHash:   p.RejectionTxHash,
	}, nil
}
