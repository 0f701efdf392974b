package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-vault/internal/domain"
	"github.com/trebuchet-org/treb-vault/internal/domain/config"
	"github.com/trebuchet-org/treb-vault/internal/domain/models"
)

// ApproveProposal handles approval of pending proposals by vault signers
type ApproveProposal struct {
	cfg       *config.RuntimeConfig
	loader    *LedgerLoader
	session   WalletSession
	submitter Submitter
	selector  ProposalSelector
	notifier  NotificationSink
	progress  ProgressSink
	log       *slog.Logger
}

// NewApproveProposal creates a new approve proposal use case
func NewApproveProposal(
	cfg *config.RuntimeConfig,
	loader *LedgerLoader,
	session WalletSession,
	submitter Submitter,
	selector ProposalSelector,
	notifier NotificationSink,
	progress ProgressSink,
	log *slog.Logger,
) *ApproveProposal {
	return &ApproveProposal{
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

// ApproveProposalParams contains parameters for approving proposals
type ApproveProposalParams struct {
	LedgerID    string
	ProposalIDs []string
	// All approves every pending proposal the signer has not approved yet
	All bool
}

// ApproveProposalResult contains the outcome of each approval
type ApproveProposalResult struct {
	LedgerID string
	Approved []*TransitionResult
	Failed   map[string]error
}

// Run approves the requested proposals one after another. A failure on one
// proposal does not stop the others.
func (uc *ApproveProposal) Run(ctx context.Context, params ApproveProposalParams) (*ApproveProposalResult, error) {
	signer, ok := uc.session.CurrentIdentity(ctx)
	if !ok {
		notifyFailure(ctx, uc.notifier, models.NotifyApproved, domain.ErrNotConnected)
		return nil, domain.ErrNotConnected
	}

	pl, err := uc.loader.Open(ctx, params.LedgerID, uc.loader.Online())
	if err != nil {
		return nil, err
	}

	if !pl.IsSigner(signer) {
		err := domain.ForbiddenErr{Action: "approve", Reason: signer + " is not a signer of " + pl.ID()}
		notifyFailure(ctx, uc.notifier, models.NotifyApproved, err)
		return nil, err
	}

	pending := lo.Filter(pl.Views(domain.ProposalFilter{
		Statuses: []models.ProposalStatus{models.ProposalStatusPending},
	}), func(v *domain.ProposalView, _ int) bool {
		return !domain.ContainsIdentity(v.Proposal.ApprovedBy, signer)
	})

	ids, err := uc.resolveIDs(ctx, params, pending)
	if err != nil {
		return nil, err
	}

	result := &ApproveProposalResult{
		LedgerID: pl.ID(),
		Failed:   make(map[string]error),
	}

	for i, id := range ids {
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   "submitting",
			Current: i + 1,
			Total:   len(ids),
			Message: fmt.Sprintf("Approving proposal %s (%d/%d)...", id, i+1, len(ids)),
			Spinner: true,
		})
		p, err := pl.Approve(ctx, uc.submitter, id, signer)
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: "complete"})
		if err != nil {
			uc.log.Debug("approval failed", "proposal", id, "error", err)
			result.Failed[id] = err
			notifyFailure(ctx, uc.notifier, models.NotifyApproved, err)
			continue
		}

		msg := fmt.Sprintf("Proposal %s approved (%d/%d)", p.ID, p.Approvals, p.Threshold)
		if p.Status == models.ProposalStatusApproved {
			msg += ", threshold reached"
		}
		notifySuccess(ctx, uc.notifier, models.NotifyApproved, msg)

		result.Approved = append(result.Approved, &TransitionResult{
			LedgerID: pl.ID(),
			Proposal: p,
			View:     domain.Derive(p, pl.CurrentBlock()),
		})
	}

	if len(result.Approved) > 0 {
		if err := uc.loader.Persist(ctx, pl); err != nil {
			uc.log.Warn("failed to save ledger snapshot", "error", err)
		}
	}

	if len(result.Approved) == 0 && len(result.Failed) == 1 {
		for _, err := range result.Failed {
			return result, err
		}
	}
	return result, nil
}

func (uc *ApproveProposal) resolveIDs(ctx context.Context, params ApproveProposalParams, pending []*domain.ProposalView) ([]string, error) {
	if len(params.ProposalIDs) > 0 {
		return lo.Uniq(params.ProposalIDs), nil
	}

	if params.All {
		if len(pending) == 0 {
			return nil, fmt.Errorf("no pending proposals awaiting your approval")
		}
		return lo.Map(pending, func(v *domain.ProposalView, _ int) string { return v.Proposal.ID }), nil
	}

	if uc.cfg.NonInteractive {
		return nil, fmt.Errorf("proposal id or --all is required in non-interactive mode")
	}
	if len(pending) == 0 {
		return nil, fmt.Errorf("no pending proposals awaiting your approval")
	}

	selected, err := uc.selector.SelectProposals(ctx, pending, "Select proposals to approve")
	if err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no proposals selected")
	}
	return lo.Map(selected, func(v *domain.ProposalView, _ int) string { return v.Proposal.ID }), nil
}
