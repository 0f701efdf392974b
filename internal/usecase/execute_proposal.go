package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/treb-vault/internal/domain"
	"github.com/trebuchet-org/treb-vault/internal/domain/config"
	"github.com/trebuchet-org/treb-vault/internal/domain/models"
)

// ExecuteProposal handles execution of approved proposals
type ExecuteProposal struct {
	cfg       *config.RuntimeConfig
	loader    *LedgerLoader
	submitter Submitter
	selector  ProposalSelector
	notifier  NotificationSink
	progress  ProgressSink
	log       *slog.Logger
}

// NewExecuteProposal creates a new execute proposal use case
func NewExecuteProposal(
	cfg *config.RuntimeConfig,
	loader *LedgerLoader,
	submitter Submitter,
	selector ProposalSelector,
	notifier NotificationSink,
	progress ProgressSink,
	log *slog.Logger,
) *ExecuteProposal {
	return &ExecuteProposal{
		cfg:       cfg,
		loader:    loader,
		submitter: submitter,
		selector:  selector,
		notifier:  notifier,
		progress:  progress,
		log:       log,
	}
}

// ExecuteProposalParams contains parameters for executing a proposal
type ExecuteProposalParams struct {
	LedgerID   string
	ProposalID string
	// SkipConfirm disables the interactive confirmation
	SkipConfirm bool
}

// Run executes the proposal. The block height is refreshed right before
// submission so the timelock is checked against the freshest height available.
func (uc *ExecuteProposal) Run(ctx context.Context, params ExecuteProposalParams) (*TransitionResult, error) {
	pl, err := uc.loader.Open(ctx, params.LedgerID, uc.loader.Online())
	if err != nil {
		return nil, err
	}

	id, err := pickProposal(ctx, uc.cfg, uc.selector, pl, params.ProposalID,
		domain.ProposalFilter{ExecutableOnly: true},
		"Select proposal to execute")
	if err != nil {
		return nil, err
	}

	if !params.SkipConfirm && !uc.cfg.NonInteractive {
		view, err := pl.View(id)
		if err != nil {
			return nil, err
		}
		if view.CanExecute {
			ok, err := uc.selector.Confirm(ctx, fmt.Sprintf("Execute proposal %s: transfer %s %s to %s",
				id, view.Proposal.AmountString(), view.Proposal.Token, view.Proposal.Recipient))
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, fmt.Errorf("execution cancelled")
			}
		}
	}

	if uc.loader.Online() {
		if _, err := uc.loader.RefreshBlockHeight(ctx, pl); err != nil {
			uc.log.Warn("executing against cached block height", "height", pl.CurrentBlock(), "error", err)
		}
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "submitting", Message: fmt.Sprintf("Executing proposal %s...", id), Spinner: true})
	p, err := pl.Execute(ctx, uc.submitter, id)
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "complete"})
	if err != nil {
		notifyFailure(ctx, uc.notifier, models.NotifyExecuted, err)
		return nil, err
	}

	if err := uc.loader.Persist(ctx, pl); err != nil {
		uc.log.Warn("failed to save ledger snapshot", "error", err)
	}

	notifySuccess(ctx, uc.notifier, models.NotifyExecuted,
		fmt.Sprintf("Proposal %s executed%s", p.ID, txSuffix(p.ExecutionTxHash)))

	return &TransitionResult{
		LedgerID: pl.ID(),
		Proposal: p,
		View:     domain.Derive(p, pl.CurrentBlock()),
		TxHash:   p.ExecutionTxHash,
	}, nil
}
