package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/treb-vault/internal/domain"
	"github.com/trebuchet-org/treb-vault/internal/domain/config"
	"github.com/trebuchet-org/treb-vault/internal/domain/models"
)

// ExpireProposal marks approved proposals as expired. Only vault admins may do so.
type ExpireProposal struct {
	cfg      *config.RuntimeConfig
	loader   *LedgerLoader
	session  WalletSession
	selector ProposalSelector
	notifier NotificationSink
	log      *slog.Logger
}

// NewExpireProposal creates a new expire proposal use case
func NewExpireProposal(
	cfg *config.RuntimeConfig,
	loader *LedgerLoader,
	session WalletSession,
	selector ProposalSelector,
	notifier NotificationSink,
	log *slog.Logger,
) *ExpireProposal {
	return &ExpireProposal{
		cfg:      cfg,
		loader:   loader,
		session:  session,
		selector: selector,
		notifier: notifier,
		log:      log,
	}
}

// ExpireProposalParams contains parameters for expiring a proposal
type ExpireProposalParams struct {
	LedgerID   string
	ProposalID string
}

// Run expires the proposal
func (uc *ExpireProposal) Run(ctx context.Context, params ExpireProposalParams) (*TransitionResult, error) {
	actor, ok := uc.session.CurrentIdentity(ctx)
	if !ok {
		notifyFailure(ctx, uc.notifier, models.NotifyExpired, domain.ErrNotConnected)
		return nil, domain.ErrNotConnected
	}

	pl, err := uc.loader.Open(ctx, params.LedgerID, uc.loader.Online())
	if err != nil {
		return nil, err
	}

	id, err := pickProposal(ctx, uc.cfg, uc.selector, pl, params.ProposalID,
		domain.ProposalFilter{Statuses: []models.ProposalStatus{models.ProposalStatusApproved}},
		"Select proposal to expire")
	if err != nil {
		return nil, err
	}

	if !pl.IsAdmin(actor) {
		err := domain.ForbiddenErr{ProposalID: id, Action: "expire", Reason: actor + " is not a vault admin"}
		notifyFailure(ctx, uc.notifier, models.NotifyExpired, err)
		return nil, err
	}

	p, err := pl.Expire(ctx, id)
	if err != nil {
		notifyFailure(ctx, uc.notifier, models.NotifyExpired, err)
		return nil, err
	}

	if err := uc.loader.Persist(ctx, pl); err != nil {
		uc.log.Warn("failed to save ledger snapshot", "error", err)
	}

	notifySuccess(ctx, uc.notifier, models.NotifyExpired, fmt.Sprintf("Proposal %s expired", p.ID))

	return &TransitionResult{
		LedgerID: pl.ID(),
		Proposal: p,
		View:     domain.Derive(p, pl.CurrentBlock()),
	}, nil
}
