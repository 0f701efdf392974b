package ledger

import (
	"context"

	"github.com/trebuchet-org/treb-vault/internal/domain"
	"github.com/trebuchet-org/treb-vault/internal/domain/models"
)

type submitFunc func(ctx context.Context) (*models.TxResult, error)

// transition runs one state change on a proposal: validate against a fresh
// snapshot, submit, then apply only after the submission is confirmed.
// Nothing is mutated when validation or submission fails. If a sync changed
// the record during submission, the record is validated again before apply,
// and settled (when set) reports whether the sync already carries the change.
func (l *ProposalLedger) transition(
	ctx context.Context,
	id string,
	op string,
	validate func(p *models.Proposal) error,
	submit submitFunc,
	settled func(p *models.Proposal) bool,
	apply func(p *models.Proposal, tx *models.TxResult),
) (*models.Proposal, error) {
	l.mu.RLock()
	e, ok := l.entries[id]
	l.mu.RUnlock()
	if !ok {
		return nil, domain.ProposalNotFoundErr{LedgerID: l.vault.ID, ProposalID: id}
	}

	e.op.Lock()
	defer e.op.Unlock()

	l.mu.RLock()
	snapshot := e.proposal.Clone()
	l.mu.RUnlock()

	if err := validate(snapshot); err != nil {
		return nil, err
	}

	var tx *models.TxResult
	if submit != nil {
		var err error
		tx, err = submit(ctx)
		if err != nil {
			l.log.Debug("submission failed", "op", op, "proposal", id, "error", err)
			return nil, &domain.SubmissionFailedErr{
				Op:         op,
				ProposalID: id,
				Message:    err.Error(),
				Err:        err,
			}
		}
		if tx == nil {
			tx = &models.TxResult{}
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	current := e.proposal
	if current.Version != snapshot.Version {
		if settled != nil && settled(current) {
			l.log.Debug("transition already reflected by sync", "op", op, "proposal", id)
			return current.Clone(), nil
		}
		if err := validate(current); err != nil {
			txHash := ""
			if tx != nil {
				txHash = tx.TxHash
			}
			l.log.Debug("record changed during submission", "op", op, "proposal", id, "error", err)
			return nil, domain.ConflictErr{
				ProposalID: id,
				Expected:   snapshot.Status.String(),
				Found:      current.Status.String(),
				TxHash:     txHash,
			}
		}
	}

	next := current.Clone()
	apply(next, tx)
	next.Version = current.Version + 1
	e.proposal = next

	l.log.Debug("applied transition", "op", op, "proposal", id, "status", next.Status)
	return next.Clone(), nil
}

// Reject rejects a pending proposal on behalf of actor. Only the proposer or an
// admin may reject.
func (l *ProposalLedger) Reject(ctx context.Context, s Submitter, id, actor string, isAdmin bool, reason string) (*models.Proposal, error) {
	return l.transition(ctx, id, "reject",
		func(p *models.Proposal) error {
			return domain.RejectBlocker(p, actor, isAdmin)
		},
		func(ctx context.Context) (*models.TxResult, error) {
			return s.SubmitReject(ctx, l.vault.ID, id, reason)
		},
		nil,
		func(p *models.Proposal, tx *models.TxResult) {
			now := l.now()
			p.Status = models.ProposalStatusRejected
			p.RejectionReason = reason
			p.RejectedAt = &now
			p.RejectionTxHash = tx.TxHash
		},
	)
}

// Execute executes an approved proposal. The threshold and the timelock are
// checked against the ledger's block height at the time of the call.
func (l *ProposalLedger) Execute(ctx context.Context, s Submitter, id string) (*models.Proposal, error) {
	return l.transition(ctx, id, "execute",
		func(p *models.Proposal) error {
			return domain.ExecuteBlocker(p, l.CurrentBlock())
		},
		func(ctx context.Context) (*models.TxResult, error) {
			return s.SubmitExecute(ctx, l.vault.ID, id)
		},
		nil,
		func(p *models.Proposal, tx *models.TxResult) {
			now := l.now()
			p.Status = models.ProposalStatusExecuted
			p.ExecutedAt = &now
			p.ExecutionTxHash = tx.TxHash
		},
	)
}

// Approve records a confirmed approval by signer. The proposal moves to approved
// once its threshold is reached.
func (l *ProposalLedger) Approve(ctx context.Context, s Submitter, id, signer string) (*models.Proposal, error) {
	return l.transition(ctx, id, "approve",
		func(p *models.Proposal) error {
			if !l.IsSigner(signer) {
				return domain.ForbiddenErr{ProposalID: id, Action: "approve", Reason: signer + " is not a vault signer"}
			}
			return domain.ApproveBlocker(p, signer)
		},
		func(ctx context.Context) (*models.TxResult, error) {
			return s.SubmitApprove(ctx, l.vault.ID, id)
		},
		func(p *models.Proposal) bool {
			return domain.ContainsIdentity(p.ApprovedBy, signer)
		},
		func(p *models.Proposal, _ *models.TxResult) {
			if domain.ContainsIdentity(p.ApprovedBy, signer) {
				return
			}
			p.Approvals++
			p.ApprovedBy = append(p.ApprovedBy, signer)
			if p.Approvals >= p.Threshold {
				p.Status = models.ProposalStatusApproved
			}
		},
	)
}

// Expire marks an approved proposal as expired. Expiry is an external signal,
// the ledger does not decide when a proposal has lived too long.
func (l *ProposalLedger) Expire(ctx context.Context, id string) (*models.Proposal, error) {
	return l.transition(ctx, id, "expire",
		func(p *models.Proposal) error {
			if p.Status != models.ProposalStatusApproved {
				return domain.ForbiddenErr{ProposalID: id, Action: "expire", Reason: "proposal is " + p.Status.String()}
			}
			return nil
		},
		nil,
		nil,
		func(p *models.Proposal, _ *models.TxResult) {
			p.Status = models.ProposalStatusExpired
		},
	)
}
