package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-vault/internal/domain"
	"github.com/trebuchet-org/treb-vault/internal/domain/models"
	"github.com/trebuchet-org/treb-vault/internal/usecase"
)

func (h *harness) reject() *usecase.RejectProposal {
	return usecase.NewRejectProposal(h.cfg, h.loader, h.session, h.submitter, h.selector, h.notifier, h.progress, testLogger())
}

func (h *harness) execute() *usecase.ExecuteProposal {
	return usecase.NewExecuteProposal(h.cfg, h.loader, h.submitter, h.selector, h.notifier, h.progress, testLogger())
}

func (h *harness) approve() *usecase.ApproveProposal {
	return usecase.NewApproveProposal(h.cfg, h.loader, h.session, h.submitter, h.selector, h.notifier, h.progress, testLogger())
}

func (h *harness) expire() *usecase.ExpireProposal {
	return usecase.NewExpireProposal(h.cfg, h.loader, h.session, h.selector, h.notifier, testLogger())
}

func (h *harness) stored(t *testing.T, id string) *models.Proposal {
	t.Helper()
	pl, err := h.registry.Ledger(vaultID)
	require.NoError(t, err)
	p, err := pl.Get(id)
	require.NoError(t, err)
	return p
}

func TestRejectProposal(t *testing.T) {
	ctx := context.Background()

	t.Run("proposer rejects pending proposal", func(t *testing.T) {
		h := newHarness(t, 100, proposal("p1", models.ProposalStatusPending, 1, 0))
		h.connect(proposer)
		h.submitter.On("SubmitReject", mock.Anything, vaultID, "p1", "wrong recipient").
			Return(&models.TxResult{TxHash: "0xabc"}, nil).Once()

		result, err := h.reject().Run(ctx, usecase.RejectProposalParams{ProposalID: "p1", Reason: "wrong recipient"})
		require.NoError(t, err)

		assert.Equal(t, models.ProposalStatusRejected, result.Proposal.Status)
		assert.Equal(t, "wrong recipient", result.Proposal.RejectionReason)
		assert.Equal(t, "0xabc", result.TxHash)
		assert.NotNil(t, result.Proposal.RejectedAt)
		assert.Equal(t, models.ProposalStatusRejected, h.stored(t, "p1").Status)
		assert.Equal(t, 1, h.store.saves)

		sent := h.notifier.all()
		require.Len(t, sent, 1)
		assert.Equal(t, models.NotifyRejected, sent[0].Kind)
		assert.Equal(t, models.NotificationSuccess, sent[0].Level)
		assert.Equal(t, "Proposal p1 rejected (tx 0xabc)", sent[0].Message)
		h.assertExpectations(t)
	})

	t.Run("admin rejects someone else's proposal", func(t *testing.T) {
		h := newHarness(t, 100, proposal("p1", models.ProposalStatusPending, 0, 0))
		h.connect(admin)
		h.submitter.On("SubmitReject", mock.Anything, vaultID, "p1", "").
			Return(&models.TxResult{TxHash: "0xdef"}, nil).Once()

		result, err := h.reject().Run(ctx, usecase.RejectProposalParams{ProposalID: "p1"})
		require.NoError(t, err)
		assert.Equal(t, models.ProposalStatusRejected, result.Proposal.Status)
		h.assertExpectations(t)
	})

	t.Run("outsider is forbidden before any submission", func(t *testing.T) {
		h := newHarness(t, 100, proposal("p1", models.ProposalStatusPending, 0, 0))
		h.connect(outsider)

		_, err := h.reject().Run(ctx, usecase.RejectProposalParams{ProposalID: "p1"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrForbidden))
		h.submitter.AssertNotCalled(t, "SubmitReject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		assert.Equal(t, models.ProposalStatusPending, h.stored(t, "p1").Status)
		assert.Equal(t, 0, h.store.saves)

		sent := h.notifier.all()
		require.Len(t, sent, 1)
		assert.Equal(t, models.NotificationError, sent[0].Level)
	})

	t.Run("approved proposal cannot be rejected", func(t *testing.T) {
		h := newHarness(t, 100, proposal("p1", models.ProposalStatusApproved, 3, 0))
		h.connect(proposer)

		_, err := h.reject().Run(ctx, usecase.RejectProposalParams{ProposalID: "p1"})
		assert.True(t, errors.Is(err, domain.ErrForbidden))
		h.submitter.AssertNotCalled(t, "SubmitReject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("requires a connected wallet", func(t *testing.T) {
		h := newHarness(t, 100, proposal("p1", models.ProposalStatusPending, 0, 0))
		h.disconnected()

		_, err := h.reject().Run(ctx, usecase.RejectProposalParams{ProposalID: "p1"})
		assert.ErrorIs(t, err, domain.ErrNotConnected)

		sent := h.notifier.all()
		require.Len(t, sent, 1)
		assert.Contains(t, sent[0].Message, "vault session connect")
	})

	t.Run("unknown proposal", func(t *testing.T) {
		h := newHarness(t, 100)
		h.connect(proposer)

		_, err := h.reject().Run(ctx, usecase.RejectProposalParams{ProposalID: "missing"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("non-interactive without id", func(t *testing.T) {
		h := newHarness(t, 100, proposal("p1", models.ProposalStatusPending, 0, 0))
		h.connect(proposer)

		_, err := h.reject().Run(ctx, usecase.RejectProposalParams{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "non-interactive")
	})

	t.Run("interactive selection offers pending proposals", func(t *testing.T) {
		h := newHarness(t, 100,
			proposal("p1", models.ProposalStatusPending, 0, 0),
			proposal("p2", models.ProposalStatusApproved, 3, 0),
		)
		h.cfg.NonInteractive = false
		h.connect(proposer)
		h.selector.On("SelectProposal", mock.Anything, mock.MatchedBy(func(views []*domain.ProposalView) bool {
			return len(views) == 1 && views[0].Proposal.ID == "p1"
		}), mock.Anything).Return(&domain.ProposalView{Proposal: proposal("p1", models.ProposalStatusPending, 0, 0)}, nil).Once()
		h.submitter.On("SubmitReject", mock.Anything, vaultID, "p1", "").
			Return(&models.TxResult{TxHash: "0x1"}, nil).Once()

		result, err := h.reject().Run(ctx, usecase.RejectProposalParams{})
		require.NoError(t, err)
		assert.Equal(t, "p1", result.Proposal.ID)
		h.assertExpectations(t)
	})
}

func TestExecuteProposal(t *testing.T) {
	ctx := context.Background()

	t.Run("timelocked proposal is refused with blocks remaining", func(t *testing.T) {
		h := newHarness(t, 1200, proposal("p1", models.ProposalStatusApproved, 3, 1500))

		_, err := h.execute().Run(ctx, usecase.ExecuteProposalParams{ProposalID: "p1"})
		require.Error(t, err)

		var notExec domain.NotExecutableErr
		require.True(t, errors.As(err, &notExec))
		assert.Equal(t, domain.ReasonStillTimelocked, notExec.Reason)
		assert.Equal(t, uint64(300), notExec.Remaining)
		h.submitter.AssertNotCalled(t, "SubmitExecute", mock.Anything, mock.Anything, mock.Anything)

		sent := h.notifier.all()
		require.Len(t, sent, 1)
		assert.Equal(t, "Proposal p1 is timelocked for 300 more block(s)", sent[0].Message)
		assert.Equal(t, models.NotificationError, sent[0].Level)
	})

	t.Run("threshold is checked before the timelock", func(t *testing.T) {
		p := proposal("p1", models.ProposalStatusApproved, 2, 1500)
		h := newHarness(t, 1200, p)

		_, err := h.execute().Run(ctx, usecase.ExecuteProposalParams{ProposalID: "p1"})
		var notExec domain.NotExecutableErr
		require.True(t, errors.As(err, &notExec))
		assert.Equal(t, domain.ReasonThresholdUnmet, notExec.Reason)
		assert.Equal(t, "Proposal p1 needs 1 more approval(s) (2/3)", h.notifier.all()[0].Message)
	})

	t.Run("pending proposal is not executable", func(t *testing.T) {
		h := newHarness(t, 1200, proposal("p1", models.ProposalStatusPending, 1, 0))

		_, err := h.execute().Run(ctx, usecase.ExecuteProposalParams{ProposalID: "p1"})
		assert.ErrorIs(t, err, domain.ErrNotExecutable)
	})

	t.Run("refreshes block height before submitting", func(t *testing.T) {
		h := newHarness(t, 1200, proposal("p1", models.ProposalStatusApproved, 3, 1500))
		h.cfg.Offline = false
		h.feed.On("CurrentBlockHeight", mock.Anything).Return(uint64(1600), nil)
		h.source.On("FetchProposals", mock.Anything, vaultID).
			Return([]*models.Proposal{proposal("p1", models.ProposalStatusApproved, 3, 1500)}, nil)
		h.submitter.On("SubmitExecute", mock.Anything, vaultID, "p1").
			Return(&models.TxResult{TxHash: "0xfeed"}, nil).Once()

		result, err := h.execute().Run(ctx, usecase.ExecuteProposalParams{ProposalID: "p1"})
		require.NoError(t, err)

		assert.Equal(t, models.ProposalStatusExecuted, result.Proposal.Status)
		assert.Equal(t, "0xfeed", result.Proposal.ExecutionTxHash)
		assert.Equal(t, uint64(1600), result.View.CurrentBlock)
		assert.Equal(t, "Proposal p1 executed (tx 0xfeed)", h.notifier.all()[0].Message)
		h.assertExpectations(t)
	})

	t.Run("feed failure falls back to cached height", func(t *testing.T) {
		h := newHarness(t, 1200, proposal("p1", models.ProposalStatusApproved, 3, 1500))
		h.cfg.Offline = false
		h.feed.On("CurrentBlockHeight", mock.Anything).Return(uint64(0), errors.New("rpc down"))

		_, err := h.execute().Run(ctx, usecase.ExecuteProposalParams{ProposalID: "p1"})
		assert.ErrorIs(t, err, domain.ErrNotExecutable)
		h.source.AssertNotCalled(t, "FetchProposals", mock.Anything, mock.Anything)
	})

	t.Run("submission failure leaves the proposal approved", func(t *testing.T) {
		h := newHarness(t, 1600, proposal("p1", models.ProposalStatusApproved, 3, 1500))
		h.submitter.On("SubmitExecute", mock.Anything, vaultID, "p1").
			Return(nil, errors.New("insufficient vault balance")).Once()

		_, err := h.execute().Run(ctx, usecase.ExecuteProposalParams{ProposalID: "p1"})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrSubmissionFailed)
		assert.Equal(t, models.ProposalStatusApproved, h.stored(t, "p1").Status)
		assert.Equal(t, 0, h.store.saves)
		assert.Equal(t, "Transaction failed: insufficient vault balance", h.notifier.all()[0].Message)
	})

	t.Run("interactive confirmation can cancel", func(t *testing.T) {
		h := newHarness(t, 1600, proposal("p1", models.ProposalStatusApproved, 3, 1500))
		h.cfg.NonInteractive = false
		h.selector.On("Confirm", mock.Anything, mock.Anything).Return(false, nil).Once()

		_, err := h.execute().Run(ctx, usecase.ExecuteProposalParams{ProposalID: "p1"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cancelled")
		h.submitter.AssertNotCalled(t, "SubmitExecute", mock.Anything, mock.Anything, mock.Anything)
		h.assertExpectations(t)
	})
}

func TestApproveProposal(t *testing.T) {
	ctx := context.Background()

	t.Run("last approval moves proposal to approved", func(t *testing.T) {
		h := newHarness(t, 100, proposal("p1", models.ProposalStatusPending, 2, 0))
		h.connect(signerC)
		h.submitter.On("SubmitApprove", mock.Anything, vaultID, "p1").
			Return(&models.TxResult{TxHash: "0x1"}, nil).Once()

		result, err := h.approve().Run(ctx, usecase.ApproveProposalParams{ProposalIDs: []string{"p1"}})
		require.NoError(t, err)
		require.Len(t, result.Approved, 1)
		assert.Empty(t, result.Failed)

		p := result.Approved[0].Proposal
		assert.Equal(t, uint32(3), p.Approvals)
		assert.Equal(t, models.ProposalStatusApproved, p.Status)
		assert.Equal(t, []string{signerC}, p.ApprovedBy)
		assert.Equal(t, "Proposal p1 approved (3/3), threshold reached", h.notifier.all()[0].Message)
		assert.Equal(t, 1, h.store.saves)
		h.assertExpectations(t)
	})

	t.Run("non-signer is forbidden", func(t *testing.T) {
		h := newHarness(t, 100, proposal("p1", models.ProposalStatusPending, 0, 0))
		h.connect(outsider)

		_, err := h.approve().Run(ctx, usecase.ApproveProposalParams{ProposalIDs: []string{"p1"}})
		assert.ErrorIs(t, err, domain.ErrForbidden)
		h.submitter.AssertNotCalled(t, "SubmitApprove", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("all approves every pending proposal and keeps going on failure", func(t *testing.T) {
		h := newHarness(t, 100,
			proposal("p1", models.ProposalStatusPending, 0, 0),
			proposal("p2", models.ProposalStatusPending, 0, 0),
			proposal("p3", models.ProposalStatusExecuted, 3, 0),
		)
		h.connect(signerB)
		h.submitter.On("SubmitApprove", mock.Anything, vaultID, "p1").
			Return(nil, errors.New("reverted")).Once()
		h.submitter.On("SubmitApprove", mock.Anything, vaultID, "p2").
			Return(&models.TxResult{TxHash: "0x2"}, nil).Once()

		result, err := h.approve().Run(ctx, usecase.ApproveProposalParams{All: true})
		require.NoError(t, err)
		require.Len(t, result.Approved, 1)
		assert.Equal(t, "p2", result.Approved[0].Proposal.ID)
		require.Contains(t, result.Failed, "p1")
		assert.ErrorIs(t, result.Failed["p1"], domain.ErrSubmissionFailed)
		assert.Len(t, h.notifier.all(), 2)
		h.assertExpectations(t)
	})

	t.Run("single failure is returned", func(t *testing.T) {
		h := newHarness(t, 100, proposal("p1", models.ProposalStatusApproved, 3, 0))
		h.connect(signerB)

		_, err := h.approve().Run(ctx, usecase.ApproveProposalParams{ProposalIDs: []string{"p1"}})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("interactive multi-select", func(t *testing.T) {
		h := newHarness(t, 100,
			proposal("p1", models.ProposalStatusPending, 0, 0),
			proposal("p2", models.ProposalStatusPending, 0, 0),
		)
		h.cfg.NonInteractive = false
		h.connect(signerB)
		h.selector.On("SelectProposals", mock.Anything, mock.MatchedBy(func(views []*domain.ProposalView) bool {
			return len(views) == 2
		}), mock.Anything).Return([]*domain.ProposalView{
			{Proposal: proposal("p2", models.ProposalStatusPending, 0, 0)},
		}, nil).Once()
		h.submitter.On("SubmitApprove", mock.Anything, vaultID, "p2").
			Return(&models.TxResult{TxHash: "0x2"}, nil).Once()

		result, err := h.approve().Run(ctx, usecase.ApproveProposalParams{})
		require.NoError(t, err)
		require.Len(t, result.Approved, 1)
		assert.Equal(t, models.ProposalStatusPending, result.Approved[0].Proposal.Status)
		h.assertExpectations(t)
	})
}

func TestExpireProposal(t *testing.T) {
	ctx := context.Background()

	t.Run("admin expires approved proposal", func(t *testing.T) {
		h := newHarness(t, 100, proposal("p1", models.ProposalStatusApproved, 3, 0))
		h.connect(admin)

		result, err := h.expire().Run(ctx, usecase.ExpireProposalParams{ProposalID: "p1"})
		require.NoError(t, err)
		assert.Equal(t, models.ProposalStatusExpired, result.Proposal.Status)
		assert.Equal(t, "Proposal p1 expired", h.notifier.all()[0].Message)
	})

	t.Run("signer cannot expire", func(t *testing.T) {
		h := newHarness(t, 100, proposal("p1", models.ProposalStatusApproved, 3, 0))
		h.connect(signerB)

		_, err := h.expire().Run(ctx, usecase.ExpireProposalParams{ProposalID: "p1"})
		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Equal(t, models.ProposalStatusApproved, h.stored(t, "p1").Status)
	})

	t.Run("pending proposal cannot expire", func(t *testing.T) {
		h := newHarness(t, 100, proposal("p1", models.ProposalStatusPending, 1, 0))
		h.connect(admin)

		_, err := h.expire().Run(ctx, usecase.ExpireProposalParams{ProposalID: "p1"})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestDescribeFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "not approved",
			err:  domain.NotExecutableErr{ProposalID: "p1", Reason: domain.ReasonNotApproved, Status: "pending"},
			want: "Proposal p1 is pending and cannot be executed",
		},
		{
			name: "conflict",
			err:  domain.ConflictErr{ProposalID: "p1", Expected: "pending", Found: "approved"},
			want: "Proposal p1 changed while the transaction was pending, run 'vault sync'",
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, usecase.DescribeFailure(tt.err))
		})
	}
}
