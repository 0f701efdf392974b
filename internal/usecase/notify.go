package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/trebuchet-org/treb-vault/internal/domain"
	"github.com/trebuchet-org/treb-vault/internal/domain/models"
)

// DescribeFailure renders a transition error as a message the user can act on
func DescribeFailure(err error) string {
	var notExec domain.NotExecutableErr
	if errors.As(err, &notExec) {
		switch notExec.Reason {
		case domain.ReasonThresholdUnmet:
			return fmt.Sprintf("Proposal %s needs %d more approval(s) (%d/%d)",
				notExec.ProposalID, notExec.Threshold-notExec.Approvals, notExec.Approvals, notExec.Threshold)
		case domain.ReasonStillTimelocked:
			return fmt.Sprintf("Proposal %s is timelocked for %d more block(s)", notExec.ProposalID, notExec.Remaining)
		case domain.ReasonNotApproved:
			return fmt.Sprintf("Proposal %s is %s and cannot be executed", notExec.ProposalID, notExec.Status)
		}
	}

	var subErr *domain.SubmissionFailedErr
	if errors.As(err, &subErr) {
		return fmt.Sprintf("Transaction failed: %s", subErr.Message)
	}

	var conflict domain.ConflictErr
	if errors.As(err, &conflict) {
		return fmt.Sprintf("Proposal %s changed while the transaction was pending, run 'vault sync'", conflict.ProposalID)
	}

	if errors.Is(err, domain.ErrNotConnected) {
		return "Connect a wallet first with 'vault session connect <address>'"
	}

	return err.Error()
}

func notifyFailure(ctx context.Context, sink NotificationSink, kind models.NotificationKind, err error) {
	sink.Notify(ctx, models.Notification{
		Kind:    kind,
		Message: DescribeFailure(err),
		Level:   models.NotificationError,
	})
}

func notifySuccess(ctx context.Context, sink NotificationSink, kind models.NotificationKind, message string) {
	sink.Notify(ctx, models.Notification{
		Kind:    kind,
		Message: message,
		Level:   models.NotificationSuccess,
	})
}

func txSuffix(txHash string) string {
	if txHash == "" {
		return ""
	}
	return fmt.Sprintf(" (tx %s)", txHash)
}
