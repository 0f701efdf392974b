package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/trebuchet-org/treb-vault/internal/domain"
	"github.com/trebuchet-org/treb-vault/internal/usecase"
)

// ProposalRenderer renders the details of a single proposal
type ProposalRenderer struct {
	out  io.Writer
	yaml bool
}

// NewProposalRenderer creates a new proposal renderer
func NewProposalRenderer(out io.Writer, asYAML bool) *ProposalRenderer {
	return &ProposalRenderer{out: out, yaml: asYAML}
}

// Render renders the proposal view
func (r *ProposalRenderer) Render(result *usecase.ShowProposalResult) error {
	v := result.View
	p := v.Proposal

	if r.yaml {
		return writeYAML(r.out, newProposalDoc(v))
	}

	fmt.Fprintf(r.out, "%s %s  %s\n\n", headerStyle.Sprint("Proposal"), idStyle.Sprint(p.ID), StatusLabel(p.Status))

	r.field("Vault", vaultLabel(result.VaultName, result.LedgerID))
	r.field("Proposer", p.Proposer)
	r.field("Recipient", addrStyle.Sprint(p.Recipient))
	r.field("Amount", fmt.Sprintf("%s %s", p.AmountString(), p.Token))
	if p.Memo != "" {
		r.field("Memo", p.Memo)
	}
	r.field("Approvals", approvalsText(v))
	if !p.CreatedAt.IsZero() {
		r.field("Created", formatTime(p.CreatedAt))
	}
	r.field("Timelock", timelockText(v))

	if !p.Status.IsTerminal() {
		if v.CanExecute {
			r.field("Executable", color.New(color.FgGreen, color.Bold).Sprint("yes"))
		} else if v.ExecuteBlocker != nil {
			r.field("Executable", "no, "+usecase.DescribeFailure(v.ExecuteBlocker))
		}
	}

	if p.RejectedAt != nil || p.RejectionReason != "" {
		r.field("Rejected", transitionText(p.RejectedAt, p.RejectionTxHash))
		if p.RejectionReason != "" {
			r.field("Reason", p.RejectionReason)
		}
	}
	if p.ExecutedAt != nil || p.ExecutionTxHash != "" {
		r.field("Executed", transitionText(p.ExecutedAt, p.ExecutionTxHash))
	}

	if result.Identity != "" {
		var actions []string
		if result.CanApprove {
			actions = append(actions, "approve")
		}
		if result.CanReject {
			actions = append(actions, "reject")
		}
		if len(actions) == 0 {
			actions = append(actions, "no actions available")
		}
		fmt.Fprintln(r.out)
		r.field("You", fmt.Sprintf("%s can %s", shortAddress(result.Identity), strings.Join(actions, ", ")))
	}
	return nil
}

func (r *ProposalRenderer) field(label, value string) {
	fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprintf("%-11s", label+":"), value)
}

func approvalsText(v *domain.ProposalView) string {
	p := v.Proposal
	text := fmt.Sprintf("%d/%d", p.Approvals, p.Threshold)
	if !p.Status.IsTerminal() && v.ApprovalsNeeded > 0 {
		text += fmt.Sprintf(" (%d more needed)", v.ApprovalsNeeded)
	}
	return text
}

func timelockText(v *domain.ProposalView) string {
	p := v.Proposal
	switch {
	case !v.HasTimelock:
		return "none"
	case v.TimelockExpired:
		return fmt.Sprintf("unlocked at block %s", FormatHeight(p.UnlockBlock))
	default:
		return fmt.Sprintf("unlocks at block %s (%s remaining)", FormatHeight(p.UnlockBlock), FormatBlocks(v.BlocksRemaining))
	}
}

func transitionText(at *time.Time, txHash string) string {
	var parts []string
	if at != nil {
		parts = append(parts, formatTime(*at))
	}
	if txHash != "" {
		parts = append(parts, "tx "+txHash)
	}
	return strings.Join(parts, ", ")
}

func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05 UTC")
}

var _ Renderer[*usecase.ShowProposalResult] = (*ProposalRenderer)(nil)
