package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-vault/internal/domain"
	"github.com/trebuchet-org/treb-vault/internal/domain/models"
	"github.com/trebuchet-org/treb-vault/internal/usecase"
)

// ProposalsRenderer renders proposal lists as a table followed by a summary
type ProposalsRenderer struct {
	out  io.Writer
	yaml bool
}

// NewProposalsRenderer creates a new proposals renderer
func NewProposalsRenderer(out io.Writer, asYAML bool) *ProposalsRenderer {
	return &ProposalsRenderer{out: out, yaml: asYAML}
}

// Render renders the proposal list
func (r *ProposalsRenderer) Render(result *usecase.ListProposalsResult) error {
	if r.yaml {
		return writeYAML(r.out, listDoc{
			Ledger:       result.LedgerID,
			Vault:        result.VaultName,
			CurrentBlock: result.CurrentBlock,
			Proposals:    lo.Map(result.Proposals, func(v *domain.ProposalView, _ int) proposalDoc { return newProposalDoc(v) }),
		})
	}

	fmt.Fprintf(r.out, "%s at block %s\n\n",
		headerStyle.Sprint(vaultLabel(result.VaultName, result.LedgerID)), FormatHeight(result.CurrentBlock))

	if len(result.Proposals) == 0 {
		fmt.Fprintln(r.out, "No proposals found")
		return nil
	}

	t := newTable()
	t.AppendHeader(table.Row{"ID", "Status", "Amount", "Recipient", "Approvals", "Timelock", "Ready"})
	for _, v := range result.Proposals {
		p := v.Proposal
		t.AppendRow(table.Row{
			idStyle.Sprint(p.ID),
			StatusLabel(p.Status),
			fmt.Sprintf("%s %s", p.AmountString(), p.Token),
			addrStyle.Sprint(shortAddress(p.Recipient)),
			fmt.Sprintf("%d/%d", p.Approvals, p.Threshold),
			timelockCell(v),
			readyCell(v),
		})
	}
	fmt.Fprintln(r.out, t.Render())
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, summaryLine(result.Summary))
	return nil
}

func timelockCell(v *domain.ProposalView) string {
	switch {
	case !v.HasTimelock:
		return labelStyle.Sprint("-")
	case v.TimelockExpired:
		return color.New(color.FgGreen).Sprint("unlocked")
	default:
		return color.New(color.FgYellow).Sprint(FormatBlocks(v.BlocksRemaining))
	}
}

func readyCell(v *domain.ProposalView) string {
	if v.CanExecute {
		return color.New(color.FgGreen, color.Bold).Sprint("✓")
	}
	return ""
}

func summaryLine(s usecase.ProposalSummary) string {
	noun := "proposals"
	if s.Total == 1 {
		noun = "proposal"
	}

	parts := []string{fmt.Sprintf("%d %s", s.Total, noun)}
	var statuses []string
	for _, status := range models.AllProposalStatuses {
		if n := s.ByStatus[status]; n > 0 {
			statuses = append(statuses, fmt.Sprintf("%d %s", n, status))
		}
	}
	if len(statuses) > 0 {
		parts = append(parts, strings.Join(statuses, ", "))
	}
	if s.Executable > 0 {
		parts = append(parts, fmt.Sprintf("%d ready to execute", s.Executable))
	}
	if s.Timelocked > 0 {
		parts = append(parts, fmt.Sprintf("%d timelocked", s.Timelocked))
	}
	return labelStyle.Sprint(strings.Join(parts, " · "))
}

// listDoc is the YAML shape of a proposal list
type listDoc struct {
	Ledger       string        `yaml:"ledger"`
	Vault        string        `yaml:"vault,omitempty"`
	CurrentBlock uint64        `yaml:"currentBlock"`
	Proposals    []proposalDoc `yaml:"proposals"`
}

// proposalDoc is the YAML shape of a proposal with its derived state
type proposalDoc struct {
	models.Proposal `yaml:",inline"`
	Amount          string `yaml:"amount"`
	CurrentBlock    uint64 `yaml:"currentBlock"`
	BlocksRemaining uint64 `yaml:"blocksRemaining,omitempty"`
	TimelockExpired bool   `yaml:"timelockExpired"`
	ApprovalsNeeded uint32 `yaml:"approvalsNeeded"`
	CanExecute      bool   `yaml:"canExecute"`
	ExecuteBlocker  string `yaml:"executeBlocker,omitempty"`
}

func newProposalDoc(v *domain.ProposalView) proposalDoc {
	doc := proposalDoc{
		Proposal:        *v.Proposal,
		Amount:          v.Proposal.AmountString(),
		CurrentBlock:    v.CurrentBlock,
		BlocksRemaining: v.BlocksRemaining,
		TimelockExpired: v.TimelockExpired,
		ApprovalsNeeded: v.ApprovalsNeeded,
		CanExecute:      v.CanExecute,
	}
	if v.ExecuteBlocker != nil {
		doc.ExecuteBlocker = v.ExecuteBlocker.Error()
	}
	return doc
}

var _ Renderer[*usecase.ListProposalsResult] = (*ProposalsRenderer)(nil)
