package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/trebuchet-org/treb-vault/internal/usecase"
)

// TransitionRenderer renders the resulting state after a reject, execute or expire.
// The outcome message itself is delivered by the notification sink.
type TransitionRenderer struct {
	out  io.Writer
	yaml bool
}

// NewTransitionRenderer creates a new transition renderer
func NewTransitionRenderer(out io.Writer, asYAML bool) *TransitionRenderer {
	return &TransitionRenderer{out: out, yaml: asYAML}
}

// Render renders a single transition result
func (r *TransitionRenderer) Render(result *usecase.TransitionResult) error {
	if r.yaml {
		return writeYAML(r.out, newProposalDoc(result.View))
	}
	r.line(result)
	return nil
}

// RenderApprove renders the outcome of a batch approval
func (r *TransitionRenderer) RenderApprove(result *usecase.ApproveProposalResult) error {
	if r.yaml {
		doc := approveDoc{Ledger: result.LedgerID, Failed: make(map[string]string)}
		for _, t := range result.Approved {
			doc.Approved = append(doc.Approved, newProposalDoc(t.View))
		}
		for id, err := range result.Failed {
			doc.Failed[id] = err.Error()
		}
		return writeYAML(r.out, doc)
	}

	for _, t := range result.Approved {
		r.line(t)
	}
	if len(result.Failed) == 0 {
		return nil
	}

	ids := make([]string, 0, len(result.Failed))
	for id := range result.Failed {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, color.New(color.FgRed).Sprintf("%d approval(s) failed:", len(ids)))
	for _, id := range ids {
		fmt.Fprintf(r.out, "  %s  %s\n", idStyle.Sprint(id), usecase.DescribeFailure(result.Failed[id]))
	}
	return nil
}

func (r *TransitionRenderer) line(t *usecase.TransitionResult) {
	p := t.Proposal
	fmt.Fprintf(r.out, "  %s  %s  %d/%d approvals", idStyle.Sprint(p.ID), StatusLabel(p.Status), p.Approvals, p.Threshold)
	if t.View != nil && t.View.CanExecute {
		fmt.Fprint(r.out, color.New(color.FgGreen).Sprint("  ready to execute"))
	}
	fmt.Fprintln(r.out)
}

type approveDoc struct {
	Ledger   string            `yaml:"ledger"`
	Approved []proposalDoc     `yaml:"approved"`
	Failed   map[string]string `yaml:"failed,omitempty"`
}

var _ Renderer[*usecase.TransitionResult] = (*TransitionRenderer)(nil)
