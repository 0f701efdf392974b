package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/trebuchet-org/treb-vault/internal/domain"
	"github.com/trebuchet-org/treb-vault/internal/usecase"
)

// WatchRenderer prints one line per block height poll and one per unlocked proposal
type WatchRenderer struct {
	out       io.Writer
	lastBlock uint64
}

// NewWatchRenderer creates a new watch renderer
func NewWatchRenderer(out io.Writer) *WatchRenderer {
	return &WatchRenderer{out: out}
}

// Render renders a single tick. Ticks that change nothing are skipped.
func (r *WatchRenderer) Render(tick usecase.BlockTick) error {
	if tick.Err != nil {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("block feed: %v", tick.Err)))
		return nil
	}

	for _, v := range tick.Unlocked {
		fmt.Fprintf(r.out, "%s Proposal %s unlocked at block %s%s\n",
			color.New(color.FgGreen).Sprint("🔓"),
			idStyle.Sprint(v.Proposal.ID),
			FormatHeight(tick.CurrentBlock),
			readySuffix(v))
	}

	if tick.CurrentBlock == r.lastBlock && len(tick.Unlocked) == 0 {
		return nil
	}
	r.lastBlock = tick.CurrentBlock

	line := fmt.Sprintf("block %s", FormatHeight(tick.CurrentBlock))
	if next := nextUnlock(tick.Timelocked); next != nil {
		line += fmt.Sprintf(" · %d timelocked, next: %s in %s", len(tick.Timelocked), next.Proposal.ID, FormatBlocks(next.BlocksRemaining))
	} else {
		line += " · nothing timelocked"
	}
	if tick.Stale {
		line += " · " + color.New(color.FgYellow).Sprint("stale height ignored")
	}
	fmt.Fprintln(r.out, labelStyle.Sprint(line))
	return nil
}

func nextUnlock(views []*domain.ProposalView) *domain.ProposalView {
	var next *domain.ProposalView
	for _, v := range views {
		if next == nil || v.BlocksRemaining < next.BlocksRemaining {
			next = v
		}
	}
	return next
}

func readySuffix(v *domain.ProposalView) string {
	if v.CanExecute {
		return color.New(color.FgGreen, color.Bold).Sprint(", ready to execute")
	}
	if v.ApprovalsNeeded > 0 {
		return fmt.Sprintf(", %d more approval(s) needed", v.ApprovalsNeeded)
	}
	return ""
}

var _ Renderer[usecase.BlockTick] = (*WatchRenderer)(nil)
