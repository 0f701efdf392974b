package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/trebuchet-org/treb-vault/internal/usecase"
)

// SyncRenderer renders sync reports
type SyncRenderer struct {
	out io.Writer
}

// NewSyncRenderer creates a new sync renderer
func NewSyncRenderer(out io.Writer) *SyncRenderer {
	return &SyncRenderer{out: out}
}

// Render renders the per-ledger sync reports
func (r *SyncRenderer) Render(result *usecase.SyncLedgerResult) error {
	for _, report := range result.Reports {
		fmt.Fprintf(r.out, "%s %s at block %s: %d added, %d updated, %d unchanged",
			color.New(color.FgGreen).Sprint("✓"),
			headerStyle.Sprint(report.LedgerID),
			FormatHeight(report.BlockHeight),
			report.Added, report.Updated, report.Unchanged)
		if n := len(report.Skipped); n > 0 {
			fmt.Fprint(r.out, color.New(color.FgYellow).Sprintf(", %d skipped", n))
		}
		fmt.Fprintln(r.out)

		if report.StaleHeight {
			fmt.Fprintf(r.out, "  %s\n", FormatWarning("block feed reported an older height, kept the current one"))
		}
		for _, err := range report.Skipped {
			fmt.Fprintf(r.out, "  %s\n", labelStyle.Sprint(err.Error()))
		}
	}

	ids := make([]string, 0, len(result.Errors))
	for id := range result.Errors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(r.out, "%s %s: %v\n", color.New(color.FgRed).Sprint("✗"), headerStyle.Sprint(id), result.Errors[id])
	}
	return nil
}

var _ Renderer[*usecase.SyncLedgerResult] = (*SyncRenderer)(nil)
