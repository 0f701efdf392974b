package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/trebuchet-org/treb-vault/internal/usecase"
)

// PruneRenderer renders snapshot prune results
type PruneRenderer struct {
	out io.Writer
}

// NewPruneRenderer creates a new prune renderer
func NewPruneRenderer(out io.Writer) *PruneRenderer {
	return &PruneRenderer{out: out}
}

// Render lists stale snapshots, or the ones that were deleted
func (r *PruneRenderer) Render(result *usecase.PruneSnapshotsResult) error {
	if len(result.Stale) == 0 {
		fmt.Fprintln(r.out, FormatSuccess("No stale snapshots"))
		return nil
	}

	if len(result.Pruned) == 0 {
		fmt.Fprintf(r.out, "%d snapshot(s) belong to vaults no longer in vault.toml:\n", len(result.Stale))
		for _, id := range result.Stale {
			fmt.Fprintf(r.out, "  %s %s\n", color.New(color.FgYellow).Sprint("•"), addrStyle.Sprint(id))
		}
		return nil
	}

	for _, id := range result.Pruned {
		fmt.Fprintf(r.out, "%s %s\n", color.New(color.FgRed).Sprint("✗"), addrStyle.Sprint(id))
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Pruned %d snapshot(s)", len(result.Pruned))))
	return nil
}

var _ Renderer[*usecase.PruneSnapshotsResult] = (*PruneRenderer)(nil)
