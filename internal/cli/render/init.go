package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/trebuchet-org/treb-vault/internal/usecase"
)

// InitRenderer renders init command results
type InitRenderer struct {
	out io.Writer
}

// NewInitRenderer creates a new init renderer
func NewInitRenderer(out io.Writer) *InitRenderer {
	return &InitRenderer{out: out}
}

// Render renders the init project result
func (r *InitRenderer) Render(result *usecase.InitProjectResult) error {
	failed := false
	for _, step := range result.Steps {
		if !step.Success {
			failed = true
			fmt.Fprintln(r.out, color.New(color.FgRed).Sprintf("❌ %s", step.Name))
			if step.Error != nil {
				fmt.Fprintf(r.out, "   %s\n", step.Error)
			}
			continue
		}
		message := step.Message
		if message == "" {
			message = step.Name
		}
		fmt.Fprintln(r.out, FormatSuccess(message))
	}
	if failed {
		return nil
	}

	fmt.Fprintln(r.out)
	if result.AlreadyInitialized {
		fmt.Fprintln(r.out, FormatWarning("vault was already initialized in this project"))
		return nil
	}
	fmt.Fprintln(r.out, color.New(color.FgGreen, color.Bold).Sprint("🎉 vault initialized successfully!"))

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, headerStyle.Sprint("📋 Next steps:"))
	fmt.Fprintln(r.out, "1. Copy .env.example to .env and set the RPC and transaction service values")
	fmt.Fprintln(r.out, "2. Add your vaults to vault.toml as [vaults.<name>] sections")
	fmt.Fprintln(r.out, "3. Connect your wallet and sync:")
	fmt.Fprintln(r.out, color.New(color.FgHiBlack).Sprint("   vault session connect 0x..."))
	fmt.Fprintln(r.out, color.New(color.FgHiBlack).Sprint("   vault sync"))
	return nil
}

var _ Renderer[*usecase.InitProjectResult] = (*InitRenderer)(nil)
