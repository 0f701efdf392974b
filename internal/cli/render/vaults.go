package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/treb-vault/internal/usecase"
)

// VaultsRenderer renders the configured vaults
type VaultsRenderer struct {
	out io.Writer
}

// NewVaultsRenderer creates a new vaults renderer
func NewVaultsRenderer(out io.Writer) *VaultsRenderer {
	return &VaultsRenderer{out: out}
}

// Render renders the vault table
func (r *VaultsRenderer) Render(result *usecase.ListVaultsResult) error {
	if len(result.Vaults) == 0 {
		fmt.Fprintln(r.out, "No vaults configured in vault.toml [vaults]")
		return nil
	}

	checked := false
	for _, v := range result.Vaults {
		checked = checked || v.Checked
	}

	t := newTable()
	header := table.Row{"", "Name", "Address", "Threshold", "Proposals", "Block"}
	if checked {
		header = append(header, "Deployed")
	}
	t.AppendHeader(header)

	for _, status := range result.Vaults {
		v := status.Vault
		marker := ""
		if status.Default {
			marker = color.New(color.FgGreen).Sprint("*")
		}

		proposals, block := fmt.Sprint(status.Proposals), FormatHeight(status.CurrentBlock)
		if status.Error != nil {
			proposals, block = color.New(color.FgRed).Sprint("error"), "-"
		}

		row := table.Row{
			marker,
			headerStyle.Sprint(v.Name),
			addrStyle.Sprint(v.ID),
			fmt.Sprintf("%d of %d", v.Threshold, len(v.Signers)),
			proposals,
			block,
		}
		if checked {
			row = append(row, deployedCell(status))
		}
		t.AppendRow(row)
	}

	fmt.Fprintln(r.out, t.Render())
	for _, status := range result.Vaults {
		if status.Error != nil {
			fmt.Fprintf(r.out, "\n%s\n", FormatError(fmt.Sprintf("%s: %v", status.Vault.Name, status.Error)))
		}
	}
	return nil
}

func deployedCell(status usecase.VaultStatus) string {
	switch {
	case !status.Checked:
		return ""
	case status.Deployed:
		return color.New(color.FgGreen).Sprint("✓")
	default:
		return color.New(color.FgRed).Sprintf("✗ %s", status.CheckReason)
	}
}

var _ Renderer[*usecase.ListVaultsResult] = (*VaultsRenderer)(nil)
