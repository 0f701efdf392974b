package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/trebuchet-org/treb-vault/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out io.Writer
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer) *NetworksRenderer {
	return &NetworksRenderer{out: out}
}

// Render renders the configured networks, marking the active one
func (r *NetworksRenderer) Render(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured in vault.toml [network] or [networks]")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Configured Networks:")
	fmt.Fprintln(r.out)

	for _, network := range result.Networks {
		marker := " "
		if network.Active {
			marker = color.New(color.FgGreen).Sprint("*")
		}

		switch {
		case network.Error != nil:
			fmt.Fprintf(r.out, "%s ❌ %s - Error: %v\n", marker, network.Name, network.Error)
		case result.Checked:
			fmt.Fprintf(r.out, "%s ✅ %s - Chain ID: %d\n", marker, network.Name, network.RemoteChainID)
		case network.ChainID != 0:
			fmt.Fprintf(r.out, "%s %s - Chain ID: %d\n", marker, network.Name, network.ChainID)
		default:
			fmt.Fprintf(r.out, "%s %s\n", marker, network.Name)
		}
	}

	return nil
}

var _ Renderer[*usecase.ListNetworksResult] = (*NetworksRenderer)(nil)
