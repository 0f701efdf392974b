package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-vault/internal/cli/render"
	"github.com/trebuchet-org/treb-vault/internal/usecase"
)

// NewShowCmd creates the show command
func NewShowCmd() *cobra.Command {
	var cached bool

	cmd := &cobra.Command{
		Use:   "show [proposal-id]",
		Short: "Show proposal details",
		Long: `Show a proposal with its approvals, timelock countdown and whether it can
execute at the current block height. Without an id an interactive picker is shown.`,
		Example: `  vault show 42
  vault show 42 --yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ShowProposal.Run(cmd.Context(), usecase.ShowProposalParams{
				ProposalID: firstArg(args),
				Refresh:    !cached,
			})
			if err != nil {
				return err
			}

			return render.NewProposalRenderer(cmd.OutOrStdout(), app.Config.YAML).Render(result)
		},
	}

	cmd.Flags().BoolVar(&cached, "cached", false, "Show the local snapshot without refreshing")

	return cmd
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
