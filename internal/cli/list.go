package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-vault/internal/cli/render"
	"github.com/trebuchet-org/treb-vault/internal/domain"
	"github.com/trebuchet-org/treb-vault/internal/domain/models"
	"github.com/trebuchet-org/treb-vault/internal/usecase"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var (
		statuses   []string
		proposer   string
		token      string
		executable bool
		timelocked bool
		cached     bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List proposals of a vault",
		Long: `List the proposals of a vault with their approval and timelock state.

Proposals are refreshed from the vault transaction service unless --offline
is set, in which case the local snapshot is shown.`,
		Example: `  # List all proposals of the default vault
  vault list

  # Pending and approved proposals only
  vault list --status pending --status approved

  # Proposals that can execute right now
  vault list --executable`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			filter, err := buildFilter(statuses, proposer, token, executable, timelocked)
			if err != nil {
				return err
			}

			result, err := app.ListProposals.Run(cmd.Context(), usecase.ListProposalsParams{
				Filter:  filter,
				Refresh: !cached,
			})
			if err != nil {
				return err
			}

			return render.NewProposalsRenderer(cmd.OutOrStdout(), app.Config.YAML).Render(result)
		},
	}

	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Filter by status (pending, approved, executed, rejected, expired)")
	cmd.Flags().StringVar(&proposer, "proposer", "", "Filter by proposer address")
	cmd.Flags().StringVar(&token, "token", "", "Filter by token")
	cmd.Flags().BoolVar(&executable, "executable", false, "Only proposals that can execute now")
	cmd.Flags().BoolVar(&timelocked, "timelocked", false, "Only proposals still waiting on their unlock block")
	cmd.Flags().BoolVar(&cached, "cached", false, "Show the local snapshot without refreshing")

	return cmd
}

func buildFilter(statuses []string, proposer, token string, executable, timelocked bool) (domain.ProposalFilter, error) {
	filter := domain.ProposalFilter{
		Proposer:       proposer,
		Token:          token,
		ExecutableOnly: executable,
		TimelockedOnly: timelocked,
	}
	for _, s := range statuses {
		status, err := models.ParseProposalStatus(s)
		if err != nil {
			return filter, err
		}
		filter.Statuses = append(filter.Statuses, status)
	}
	return filter, nil
}
