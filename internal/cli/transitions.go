package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-vault/internal/cli/render"
	"github.com/trebuchet-org/treb-vault/internal/usecase"
)

// NewApproveCmd creates the approve command
func NewApproveCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "approve [proposal-id...]",
		Short: "Approve pending proposals as the connected signer",
		Long: `Approve one or more pending proposals with the connected wallet, which must
be a signer of the vault. A proposal moves to approved once its approvals
reach the vault threshold.

Without ids an interactive multi-select lists the pending proposals you have
not approved yet.`,
		Example: `  vault approve 42
  vault approve 42 43 44
  vault approve --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ApproveProposal.Run(cmd.Context(), usecase.ApproveProposalParams{
				ProposalIDs: args,
				All:         all,
			})
			if err != nil {
				return err
			}

			return render.NewTransitionRenderer(cmd.OutOrStdout(), app.Config.YAML).RenderApprove(result)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Approve every pending proposal you have not approved yet")

	return cmd
}

// NewRejectCmd creates the reject command
func NewRejectCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "reject [proposal-id]",
		Short: "Reject a pending proposal",
		Long: `Reject a pending proposal. Only the proposer or a vault admin may reject,
and only while the proposal is pending. Rejection is final.`,
		Example: `  vault reject 42 --reason "wrong recipient"`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.RejectProposal.Run(cmd.Context(), usecase.RejectProposalParams{
				ProposalID: firstArg(args),
				Reason:     reason,
			})
			if err != nil {
				return err
			}

			return render.NewTransitionRenderer(cmd.OutOrStdout(), app.Config.YAML).Render(result)
		},
	}

	cmd.Flags().StringVarP(&reason, "reason", "r", "", "Reason recorded with the rejection")

	return cmd
}

// NewExecuteCmd creates the execute command
func NewExecuteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "execute [proposal-id]",
		Short: "Execute an approved proposal",
		Long: `Execute an approved proposal once its approvals reach the threshold and its
timelock has elapsed. The block height is refreshed right before submitting.`,
		Example: `  vault execute 42
  vault execute 42 --yes`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ExecuteProposal.Run(cmd.Context(), usecase.ExecuteProposalParams{
				ProposalID:  firstArg(args),
				SkipConfirm: yes,
			})
			if err != nil {
				return err
			}

			return render.NewTransitionRenderer(cmd.OutOrStdout(), app.Config.YAML).Render(result)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

// NewExpireCmd creates the expire command
func NewExpireCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expire [proposal-id]",
		Short: "Mark an approved proposal as expired (admin only)",
		Long: `Mark an approved proposal as expired so it can no longer execute. Only vault
admins may expire proposals.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ExpireProposal.Run(cmd.Context(), usecase.ExpireProposalParams{
				ProposalID: firstArg(args),
			})
			if err != nil {
				return err
			}

			return render.NewTransitionRenderer(cmd.OutOrStdout(), app.Config.YAML).Render(result)
		},
	}
}
