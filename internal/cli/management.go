package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-vault/internal/cli/render"
	"github.com/trebuchet-org/treb-vault/internal/usecase"
)

// NewSyncCmd creates the sync command
func NewSyncCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync proposals from the transaction service",
		Long: `Fetch every proposal of the vault from the transaction service, refresh the
block height and save the snapshot used by --offline and --cached.`,
		Example: `  vault sync
  vault sync --all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.SyncLedger.Run(cmd.Context(), usecase.SyncLedgerParams{All: all})
			if err != nil {
				return err
			}
			return render.NewSyncRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Sync every configured vault")

	return cmd
}

// NewWatchCmd creates the watch command
func NewWatchCmd() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the block height and report timelock unlocks",
		Long: `Poll the block height and report proposals whose timelock elapses.
Runs until interrupted.`,
		Example: `  vault watch
  vault watch --interval 30s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			renderer := render.NewWatchRenderer(cmd.OutOrStdout())
			err = app.RefreshBlockHeight.Watch(cmd.Context(), usecase.RefreshBlockHeightParams{
				Interval: interval,
				OnTick: func(tick usecase.BlockTick) {
					_ = renderer.Render(tick)
				},
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "Poll interval (defaults to service.poll_interval)")

	return cmd
}

// NewVaultsCmd creates the vaults command
func NewVaultsCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "vaults",
		Short: "List configured vaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListVaults.Run(cmd.Context(), usecase.ListVaultsParams{Check: check})
			if err != nil {
				return err
			}
			return render.NewVaultsRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Check that each vault contract is deployed")

	return cmd
}

// NewSessionCmd creates the session command
func NewSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage the connected wallet",
		Long: `Show the connected wallet and its role in each vault.

Available subcommands:
  session              Show the connected wallet
  session connect      Connect a wallet address
  session disconnect   Forget the connected wallet`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			status, err := app.ManageSession.Status(cmd.Context())
			if err != nil {
				return err
			}
			return render.NewSessionRenderer(cmd.OutOrStdout()).Render(status)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "connect <address>",
		Short:   "Connect a wallet address",
		Example: `  vault session connect 0x1111111111111111111111111111111111111111`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			status, err := app.ManageSession.Connect(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return render.NewSessionRenderer(cmd.OutOrStdout()).Render(status)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "disconnect",
		Short: "Forget the connected wallet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			return app.ManageSession.Disconnect(cmd.Context())
		},
	})

	return cmd
}

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List networks from vault.toml",
		Long: `List the [network] and [networks.<name>] sections of vault.toml.
The active network is marked with *. Select another one with --network or
'vault config set network <name>'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListNetworks.Run(cmd.Context(), usecase.ListNetworksParams{Check: check})
			if err != nil {
				return err
			}
			return render.NewNetworksRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Dial each RPC and verify its chain ID")

	return cmd
}

// NewPruneCmd creates the prune command
func NewPruneCmd() *cobra.Command {
	var dryRun, yes bool

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete snapshots of vaults no longer in vault.toml",
		Long: `Delete local proposal snapshots in .vault/priv whose vault was removed
from vault.toml. Use --dry-run to only list them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.PruneSnapshots.Run(cmd.Context(), usecase.PruneSnapshotsParams{
				DryRun:      dryRun,
				SkipConfirm: yes,
			})
			if err != nil {
				return err
			}
			return render.NewPruneRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Only list stale snapshots")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
