package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-vault/internal/app"
	"github.com/trebuchet-org/treb-vault/internal/config"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// commands that run without a project
var skipAppInit = map[string]bool{
	"version":    true,
	"help":       true,
	"completion": true,
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var cancel context.CancelFunc

	rootCmd := &cobra.Command{
		Use:   "vault",
		Short: "Proposal lifecycle manager for multisig treasury vaults",
		Long: `vault tracks spending proposals of multisig treasury vaults and drives
them through approval, timelock and execution.

Proposals are loaded from the vault transaction service and the current block
height from the network RPC configured in vault.toml. A local snapshot in
.vault/priv lets read-only commands work with --offline.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipAppInit[cmd.Name()] {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				if !errors.Is(err, config.ErrNoProjectRoot) {
					return err
				}
				projectRoot = ""
			}

			v := config.SetupViper(projectRoot, cmd)

			appInstance, err := app.InitApp(v)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			// watch runs until interrupted
			if appInstance.Config.Timeout > 0 && cmd.Name() != "watch" {
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
			}

			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if cancel != nil {
				cancel()
			}
			if a, err := getApp(cmd); err == nil {
				a.Close()
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("vault", "", "Vault name or address (defaults to config or the only configured vault)")
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network from vault.toml to use")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().Bool("offline", false, "Use the local snapshot only, do not contact the network")
	rootCmd.PersistentFlags().Bool("yaml", false, "Output in YAML format")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "proposals",
		Title: "Proposal Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	for _, cmd := range []*cobra.Command{
		NewListCmd(),
		NewShowCmd(),
		NewApproveCmd(),
		NewRejectCmd(),
		NewExecuteCmd(),
		NewExpireCmd(),
	} {
		cmd.GroupID = "proposals"
		rootCmd.AddCommand(cmd)
	}

	for _, cmd := range []*cobra.Command{
		NewSyncCmd(),
		NewWatchCmd(),
		NewVaultsCmd(),
		NewNetworksCmd(),
		NewSessionCmd(),
		NewPruneCmd(),
		NewConfigCmd(),
	} {
		cmd.GroupID = "management"
		rootCmd.AddCommand(cmd)
	}

	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	if cmd.Context() == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	appInstance, ok := cmd.Context().Value(appKey).(*app.App)
	if !ok || appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	return appInstance, nil
}
