package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-vault/internal/cli/render"
)

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a vault project in the current directory",
		Long: `Create vault.toml, .env.example and the .vault data directory, and keep
.vault/priv out of version control. Existing files are left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.InitProject.Run(cmd.Context())
			if result != nil {
				_ = render.NewInitRenderer(cmd.OutOrStdout()).Render(result)
			}
			return err
		},
	}
}
