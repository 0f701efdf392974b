package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/trebuchet-org/treb-vault/internal/domain/config"
)

// FileWriter handles the file operations of project initialization
type FileWriter interface {
	ReadFile(ctx context.Context, path string) (string, error)
	WriteFile(ctx context.Context, path string, content string) error
	FileExists(ctx context.Context, path string) (bool, error)
	EnsureDirectory(ctx context.Context, path string) error
}

// InitProject scaffolds vault.toml and the .vault data directory
type InitProject struct {
	cfg        *config.RuntimeConfig
	fileWriter FileWriter
}

// NewInitProject creates a new init project use case
func NewInitProject(cfg *config.RuntimeConfig, fileWriter FileWriter) *InitProject {
	return &InitProject{
		cfg:        cfg,
		fileWriter: fileWriter,
	}
}

// InitProjectResult contains the result of project initialization
type InitProjectResult struct {
	ProjectRoot        string
	AlreadyInitialized bool
	Steps              []InitStep
}

// InitStep represents a step in the initialization process
type InitStep struct {
	Name    string
	Success bool
	Message string
	Error   error
}

// Run initializes a vault project in the project root
func (i *InitProject) Run(ctx context.Context) (*InitProjectResult, error) {
	result := &InitProjectResult{ProjectRoot: i.cfg.ProjectRoot}

	for _, fn := range []func(context.Context) InitStep{
		i.createDataDir,
		i.createVaultToml,
		i.createEnvExample,
		i.updateGitignore,
	} {
		step := fn(ctx)
		result.Steps = append(result.Steps, step)
		if !step.Success {
			return result, step.Error
		}
	}

	result.AlreadyInitialized = i.cfg.ConfigSource != ""
	return result, nil
}

func (i *InitProject) path(name string) string {
	return filepath.Join(i.cfg.ProjectRoot, name)
}

func (i *InitProject) createDataDir(ctx context.Context) InitStep {
	if err := i.fileWriter.EnsureDirectory(ctx, filepath.Join(i.cfg.DataDir, "priv")); err != nil {
		return InitStep{
			Name:  "Create Data Directory",
			Error: fmt.Errorf("failed to create %s: %w", i.cfg.DataDir, err),
		}
	}
	return InitStep{
		Name:    "Create Data Directory",
		Success: true,
		Message: "Created .vault/ for local config and snapshots",
	}
}

func (i *InitProject) createVaultToml(ctx context.Context) InitStep {
	return i.writeIfMissing(ctx, "Create vault.toml", "vault.toml", vaultTomlTemplate)
}

func (i *InitProject) createEnvExample(ctx context.Context) InitStep {
	return i.writeIfMissing(ctx, "Create Environment Example", ".env.example", envExampleTemplate)
}

func (i *InitProject) writeIfMissing(ctx context.Context, name, file, content string) InitStep {
	path := i.path(file)
	exists, err := i.fileWriter.FileExists(ctx, path)
	if err != nil {
		return InitStep{Name: name, Error: fmt.Errorf("failed to check %s: %w", file, err)}
	}
	if exists {
		return InitStep{Name: name, Success: true, Message: file + " already exists"}
	}

	if err := i.fileWriter.WriteFile(ctx, path, content); err != nil {
		return InitStep{Name: name, Error: fmt.Errorf("failed to create %s: %w", file, err)}
	}
	return InitStep{Name: name, Success: true, Message: "Created " + file}
}

// updateGitignore keeps snapshots and the wallet session out of version control
func (i *InitProject) updateGitignore(ctx context.Context) InitStep {
	const name = "Update .gitignore"
	const entry = ".vault/priv/"

	path := i.path(".gitignore")
	exists, err := i.fileWriter.FileExists(ctx, path)
	if err != nil {
		return InitStep{Name: name, Error: fmt.Errorf("failed to check .gitignore: %w", err)}
	}

	content := ""
	if exists {
		if content, err = i.fileWriter.ReadFile(ctx, path); err != nil {
			return InitStep{Name: name, Error: fmt.Errorf("failed to read .gitignore: %w", err)}
		}
		for _, line := range strings.Split(content, "\n") {
			if strings.TrimSpace(line) == entry {
				return InitStep{Name: name, Success: true, Message: ".gitignore already ignores " + entry}
			}
		}
		if content != "" && !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
	}

	if err := i.fileWriter.WriteFile(ctx, path, content+entry+"\n"); err != nil {
		return InitStep{Name: name, Error: fmt.Errorf("failed to update .gitignore: %w", err)}
	}
	return InitStep{Name: name, Success: true, Message: "Added " + entry + " to .gitignore"}
}

const vaultTomlTemplate = `# vault.toml
#
# Values support ${ENV_VAR} expansion from the environment, .env and .env.local.

# default_vault = "treasury"

[network]
name = "mainnet"
chain_id = 1
rpc_url = "${MAINNET_RPC_URL}"

# Additional networks, selected with --network or 'vault config set network'.
# [networks.sepolia]
# chain_id = 11155111
# rpc_url = "${SEPOLIA_RPC_URL}"

[service]
url = "${VAULT_SERVICE_URL}"
api_key = "${VAULT_SERVICE_API_KEY}"
timeout = "30s"
poll_interval = "12s"

# Each [vaults.<name>] is a multisig treasury vault.
# [vaults.treasury]
# address = "0x..."
# threshold = 2
# signers = ["0x...", "0x..."]
# admins = ["0x..."]
`

const envExampleTemplate = `# vault configuration

# RPC URLs
MAINNET_RPC_URL=
SEPOLIA_RPC_URL=

# Transaction service
VAULT_SERVICE_URL=
VAULT_SERVICE_API_KEY=
`
