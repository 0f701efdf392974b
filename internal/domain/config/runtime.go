package config

import (
	"time"

	"github.com/trebuchet-org/treb-vault/internal/domain/models"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Context settings
	Vault   string   // default ledger id or vault name
	Network  *Network  // nil if not configured
	Networks []Network // every network in vault.toml, sorted by name

	// Execution settings
	Debug          bool
	NonInteractive bool
	YAML           bool // Output in YAML format
	Offline        bool // Use the local snapshot only
	Timeout        time.Duration
	PollInterval   time.Duration

	// External services
	Service ServiceConfig

	// Resolved configurations
	Vaults       []models.Vault
	ConfigSource string // "vault.toml" or "" when no file was found
}

// Network represents network configuration
type Network struct {
	ChainID     uint64 `json:"chainId"`
	Name        string `json:"name"`
	RPCURL      string `json:"rpcUrl"`
	ExplorerURL string `json:"explorerUrl,omitempty"`
}

// ServiceConfig locates the vault transaction service that indexes proposals
// and relays approve/reject/execute submissions
type ServiceConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}
