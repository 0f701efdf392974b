package config

// VaultFileConfig represents the full vault.toml configuration file
type VaultFileConfig struct {
	DefaultVault string                       `toml:"default_vault,omitempty"`
	Network      NetworkFileConfig            `toml:"network"`
	Networks     map[string]NetworkFileConfig `toml:"networks,omitempty"`
	Service      ServiceFileConfig            `toml:"service"`
	Vaults       map[string]VaultEntryConfig  `toml:"vaults"`
}

// NetworkFileConfig represents the [network] section, or one [networks.<name>] section, in vault.toml
type NetworkFileConfig struct {
	Name        string `toml:"name"`
	ChainID     uint64 `toml:"chain_id"`
	RPCURL      string `toml:"rpc_url"`
	ExplorerURL string `toml:"explorer_url,omitempty"`
}

// ServiceFileConfig represents the [service] section in vault.toml
type ServiceFileConfig struct {
	URL          string `toml:"url"`
	APIKey       string `toml:"api_key,omitempty"`
	Timeout      string `toml:"timeout,omitempty"`
	PollInterval string `toml:"poll_interval,omitempty"`
}

// VaultEntryConfig represents a [vaults.<name>] section in vault.toml
type VaultEntryConfig struct {
	Address   string   `toml:"address"`
	Threshold uint32   `toml:"threshold"`
	Signers   []string `toml:"signers"`
	Admins    []string `toml:"admins,omitempty"`
}
