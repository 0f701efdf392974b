package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/treb-vault/internal/domain/config"
)

const (
	// VaultFileName is the project configuration file that marks the project root
	VaultFileName = "vault.toml"
	// DataDirName holds local state (config.local.json, priv/ snapshots and session)
	DataDirName = ".vault"
)

// ErrNoProjectRoot is returned when no vault.toml is found above the working directory
var ErrNoProjectRoot = errors.New("not in a vault project (vault.toml not found)")

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil && !errors.Is(err, ErrNoProjectRoot) {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
		if projectRoot == "" {
			if projectRoot, err = os.Getwd(); err != nil {
				return nil, err
			}
		}
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		DataDir:        filepath.Join(projectRoot, DataDirName),
		Vault:          v.GetString("vault"),
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		YAML:           v.GetBool("yaml"),
		Offline:        v.GetBool("offline"),
		Timeout:        v.GetDuration("timeout"),
	}

	loadEnvFiles(projectRoot)

	file, err := LoadVaultFile(projectRoot)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return cfg, nil
	}
	cfg.ConfigSource = VaultFileName

	if err := applyVaultFile(cfg, file, v.GetString("network")); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", VaultFileName, err)
	}

	// Flags and environment override the [service] section
	if url := v.GetString("service_url"); url != "" {
		cfg.Service.URL = url
	}
	if key := v.GetString("service_api_key"); key != "" {
		cfg.Service.APIKey = key
	}
	if cfg.Vault == "" {
		cfg.Vault = file.DefaultVault
	}

	return cfg, nil
}

func applyVaultFile(cfg *config.RuntimeConfig, file *config.VaultFileConfig, networkOverride string) error {
	network, err := selectNetwork(file, networkOverride)
	if err != nil {
		return err
	}
	if network.RPCURL != "" || network.ChainID != 0 {
		cfg.Network = &config.Network{
			ChainID:     network.ChainID,
			Name:        network.Name,
			RPCURL:      network.RPCURL,
			ExplorerURL: network.ExplorerURL,
		}
	}

	cfg.Networks = configuredNetworks(file)

	cfg.Service = config.ServiceConfig{URL: file.Service.URL, APIKey: file.Service.APIKey}
	if cfg.Service.Timeout, err = parseDuration("service.timeout", file.Service.Timeout); err != nil {
		return err
	}
	if cfg.PollInterval, err = parseDuration("service.poll_interval", file.Service.PollInterval); err != nil {
		return err
	}

	cfg.Vaults, err = BuildVaults(file.Vaults, network.ChainID)
	return err
}

// selectNetwork picks the named network from [network] or [networks.<name>].
// Without a name it uses [network], or the only [networks.*] entry.
func selectNetwork(file *config.VaultFileConfig, name string) (config.NetworkFileConfig, error) {
	if name == "" {
		if file.Network.RPCURL == "" && file.Network.ChainID == 0 && len(file.Networks) == 1 {
			for key, n := range file.Networks {
				if n.Name == "" {
					n.Name = key
				}
				return n, nil
			}
		}
		return file.Network, nil
	}

	if file.Network.Name != "" && strings.EqualFold(file.Network.Name, name) {
		return file.Network, nil
	}
	for key, n := range file.Networks {
		if strings.EqualFold(key, name) {
			if n.Name == "" {
				n.Name = key
			}
			return n, nil
		}
	}
	return config.NetworkFileConfig{}, fmt.Errorf("network %q is not configured", name)
}

// configuredNetworks lists [network] and every [networks.<name>] entry
func configuredNetworks(file *config.VaultFileConfig) []config.Network {
	var networks []config.Network
	if n := file.Network; n.RPCURL != "" || n.ChainID != 0 {
		networks = append(networks, config.Network{ChainID: n.ChainID, Name: n.Name, RPCURL: n.RPCURL, ExplorerURL: n.ExplorerURL})
	}
	for _, key := range lo.Keys(file.Networks) {
		n := file.Networks[key]
		if n.Name == "" {
			n.Name = key
		}
		networks = append(networks, config.Network{ChainID: n.ChainID, Name: n.Name, RPCURL: n.RPCURL, ExplorerURL: n.ExplorerURL})
	}
	sort.Slice(networks, func(i, j int) bool { return networks[i].Name < networks[j].Name })
	return networks
}

func parseDuration(key, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

// FindProjectRoot walks up from current directory to find vault.toml
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return findProjectRootFrom(dir)
}

func findProjectRootFrom(dir string) (string, error) {
	for {
		if _, err := os.Stat(filepath.Join(dir, VaultFileName)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoProjectRoot
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	v.SetConfigName("config.local")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, DataDirName))

	v.SetEnvPrefix("VAULT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	v.SetDefault("timeout", "5m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("offline", false)
	v.SetDefault("project_root", projectRoot)

	// A missing config.local.json is fine
	_ = v.ReadInConfig()

	bind := func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil {
			panic(err)
		}
	}
	cmd.Flags().VisitAll(bind)

	return v
}
