package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-vault/internal/domain/config"
	"github.com/trebuchet-org/treb-vault/internal/domain/models"
)

// loadEnvFiles loads .env and .env.local so vault.toml can reference their variables.
// Variables already set in the environment win.
func loadEnvFiles(projectRoot string) {
	for _, name := range []string{".env", ".env.local"} {
		envFile := filepath.Join(projectRoot, name)
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
		}
	}
}

// LoadVaultFile parses vault.toml in projectRoot and expands ${VAR} references in
// URLs, keys and addresses. Returns (nil, nil) if the file does not exist.
func LoadVaultFile(projectRoot string) (*config.VaultFileConfig, error) {
	path := filepath.Join(projectRoot, VaultFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	var file config.VaultFileConfig
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", VaultFileName, err)
	}

	file.Network = expandNetwork(file.Network)
	for name, n := range file.Networks {
		file.Networks[name] = expandNetwork(n)
	}
	file.Service.URL = os.ExpandEnv(file.Service.URL)
	file.Service.APIKey = os.ExpandEnv(file.Service.APIKey)
	for name, entry := range file.Vaults {
		entry.Address = os.ExpandEnv(entry.Address)
		entry.Signers = lo.Map(entry.Signers, func(s string, _ int) string { return os.ExpandEnv(s) })
		entry.Admins = lo.Map(entry.Admins, func(s string, _ int) string { return os.ExpandEnv(s) })
		file.Vaults[name] = entry
	}

	return &file, nil
}

func expandNetwork(n config.NetworkFileConfig) config.NetworkFileConfig {
	n.RPCURL = os.ExpandEnv(n.RPCURL)
	n.ExplorerURL = os.ExpandEnv(n.ExplorerURL)
	return n
}

// BuildVaults validates the [vaults.*] sections and converts them to vault
// configurations ordered by name. Addresses are stored in checksum form.
func BuildVaults(entries map[string]config.VaultEntryConfig, chainID uint64) ([]models.Vault, error) {
	names := lo.Keys(entries)
	sort.Strings(names)

	seen := make(map[string]string)
	vaults := make([]models.Vault, 0, len(entries))
	for _, name := range names {
		entry := entries[name]

		address, err := checksum(entry.Address)
		if err != nil {
			return nil, fmt.Errorf("vaults.%s.address: %w", name, err)
		}
		if other, dup := seen[address]; dup {
			return nil, fmt.Errorf("vaults.%s: address %s is already used by vaults.%s", name, address, other)
		}
		seen[address] = name

		signers, err := checksumAll(entry.Signers)
		if err != nil {
			return nil, fmt.Errorf("vaults.%s.signers: %w", name, err)
		}
		admins, err := checksumAll(entry.Admins)
		if err != nil {
			return nil, fmt.Errorf("vaults.%s.admins: %w", name, err)
		}

		if entry.Threshold < 1 {
			return nil, fmt.Errorf("vaults.%s.threshold must be at least 1", name)
		}
		if len(signers) > 0 && int(entry.Threshold) > len(signers) {
			return nil, fmt.Errorf("vaults.%s.threshold %d exceeds the %d configured signers", name, entry.Threshold, len(signers))
		}

		vaults = append(vaults, models.Vault{
			ID:        address,
			Name:      name,
			ChainID:   chainID,
			Threshold: entry.Threshold,
			Signers:   signers,
			Admins:    admins,
		})
	}
	return vaults, nil
}

func checksum(address string) (string, error) {
	address = strings.TrimSpace(address)
	if !common.IsHexAddress(address) {
		return "", fmt.Errorf("invalid address: %q", address)
	}
	return common.HexToAddress(address).Hex(), nil
}

func checksumAll(addresses []string) ([]string, error) {
	out := make([]string, 0, len(addresses))
	for _, a := range addresses {
		c, err := checksum(a)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return lo.Uniq(out), nil
}
