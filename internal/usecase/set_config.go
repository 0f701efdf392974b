package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/trebuchet-org/treb-vault/internal/domain/config"
)

// SetConfigParams contains parameters for setting configuration
type SetConfigParams struct {
	Key   string
	Value string
}

// SetConfigResult contains the result of setting configuration
type SetConfigResult struct {
	UpdatedConfig *config.LocalConfig
	ConfigPath    string
	Key           config.ConfigKey
	Value         string
}

// SetConfig is a use case for setting configuration values
type SetConfig struct {
	store   LocalConfigRepository
	ledgers LedgerProvider
}

// NewSetConfig creates a new SetConfig use case
func NewSetConfig(store LocalConfigRepository, ledgers LedgerProvider) *SetConfig {
	return &SetConfig{
		store:   store,
		ledgers: ledgers,
	}
}

// Run executes the set config use case
func (uc *SetConfig) Run(ctx context.Context, params SetConfigParams) (*SetConfigResult, error) {
	key := strings.ToLower(params.Key)
	if !config.IsValidConfigKey(key) {
		return nil, unknownConfigKey(params.Key)
	}

	normalizedKey := config.NormalizeConfigKey(key)

	local, err := uc.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	switch normalizedKey {
	case config.ConfigKeyVault:
		// Store the canonical id so renames in vault.toml are caught early
		pl, err := uc.ledgers.Ledger(params.Value)
		if err != nil {
			return nil, err
		}
		local.Vault = pl.ID()
	case config.ConfigKeyNetwork:
		local.Network = params.Value
	}

	if err := uc.store.Save(ctx, local); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	value := params.Value
	if normalizedKey == config.ConfigKeyVault {
		value = local.Vault
	}

	return &SetConfigResult{
		UpdatedConfig: local,
		ConfigPath:    uc.store.GetPath(),
		Key:           normalizedKey,
		Value:         value,
	}, nil
}

func unknownConfigKey(key string) error {
	validKeys := []string{}
	for _, k := range config.ValidConfigKeys() {
		if k == config.ConfigKeyVault {
			validKeys = append(validKeys, string(k)+" (v)")
		} else {
			validKeys = append(validKeys, string(k))
		}
	}
	return fmt.Errorf("unknown config key: %s\nAvailable keys: %s", key, strings.Join(validKeys, ", "))
}
