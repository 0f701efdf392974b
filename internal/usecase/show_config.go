package usecase

import (
	"context"

	"github.com/trebuchet-org/treb-vault/internal/domain/config"
	"github.com/trebuchet-org/treb-vault/internal/domain/models"
)

// ShowConfigResult contains the result of showing configuration
type ShowConfigResult struct {
	Config     *config.LocalConfig
	ConfigPath string
	Exists     bool
	// Source is where the vault definitions were loaded from
	Source string
	Vaults []models.Vault
}

// ShowConfig is a use case for showing configuration
type ShowConfig struct {
	cfg     *config.RuntimeConfig
	store   LocalConfigRepository
	ledgers LedgerProvider
}

// NewShowConfig creates a new ShowConfig use case
func NewShowConfig(cfg *config.RuntimeConfig, store LocalConfigRepository, ledgers LedgerProvider) *ShowConfig {
	return &ShowConfig{
		cfg:     cfg,
		store:   store,
		ledgers: ledgers,
	}
}

// Run executes the show config use case
func (uc *ShowConfig) Run(ctx context.Context) (*ShowConfigResult, error) {
	exists := uc.store.Exists()

	local, err := uc.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	return &ShowConfigResult{
		Config:     local,
		ConfigPath: uc.store.GetPath(),
		Exists:     exists,
		Source:     uc.cfg.ConfigSource,
		Vaults:     uc.ledgers.Vaults(),
	}, nil
}
