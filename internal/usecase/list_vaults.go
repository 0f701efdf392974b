package usecase

import (
	"context"

	"github.com/trebuchet-org/treb-vault/internal/domain/config"
	"github.com/trebuchet-org/treb-vault/internal/domain/models"
)

// ListVaultsParams contains parameters for listing vaults
type ListVaultsParams struct {
	// Check verifies on-chain that each vault contract is deployed
	Check bool
}

// ListVaultsResult contains the configured vaults
type ListVaultsResult struct {
	Vaults []VaultStatus
}

// VaultStatus represents a configured vault and its cached ledger state
type VaultStatus struct {
	Vault        models.Vault
	Default      bool
	Proposals    int
	CurrentBlock uint64
	Error        error

	// Set only when the deployment was checked
	Checked     bool
	Deployed    bool
	CheckReason string
}

// ListVaults is a use case for listing configured vaults
type ListVaults struct {
	cfg     *config.RuntimeConfig
	loader  *LedgerLoader
	checker ContractChecker
}

// NewListVaults creates a new ListVaults use case
func NewListVaults(cfg *config.RuntimeConfig, loader *LedgerLoader, checker ContractChecker) *ListVaults {
	return &ListVaults{
		cfg:     cfg,
		loader:  loader,
		checker: checker,
	}
}

// Run lists the vaults from the cached snapshots
func (uc *ListVaults) Run(ctx context.Context, params ListVaultsParams) (*ListVaultsResult, error) {
	vaults := uc.loader.ledgers.Vaults()

	result := &ListVaultsResult{Vaults: make([]VaultStatus, 0, len(vaults))}
	for _, v := range vaults {
		status := VaultStatus{
			Vault:   v,
			Default: uc.cfg.Vault != "" && (uc.cfg.Vault == v.ID || uc.cfg.Vault == v.Name),
		}

		pl, err := uc.loader.Open(ctx, v.ID, false)
		if err != nil {
			status.Error = err
		} else {
			status.Proposals = pl.Len()
			status.CurrentBlock = pl.CurrentBlock()
		}

		if params.Check && status.Error == nil {
			deployed, reason, err := uc.checker.HasCode(ctx, v.ID)
			if err != nil {
				status.Error = err
			} else {
				status.Checked = true
				status.Deployed = deployed
				status.CheckReason = reason
			}
		}

		result.Vaults = append(result.Vaults, status)
	}
	return result, nil
}
