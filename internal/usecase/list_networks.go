package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/trebuchet-org/treb-vault/internal/domain/config"
)

// ListNetworksParams contains parameters for listing networks
type ListNetworksParams struct {
	// Check dials each RPC and compares the reported chain id
	Check bool
}

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkStatus
	Checked  bool
}

// NetworkStatus represents the status of a network
type NetworkStatus struct {
	config.Network
	Active        bool
	RemoteChainID uint64
	Error         error
}

// ListNetworks is a use case for listing the networks in vault.toml
type ListNetworks struct {
	cfg   *config.RuntimeConfig
	probe ChainIDProbe
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(cfg *config.RuntimeConfig, probe ChainIDProbe) *ListNetworks {
	return &ListNetworks{
		cfg:   cfg,
		probe: probe,
	}
}

// Run executes the use case
func (uc *ListNetworks) Run(ctx context.Context, params ListNetworksParams) (*ListNetworksResult, error) {
	result := &ListNetworksResult{
		Networks: make([]NetworkStatus, 0, len(uc.cfg.Networks)),
		Checked:  params.Check && !uc.cfg.Offline,
	}

	for _, network := range uc.cfg.Networks {
		status := NetworkStatus{
			Network: network,
			Active:  uc.cfg.Network != nil && strings.EqualFold(uc.cfg.Network.Name, network.Name),
		}

		if result.Checked {
			chainID, err := uc.probe.ProbeChainID(ctx, network.RPCURL)
			switch {
			case err != nil:
				status.Error = err
			case network.ChainID != 0 && chainID != network.ChainID:
				status.RemoteChainID = chainID
				status.Error = fmt.Errorf("chain ID mismatch: expected %d, got %d", network.ChainID, chainID)
			default:
				status.RemoteChainID = chainID
			}
		}

		result.Networks = append(result.Networks, status)
	}

	return result, nil
}
