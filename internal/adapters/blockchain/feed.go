package blockchain

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/treb-vault/internal/domain/config"
	"github.com/trebuchet-org/treb-vault/internal/usecase"
)

const rpcTimeout = 5 * time.Second

// BlockFeedAdapter reads block heights and contract code from the vault's network
type BlockFeedAdapter struct {
	network *config.Network
	log     *slog.Logger

	mu      sync.Mutex
	client  *ethclient.Client
	chainID uint64
}

// NewBlockFeedAdapter creates a new block feed for the configured network
func NewBlockFeedAdapter(cfg *config.RuntimeConfig, log *slog.Logger) *BlockFeedAdapter {
	return &BlockFeedAdapter{
		network: cfg.Network,
		log:     log,
	}
}

// connect dials the RPC on first use and verifies the chain id
func (f *BlockFeedAdapter) connect(ctx context.Context) (*ethclient.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.client != nil {
		return f.client, nil
	}
	if f.network == nil || f.network.RPCURL == "" {
		return nil, fmt.Errorf("no RPC URL configured, set [network] rpc_url in vault.toml")
	}

	client, err := ethclient.DialContext(ctx, f.network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, rpcTimeout)
	defer cancel()

	networkChainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	// A zero chain id accepts whatever the RPC reports
	if f.network.ChainID != 0 && networkChainID.Uint64() != f.network.ChainID {
		client.Close()
		return nil, fmt.Errorf("chain ID mismatch: expected %d, got %d", f.network.ChainID, networkChainID.Uint64())
	}

	f.client = client
	f.chainID = networkChainID.Uint64()
	f.log.Debug("connected to network", "chain_id", f.chainID)
	return client, nil
}

// CurrentBlockHeight returns the latest block number
func (f *BlockFeedAdapter) CurrentBlockHeight(ctx context.Context) (uint64, error) {
	client, err := f.connect(ctx)
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, rpcTimeout)
	defer cancel()

	height, err := client.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get block number: %w", err)
	}
	return height, nil
}

// HasCode checks that a contract is deployed at address
func (f *BlockFeedAdapter) HasCode(ctx context.Context, address string) (bool, string, error) {
	if !common.IsHexAddress(address) {
		return false, "not an address", nil
	}

	client, err := f.connect(ctx)
	if err != nil {
		return false, "", err
	}

	ctx, cancel := context.WithTimeout(ctx, rpcTimeout)
	defer cancel()

	code, err := client.CodeAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return false, fmt.Sprintf("failed to check code: %v", err), nil
	}
	if len(code) == 0 {
		return false, "no code at address", nil
	}
	return true, "", nil
}

// ProbeChainID dials rpcURL and returns the chain id it reports
func (f *BlockFeedAdapter) ProbeChainID(ctx context.Context, rpcURL string) (uint64, error) {
	if rpcURL == "" {
		return 0, fmt.Errorf("no RPC URL")
	}

	ctx, cancel := context.WithTimeout(ctx, rpcTimeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return 0, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get chain ID: %w", err)
	}
	return chainID.Uint64(), nil
}

// Close releases the RPC connection
func (f *BlockFeedAdapter) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.client != nil {
		f.client.Close()
		f.client = nil
	}
}

// Ensure the adapter implements the interfaces
var (
	_ usecase.BlockHeightFeed = (*BlockFeedAdapter)(nil)
	_ usecase.ContractChecker = (*BlockFeedAdapter)(nil)
	_ usecase.ChainIDProbe    = (*BlockFeedAdapter)(nil)
)
