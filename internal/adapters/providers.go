package adapters

import (
	"log/slog"

	"github.com/google/wire"
	"github.com/trebuchet-org/treb-vault/internal/adapters/blockchain"
	"github.com/trebuchet-org/treb-vault/internal/adapters/fs"
	"github.com/trebuchet-org/treb-vault/internal/adapters/interactive"
	"github.com/trebuchet-org/treb-vault/internal/adapters/progress"
	"github.com/trebuchet-org/treb-vault/internal/adapters/relay"
	"github.com/trebuchet-org/treb-vault/internal/domain/config"
	"github.com/trebuchet-org/treb-vault/internal/ledger"
	"github.com/trebuchet-org/treb-vault/internal/usecase"
)

// ProvideRegistry builds one proposal ledger per configured vault
func ProvideRegistry(cfg *config.RuntimeConfig, log *slog.Logger) (*ledger.Registry, error) {
	return ledger.NewRegistry(cfg.Vaults, log)
}

// ProvideProgressSink shows a spinner unless running non-interactively
func ProvideProgressSink(cfg *config.RuntimeConfig) usecase.ProgressSink {
	if cfg.NonInteractive {
		return progress.NewNopSink()
	}
	return progress.NewSpinnerSink()
}

// LedgerSet provides the proposal ledgers
var LedgerSet = wire.NewSet(
	ProvideRegistry,
	wire.Bind(new(usecase.LedgerProvider), new(*ledger.Registry)),
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewSnapshotStoreAdapter,
	wire.Bind(new(usecase.ProposalSnapshotStore), new(*fs.SnapshotStoreAdapter)),
	wire.Bind(new(usecase.SnapshotPruner), new(*fs.SnapshotStoreAdapter)),

	fs.NewSessionStoreAdapter,
	wire.Bind(new(usecase.WalletSession), new(*fs.SessionStoreAdapter)),

	fs.NewLocalConfigStoreAdapter,
	wire.Bind(new(usecase.LocalConfigRepository), new(*fs.LocalConfigStoreAdapter)),

	fs.NewFileWriterAdapter,
	wire.Bind(new(usecase.FileWriter), new(*fs.FileWriterAdapter)),
)

// RelaySet provides the vault transaction service client
var RelaySet = wire.NewSet(
	relay.NewClient,
	wire.Bind(new(usecase.Submitter), new(*relay.Client)),
	wire.Bind(new(usecase.ProposalSource), new(*relay.Client)),
)

// BlockchainSet provides blockchain-based implementations
var BlockchainSet = wire.NewSet(
	blockchain.NewBlockFeedAdapter,
	wire.Bind(new(usecase.BlockHeightFeed), new(*blockchain.BlockFeedAdapter)),
	wire.Bind(new(usecase.ContractChecker), new(*blockchain.BlockFeedAdapter)),
	wire.Bind(new(usecase.ChainIDProbe), new(*blockchain.BlockFeedAdapter)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.ProposalSelector), new(*interactive.SelectorAdapter)),
)

// ProgressSet provides terminal feedback
var ProgressSet = wire.NewSet(
	ProvideProgressSink,
	progress.NewConsoleNotifier,
	wire.Bind(new(usecase.NotificationSink), new(*progress.ConsoleNotifier)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	LedgerSet,
	FSSet,
	RelaySet,
	BlockchainSet,
	InteractiveSet,
	ProgressSet,
)
