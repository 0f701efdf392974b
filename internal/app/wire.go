//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/treb-vault/internal/adapters"
	"github.com/trebuchet-org/treb-vault/internal/config"
	"github.com/trebuchet-org/treb-vault/internal/logging"
	"github.com/trebuchet-org/treb-vault/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, error) {
	wire.Build(
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewLedgerLoader,
		usecase.NewListProposals,
		usecase.NewShowProposal,
		usecase.NewApproveProposal,
		usecase.NewRejectProposal,
		usecase.NewExecuteProposal,
		usecase.NewExpireProposal,
		usecase.NewSyncLedger,
		usecase.NewRefreshBlockHeight,
		usecase.NewManageSession,
		usecase.NewListVaults,
		usecase.NewListNetworks,
		usecase.NewShowConfig,
		usecase.NewSetConfig,
		usecase.NewRemoveConfig,
		usecase.NewInitProject,
		usecase.NewPruneSnapshots,

		// App
		NewApp,
	)
	return nil, nil
}
