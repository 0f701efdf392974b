package app

import (
	"github.com/trebuchet-org/treb-vault/internal/adapters/blockchain"
	"github.com/trebuchet-org/treb-vault/internal/domain/config"
	"github.com/trebuchet-org/treb-vault/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Use cases
	ListProposals      *usecase.ListProposals
	ShowProposal       *usecase.ShowProposal
	ApproveProposal    *usecase.ApproveProposal
	RejectProposal     *usecase.RejectProposal
	ExecuteProposal    *usecase.ExecuteProposal
	ExpireProposal     *usecase.ExpireProposal
	SyncLedger         *usecase.SyncLedger
	RefreshBlockHeight *usecase.RefreshBlockHeight
	ManageSession      *usecase.ManageSession
	ListVaults         *usecase.ListVaults
	ListNetworks       *usecase.ListNetworks
	ShowConfig         *usecase.ShowConfig
	SetConfig          *usecase.SetConfig
	RemoveConfig       *usecase.RemoveConfig
	InitProject        *usecase.InitProject
	PruneSnapshots     *usecase.PruneSnapshots

	feed *blockchain.BlockFeedAdapter
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	listProposals *usecase.ListProposals,
	showProposal *usecase.ShowProposal,
	approveProposal *usecase.ApproveProposal,
	rejectProposal *usecase.RejectProposal,
	executeProposal *usecase.ExecuteProposal,
	expireProposal *usecase.ExpireProposal,
	syncLedger *usecase.SyncLedger,
	refreshBlockHeight *usecase.RefreshBlockHeight,
	manageSession *usecase.ManageSession,
	listVaults *usecase.ListVaults,
	listNetworks *usecase.ListNetworks,
	showConfig *usecase.ShowConfig,
	setConfig *usecase.SetConfig,
	removeConfig *usecase.RemoveConfig,
	initProject *usecase.InitProject,
	pruneSnapshots *usecase.PruneSnapshots,
	feed *blockchain.BlockFeedAdapter,
) (*App, error) {
	return &App{
		Config:             cfg,
		ListProposals:      listProposals,
		ShowProposal:       showProposal,
		ApproveProposal:    approveProposal,
		RejectProposal:     rejectProposal,
		ExecuteProposal:    executeProposal,
		ExpireProposal:     expireProposal,
		SyncLedger:         syncLedger,
		RefreshBlockHeight: refreshBlockHeight,
		ManageSession:      manageSession,
		ListVaults:         listVaults,
		ListNetworks:       listNetworks,
		ShowConfig:         showConfig,
		SetConfig:          setConfig,
		RemoveConfig:       removeConfig,
		InitProject:        initProject,
		PruneSnapshots:     pruneSnapshots,
		feed:               feed,
	}, nil
}

// Close releases the RPC connection, if one was opened
func (a *App) Close() {
	if a.feed != nil {
		a.feed.Close()
	}
}
