package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/trebuchet-org/treb-vault/internal/domain"
	"github.com/trebuchet-org/treb-vault/internal/domain/config"
	"github.com/trebuchet-org/treb-vault/internal/domain/models"
	"github.com/trebuchet-org/treb-vault/internal/ledger"
)

// SyncReport describes one refresh of a ledger from the external services
type SyncReport struct {
	LedgerID    string
	BlockHeight uint64
	Added       int
	Updated     int
	Unchanged   int
	Skipped     []error
	StaleHeight bool
}

// LedgerLoader opens ledgers, hydrating them from the local snapshot and
// refreshing them from the proposal source and block feed
type LedgerLoader struct {
	cfg     *config.RuntimeConfig
	ledgers LedgerProvider
	source  ProposalSource
	feed    BlockHeightFeed
	store   ProposalSnapshotStore
	log     *slog.Logger
	now     func() time.Time

	mu       sync.Mutex
	hydrated map[string]bool
}

// NewLedgerLoader creates a new ledger loader
func NewLedgerLoader(
	cfg *config.RuntimeConfig,
	ledgers LedgerProvider,
	source ProposalSource,
	feed BlockHeightFeed,
	store ProposalSnapshotStore,
	log *slog.Logger,
) *LedgerLoader {
	if log == nil {
		log = slog.Default()
	}
	return &LedgerLoader{
		cfg:      cfg,
		ledgers:  ledgers,
		source:   source,
		feed:     feed,
		store:    store,
		log:      log,
		now:      time.Now,
		hydrated: make(map[string]bool),
	}
}

// Resolve picks the ledger to operate on: the requested id, the configured
// default vault, or the only configured vault.
func (l *LedgerLoader) Resolve(id string) (*ledger.ProposalLedger, error) {
	if id == "" {
		id = l.cfg.Vault
	}
	if id == "" {
		vaults := l.ledgers.Vaults()
		switch len(vaults) {
		case 0:
			return nil, fmt.Errorf("no vaults configured in vault.toml")
		case 1:
			id = vaults[0].ID
		default:
			return nil, fmt.Errorf("multiple vaults configured, select one with --vault or 'vault config set vault <name>'")
		}
	}
	return l.ledgers.Ledger(id)
}

// Online reports whether use cases should refresh from the external services
func (l *LedgerLoader) Online() bool {
	return !l.cfg.Offline
}

// Open returns the ledger for id hydrated from the local snapshot. With online
// set it is also refreshed from the external services; refresh failures are
// logged and the snapshot state is used.
func (l *LedgerLoader) Open(ctx context.Context, id string, online bool) (*ledger.ProposalLedger, error) {
	pl, err := l.Resolve(id)
	if err != nil {
		return nil, err
	}

	if err := l.hydrate(ctx, pl); err != nil {
		return nil, err
	}

	if online {
		if _, err := l.Refresh(ctx, pl); err != nil {
			l.log.Warn("using cached proposals, refresh failed", "ledger", pl.ID(), "error", err)
		}
	}
	return pl, nil
}

func (l *LedgerLoader) hydrate(ctx context.Context, pl *ledger.ProposalLedger) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.hydrated[pl.ID()] {
		return nil
	}

	snapshot, err := l.store.Load(ctx, pl.ID())
	if err != nil {
		return fmt.Errorf("failed to load snapshot for ledger %s: %w", pl.ID(), err)
	}
	if snapshot != nil {
		result := pl.Sync(snapshot.Proposals)
		for _, v := range result.Violations {
			l.log.Warn("ignoring cached proposal", "ledger", pl.ID(), "error", v)
		}
		l.applyHeight(pl, snapshot.BlockHeight)
	}
	l.hydrated[pl.ID()] = true
	return nil
}

// Refresh pulls the block height and proposal records into the ledger and saves a new snapshot
func (l *LedgerLoader) Refresh(ctx context.Context, pl *ledger.ProposalLedger) (*SyncReport, error) {
	report := &SyncReport{LedgerID: pl.ID()}

	stale, err := l.RefreshBlockHeight(ctx, pl)
	if err != nil {
		return nil, err
	}
	report.StaleHeight = stale

	records, err := l.source.FetchProposals(ctx, pl.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch proposals: %w", err)
	}

	result := pl.Sync(records)
	report.Added = result.Added
	report.Updated = result.Updated
	report.Unchanged = result.Unchanged
	report.Skipped = result.Violations
	report.BlockHeight = pl.CurrentBlock()

	if err := l.Persist(ctx, pl); err != nil {
		return nil, err
	}
	return report, nil
}

// RefreshBlockHeight polls the feed once and pushes the height into the ledger.
// It reports whether the feed returned a stale height.
func (l *LedgerLoader) RefreshBlockHeight(ctx context.Context, pl *ledger.ProposalLedger) (bool, error) {
	height, err := l.feed.CurrentBlockHeight(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read block height: %w", err)
	}
	return l.applyHeight(pl, height), nil
}

func (l *LedgerLoader) applyHeight(pl *ledger.ProposalLedger, height uint64) bool {
	err := pl.RefreshBlockHeight(height)
	if errors.Is(err, domain.ErrStaleBlockHeight) {
		l.log.Debug("ignoring stale block height", "ledger", pl.ID(), "error", err)
		return true
	}
	return false
}

// Persist writes the ledger's current state to the snapshot store
func (l *LedgerLoader) Persist(ctx context.Context, pl *ledger.ProposalLedger) error {
	snapshot := &models.LedgerSnapshot{
		LedgerID:    pl.ID(),
		BlockHeight: pl.CurrentBlock(),
		SyncedAt:    l.now().UTC(),
		Proposals:   pl.List(domain.ProposalFilter{}),
	}
	if err := l.store.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to save snapshot for ledger %s: %w", pl.ID(), err)
	}
	return nil
}
