package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/trebuchet-org/treb-vault/internal/domain"
	"github.com/trebuchet-org/treb-vault/internal/domain/config"
	"github.com/trebuchet-org/treb-vault/internal/ledger"
)

const defaultPollInterval = 12 * time.Second

// BlockTick is reported after every poll of the block height feed
type BlockTick struct {
	LedgerID     string
	CurrentBlock uint64
	Stale        bool
	Err          error
	// Unlocked lists proposals whose timelock expired since the previous tick
	Unlocked []*domain.ProposalView
	// Timelocked lists proposals still waiting on their unlock block
	Timelocked []*domain.ProposalView
}

// RefreshBlockHeightParams contains parameters for refreshing block height
type RefreshBlockHeightParams struct {
	LedgerID string
	// Interval between polls in Watch, defaults to the configured poll interval
	Interval time.Duration
	// OnTick is called after every poll in Watch
	OnTick func(BlockTick)
}

// RefreshBlockHeight pushes the feed's block height into a ledger, once or on an interval
type RefreshBlockHeight struct {
	cfg    *config.RuntimeConfig
	loader *LedgerLoader
	log    *slog.Logger
}

// NewRefreshBlockHeight creates a new RefreshBlockHeight use case
func NewRefreshBlockHeight(cfg *config.RuntimeConfig, loader *LedgerLoader, log *slog.Logger) *RefreshBlockHeight {
	return &RefreshBlockHeight{
		cfg:    cfg,
		loader: loader,
		log:    log,
	}
}

// Run polls the feed once
func (uc *RefreshBlockHeight) Run(ctx context.Context, params RefreshBlockHeightParams) (*BlockTick, error) {
	pl, err := uc.loader.Open(ctx, params.LedgerID, false)
	if err != nil {
		return nil, err
	}

	tick := uc.poll(ctx, pl, nil)
	if tick.Err != nil {
		return nil, tick.Err
	}
	if err := uc.loader.Persist(ctx, pl); err != nil {
		uc.log.Warn("failed to save ledger snapshot", "error", err)
	}
	return &tick, nil
}

// Watch polls the feed until ctx is cancelled. Feed errors are reported through
// OnTick and do not stop the loop.
func (uc *RefreshBlockHeight) Watch(ctx context.Context, params RefreshBlockHeightParams) error {
	pl, err := uc.loader.Open(ctx, params.LedgerID, false)
	if err != nil {
		return err
	}

	interval := params.Interval
	if interval <= 0 {
		interval = uc.cfg.PollInterval
	}
	if interval <= 0 {
		interval = defaultPollInterval
	}

	onTick := params.OnTick
	if onTick == nil {
		onTick = func(BlockTick) {}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	defer func() {
		if err := uc.loader.Persist(context.WithoutCancel(ctx), pl); err != nil {
			uc.log.Warn("failed to save ledger snapshot", "error", err)
		}
	}()

	locked := lockedSet(pl)
	for {
		tick := uc.poll(ctx, pl, locked)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if tick.Err != nil {
			uc.log.Debug("block height poll failed", "ledger", pl.ID(), "error", tick.Err)
		}
		onTick(tick)
		locked = lockedSet(pl)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (uc *RefreshBlockHeight) poll(ctx context.Context, pl *ledger.ProposalLedger, locked map[string]bool) BlockTick {
	tick := BlockTick{LedgerID: pl.ID()}

	stale, err := uc.loader.RefreshBlockHeight(ctx, pl)
	tick.Stale = stale
	tick.Err = err
	tick.CurrentBlock = pl.CurrentBlock()

	for _, v := range pl.Views(domain.ProposalFilter{}) {
		if v.Proposal.Status.IsTerminal() || !v.HasTimelock {
			continue
		}
		if !v.TimelockExpired {
			tick.Timelocked = append(tick.Timelocked, v)
		} else if locked[v.Proposal.ID] {
			tick.Unlocked = append(tick.Unlocked, v)
		}
	}
	return tick
}

func lockedSet(pl *ledger.ProposalLedger) map[string]bool {
	locked := make(map[string]bool)
	for _, v := range pl.Views(domain.ProposalFilter{TimelockedOnly: true}) {
		if !v.Proposal.Status.IsTerminal() {
			locked[v.Proposal.ID] = true
		}
	}
	return locked
}
