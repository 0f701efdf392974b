package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-vault/internal/domain"
	"github.com/trebuchet-org/treb-vault/internal/domain/config"
	"github.com/trebuchet-org/treb-vault/internal/domain/models"
)

// PruneSnapshotsParams contains parameters for pruning snapshots
type PruneSnapshotsParams struct {
	// DryRun only collects the stale snapshots
	DryRun bool
	// SkipConfirm disables the interactive confirmation
	SkipConfirm bool
}

// PruneSnapshotsResult contains the result of pruning snapshots
type PruneSnapshotsResult struct {
	Stale  []string
	Pruned []string
}

// PruneSnapshots removes snapshots of ledgers that are no longer configured in vault.toml
type PruneSnapshots struct {
	cfg      *config.RuntimeConfig
	ledgers  LedgerProvider
	pruner   SnapshotPruner
	selector ProposalSelector
	log      *slog.Logger
}

// NewPruneSnapshots creates a new PruneSnapshots use case
func NewPruneSnapshots(
	cfg *config.RuntimeConfig,
	ledgers LedgerProvider,
	pruner SnapshotPruner,
	selector ProposalSelector,
	log *slog.Logger,
) *PruneSnapshots {
	return &PruneSnapshots{
		cfg:      cfg,
		ledgers:  ledgers,
		pruner:   pruner,
		selector: selector,
		log:      log,
	}
}

// Run executes the prune
func (uc *PruneSnapshots) Run(ctx context.Context, params PruneSnapshotsParams) (*PruneSnapshotsResult, error) {
	ids, err := uc.pruner.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	configured := lo.Map(uc.ledgers.Vaults(), func(v models.Vault, _ int) string { return v.ID })
	result := &PruneSnapshotsResult{
		Stale: lo.Filter(ids, func(id string, _ int) bool {
			return !domain.ContainsIdentity(configured, id)
		}),
	}
	if params.DryRun || len(result.Stale) == 0 {
		return result, nil
	}

	if !params.SkipConfirm {
		if uc.cfg.NonInteractive {
			return nil, fmt.Errorf("refusing to prune %d snapshot(s) without confirmation, pass --yes", len(result.Stale))
		}
		ok, err := uc.selector.Confirm(ctx, fmt.Sprintf("Delete %d stale snapshot(s)", len(result.Stale)))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("prune cancelled")
		}
	}

	for _, id := range result.Stale {
		if err := uc.pruner.Delete(ctx, id); err != nil {
			return result, err
		}
		uc.log.Debug("pruned snapshot", "ledger", id)
		result.Pruned = append(result.Pruned, id)
	}
	return result, nil
}
