package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/treb-vault/internal/domain/models"
	"golang.org/x/sync/errgroup"
)

const maxConcurrentSyncs = 4

// SyncLedger refreshes one or all ledgers from the proposal source and block feed
type SyncLedger struct {
	loader   *LedgerLoader
	ledgers  LedgerProvider
	notifier NotificationSink
	progress ProgressSink
	log      *slog.Logger
}

// NewSyncLedger creates a new sync ledger use case
func NewSyncLedger(
	loader *LedgerLoader,
	ledgers LedgerProvider,
	notifier NotificationSink,
	progress ProgressSink,
	log *slog.Logger,
) *SyncLedger {
	return &SyncLedger{
		loader:   loader,
		ledgers:  ledgers,
		notifier: notifier,
		progress: progress,
		log:      log,
	}
}

// SyncLedgerParams contains parameters for syncing
type SyncLedgerParams struct {
	LedgerID string
	// All syncs every configured vault
	All bool
}

// SyncLedgerResult contains the report of every synced ledger
type SyncLedgerResult struct {
	Reports []*SyncReport
	Errors  map[string]error
}

// Run executes the sync
func (uc *SyncLedger) Run(ctx context.Context, params SyncLedgerParams) (*SyncLedgerResult, error) {
	var ids []string
	if params.All {
		for _, v := range uc.ledgers.Vaults() {
			ids = append(ids, v.ID)
		}
	} else {
		pl, err := uc.loader.Resolve(params.LedgerID)
		if err != nil {
			return nil, err
		}
		ids = []string{pl.ID()}
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "syncing",
		Total:   len(ids),
		Message: fmt.Sprintf("Syncing %d vault(s)...", len(ids)),
		Spinner: true,
	})

	// Ledgers are independent; each goroutine owns its slot in reports
	reports := make([]*SyncReport, len(ids))
	errs := make([]error, len(ids))
	var g errgroup.Group
	g.SetLimit(maxConcurrentSyncs)
	for i, id := range ids {
		g.Go(func() error {
			reports[i], errs[i] = uc.syncOne(ctx, id)
			return nil
		})
	}
	_ = g.Wait()
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "complete", Total: len(ids)})

	result := &SyncLedgerResult{Errors: make(map[string]error)}
	for i, id := range ids {
		if err := errs[i]; err != nil {
			result.Errors[id] = err
			uc.notifier.Notify(ctx, models.Notification{
				Kind:    models.NotifySynced,
				Message: fmt.Sprintf("Failed to sync %s: %v", id, err),
				Level:   models.NotificationError,
			})
			continue
		}

		for _, skipped := range reports[i].Skipped {
			uc.log.Warn("skipped proposal record", "ledger", id, "error", skipped)
		}
		result.Reports = append(result.Reports, reports[i])
	}

	if len(result.Reports) == 0 && len(ids) == 1 {
		return result, result.Errors[ids[0]]
	}
	return result, nil
}

func (uc *SyncLedger) syncOne(ctx context.Context, id string) (*SyncReport, error) {
	pl, err := uc.loader.Open(ctx, id, false)
	if err != nil {
		return nil, err
	}
	return uc.loader.Refresh(ctx, pl)
}
