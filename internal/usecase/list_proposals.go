package usecase

import (
	"context"

	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-vault/internal/domain"
	"github.com/trebuchet-org/treb-vault/internal/domain/models"
)

// ListProposalsParams contains parameters for listing proposals
type ListProposalsParams struct {
	LedgerID string
	Filter   domain.ProposalFilter
	// Refresh pulls fresh records before listing, ignored in offline mode
	Refresh bool
}

// ProposalSummary contains counts over the listed proposals
type ProposalSummary struct {
	Total      int
	ByStatus   map[models.ProposalStatus]int
	Executable int
	Timelocked int
}

// ListProposalsResult contains the listed proposals and their summary
type ListProposalsResult struct {
	LedgerID     string
	VaultName    string
	CurrentBlock uint64
	Proposals    []*domain.ProposalView
	Summary      ProposalSummary
}

// ListProposals is the use case for listing proposals
type ListProposals struct {
	loader *LedgerLoader
	sink   ProgressSink
}

// NewListProposals creates a new ListProposals use case
func NewListProposals(loader *LedgerLoader, sink ProgressSink) *ListProposals {
	return &ListProposals{
		loader: loader,
		sink:   sink,
	}
}

// Run executes the list proposals use case
func (uc *ListProposals) Run(ctx context.Context, params ListProposalsParams) (*ListProposalsResult, error) {
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "loading",
		Message: "Loading proposals",
		Spinner: true,
	})

	pl, err := uc.loader.Open(ctx, params.LedgerID, params.Refresh && uc.loader.Online())
	if err != nil {
		return nil, err
	}

	views := pl.Views(params.Filter)

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "complete",
		Current: len(views),
		Total:   len(views),
		Message: "Proposals loaded",
	})

	return &ListProposalsResult{
		LedgerID:     pl.ID(),
		VaultName:    pl.Vault().Name,
		CurrentBlock: pl.CurrentBlock(),
		Proposals:    views,
		Summary:      calculateSummary(views),
	}, nil
}

// calculateSummary calculates summary statistics for proposal views
func calculateSummary(views []*domain.ProposalView) ProposalSummary {
	return ProposalSummary{
		Total: len(views),
		ByStatus: lo.CountValuesBy(views, func(v *domain.ProposalView) models.ProposalStatus {
			return v.Proposal.Status
		}),
		Executable: lo.CountBy(views, func(v *domain.ProposalView) bool {
			return v.CanExecute
		}),
		Timelocked: lo.CountBy(views, func(v *domain.ProposalView) bool {
			return !v.Proposal.Status.IsTerminal() && !v.TimelockExpired
		}),
	}
}
