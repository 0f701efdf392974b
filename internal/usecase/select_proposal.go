package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/treb-vault/internal/domain"
	"github.com/trebuchet-org/treb-vault/internal/domain/config"
	"github.com/trebuchet-org/treb-vault/internal/ledger"
)

// pickProposal returns id when given, otherwise asks the user to choose among
// the proposals matching filter
func pickProposal(
	ctx context.Context,
	cfg *config.RuntimeConfig,
	selector ProposalSelector,
	pl *ledger.ProposalLedger,
	id string,
	filter domain.ProposalFilter,
	prompt string,
) (string, error) {
	if id != "" {
		return id, nil
	}
	if cfg.NonInteractive {
		return "", fmt.Errorf("proposal id is required in non-interactive mode")
	}

	candidates := pl.Views(filter)
	if len(candidates) == 0 {
		return "", fmt.Errorf("no matching proposals in ledger %s", pl.ID())
	}

	view, err := selector.SelectProposal(ctx, candidates, prompt)
	if err != nil {
		return "", err
	}
	return view.Proposal.ID, nil
}
