package interactive

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/treb-vault/internal/domain"
	"github.com/trebuchet-org/treb-vault/internal/domain/config"
	"github.com/trebuchet-org/treb-vault/internal/usecase"
)

// SelectorAdapter handles interactive proposal selection
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// SelectProposal lets the user pick one proposal
func (s *SelectorAdapter) SelectProposal(ctx context.Context, views []*domain.ProposalView, prompt string) (*domain.ProposalView, error) {
	if s.config.NonInteractive {
		return nil, fmt.Errorf("interactive selection not available in non-interactive mode")
	}
	if len(views) == 0 {
		return nil, fmt.Errorf("no proposals provided for selection")
	}
	if len(views) == 1 {
		return views[0], nil
	}

	options := FormatProposalOptions(views)
	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, / to search, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:     prompt,
		Items:     options,
		Templates: templates,
		Size:      10,
		Searcher:  fuzzySearcher(options),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}
	return views[index], nil
}

// SelectProposals lets the user toggle any number of proposals
func (s *SelectorAdapter) SelectProposals(ctx context.Context, views []*domain.ProposalView, prompt string) ([]*domain.ProposalView, error) {
	if s.config.NonInteractive {
		return nil, fmt.Errorf("interactive selection not available in non-interactive mode")
	}
	if len(views) == 0 {
		return nil, fmt.Errorf("no proposals provided for selection")
	}

	indices, err := runMultiSelect(FormatProposalOptions(views), prompt)
	if err != nil {
		return nil, err
	}

	selected := make([]*domain.ProposalView, 0, len(indices))
	for _, i := range indices {
		selected = append(selected, views[i])
	}
	return selected, nil
}

// Confirm asks a yes/no question, defaulting to no
func (s *SelectorAdapter) Confirm(ctx context.Context, prompt string) (bool, error) {
	if s.config.NonInteractive {
		return false, fmt.Errorf("confirmation not available in non-interactive mode")
	}

	confirm := promptui.Prompt{
		Label:     prompt,
		IsConfirm: true,
	}
	if _, err := confirm.Run(); err != nil {
		if err == promptui.ErrAbort {
			return false, nil
		}
		return false, fmt.Errorf("confirmation cancelled: %w", err)
	}
	return true, nil
}

// FormatProposalOptions creates display strings for proposal selection
func FormatProposalOptions(views []*domain.ProposalView) []string {
	options := make([]string, len(views))
	for i, v := range views {
		p := v.Proposal
		id := color.New(color.FgWhite, color.Bold).Sprint(p.ID)
		amount := fmt.Sprintf("%s %s", p.AmountString(), p.Token)
		recipient := color.New(color.FgBlue).Sprint(shortAddress(p.Recipient))

		var tags []string
		tags = append(tags, fmt.Sprintf("%d/%d", p.Approvals, p.Threshold))
		if v.HasTimelock && !v.TimelockExpired {
			tags = append(tags, fmt.Sprintf("%d blocks", v.BlocksRemaining))
		}
		if v.CanExecute {
			tags = append(tags, "ready")
		}
		tagStr := color.New(color.FgYellow).Sprintf("[%s]", strings.Join(tags, ", "))

		options[i] = fmt.Sprintf("%s %s -> %s %s", id, amount, recipient, tagStr)
	}
	return options
}

func shortAddress(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}

// fuzzySearcher creates a fuzzy search function for promptui
func fuzzySearcher(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])
		if strings.Contains(item, input) {
			return true
		}
		return len(fuzzy.Find(input, []string{item})) > 0
	}
}

var _ usecase.ProposalSelector = (*SelectorAdapter)(nil)
