package domain

import (
	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-vault/internal/domain/models"
)

// ProposalFilter defines filtering options for proposals
type ProposalFilter struct {
	Statuses []models.ProposalStatus
	Proposer string
	Token    string

	// ExecutableOnly keeps proposals that can execute at the filter's block height
	ExecutableOnly bool
	// TimelockedOnly keeps proposals still waiting on their unlock block
	TimelockedOnly bool
}

// Matches reports whether p passes the filter at currentBlock
func (f ProposalFilter) Matches(p *models.Proposal, currentBlock uint64) bool {
	if len(f.Statuses) > 0 && !lo.Contains(f.Statuses, p.Status) {
		return false
	}
	if f.Proposer != "" && !SameIdentity(f.Proposer, p.Proposer) {
		return false
	}
	if f.Token != "" && f.Token != p.Token {
		return false
	}
	if f.ExecutableOnly && !CanExecute(p, currentBlock) {
		return false
	}
	if f.TimelockedOnly && IsTimelockExpired(p, currentBlock) {
		return false
	}
	return true
}
