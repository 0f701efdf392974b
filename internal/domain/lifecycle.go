package domain

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-vault/internal/domain/models"
)

// ProposalView is a proposal together with the status derived at a given block height.
// Views are recomputed on every read and never stored.
type ProposalView struct {
	Proposal        *models.Proposal
	CurrentBlock    uint64
	HasTimelock     bool
	BlocksRemaining uint64
	TimelockExpired bool
	ApprovalsNeeded uint32
	CanExecute      bool
	ExecuteBlocker  error
}

// LedgersRemaining returns how many blocks are left before the proposal unlocks.
// Proposals without a timelock always return 0.
func LedgersRemaining(p *models.Proposal, currentBlock uint64) uint64 {
	if p.UnlockBlock == 0 || currentBlock >= p.UnlockBlock {
		return 0
	}
	return p.UnlockBlock - currentBlock
}

// HasTimelock reports whether an unlock block was configured at creation
func HasTimelock(p *models.Proposal) bool {
	return p.UnlockBlock != 0
}

// IsTimelockExpired is vacuously true for proposals without a timelock
func IsTimelockExpired(p *models.Proposal, currentBlock uint64) bool {
	return LedgersRemaining(p, currentBlock) == 0
}

// ApprovalsNeeded returns how many more approvals the proposal needs to reach its threshold
func ApprovalsNeeded(p *models.Proposal) uint32 {
	if p.Approvals >= p.Threshold {
		return 0
	}
	return p.Threshold - p.Approvals
}

// CanExecute requires approved status, threshold reached and the timelock elapsed
func CanExecute(p *models.Proposal, currentBlock uint64) bool {
	return ExecuteBlocker(p, currentBlock) == nil
}

// ExecuteBlocker returns nil when the proposal can execute at currentBlock, or a
// NotExecutableErr naming the first failing condition. A live proposal below its
// threshold reports ThresholdUnmet whatever its status, and the threshold is
// checked before the timelock.
func ExecuteBlocker(p *models.Proposal, currentBlock uint64) error {
	live := p.Status == models.ProposalStatusPending || p.Status == models.ProposalStatusApproved
	if live && p.Approvals < p.Threshold {
		return NotExecutableErr{
			ProposalID: p.ID,
			Reason:     ReasonThresholdUnmet,
			Status:     p.Status.String(),
			Approvals:  p.Approvals,
			Threshold:  p.Threshold,
		}
	}
	if p.Status != models.ProposalStatusApproved {
		return NotExecutableErr{
			ProposalID: p.ID,
			Reason:     ReasonNotApproved,
			Status:     p.Status.String(),
			Approvals:  p.Approvals,
			Threshold:  p.Threshold,
		}
	}
	if remaining := LedgersRemaining(p, currentBlock); remaining > 0 {
		return NotExecutableErr{
			ProposalID: p.ID,
			Reason:     ReasonStillTimelocked,
			Status:     p.Status.String(),
			Approvals:  p.Approvals,
			Threshold:  p.Threshold,
			Remaining:  remaining,
		}
	}
	return nil
}

// CanReject allows the proposer or an admin to reject a pending proposal
func CanReject(p *models.Proposal, actor string, isAdmin bool) bool {
	return RejectBlocker(p, actor, isAdmin) == nil
}

// RejectBlocker returns nil when actor may reject p, or a ForbiddenErr explaining why not
func RejectBlocker(p *models.Proposal, actor string, isAdmin bool) error {
	if p.Status != models.ProposalStatusPending {
		return ForbiddenErr{ProposalID: p.ID, Action: "reject", Reason: "proposal is " + p.Status.String()}
	}
	if !isAdmin && !SameIdentity(actor, p.Proposer) {
		return ForbiddenErr{ProposalID: p.ID, Action: "reject", Reason: "only the proposer or an admin can reject"}
	}
	return nil
}

// ApproveBlocker returns nil when signer may approve p
func ApproveBlocker(p *models.Proposal, signer string) error {
	if p.Status != models.ProposalStatusPending {
		return ForbiddenErr{ProposalID: p.ID, Action: "approve", Reason: "proposal is " + p.Status.String()}
	}
	for _, existing := range p.ApprovedBy {
		if SameIdentity(existing, signer) {
			return ForbiddenErr{ProposalID: p.ID, Action: "approve", Reason: "signer has already approved"}
		}
	}
	return nil
}

// Derive computes the view of p at currentBlock
func Derive(p *models.Proposal, currentBlock uint64) *ProposalView {
	blocker := ExecuteBlocker(p, currentBlock)
	return &ProposalView{
		Proposal:        p,
		CurrentBlock:    currentBlock,
		HasTimelock:     HasTimelock(p),
		BlocksRemaining: LedgersRemaining(p, currentBlock),
		TimelockExpired: IsTimelockExpired(p, currentBlock),
		ApprovalsNeeded: ApprovalsNeeded(p),
		CanExecute:      blocker == nil,
		ExecuteBlocker:  blocker,
	}
}

// SameIdentity compares two account identities. Hex addresses are compared by
// value, anything else case-insensitively. Empty identities never match.
func SameIdentity(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}
	if common.IsHexAddress(a) && common.IsHexAddress(b) {
		return common.HexToAddress(a) == common.HexToAddress(b)
	}
	return strings.EqualFold(a, b)
}

// ContainsIdentity reports whether id is present in list
func ContainsIdentity(list []string, id string) bool {
	for _, item := range list {
		if SameIdentity(item, id) {
			return true
		}
	}
	return false
}
