package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/holiman/uint256"
)

// ProposalStatus represents the lifecycle status of a vault spending proposal
type ProposalStatus string

const (
	ProposalStatusPending  ProposalStatus = "pending"
	ProposalStatusApproved ProposalStatus = "approved"
	ProposalStatusExecuted ProposalStatus = "executed"
	ProposalStatusRejected ProposalStatus = "rejected"
	ProposalStatusExpired  ProposalStatus = "expired"
)

// AllProposalStatuses lists every status in lifecycle order
var AllProposalStatuses = []ProposalStatus{
	ProposalStatusPending,
	ProposalStatusApproved,
	ProposalStatusExecuted,
	ProposalStatusRejected,
	ProposalStatusExpired,
}

// ParseProposalStatus parses a status name, case-insensitively
func ParseProposalStatus(s string) (ProposalStatus, error) {
	status := ProposalStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", fmt.Errorf("invalid proposal status: %q (valid: pending, approved, executed, rejected, expired)", s)
	}
	return status, nil
}

// Valid reports whether s is one of the five known statuses
func (s ProposalStatus) Valid() bool {
	switch s {
	case ProposalStatusPending, ProposalStatusApproved, ProposalStatusExecuted,
		ProposalStatusRejected, ProposalStatusExpired:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is possible
func (s ProposalStatus) IsTerminal() bool {
	switch s {
	case ProposalStatusExecuted, ProposalStatusRejected, ProposalStatusExpired:
		return true
	case ProposalStatusPending, ProposalStatusApproved:
		return false
	default:
		return false
	}
}

// CanTransitionTo reports whether next is reachable from s in one step.
//
//	pending  -> approved | rejected
//	approved -> executed | rejected | expired
func (s ProposalStatus) CanTransitionTo(next ProposalStatus) bool {
	switch s {
	case ProposalStatusPending:
		return next == ProposalStatusApproved || next == ProposalStatusRejected
	case ProposalStatusApproved:
		return next == ProposalStatusExecuted || next == ProposalStatusRejected || next == ProposalStatusExpired
	case ProposalStatusExecuted, ProposalStatusRejected, ProposalStatusExpired:
		return false
	default:
		return false
	}
}

// CanReach reports whether next is reachable from s through any number of
// transitions. External records may skip intermediate states between syncs.
func (s ProposalStatus) CanReach(next ProposalStatus) bool {
	if s.CanTransitionTo(next) {
		return true
	}
	return s == ProposalStatusPending && ProposalStatusApproved.CanTransitionTo(next)
}

func (s ProposalStatus) String() string {
	return string(s)
}

// Proposal represents a request to transfer funds out of the vault
type Proposal struct {
	// Identification, assigned by the vault contract
	ID       string `json:"id" yaml:"id"`
	Proposer string `json:"proposer" yaml:"proposer"`

	// Transfer payload. Amount is in the smallest unit of Token.
	Recipient string       `json:"recipient" yaml:"recipient"`
	Amount    *uint256.Int `json:"amount" yaml:"-"`
	Token     string       `json:"token" yaml:"token"`
	Memo      string       `json:"memo,omitempty" yaml:"memo,omitempty"`

	// Approval state
	Approvals  uint32   `json:"approvals" yaml:"approvals"`
	Threshold  uint32   `json:"threshold" yaml:"threshold"`
	ApprovedBy []string `json:"approvedBy,omitempty" yaml:"approvedBy,omitempty"`

	Status    ProposalStatus `json:"status" yaml:"status"`
	CreatedAt time.Time      `json:"createdAt" yaml:"createdAt"`

	// UnlockBlock is the block height before which execution is forbidden. 0 means no timelock.
	UnlockBlock uint64 `json:"unlockBlock,omitempty" yaml:"unlockBlock,omitempty"`

	// Transition metadata
	RejectionReason string     `json:"rejectionReason,omitempty" yaml:"rejectionReason,omitempty"`
	RejectedAt      *time.Time `json:"rejectedAt,omitempty" yaml:"rejectedAt,omitempty"`
	RejectionTxHash string     `json:"rejectionTxHash,omitempty" yaml:"rejectionTxHash,omitempty"`
	ExecutedAt      *time.Time `json:"executedAt,omitempty" yaml:"executedAt,omitempty"`
	ExecutionTxHash string     `json:"executionTxHash,omitempty" yaml:"executionTxHash,omitempty"`

	// Version is bumped locally on every applied change
	Version uint64 `json:"version" yaml:"version"`
}

// AmountString returns the amount in base units, "0" when unset
func (p *Proposal) AmountString() string {
	if p.Amount == nil {
		return "0"
	}
	return p.Amount.Dec()
}

// Validate checks the record-level invariants of a proposal
func (p *Proposal) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("proposal id is empty")
	}
	if p.Threshold < 1 {
		return fmt.Errorf("proposal %s: threshold must be at least 1", p.ID)
	}
	if p.Amount == nil {
		return fmt.Errorf("proposal %s: amount is missing", p.ID)
	}
	if !p.Status.Valid() {
		return fmt.Errorf("proposal %s: invalid status %q", p.ID, p.Status)
	}
	return nil
}

// Clone returns a deep copy of the proposal
func (p *Proposal) Clone() *Proposal {
	if p == nil {
		return nil
	}
	c := *p
	if p.Amount != nil {
		c.Amount = new(uint256.Int).Set(p.Amount)
	}
	if p.ApprovedBy != nil {
		c.ApprovedBy = append([]string(nil), p.ApprovedBy...)
	}
	if p.RejectedAt != nil {
		t := *p.RejectedAt
		c.RejectedAt = &t
	}
	if p.ExecutedAt != nil {
		t := *p.ExecutedAt
		c.ExecutedAt = &t
	}
	return &c
}
