package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested proposal or ledger doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the actor or the proposal state does not allow a transition
	ErrForbidden = errors.New("forbidden")

	// ErrNotExecutable is returned when an execute precondition fails
	ErrNotExecutable = errors.New("not executable")

	// ErrSubmissionFailed is returned when the external submission service reports a failure
	ErrSubmissionFailed = errors.New("submission failed")

	// ErrStaleBlockHeight is returned when a block height refresh would move backwards
	ErrStaleBlockHeight = errors.New("stale block height")

	// ErrInvalidProposal is returned when a proposal record breaks a record-level invariant
	ErrInvalidProposal = errors.New("invalid proposal")

	// ErrNotConnected is returned when an operation needs a wallet identity and none is connected
	ErrNotConnected = errors.New("no wallet connected")
)

// NotExecutableReason tells the caller why a proposal cannot execute yet
type NotExecutableReason string

const (
	ReasonNotApproved     NotExecutableReason = "not_approved"
	ReasonThresholdUnmet  NotExecutableReason = "threshold_unmet"
	ReasonStillTimelocked NotExecutableReason = "still_timelocked"
)

type ProposalNotFoundErr struct {
	LedgerID   string
	ProposalID string
}

func (e ProposalNotFoundErr) Error() string {
	if e.LedgerID == "" {
		return fmt.Sprintf("proposal %s not found", e.ProposalID)
	}
	return fmt.Sprintf("proposal %s not found in ledger %s", e.ProposalID, e.LedgerID)
}

func (e ProposalNotFoundErr) Is(target error) bool { return target == ErrNotFound }

type UnknownLedgerErr struct {
	LedgerID string
}

func (e UnknownLedgerErr) Error() string {
	return fmt.Sprintf("ledger %s is not configured", e.LedgerID)
}

func (e UnknownLedgerErr) Is(target error) bool { return target == ErrNotFound }

type ForbiddenErr struct {
	ProposalID string
	Action     string
	Reason     string
}

func (e ForbiddenErr) Error() string {
	return fmt.Sprintf("cannot %s proposal %s: %s", e.Action, e.ProposalID, e.Reason)
}

func (e ForbiddenErr) Is(target error) bool { return target == ErrForbidden }

// ConflictErr reports that a proposal changed underneath an in-flight transition.
// The submission already went through; the next sync reconciles local state.
type ConflictErr struct {
	ProposalID string
	Expected   string
	Found      string
	TxHash     string
}

func (e ConflictErr) Error() string {
	return fmt.Sprintf("proposal %s changed during submission (expected %s, found %s); resync required", e.ProposalID, e.Expected, e.Found)
}

func (e ConflictErr) Is(target error) bool { return target == ErrForbidden }

type NotExecutableErr struct {
	ProposalID string
	Reason     NotExecutableReason
	Status     string
	Approvals  uint32
	Threshold  uint32
	Remaining  uint64
}

func (e NotExecutableErr) Error() string {
	switch e.Reason {
	case ReasonThresholdUnmet:
		return fmt.Sprintf("proposal %s has %d of %d required approvals", e.ProposalID, e.Approvals, e.Threshold)
	case ReasonStillTimelocked:
		return fmt.Sprintf("proposal %s is timelocked for %d more blocks", e.ProposalID, e.Remaining)
	case ReasonNotApproved:
		return fmt.Sprintf("proposal %s is %s, only approved proposals can execute", e.ProposalID, e.Status)
	default:
		return fmt.Sprintf("proposal %s is not executable", e.ProposalID)
	}
}

func (e NotExecutableErr) Is(target error) bool { return target == ErrNotExecutable }

type SubmissionFailedErr struct {
	Op         string
	ProposalID string
	Message    string
	Err        error
}

func (e *SubmissionFailedErr) Error() string {
	return fmt.Sprintf("%s submission for proposal %s failed: %s", e.Op, e.ProposalID, e.Message)
}

func (e *SubmissionFailedErr) Is(target error) bool { return target == ErrSubmissionFailed }

func (e *SubmissionFailedErr) Unwrap() error { return e.Err }

type StaleBlockHeightErr struct {
	Current uint64
	Offered uint64
}

func (e StaleBlockHeightErr) Error() string {
	return fmt.Sprintf("block height %d is behind current height %d", e.Offered, e.Current)
}

func (e StaleBlockHeightErr) Is(target error) bool { return target == ErrStaleBlockHeight }

type InvariantViolationErr struct {
	ProposalID string
	Field      string
	Reason     string
}

func (e InvariantViolationErr) Error() string {
	return fmt.Sprintf("proposal %s: %s %s", e.ProposalID, e.Field, e.Reason)
}

func (e InvariantViolationErr) Is(target error) bool { return target == ErrInvalidProposal }
