package models

import (
	"encoding/json"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProposalStatusTransitions(t *testing.T) {
	allowed := map[ProposalStatus][]ProposalStatus{
		ProposalStatusPending:  {ProposalStatusApproved, ProposalStatusRejected},
		ProposalStatusApproved: {ProposalStatusExecuted, ProposalStatusRejected, ProposalStatusExpired},
	}

	for _, from := range AllProposalStatuses {
		for _, to := range AllProposalStatuses {
			expected := false
			for _, a := range allowed[from] {
				if a == to {
					expected = true
				}
			}
			assert.Equal(t, expected, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
		// Nothing re-enters pending
		assert.False(t, from.CanTransitionTo(ProposalStatusPending))
	}
}

func TestProposalStatusTerminal(t *testing.T) {
	assert.False(t, ProposalStatusPending.IsTerminal())
	assert.False(t, ProposalStatusApproved.IsTerminal())
	assert.True(t, ProposalStatusExecuted.IsTerminal())
	assert.True(t, ProposalStatusRejected.IsTerminal())
	assert.True(t, ProposalStatusExpired.IsTerminal())
	assert.False(t, ProposalStatus("cancelled").Valid())
}

func TestParseProposalStatus(t *testing.T) {
	status, err := ParseProposalStatus(" Approved ")
	require.NoError(t, err)
	assert.Equal(t, ProposalStatusApproved, status)

	_, err = ParseProposalStatus("queued")
	assert.Error(t, err)
}

func TestProposalValidate(t *testing.T) {
	p := &Proposal{ID: "1", Amount: uint256.NewInt(5), Threshold: 1, Status: ProposalStatusPending}
	assert.NoError(t, p.Validate())

	p.Threshold = 0
	assert.Error(t, p.Validate())

	p.Threshold = 1
	p.Amount = nil
	assert.Error(t, p.Validate())
}

func TestProposalJSONAmount(t *testing.T) {
	raw := `{"id":"7","proposer":"0xabc","amount":"123456789012345678901234567890","threshold":2,"status":"pending"}`

	var p Proposal
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	assert.Equal(t, "123456789012345678901234567890", p.AmountString())

	clone := p.Clone()
	clone.Amount.AddUint64(clone.Amount, 1)
	assert.Equal(t, "123456789012345678901234567890", p.AmountString())
}

func TestProposalStatusCanReach(t *testing.T) {
	assert.True(t, ProposalStatusPending.CanReach(ProposalStatusExecuted))
	assert.True(t, ProposalStatusPending.CanReach(ProposalStatusExpired))
	assert.True(t, ProposalStatusApproved.CanReach(ProposalStatusRejected))
	assert.False(t, ProposalStatusApproved.CanReach(ProposalStatusPending))
	assert.False(t, ProposalStatusExecuted.CanReach(ProposalStatusRejected))
	assert.False(t, ProposalStatusPending.CanReach(ProposalStatusPending))
}
