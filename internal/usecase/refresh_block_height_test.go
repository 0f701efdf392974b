package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-vault/internal/domain/models"
	"github.com/trebuchet-org/treb-vault/internal/usecase"
)

func TestRefreshBlockHeight_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("pushes feed height into ledger", func(t *testing.T) {
		h := newHarness(t, 1000, proposal("p1", models.ProposalStatusApproved, 3, 1500))
		h.feed.On("CurrentBlockHeight", mock.Anything).Return(uint64(1400), nil).Once()

		tick, err := usecase.NewRefreshBlockHeight(h.cfg, h.loader, testLogger()).Run(ctx, usecase.RefreshBlockHeightParams{})
		require.NoError(t, err)
		assert.Equal(t, uint64(1400), tick.CurrentBlock)
		assert.False(t, tick.Stale)
		require.Len(t, tick.Timelocked, 1)
		assert.Equal(t, uint64(100), tick.Timelocked[0].BlocksRemaining)
		assert.Equal(t, uint64(1400), h.store.snapshots[vaultID].BlockHeight)
	})

	t.Run("stale height never re-locks", func(t *testing.T) {
		h := newHarness(t, 1600, proposal("p1", models.ProposalStatusApproved, 3, 1500))
		h.feed.On("CurrentBlockHeight", mock.Anything).Return(uint64(1400), nil).Once()

		tick, err := usecase.NewRefreshBlockHeight(h.cfg, h.loader, testLogger()).Run(ctx, usecase.RefreshBlockHeightParams{})
		require.NoError(t, err)
		assert.True(t, tick.Stale)
		assert.Equal(t, uint64(1600), tick.CurrentBlock)
		assert.Empty(t, tick.Timelocked)
	})

	t.Run("feed error", func(t *testing.T) {
		h := newHarness(t, 1000)
		h.feed.On("CurrentBlockHeight", mock.Anything).Return(uint64(0), errors.New("rpc down")).Once()

		_, err := usecase.NewRefreshBlockHeight(h.cfg, h.loader, testLogger()).Run(ctx, usecase.RefreshBlockHeightParams{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rpc down")
	})
}

func TestRefreshBlockHeight_Watch(t *testing.T) {
	h := newHarness(t, 1200, proposal("p1", models.ProposalStatusApproved, 3, 1500))
	h.feed.On("CurrentBlockHeight", mock.Anything).Return(uint64(1400), nil).Once()
	h.feed.On("CurrentBlockHeight", mock.Anything).Return(uint64(1600), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var ticks []usecase.BlockTick
	err := usecase.NewRefreshBlockHeight(h.cfg, h.loader, testLogger()).Watch(ctx, usecase.RefreshBlockHeightParams{
		Interval: time.Millisecond,
		OnTick: func(tick usecase.BlockTick) {
			ticks = append(ticks, tick)
			if len(ticks) == 2 {
				cancel()
			}
		},
	})

	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, ticks, 2)

	assert.Equal(t, uint64(1400), ticks[0].CurrentBlock)
	require.Len(t, ticks[0].Timelocked, 1)
	assert.Empty(t, ticks[0].Unlocked)

	assert.Equal(t, uint64(1600), ticks[1].CurrentBlock)
	assert.Empty(t, ticks[1].Timelocked)
	require.Len(t, ticks[1].Unlocked, 1)
	assert.Equal(t, "p1", ticks[1].Unlocked[0].Proposal.ID)
	assert.True(t, ticks[1].Unlocked[0].CanExecute)

	assert.Equal(t, uint64(1600), h.store.snapshots[vaultID].BlockHeight)
}
