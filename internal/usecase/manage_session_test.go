package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-vault/internal/domain/models"
	"github.com/trebuchet-org/treb-vault/internal/usecase"
)

func TestManageSession(t *testing.T) {
	ctx := context.Background()

	t.Run("connect reports roles", func(t *testing.T) {
		h := newHarness(t, 0)
		h.session.On("Connect", mock.Anything, admin).Return(nil).Once()
		h.connect(admin)

		status, err := usecase.NewManageSession(h.session, h.registry, h.notifier).Connect(ctx, admin)
		require.NoError(t, err)
		assert.True(t, status.Connected)
		require.Len(t, status.Roles, 1)
		assert.True(t, status.Roles[0].Admin)
		assert.False(t, status.Roles[0].Signer)

		sent := h.notifier.all()
		require.Len(t, sent, 1)
		assert.Equal(t, models.NotifySession, sent[0].Kind)
		h.assertExpectations(t)
	})

	t.Run("connect error", func(t *testing.T) {
		h := newHarness(t, 0)
		h.session.On("Connect", mock.Anything, "not-an-address").Return(errors.New("invalid address")).Once()

		_, err := usecase.NewManageSession(h.session, h.registry, h.notifier).Connect(ctx, "not-an-address")
		assert.Error(t, err)
		assert.Empty(t, h.notifier.all())
	})

	t.Run("status when disconnected", func(t *testing.T) {
		h := newHarness(t, 0)
		h.disconnected()

		status, err := usecase.NewManageSession(h.session, h.registry, h.notifier).Status(ctx)
		require.NoError(t, err)
		assert.False(t, status.Connected)
		assert.Empty(t, status.Roles)
	})

	t.Run("disconnect without session", func(t *testing.T) {
		h := newHarness(t, 0)
		h.session.On("IsConnected", mock.Anything).Return(false).Once()

		err := usecase.NewManageSession(h.session, h.registry, h.notifier).Disconnect(ctx)
		assert.Error(t, err)
		h.session.AssertNotCalled(t, "Disconnect", mock.Anything)
	})

	t.Run("disconnect", func(t *testing.T) {
		h := newHarness(t, 0)
		h.session.On("IsConnected", mock.Anything).Return(true).Once()
		h.session.On("Disconnect", mock.Anything).Return(nil).Once()

		err := usecase.NewManageSession(h.session, h.registry, h.notifier).Disconnect(ctx)
		require.NoError(t, err)
		h.assertExpectations(t)
	})
}

// MockContractChecker is a mock implementation of ContractChecker
type MockContractChecker struct {
	mock.Mock
}

func (m *MockContractChecker) HasCode(ctx context.Context, address string) (bool, string, error) {
	args := m.Called(ctx, address)
	return args.Bool(0), args.String(1), args.Error(2)
}

func TestListVaults(t *testing.T) {
	ctx := context.Background()

	t.Run("lists cached state", func(t *testing.T) {
		h := newHarness(t, 1200, proposal("p1", models.ProposalStatusPending, 0, 0))
		h.cfg.Vault = "treasury"

		result, err := usecase.NewListVaults(h.cfg, h.loader, &MockContractChecker{}).Run(ctx, usecase.ListVaultsParams{})
		require.NoError(t, err)
		require.Len(t, result.Vaults, 1)

		v := result.Vaults[0]
		assert.True(t, v.Default)
		assert.Equal(t, 1, v.Proposals)
		assert.Equal(t, uint64(1200), v.CurrentBlock)
		assert.False(t, v.Checked)
	})

	t.Run("checks deployment", func(t *testing.T) {
		h := newHarness(t, 0)
		checker := &MockContractChecker{}
		checker.On("HasCode", mock.Anything, vaultID).Return(false, "no code at address", nil).Once()

		result, err := usecase.NewListVaults(h.cfg, h.loader, checker).Run(ctx, usecase.ListVaultsParams{Check: true})
		require.NoError(t, err)

		v := result.Vaults[0]
		assert.True(t, v.Checked)
		assert.False(t, v.Deployed)
		assert.Equal(t, "no code at address", v.CheckReason)
		checker.AssertExpectations(t)
	})
}
