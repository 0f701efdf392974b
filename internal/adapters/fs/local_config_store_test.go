package fs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-vault/internal/domain/config"
)

func TestLocalConfigStore(t *testing.T) {
	ctx := context.Background()
	store := NewLocalConfigStoreAdapter(&config.RuntimeConfig{DataDir: t.TempDir()})

	assert.False(t, store.Exists())
	local, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultLocalConfig(), local)

	require.NoError(t, store.Save(ctx, &config.LocalConfig{Vault: "treasury", Network: "sepolia"}))
	assert.True(t, store.Exists())

	local, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "treasury", local.Vault)
	assert.Equal(t, "sepolia", local.Network)
}
