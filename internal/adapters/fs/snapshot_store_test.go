package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-vault/internal/domain/config"
	"github.com/trebuchet-org/treb-vault/internal/domain/models"
)

const testLedger = "0x9999999999999999999999999999999999999999"

func newTestSnapshotStore(t *testing.T) *SnapshotStoreAdapter {
	t.Helper()
	return NewSnapshotStoreAdapter(&config.RuntimeConfig{DataDir: t.TempDir()})
}

func TestSnapshotStore_LoadMissing(t *testing.T) {
	store := newTestSnapshotStore(t)

	snapshot, err := store.Load(context.Background(), testLedger)
	require.NoError(t, err)
	assert.Nil(t, snapshot)
}

func TestSnapshotStore_SaveAndLoad(t *testing.T) {
	store := newTestSnapshotStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	amount, err := uint256.FromDecimal("1000000000000000000000")
	require.NoError(t, err)

	snapshot := &models.LedgerSnapshot{
		LedgerID:    testLedger,
		BlockHeight: 1200,
		SyncedAt:    now,
		Proposals: []*models.Proposal{
			{
				ID:          "p1",
				Proposer:    "0x1111111111111111111111111111111111111111",
				Recipient:   "0x2222222222222222222222222222222222222222",
				Amount:      amount,
				Token:       "USDC",
				Approvals:   3,
				Threshold:   3,
				ApprovedBy:  []string{"0x3333333333333333333333333333333333333333"},
				Status:      models.ProposalStatusApproved,
				CreatedAt:   now,
				UnlockBlock: 1500,
				Version:     4,
			},
		},
	}

	require.NoError(t, store.Save(ctx, snapshot))
	assert.FileExists(t, store.Path(testLedger))
	assert.NoFileExists(t, store.Path(testLedger)+".tmp")

	loaded, err := store.Load(ctx, testLedger)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, uint64(1200), loaded.BlockHeight)
	assert.True(t, now.Equal(loaded.SyncedAt))
	require.Len(t, loaded.Proposals, 1)

	p := loaded.Proposals[0]
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "1000000000000000000000", p.AmountString())
	assert.Equal(t, uint64(1500), p.UnlockBlock)
	assert.Equal(t, models.ProposalStatusApproved, p.Status)
	assert.Equal(t, uint64(4), p.Version)
}

func TestSnapshotStore_PathIsCaseInsensitive(t *testing.T) {
	store := newTestSnapshotStore(t)
	assert.Equal(t, store.Path(testLedger), store.Path("0X9999999999999999999999999999999999999999"))
	assert.Equal(t, "priv", filepath.Base(filepath.Dir(store.Path(testLedger))))
}

func TestSnapshotStore_RejectsForeignSnapshot(t *testing.T) {
	store := newTestSnapshotStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &models.LedgerSnapshot{LedgerID: "other"}))
	require.NoError(t, os.Rename(store.Path("other"), store.Path(testLedger)))

	_, err := store.Load(ctx, testLedger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "belongs to ledger other")
}

func TestSnapshotStore_CorruptFile(t *testing.T) {
	store := newTestSnapshotStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path(testLedger)), 0755))
	require.NoError(t, os.WriteFile(store.Path(testLedger), []byte("{not json"), 0644))

	_, err := store.Load(context.Background(), testLedger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestSnapshotStore_Delete(t *testing.T) {
	store := newTestSnapshotStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &models.LedgerSnapshot{LedgerID: testLedger}))
	require.NoError(t, store.Delete(ctx, testLedger))
	assert.NoFileExists(t, store.Path(testLedger))

	// deleting again is a no-op
	require.NoError(t, store.Delete(ctx, testLedger))
}

func TestSnapshotStore_List(t *testing.T) {
	store := newTestSnapshotStore(t)
	ctx := context.Background()

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	other := "0x8888888888888888888888888888888888888888"
	require.NoError(t, store.Save(ctx, &models.LedgerSnapshot{LedgerID: testLedger}))
	require.NoError(t, store.Save(ctx, &models.LedgerSnapshot{LedgerID: other}))
	require.NoError(t, os.WriteFile(filepath.Join(store.dir, "session.json"), []byte("{}"), 0600))

	ids, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{other, testLedger}, ids)
}
