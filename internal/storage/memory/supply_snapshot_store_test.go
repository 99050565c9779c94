package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-token-forge/internal/domain"
	"solana-token-forge/internal/storage"
)

func TestSupplySnapshotStore_InsertAndGet(t *testing.T) {
	store := NewSupplySnapshotStore()
	ctx := context.Background()

	snapshots := []*domain.SupplySnapshot{
		{Mint: "MintA", Supply: 200_000_000_000, Decimals: 9, ObservedAt: 2000},
		{Mint: "MintA", Supply: 100_000_000_000, Decimals: 9, ObservedAt: 1000},
		{Mint: "MintB", Supply: 5, Decimals: 0, ObservedAt: 1500},
	}
	require.NoError(t, store.InsertBulk(ctx, snapshots))

	got, err := store.GetByMint(ctx, "MintA")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1000), got[0].ObservedAt)
	assert.Equal(t, int64(2000), got[1].ObservedAt)

	latest, err := store.GetLatest(ctx, "MintA")
	require.NoError(t, err)
	assert.Equal(t, uint64(200_000_000_000), latest.Supply)
}

func TestSupplySnapshotStore_Empty(t *testing.T) {
	store := NewSupplySnapshotStore()
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, nil))

	got, err := store.GetByMint(ctx, "MintA")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = store.GetLatest(ctx, "MintA")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSupplySnapshotStore_InvalidInput(t *testing.T) {
	store := NewSupplySnapshotStore()
	ctx := context.Background()

	err := store.InsertBulk(ctx, []*domain.SupplySnapshot{{Mint: ""}})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}
