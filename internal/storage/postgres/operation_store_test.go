package postgres_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-token-forge/internal/domain"
	"solana-token-forge/internal/storage"
	"solana-token-forge/internal/storage/postgres"
)

func sampleRecord(id, mint string, startedAt int64) *domain.OperationRecord {
	return &domain.OperationRecord{
		OperationID: id,
		Kind:        domain.OpMintMore,
		Mint:        mint,
		Signature:   "sig-" + id,
		State:       domain.StateSucceeded,
		StartedAt:   startedAt,
		FinishedAt:  startedAt + 2500,
	}
}

func TestOperationStore_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewOperationStore(pool)
	ctx := context.Background()

	t.Run("append and get", func(t *testing.T) {
		record := &domain.OperationRecord{
			OperationID: "op-failed",
			Kind:        domain.OpCreateToken,
			Mint:        "MintA",
			State:       domain.StateFailed,
			FailedAt:    domain.StateConfirming,
			ErrMessage:  "confirmation of sig: context deadline exceeded",
			StartedAt:   1000,
			FinishedAt:  91000,
		}
		require.NoError(t, store.Append(ctx, record))

		got, err := store.GetByID(ctx, "op-failed")
		require.NoError(t, err)
		assert.Equal(t, record, got)
	})

	t.Run("duplicate id rejected", func(t *testing.T) {
		record := sampleRecord("op-dup", "MintA", 2000)
		require.NoError(t, store.Append(ctx, record))
		assert.ErrorIs(t, store.Append(ctx, record), storage.ErrDuplicateKey)
	})

	t.Run("invalid input", func(t *testing.T) {
		assert.ErrorIs(t, store.Append(ctx, nil), storage.ErrInvalidInput)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := store.GetByID(ctx, "op-missing")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("get by mint ordered", func(t *testing.T) {
		require.NoError(t, store.Append(ctx, sampleRecord("op-b", "MintOrdered", 5000)))
		require.NoError(t, store.Append(ctx, sampleRecord("op-a", "MintOrdered", 4000)))

		records, err := store.GetByMint(ctx, "MintOrdered")
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "op-a", records[0].OperationID)
		assert.Equal(t, "op-b", records[1].OperationID)
	})

	t.Run("get recent", func(t *testing.T) {
		for i := 0; i < 4; i++ {
			require.NoError(t, store.Append(ctx, sampleRecord(fmt.Sprintf("op-recent-%d", i), "MintRecent", int64(10000+i))))
		}

		records, err := store.GetRecent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "op-recent-3", records[0].OperationID)
		assert.Equal(t, "op-recent-2", records[1].OperationID)
	})
}
