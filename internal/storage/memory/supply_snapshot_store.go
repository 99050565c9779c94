package memory

import (
	"context"
	"sort"
	"sync"

	"solana-token-forge/internal/domain"
	"solana-token-forge/internal/storage"
)

// SupplySnapshotStore is an in-memory implementation of
// storage.SupplySnapshotStore.
type SupplySnapshotStore struct {
	mu   sync.RWMutex
	data map[string][]*domain.SupplySnapshot // keyed by mint
}

// NewSupplySnapshotStore creates a new in-memory snapshot store.
func NewSupplySnapshotStore() *SupplySnapshotStore {
	return &SupplySnapshotStore{
		data: make(map[string][]*domain.SupplySnapshot),
	}
}

// Compile-time interface check.
var _ storage.SupplySnapshotStore = (*SupplySnapshotStore)(nil)

// InsertBulk appends snapshot points.
func (s *SupplySnapshotStore) InsertBulk(_ context.Context, snapshots []*domain.SupplySnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, snapshot := range snapshots {
		if snapshot == nil || snapshot.Mint == "" {
			return storage.ErrInvalidInput
		}
		copy := *snapshot
		s.data[snapshot.Mint] = append(s.data[snapshot.Mint], &copy)
	}
	return nil
}

// GetByMint retrieves all snapshots for a mint, ordered by observed_at ASC.
func (s *SupplySnapshotStore) GetByMint(_ context.Context, mint string) ([]*domain.SupplySnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.data[mint]
	snapshots := make([]*domain.SupplySnapshot, len(stored))
	for i, snapshot := range stored {
		copy := *snapshot
		snapshots[i] = &copy
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].ObservedAt < snapshots[j].ObservedAt
	})

	return snapshots, nil
}

// GetLatest retrieves the newest snapshot for a mint.
func (s *SupplySnapshotStore) GetLatest(ctx context.Context, mint string) (*domain.SupplySnapshot, error) {
	snapshots, err := s.GetByMint(ctx, mint)
	if err != nil {
		return nil, err
	}
	if len(snapshots) == 0 {
		return nil, storage.ErrNotFound
	}
	return snapshots[len(snapshots)-1], nil
}
