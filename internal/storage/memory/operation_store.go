// Package memory provides in-memory store implementations for tests and
// journal-less CLI runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"solana-token-forge/internal/domain"
	"solana-token-forge/internal/storage"
)

// OperationStore is an in-memory implementation of storage.OperationStore.
type OperationStore struct {
	mu   sync.RWMutex
	data map[string]*domain.OperationRecord
}

// NewOperationStore creates a new in-memory operation store.
func NewOperationStore() *OperationStore {
	return &OperationStore{
		data: make(map[string]*domain.OperationRecord),
	}
}

// Compile-time interface check.
var _ storage.OperationStore = (*OperationStore)(nil)

// Append adds a terminal operation record. Returns ErrDuplicateKey if exists.
func (s *OperationStore) Append(_ context.Context, record *domain.OperationRecord) error {
	if record == nil || record.OperationID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[record.OperationID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *record
	s.data[record.OperationID] = &copy
	return nil
}

// GetByID retrieves a record by operation ID. Returns ErrNotFound if not exists.
func (s *OperationStore) GetByID(_ context.Context, operationID string) (*domain.OperationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, exists := s.data[operationID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *record
	return &copy, nil
}

// GetByMint retrieves all records touching a mint, ordered by started_at ASC.
func (s *OperationStore) GetByMint(_ context.Context, mint string) ([]*domain.OperationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []*domain.OperationRecord
	for _, record := range s.data {
		if record.Mint == mint {
			copy := *record
			records = append(records, &copy)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].StartedAt != records[j].StartedAt {
			return records[i].StartedAt < records[j].StartedAt
		}
		return records[i].OperationID < records[j].OperationID
	})

	return records, nil
}

// GetRecent retrieves the most recent records, newest first.
func (s *OperationStore) GetRecent(_ context.Context, limit int) ([]*domain.OperationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*domain.OperationRecord, 0, len(s.data))
	for _, record := range s.data {
		copy := *record
		records = append(records, &copy)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].StartedAt != records[j].StartedAt {
			return records[i].StartedAt > records[j].StartedAt
		}
		return records[i].OperationID > records[j].OperationID
	})

	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	return records, nil
}
