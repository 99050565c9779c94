package storage

import (
	"context"

	"solana-token-forge/internal/domain"
)

// OperationStore is the append-only journal of orchestrated lifecycle
// attempts. One row per attempt, written at its terminal state; rows are
// never updated.
type OperationStore interface {
	// Append adds a terminal operation record. Returns ErrDuplicateKey if
	// operation_id exists.
	Append(ctx context.Context, record *domain.OperationRecord) error

	// GetByID retrieves a record by operation ID. Returns ErrNotFound if
	// not exists.
	GetByID(ctx context.Context, operationID string) (*domain.OperationRecord, error)

	// GetByMint retrieves all records touching a mint, ordered by
	// started_at ASC.
	GetByMint(ctx context.Context, mint string) ([]*domain.OperationRecord, error)

	// GetRecent retrieves the most recent records, newest first.
	GetRecent(ctx context.Context, limit int) ([]*domain.OperationRecord, error)
}

// SupplySnapshotStore records post-confirmation supply re-reads as a
// timeseries for dashboards. Best-effort observability data, never an input
// to lifecycle decisions.
type SupplySnapshotStore interface {
	// InsertBulk appends snapshot points.
	InsertBulk(ctx context.Context, snapshots []*domain.SupplySnapshot) error

	// GetByMint retrieves all snapshots for a mint, ordered by
	// observed_at ASC.
	GetByMint(ctx context.Context, mint string) ([]*domain.SupplySnapshot, error)

	// GetLatest retrieves the newest snapshot for a mint. Returns
	// ErrNotFound if none exists.
	GetLatest(ctx context.Context, mint string) (*domain.SupplySnapshot, error)
}
