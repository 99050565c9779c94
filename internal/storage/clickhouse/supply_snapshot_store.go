package clickhouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"solana-token-forge/internal/domain"
	"solana-token-forge/internal/storage"
)

// SupplySnapshotStore implements storage.SupplySnapshotStore using
// ClickHouse. Snapshots are an append-only timeseries; MergeTree ordering
// by (mint, observed_at_ms) keeps per-mint scans cheap.
type SupplySnapshotStore struct {
	conn *Conn
}

// NewSupplySnapshotStore creates a new SupplySnapshotStore.
func NewSupplySnapshotStore(conn *Conn) *SupplySnapshotStore {
	return &SupplySnapshotStore{conn: conn}
}

// Compile-time interface check.
var _ storage.SupplySnapshotStore = (*SupplySnapshotStore)(nil)

// InsertBulk appends snapshot points.
func (s *SupplySnapshotStore) InsertBulk(ctx context.Context, snapshots []*domain.SupplySnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	for _, snapshot := range snapshots {
		if snapshot == nil || snapshot.Mint == "" {
			return storage.ErrInvalidInput
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO supply_snapshots (
			mint, supply, decimals, observed_at_ms
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, snapshot := range snapshots {
		err = batch.Append(
			snapshot.Mint, snapshot.Supply, snapshot.Decimals, uint64(snapshot.ObservedAt),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByMint retrieves all snapshots for a mint, ordered by observed_at ASC.
func (s *SupplySnapshotStore) GetByMint(ctx context.Context, mint string) ([]*domain.SupplySnapshot, error) {
	query := `
		SELECT mint, supply, decimals, observed_at_ms
		FROM supply_snapshots
		WHERE mint = ?
		ORDER BY observed_at_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, mint)
	if err != nil {
		return nil, fmt.Errorf("get snapshots by mint: %w", err)
	}
	defer rows.Close()

	var snapshots []*domain.SupplySnapshot
	for rows.Next() {
		var snapshot domain.SupplySnapshot
		var observedAt uint64

		if err := rows.Scan(&snapshot.Mint, &snapshot.Supply, &snapshot.Decimals, &observedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		snapshot.ObservedAt = int64(observedAt)
		snapshots = append(snapshots, &snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}

	return snapshots, nil
}

// GetLatest retrieves the newest snapshot for a mint.
func (s *SupplySnapshotStore) GetLatest(ctx context.Context, mint string) (*domain.SupplySnapshot, error) {
	query := `
		SELECT mint, supply, decimals, observed_at_ms
		FROM supply_snapshots
		WHERE mint = ?
		ORDER BY observed_at_ms DESC
		LIMIT 1
	`

	row := s.conn.QueryRow(ctx, query, mint)

	var snapshot domain.SupplySnapshot
	var observedAt uint64
	if err := row.Scan(&snapshot.Mint, &snapshot.Supply, &snapshot.Decimals, &observedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get latest snapshot: %w", err)
	}
	snapshot.ObservedAt = int64(observedAt)
	return &snapshot, nil
}
