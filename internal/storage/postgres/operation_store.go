package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-token-forge/internal/domain"
	"solana-token-forge/internal/storage"
)

// OperationStore implements storage.OperationStore using PostgreSQL.
type OperationStore struct {
	pool *Pool
}

// NewOperationStore creates a new OperationStore.
func NewOperationStore(pool *Pool) *OperationStore {
	return &OperationStore{pool: pool}
}

// Compile-time interface check.
var _ storage.OperationStore = (*OperationStore)(nil)

// Append adds a terminal operation record. Returns ErrDuplicateKey if
// operation_id exists.
func (s *OperationStore) Append(ctx context.Context, record *domain.OperationRecord) error {
	if record == nil || record.OperationID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO operations (
			operation_id, kind, mint, signature,
			state, failed_at, err_message,
			started_at, finished_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7,
			$8, $9
		)
	`

	_, err := s.pool.Exec(ctx, query,
		record.OperationID, string(record.Kind), record.Mint, record.Signature,
		string(record.State), string(record.FailedAt), record.ErrMessage,
		record.StartedAt, record.FinishedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert operation record: %w", err)
	}
	return nil
}

// GetByID retrieves a record by operation ID. Returns ErrNotFound if not exists.
func (s *OperationStore) GetByID(ctx context.Context, operationID string) (*domain.OperationRecord, error) {
	query := `
		SELECT
			operation_id, kind, mint, signature,
			state, failed_at, err_message,
			started_at, finished_at
		FROM operations
		WHERE operation_id = $1
	`

	row := s.pool.QueryRow(ctx, query, operationID)
	record, err := scanOperationRecord(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get operation record by id: %w", err)
	}
	return record, nil
}

// GetByMint retrieves all records touching a mint, ordered by started_at ASC.
func (s *OperationStore) GetByMint(ctx context.Context, mint string) ([]*domain.OperationRecord, error) {
	query := `
		SELECT
			operation_id, kind, mint, signature,
			state, failed_at, err_message,
			started_at, finished_at
		FROM operations
		WHERE mint = $1
		ORDER BY started_at ASC, operation_id ASC
	`

	rows, err := s.pool.Query(ctx, query, mint)
	if err != nil {
		return nil, fmt.Errorf("get operation records by mint: %w", err)
	}
	defer rows.Close()

	return scanOperationRecords(rows)
}

// GetRecent retrieves the most recent records, newest first.
func (s *OperationStore) GetRecent(ctx context.Context, limit int) ([]*domain.OperationRecord, error) {
	query := `
		SELECT
			operation_id, kind, mint, signature,
			state, failed_at, err_message,
			started_at, finished_at
		FROM operations
		ORDER BY started_at DESC, operation_id DESC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent operation records: %w", err)
	}
	defer rows.Close()

	return scanOperationRecords(rows)
}

// scanOperationRecord scans a single row into an OperationRecord.
func scanOperationRecord(row pgx.Row) (*domain.OperationRecord, error) {
	var record domain.OperationRecord
	var kind, state, failedAt string

	err := row.Scan(
		&record.OperationID, &kind, &record.Mint, &record.Signature,
		&state, &failedAt, &record.ErrMessage,
		&record.StartedAt, &record.FinishedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Kind = domain.OperationKind(kind)
	record.State = domain.OperationState(state)
	record.FailedAt = domain.OperationState(failedAt)
	return &record, nil
}

// scanOperationRecords scans multiple rows into a slice of OperationRecord.
func scanOperationRecords(rows pgx.Rows) ([]*domain.OperationRecord, error) {
	var records []*domain.OperationRecord

	for rows.Next() {
		var record domain.OperationRecord
		var kind, state, failedAt string

		err := rows.Scan(
			&record.OperationID, &kind, &record.Mint, &record.Signature,
			&state, &failedAt, &record.ErrMessage,
			&record.StartedAt, &record.FinishedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan operation record row: %w", err)
		}

		record.Kind = domain.OperationKind(kind)
		record.State = domain.OperationState(state)
		record.FailedAt = domain.OperationState(failedAt)
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate operation record rows: %w", err)
	}

	return records, nil
}
