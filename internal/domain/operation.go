package domain

// OperationKind identifies one user-initiated lifecycle operation.
type OperationKind string

const (
	OpCreateToken    OperationKind = "CREATE_TOKEN"
	OpMintMore       OperationKind = "MINT_MORE"
	OpSetAuthority   OperationKind = "SET_AUTHORITY"
	OpUpdateMetadata OperationKind = "UPDATE_METADATA"
)

// OperationState is the lifecycle of one in-flight operation. States only
// advance; Succeeded and Failed are terminal.
type OperationState string

const (
	StateIdle              OperationState = "IDLE"
	StateBuilding          OperationState = "BUILDING"
	StateAwaitingSignature OperationState = "AWAITING_SIGNATURE"
	StateSubmitting        OperationState = "SUBMITTING"
	StateConfirming        OperationState = "CONFIRMING"
	StateSucceeded         OperationState = "SUCCEEDED"
	StateFailed            OperationState = "FAILED"
)

// OperationRecord is one journaled attempt, appended once the operation
// reaches a terminal state. FailedAt holds the last non-terminal state the
// attempt reached before failing, empty on success.
type OperationRecord struct {
	OperationID string
	Kind        OperationKind
	Mint        string
	Signature   string // empty when the attempt never reached submission
	State       OperationState
	FailedAt    OperationState
	ErrMessage  string
	StartedAt   int64 // ms
	FinishedAt  int64 // ms
}

// SupplySnapshot is one post-confirmation re-read of a mint's supply,
// appended as a timeseries point for dashboards.
type SupplySnapshot struct {
	Mint       string
	Supply     uint64 // base units
	Decimals   uint8
	ObservedAt int64 // ms
}
