package solana

import "context"

// Commitment levels accepted by the ledger for submission and confirmation.
const (
	CommitmentProcessed = "processed"
	CommitmentConfirmed = "confirmed"
	CommitmentFinalized = "finalized"
)

// Ledger defines the remote ledger surface the lifecycle core consumes.
type Ledger interface {
	// GetLatestBlockhash retrieves the freshness token a bundle must carry.
	GetLatestBlockhash(ctx context.Context) (LatestBlockhash, error)

	// GetMinimumBalanceForRentExemption returns the lamports an account of
	// the given size must hold to be rent exempt.
	GetMinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error)

	// GetAccountInfo retrieves account info by public key.
	// Returns nil when the account does not exist.
	GetAccountInfo(ctx context.Context, pubkey string) (*AccountInfo, error)

	// SendTransaction submits a fully signed, serialized transaction and
	// returns its signature. Implementations must not retry: re-submitting
	// the same intent is a caller decision, never an automatic one.
	SendTransaction(ctx context.Context, signedTx []byte) (string, error)
}

// Confirmer waits for a submitted signature to reach a commitment level.
type Confirmer interface {
	// Confirm blocks until the signature is confirmed, the ledger reports
	// an execution error, or ctx expires. A nil return means the bundle
	// executed successfully at the configured commitment.
	Confirm(ctx context.Context, signature string) error
}

// AssetIndex is the best-effort discovery service for assets owned by an
// address. It may lag the ledger and is never authoritative.
type AssetIndex interface {
	// SearchFungible lists fungible asset identities owned by the address.
	SearchFungible(ctx context.Context, owner string) ([]AssetItem, error)
}

// LatestBlockhash is the freshness token attached to a bundle.
type LatestBlockhash struct {
	Blockhash            string
	LastValidBlockHeight uint64
}

// AccountInfo represents Solana account information.
type AccountInfo struct {
	Lamports   uint64
	Owner      string
	Data       []byte // decoded from the base64 RPC encoding
	Executable bool
	RentEpoch  uint64
}

// SignatureStatus is one entry from getSignatureStatuses.
type SignatureStatus struct {
	Slot               int64
	Confirmations      *int
	ConfirmationStatus string
	Err                interface{}
}

// AssetItem is one discovery result from the DAS index.
type AssetItem struct {
	ID     string // mint address
	Name   string
	Symbol string
}
