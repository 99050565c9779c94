package orchestrator

import (
	"errors"

	"solana-token-forge/internal/signing"
)

// Sentinel errors matched with errors.Is. Every failed operation wraps
// exactly one of these, so callers branch on the failure class rather than
// on message text.
var (
	// ErrPrecondition is returned when on-chain state rules the operation
	// out before anything is built: unknown mint, revoked authority, an
	// authority held by someone else, immutable metadata.
	ErrPrecondition = errors.New("operation precondition failed")

	// ErrUpload is returned when pinning the image or document fails.
	// Nothing was submitted on-chain.
	ErrUpload = errors.New("metadata upload failed")

	// ErrSignatureDeclined is returned when the wallet refuses to sign.
	ErrSignatureDeclined = signing.ErrSignatureDeclined

	// ErrSubmission is returned when the ledger rejects the transaction.
	// The bundle was fully signed; it was never accepted.
	ErrSubmission = errors.New("transaction submission failed")

	// ErrConfirmation is returned when a submitted transaction fails to
	// reach the target commitment, or the ledger reports an execution
	// error. The transaction may still land; callers inspect the signature
	// before retrying the intent.
	ErrConfirmation = errors.New("transaction confirmation failed")
)
