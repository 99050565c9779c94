package reader

import "errors"

// Sentinel errors distinguishing the read outcomes callers branch on.
var (
	// ErrMintNotFound means no account exists at the queried address.
	ErrMintNotFound = errors.New("mint account not found")

	// ErrNotMint means an account exists but does not decode as an SPL
	// mint.
	ErrNotMint = errors.New("account is not a mint")

	// ErrMetadataAbsent means the mint has no metadata account. This is a
	// valid state, not a failure: tokens created without metadata read
	// back this way.
	ErrMetadataAbsent = errors.New("metadata account absent")

	// ErrDocument means the off-chain document could not be fetched or
	// parsed. Metadata itself was present; only the document is degraded.
	ErrDocument = errors.New("token document unavailable")
)
