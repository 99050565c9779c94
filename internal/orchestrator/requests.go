package orchestrator

import (
	"solana-token-forge/internal/domain"
)

// CreateTokenRequest describes one token creation attempt. Amounts are
// human decimal strings; scaling happens inside the operation.
type CreateTokenRequest struct {
	Name        string
	Symbol      string
	Description string
	Decimals    uint8
	// InitialSupply is the human amount minted to the creator's associated
	// account. "0" creates the mint without an initial issue.
	InitialSupply string
	// EnableFreeze sets the creator wallet as freeze authority. Off by
	// default; a freeze authority can never be added later.
	EnableFreeze bool
	// WithMetadata attaches an on-chain metadata account pointing at a
	// freshly uploaded document.
	WithMetadata bool
	// ImageName and Image are the optional image pinned before the
	// document. Ignored unless WithMetadata is set.
	ImageName string
	Image     []byte
}

// CreateTokenResult reports a successful creation.
type CreateTokenResult struct {
	OperationID       string
	Mint              string
	AssociatedAccount string
	Signature         string
	MetadataURI       string // empty when metadata was not requested
}

// MintMoreRequest describes one additional issuance.
type MintMoreRequest struct {
	Mint string
	// Recipient is the owner wallet receiving the units. Empty means the
	// signing wallet.
	Recipient string
	// Amount is the human decimal amount, scaled by the mint's decimals.
	Amount string
}

// MintMoreResult reports a successful issuance.
type MintMoreResult struct {
	OperationID       string
	Signature         string
	AssociatedAccount string
	BaseUnits         uint64
	// CreatedAccount reports whether the recipient's associated account was
	// created in the same transaction.
	CreatedAccount bool
}

// SetAuthorityRequest describes one authority transfer or revocation.
// Revocation is irreversible; callers are expected to have confirmed the
// intent before invoking (the CLI gates it behind --yes).
type SetAuthorityRequest struct {
	Mint string
	// Freeze selects the freeze authority instead of the mint authority.
	Freeze bool
	// NewAuthority is the base58 transfer target. Empty revokes.
	NewAuthority string
}

// SetAuthorityResult reports a successful authority change.
type SetAuthorityResult struct {
	OperationID string
	Signature   string
	Revoked     bool
}

// MetadataEdit is a partial metadata update. Nil fields keep the current
// value; MergeEdit resolves them against the last read before anything is
// uploaded or submitted, so the full triple always goes on-chain.
type MetadataEdit struct {
	Name        *string
	Symbol      *string
	Description *string
}

// UpdateMetadataRequest describes one metadata update attempt.
type UpdateMetadataRequest struct {
	Mint string
	Edit MetadataEdit
	// ImageName and Image, when set, replace the document's image. When
	// empty the current image locator is carried forward.
	ImageName string
	Image     []byte
}

// UpdateMetadataResult reports a successful update.
type UpdateMetadataResult struct {
	OperationID string
	Signature   string
	URI         string
	Name        string
	Symbol      string
}

// MergeEdit resolves a partial edit against the current on-chain record and
// off-chain document. Pure: the caller supplies both reads.
func MergeEdit(edit MetadataEdit, record *domain.MetadataRecord, doc *domain.TokenDocument) (name, symbol, description string) {
	name = record.Name
	if edit.Name != nil {
		name = *edit.Name
	}
	symbol = record.Symbol
	if edit.Symbol != nil {
		symbol = *edit.Symbol
	}
	if doc != nil {
		description = doc.Description
	}
	if edit.Description != nil {
		description = *edit.Description
	}
	return name, symbol, description
}
