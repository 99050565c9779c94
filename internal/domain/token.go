// Package domain defines the core data model for the token lifecycle:
// mint descriptors, associated accounts, on-chain metadata records and
// their off-chain documents.
package domain

// MintDescriptor is the decoded on-chain state of one token class.
type MintDescriptor struct {
	MintAddress     string  // base58 mint account address
	Decimals        uint8   // fractional-unit scale, fixed at creation
	MintAuthority   *string // nil once revoked
	FreezeAuthority *string // independent lifecycle from MintAuthority
	Supply          uint64  // base units
	IsInitialized   bool
}

// CanMint reports whether further units can ever be minted.
// A nil MintAuthority is terminal: supply is frozen forever.
func (m *MintDescriptor) CanMint() bool {
	return m.MintAuthority != nil
}

// AssociatedAccount is the deterministic per-(owner, mint) holding account.
// Address is derived, never authoritative for existence.
type AssociatedAccount struct {
	Owner   string
	Mint    string
	Address string
}

// MetadataRecord is the decoded on-chain metadata account for a mint.
// Name and Symbol are stored on-chain as fixed-width null-padded fields
// and are trimmed on read.
type MetadataRecord struct {
	Mint            string
	Name            string
	Symbol          string
	URI             string // locator of the off-chain TokenDocument
	UpdateAuthority string
	IsMutable       bool
}

// TokenDocument is the off-chain JSON document referenced by
// MetadataRecord.URI. It is not atomically consistent with the on-chain
// record: the URI can point at a document that is not yet reachable.
type TokenDocument struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Image       string `json:"image"` // locator of the pinned image
}

// OwnedMint is one best-effort discovery result from the asset index.
// The index may lag the ledger; never use these for balance decisions.
type OwnedMint struct {
	Mint   string
	Name   string
	Symbol string
}
