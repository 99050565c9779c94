// Package reader resolves on-chain and off-chain token state: mint
// descriptors, metadata records, and their documents. All reads are
// point-in-time snapshots; nothing here caches or watches.
package reader

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
	"github.com/mr-tron/base58"

	"solana-token-forge/internal/domain"
	"solana-token-forge/internal/metastore"
	"solana-token-forge/internal/solana"
)

// mintAccountSize is the byte size of the SPL mint layout decoded below.
const mintAccountSize = 82

// Reader reads token state from the ledger, the asset index, and document
// gateways.
type Reader struct {
	ledger solana.Ledger
	index  solana.AssetIndex
	client *http.Client
}

// Option configures Reader.
type Option func(*Reader)

// WithAssetIndex attaches a DAS index for ownership listing.
func WithAssetIndex(index solana.AssetIndex) Option {
	return func(r *Reader) {
		r.index = index
	}
}

// WithDocumentClient sets the http.Client used for document fetches.
func WithDocumentClient(client *http.Client) Option {
	return func(r *Reader) {
		r.client = client
	}
}

// New creates a Reader over the ledger.
func New(ledger solana.Ledger, opts ...Option) *Reader {
	r := &Reader{
		ledger: ledger,
		client: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReadMint fetches and decodes the mint account. A missing account is
// ErrMintNotFound; an account that is not an SPL mint is ErrNotMint.
func (r *Reader) ReadMint(ctx context.Context, mint string) (*domain.MintDescriptor, error) {
	info, err := r.ledger.GetAccountInfo(ctx, mint)
	if err != nil {
		return nil, fmt.Errorf("get mint account: %w", err)
	}
	if info == nil {
		return nil, fmt.Errorf("%w: %s", ErrMintNotFound, mint)
	}
	if info.Owner != common.TokenProgramID.ToBase58() {
		return nil, fmt.Errorf("%w: %s is owned by %s", ErrNotMint, mint, info.Owner)
	}

	descriptor, err := decodeMint(mint, info.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotMint, mint, err)
	}
	return descriptor, nil
}

// decodeMint decodes the 82-byte SPL mint layout:
// [0:4] mint authority option, [4:36] mint authority, [36:44] supply,
// [44] decimals, [45] initialized, [46:50] freeze authority option,
// [50:82] freeze authority.
func decodeMint(mint string, data []byte) (*domain.MintDescriptor, error) {
	if len(data) != mintAccountSize {
		return nil, fmt.Errorf("account data is %d bytes, want %d", len(data), mintAccountSize)
	}

	descriptor := &domain.MintDescriptor{
		MintAddress:   mint,
		Supply:        binary.LittleEndian.Uint64(data[36:44]),
		Decimals:      data[44],
		IsInitialized: data[45] == 1,
	}

	switch binary.LittleEndian.Uint32(data[0:4]) {
	case 0:
		// revoked
	case 1:
		authority := base58.Encode(data[4:36])
		descriptor.MintAuthority = &authority
	default:
		return nil, fmt.Errorf("invalid mint authority option")
	}

	switch binary.LittleEndian.Uint32(data[46:50]) {
	case 0:
	case 1:
		authority := base58.Encode(data[50:82])
		descriptor.FreezeAuthority = &authority
	default:
		return nil, fmt.Errorf("invalid freeze authority option")
	}

	return descriptor, nil
}

// ReadMetadata fetches and decodes the metadata account for a mint.
// Absence is ErrMetadataAbsent, a valid outcome.
func (r *Reader) ReadMetadata(ctx context.Context, mint string) (*domain.MetadataRecord, error) {
	mintPub := common.PublicKeyFromString(mint)
	metadataPub, err := token_metadata.GetTokenMetaPubkey(mintPub)
	if err != nil {
		return nil, fmt.Errorf("derive metadata address: %w", err)
	}

	info, err := r.ledger.GetAccountInfo(ctx, metadataPub.ToBase58())
	if err != nil {
		return nil, fmt.Errorf("get metadata account: %w", err)
	}
	if info == nil {
		return nil, fmt.Errorf("%w: mint %s", ErrMetadataAbsent, mint)
	}

	metadata, err := token_metadata.MetadataDeserialize(info.Data)
	if err != nil {
		return nil, fmt.Errorf("decode metadata for %s: %w", mint, err)
	}

	return &domain.MetadataRecord{
		Mint:            mint,
		Name:            trimNullPadding(metadata.Data.Name),
		Symbol:          trimNullPadding(metadata.Data.Symbol),
		URI:             trimNullPadding(metadata.Data.Uri),
		UpdateAuthority: metadata.UpdateAuthority.ToBase58(),
		IsMutable:       metadata.IsMutable,
	}, nil
}

// trimNullPadding strips the trailing zero bytes of the fixed-width
// on-chain string fields.
func trimNullPadding(s string) string {
	return strings.TrimRight(s, "\x00")
}

// ReadDocument fetches the off-chain document behind a metadata URI.
// Failures are ErrDocument: the display degrades, it never masquerades as
// absent metadata.
func (r *Reader) ReadDocument(ctx context.Context, uri string) (*domain.TokenDocument, error) {
	if uri == "" {
		return nil, fmt.Errorf("%w: empty uri", ErrDocument)
	}

	url := metastore.ResolveGateway(uri)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocument, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", ErrDocument, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch %s: status %d", ErrDocument, url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrDocument, url, err)
	}

	var doc domain.TokenDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrDocument, url, err)
	}
	return &doc, nil
}

// ListOwnedMints lists fungible mints owned by the address via the asset
// index. Best-effort: the index may lag the ledger.
func (r *Reader) ListOwnedMints(ctx context.Context, owner string) ([]domain.OwnedMint, error) {
	if r.index == nil {
		return nil, fmt.Errorf("no asset index configured")
	}

	items, err := r.index.SearchFungible(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("search assets: %w", err)
	}

	mints := make([]domain.OwnedMint, len(items))
	for i, item := range items {
		mints[i] = domain.OwnedMint{
			Mint:   item.ID,
			Name:   item.Name,
			Symbol: item.Symbol,
		}
	}
	return mints, nil
}

// DeriveAssociatedAddress derives the associated token account for
// (owner, mint). Pure: same inputs, same address, no network.
func DeriveAssociatedAddress(owner, mint string) (*domain.AssociatedAccount, error) {
	ata, _, err := common.FindAssociatedTokenAddress(
		common.PublicKeyFromString(owner),
		common.PublicKeyFromString(mint),
	)
	if err != nil {
		return nil, fmt.Errorf("derive associated token address: %w", err)
	}
	return &domain.AssociatedAccount{
		Owner:   owner,
		Mint:    mint,
		Address: ata.ToBase58(),
	}, nil
}
