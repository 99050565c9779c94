// Package orchestrator runs the token lifecycle operations end to end.
// Each operation is one synchronous state machine:
// Building → AwaitingSignature → Submitting → Confirming → terminal.
// No view state mutates before confirmation; a failed attempt terminates
// with a single wrapped error and is never retried automatically.
package orchestrator

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"

	"solana-token-forge/internal/domain"
	"solana-token-forge/internal/metastore"
	"solana-token-forge/internal/observability"
	"solana-token-forge/internal/reader"
	"solana-token-forge/internal/signing"
	"solana-token-forge/internal/solana"
	"solana-token-forge/internal/storage"
	"solana-token-forge/internal/txbuild"
)

// Orchestrator coordinates building, signing, submitting, and confirming
// lifecycle transactions. It holds only per-call state: concurrent
// operations on distinct mints are safe, and same-mint authority races are
// resolved by the ledger alone.
type Orchestrator struct {
	ledger    solana.Ledger
	confirmer solana.Confirmer
	wallet    signing.Signer
	uploads   *metastore.UploadCoordinator
	viewer    *reader.Reader

	// Optional stores
	journal   storage.OperationStore
	snapshots storage.SupplySnapshotStore

	verbose bool
}

// Options for creating Orchestrator.
type Options struct {
	// Required
	Ledger    solana.Ledger
	Confirmer solana.Confirmer
	Wallet    signing.Signer

	// Required for CreateToken with metadata and for UpdateMetadata
	Uploads *metastore.UploadCoordinator

	// Optional stores
	Journal   storage.OperationStore
	Snapshots storage.SupplySnapshotStore

	Verbose bool
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	return &Orchestrator{
		ledger:    opts.Ledger,
		confirmer: opts.Confirmer,
		wallet:    opts.Wallet,
		uploads:   opts.Uploads,
		viewer:    reader.New(opts.Ledger),
		journal:   opts.Journal,
		snapshots: opts.Snapshots,
		verbose:   opts.Verbose,
	}
}

// CreateToken creates a new mint, its creator associated account, the
// initial supply, and optionally an on-chain metadata account. A fresh mint
// keypair is generated per attempt and never reused: a failed attempt's
// address is abandoned, not recycled.
func (o *Orchestrator) CreateToken(ctx context.Context, req CreateTokenRequest) (*CreateTokenResult, error) {
	a := o.begin(domain.OpCreateToken, "")
	a.advance(domain.StateBuilding)

	if req.Decimals > domain.MaxDecimals {
		return nil, o.fail(ctx, a, ErrPrecondition, fmt.Errorf("decimals %d out of range [0,%d]", req.Decimals, domain.MaxDecimals))
	}
	baseUnits, err := domain.ScaleToBaseUnits(req.InitialSupply, req.Decimals)
	if err != nil {
		return nil, o.fail(ctx, a, ErrPrecondition, fmt.Errorf("initial supply: %w", err))
	}

	// The document goes up before anything is built: an upload failure
	// must leave zero submission attempts behind.
	var uri string
	if req.WithMetadata {
		if o.uploads == nil {
			return nil, o.fail(ctx, a, ErrPrecondition, fmt.Errorf("no metadata store configured"))
		}
		if req.Name == "" || req.Symbol == "" {
			return nil, o.fail(ctx, a, ErrPrecondition, fmt.Errorf("metadata requires name and symbol"))
		}
		uri, err = o.uploads.Upload(ctx, req.Name, req.Symbol, req.Description, req.ImageName, req.Image)
		if err != nil {
			return nil, o.fail(ctx, a, ErrUpload, err)
		}
		o.log("uploaded document for %s: %s", req.Symbol, uri)
	}

	mintSigner := signing.NewEphemeralSigner()
	mintPub := mintSigner.Account().PublicKey
	a.mint = mintSigner.PublicKey()
	payer := common.PublicKeyFromString(o.wallet.PublicKey())

	rent, err := o.ledger.GetMinimumBalanceForRentExemption(ctx, txbuild.MintAccountSize)
	if err != nil {
		return nil, o.fail(ctx, a, nil, fmt.Errorf("get rent minimum: %w", err))
	}

	var freezeAuth *common.PublicKey
	if req.EnableFreeze {
		freezeAuth = &payer
	}

	instructions := txbuild.CreateMint(payer, mintPub, req.Decimals, payer, freezeAuth, rent)

	ataInstructions, err := txbuild.CreateAssociatedAccount(payer, payer, mintPub)
	if err != nil {
		return nil, o.fail(ctx, a, nil, err)
	}
	instructions = append(instructions, ataInstructions...)

	ata, _, err := common.FindAssociatedTokenAddress(payer, mintPub)
	if err != nil {
		return nil, o.fail(ctx, a, nil, fmt.Errorf("derive associated token address: %w", err))
	}

	if baseUnits > 0 {
		instructions = append(instructions, txbuild.MintTo(mintPub, ata, payer, baseUnits)...)
	}
	if req.WithMetadata {
		metaInstructions, err := txbuild.CreateMetadata(mintPub, payer, req.Name, req.Symbol, uri)
		if err != nil {
			return nil, o.fail(ctx, a, nil, err)
		}
		instructions = append(instructions, metaInstructions...)
	}

	bundle, err := o.buildBundle(ctx, payer, instructions)
	if err != nil {
		return nil, o.fail(ctx, a, nil, err)
	}

	// The ephemeral mint key signs first; the wallet signs last so a
	// declined approval leaves nothing half-committed.
	a.advance(domain.StateAwaitingSignature)
	if err := mintSigner.SignBundle(ctx, bundle); err != nil {
		return nil, o.fail(ctx, a, nil, fmt.Errorf("mint key signature: %w", err))
	}
	if err := o.signAsWallet(ctx, bundle); err != nil {
		return nil, o.fail(ctx, a, nil, err)
	}

	signature, err := o.submitAndConfirm(ctx, a, bundle)
	if err != nil {
		return nil, err
	}

	o.succeed(ctx, a)
	o.recordSnapshot(ctx, a.mint)
	observability.RecordTokenCreated()
	observability.RecordUnitsMinted(baseUnits)
	o.log("created mint %s, signature %s", a.mint, signature)

	return &CreateTokenResult{
		OperationID:       a.id,
		Mint:              a.mint,
		AssociatedAccount: ata.ToBase58(),
		Signature:         signature,
		MetadataURI:       uri,
	}, nil
}

// MintMore issues additional units of an existing mint to a recipient
// wallet, creating the recipient's associated account in the same
// transaction when it does not exist yet.
func (o *Orchestrator) MintMore(ctx context.Context, req MintMoreRequest) (*MintMoreResult, error) {
	a := o.begin(domain.OpMintMore, req.Mint)
	a.advance(domain.StateBuilding)

	descriptor, err := o.viewer.ReadMint(ctx, req.Mint)
	if err != nil {
		return nil, o.fail(ctx, a, ErrPrecondition, err)
	}
	if !descriptor.CanMint() {
		return nil, o.fail(ctx, a, ErrPrecondition, fmt.Errorf("mint authority of %s is revoked; supply is frozen forever", req.Mint))
	}
	if *descriptor.MintAuthority != o.wallet.PublicKey() {
		return nil, o.fail(ctx, a, ErrPrecondition, fmt.Errorf("wallet %s is not the mint authority (%s holds it)", o.wallet.PublicKey(), *descriptor.MintAuthority))
	}

	recipient := req.Recipient
	if recipient == "" {
		recipient = o.wallet.PublicKey()
	}
	if !signing.IsOnCurveAddress(recipient) {
		return nil, o.fail(ctx, a, ErrPrecondition, fmt.Errorf("recipient %s is not a wallet address", recipient))
	}

	baseUnits, err := domain.ScaleToBaseUnits(req.Amount, descriptor.Decimals)
	if err != nil {
		return nil, o.fail(ctx, a, ErrPrecondition, fmt.Errorf("amount: %w", err))
	}
	if baseUnits == 0 {
		return nil, o.fail(ctx, a, ErrPrecondition, fmt.Errorf("amount %q scales to zero base units", req.Amount))
	}

	assoc, err := reader.DeriveAssociatedAddress(recipient, req.Mint)
	if err != nil {
		return nil, o.fail(ctx, a, nil, err)
	}

	info, err := o.ledger.GetAccountInfo(ctx, assoc.Address)
	if err != nil {
		return nil, o.fail(ctx, a, nil, fmt.Errorf("probe associated account: %w", err))
	}
	createAccount := info == nil

	payer := common.PublicKeyFromString(o.wallet.PublicKey())
	mintPub := common.PublicKeyFromString(req.Mint)
	recipientPub := common.PublicKeyFromString(recipient)

	var instructions []types.Instruction
	if createAccount {
		ataInstructions, err := txbuild.CreateAssociatedAccount(payer, recipientPub, mintPub)
		if err != nil {
			return nil, o.fail(ctx, a, nil, err)
		}
		instructions = append(instructions, ataInstructions...)
	}
	instructions = append(instructions, txbuild.MintTo(mintPub, common.PublicKeyFromString(assoc.Address), payer, baseUnits)...)

	bundle, err := o.buildBundle(ctx, payer, instructions)
	if err != nil {
		return nil, o.fail(ctx, a, nil, err)
	}

	a.advance(domain.StateAwaitingSignature)
	if err := o.signAsWallet(ctx, bundle); err != nil {
		return nil, o.fail(ctx, a, nil, err)
	}

	signature, err := o.submitAndConfirm(ctx, a, bundle)
	if err != nil {
		return nil, err
	}

	o.succeed(ctx, a)
	o.recordSnapshot(ctx, req.Mint)
	observability.RecordUnitsMinted(baseUnits)
	o.log("minted %d base units of %s to %s, signature %s", baseUnits, req.Mint, recipient, signature)

	return &MintMoreResult{
		OperationID:       a.id,
		Signature:         signature,
		AssociatedAccount: assoc.Address,
		BaseUnits:         baseUnits,
		CreatedAccount:    createAccount,
	}, nil
}

// SetMintAuthority transfers or revokes the mint or freeze authority.
// Revocation (empty NewAuthority) is terminal: the cleared authority can
// never be restored, which is why the CLI gates this behind --yes.
func (o *Orchestrator) SetMintAuthority(ctx context.Context, req SetAuthorityRequest) (*SetAuthorityResult, error) {
	a := o.begin(domain.OpSetAuthority, req.Mint)
	a.advance(domain.StateBuilding)

	descriptor, err := o.viewer.ReadMint(ctx, req.Mint)
	if err != nil {
		return nil, o.fail(ctx, a, ErrPrecondition, err)
	}

	kind, label := txbuild.AuthorityMint, "mint"
	current := descriptor.MintAuthority
	if req.Freeze {
		kind, label = txbuild.AuthorityFreeze, "freeze"
		current = descriptor.FreezeAuthority
	}
	if current == nil {
		return nil, o.fail(ctx, a, ErrPrecondition, fmt.Errorf("%s authority of %s is already revoked", label, req.Mint))
	}
	if *current != o.wallet.PublicKey() {
		return nil, o.fail(ctx, a, ErrPrecondition, fmt.Errorf("wallet %s does not hold the %s authority (%s holds it)", o.wallet.PublicKey(), label, *current))
	}

	revoke := req.NewAuthority == ""
	var newAuth *common.PublicKey
	if !revoke {
		raw, err := base58.Decode(req.NewAuthority)
		if err != nil || len(raw) != 32 {
			return nil, o.fail(ctx, a, ErrPrecondition, fmt.Errorf("new authority %q is not a valid address", req.NewAuthority))
		}
		pk := common.PublicKeyFromString(req.NewAuthority)
		newAuth = &pk
	}

	payer := common.PublicKeyFromString(o.wallet.PublicKey())
	mintPub := common.PublicKeyFromString(req.Mint)
	instructions := txbuild.SetAuthority(mintPub, payer, kind, newAuth)

	bundle, err := o.buildBundle(ctx, payer, instructions)
	if err != nil {
		return nil, o.fail(ctx, a, nil, err)
	}

	a.advance(domain.StateAwaitingSignature)
	if err := o.signAsWallet(ctx, bundle); err != nil {
		return nil, o.fail(ctx, a, nil, err)
	}

	signature, err := o.submitAndConfirm(ctx, a, bundle)
	if err != nil {
		return nil, err
	}

	o.succeed(ctx, a)
	if revoke {
		o.log("revoked %s authority of %s, signature %s", label, req.Mint, signature)
	} else {
		o.log("transferred %s authority of %s to %s, signature %s", label, req.Mint, req.NewAuthority, signature)
	}

	return &SetAuthorityResult{
		OperationID: a.id,
		Signature:   signature,
		Revoked:     revoke,
	}, nil
}

// UpdateMetadata re-uploads the full document and writes the full
// name/symbol/uri triple on-chain. Unset edit fields are merged from the
// last read, so a partial edit never blanks the untouched fields.
func (o *Orchestrator) UpdateMetadata(ctx context.Context, req UpdateMetadataRequest) (*UpdateMetadataResult, error) {
	a := o.begin(domain.OpUpdateMetadata, req.Mint)
	a.advance(domain.StateBuilding)

	if o.uploads == nil {
		return nil, o.fail(ctx, a, ErrPrecondition, fmt.Errorf("no metadata store configured"))
	}

	record, err := o.viewer.ReadMetadata(ctx, req.Mint)
	if err != nil {
		return nil, o.fail(ctx, a, ErrPrecondition, err)
	}
	if !record.IsMutable {
		return nil, o.fail(ctx, a, ErrPrecondition, fmt.Errorf("metadata of %s is immutable", req.Mint))
	}
	if record.UpdateAuthority != o.wallet.PublicKey() {
		return nil, o.fail(ctx, a, ErrPrecondition, fmt.Errorf("wallet %s does not hold the update authority (%s holds it)", o.wallet.PublicKey(), record.UpdateAuthority))
	}

	// The current document is needed to merge an unset description, and to
	// carry the image locator forward when no replacement image is given.
	var doc *domain.TokenDocument
	if req.Edit.Description == nil || len(req.Image) == 0 {
		doc, err = o.viewer.ReadDocument(ctx, record.URI)
		if err != nil {
			return nil, o.fail(ctx, a, ErrPrecondition, fmt.Errorf("cannot merge against current document: %w", err))
		}
	}
	name, symbol, description := MergeEdit(req.Edit, record, doc)

	var uri string
	if len(req.Image) > 0 {
		uri, err = o.uploads.Upload(ctx, name, symbol, description, req.ImageName, req.Image)
	} else {
		uri, err = o.uploads.Reupload(ctx, domain.TokenDocument{
			Name:        name,
			Symbol:      symbol,
			Description: description,
			Image:       doc.Image,
		})
	}
	if err != nil {
		return nil, o.fail(ctx, a, ErrUpload, err)
	}
	o.log("uploaded updated document for %s: %s", req.Mint, uri)

	payer := common.PublicKeyFromString(o.wallet.PublicKey())
	mintPub := common.PublicKeyFromString(req.Mint)
	instructions, err := txbuild.UpdateMetadata(mintPub, payer, name, symbol, uri)
	if err != nil {
		return nil, o.fail(ctx, a, nil, err)
	}

	bundle, err := o.buildBundle(ctx, payer, instructions)
	if err != nil {
		return nil, o.fail(ctx, a, nil, err)
	}

	a.advance(domain.StateAwaitingSignature)
	if err := o.signAsWallet(ctx, bundle); err != nil {
		return nil, o.fail(ctx, a, nil, err)
	}

	signature, err := o.submitAndConfirm(ctx, a, bundle)
	if err != nil {
		return nil, err
	}

	o.succeed(ctx, a)
	o.log("updated metadata of %s, signature %s", req.Mint, signature)

	return &UpdateMetadataResult{
		OperationID: a.id,
		Signature:   signature,
		URI:         uri,
		Name:        name,
		Symbol:      symbol,
	}, nil
}

// History returns the journaled attempts for a mint, oldest first.
func (o *Orchestrator) History(ctx context.Context, mint string) ([]*domain.OperationRecord, error) {
	if o.journal == nil {
		return nil, fmt.Errorf("no journal configured")
	}
	return o.journal.GetByMint(ctx, mint)
}

// buildBundle stamps the latest blockhash and compiles instructions.
func (o *Orchestrator) buildBundle(ctx context.Context, payer common.PublicKey, instructions []types.Instruction) (*txbuild.Bundle, error) {
	blockhash, err := o.ledger.GetLatestBlockhash(ctx)
	if err != nil {
		return nil, fmt.Errorf("get latest blockhash: %w", err)
	}
	bundle, err := txbuild.NewBundle(payer, blockhash.Blockhash, instructions)
	if err != nil {
		return nil, err
	}
	return bundle, nil
}

// signAsWallet collects the wallet signature and asserts the bundle is
// fully signed. An unsigned bundle must never reach submission.
func (o *Orchestrator) signAsWallet(ctx context.Context, bundle *txbuild.Bundle) error {
	if err := o.wallet.SignBundle(ctx, bundle); err != nil {
		if errors.Is(err, ErrSignatureDeclined) {
			return fmt.Errorf("wallet approval: %w", err)
		}
		return fmt.Errorf("wallet signature: %w", err)
	}
	observability.DefaultMetrics.SignaturesCollected.Inc()
	return bundle.EnsureFullySigned()
}

// submitAndConfirm serializes, submits exactly once, and waits for the
// target commitment. Submission is never retried here: re-submitting the
// same intent is a caller decision.
func (o *Orchestrator) submitAndConfirm(ctx context.Context, a *attempt, bundle *txbuild.Bundle) (string, error) {
	raw, err := bundle.Serialize()
	if err != nil {
		return "", o.fail(ctx, a, nil, err)
	}

	a.advance(domain.StateSubmitting)
	observability.RecordSubmission()
	signature, err := o.ledger.SendTransaction(ctx, raw)
	if err != nil {
		observability.RecordTransactionFailure("submit")
		return "", o.fail(ctx, a, ErrSubmission, err)
	}
	a.signature = signature

	a.advance(domain.StateConfirming)
	confirmStart := time.Now()
	if err := o.confirmer.Confirm(ctx, signature); err != nil {
		observability.RecordTransactionFailure("confirm")
		return "", o.fail(ctx, a, ErrConfirmation, fmt.Errorf("signature %s: %w", signature, err))
	}
	observability.RecordConfirmation(solana.CommitmentConfirmed, time.Since(confirmStart).Seconds())

	return signature, nil
}

// attempt tracks one in-flight operation's state machine.
type attempt struct {
	id        string
	kind      domain.OperationKind
	mint      string
	state     domain.OperationState
	signature string
	started   time.Time
}

func (o *Orchestrator) begin(kind domain.OperationKind, mint string) *attempt {
	return &attempt{
		id:      newOperationID(),
		kind:    kind,
		mint:    mint,
		state:   domain.StateIdle,
		started: time.Now(),
	}
}

// advance moves the state machine forward. States never move backward.
func (a *attempt) advance(state domain.OperationState) {
	a.state = state
}

// fail journals the terminal failure and returns the single wrapped error
// for this attempt. FailedAt records the state the attempt died in.
func (o *Orchestrator) fail(ctx context.Context, a *attempt, sentinel error, cause error) error {
	finished := time.Now()
	o.journalAppend(ctx, &domain.OperationRecord{
		OperationID: a.id,
		Kind:        a.kind,
		Mint:        a.mint,
		Signature:   a.signature,
		State:       domain.StateFailed,
		FailedAt:    a.state,
		ErrMessage:  cause.Error(),
		StartedAt:   a.started.UnixMilli(),
		FinishedAt:  finished.UnixMilli(),
	})
	observability.RecordOperation(string(a.kind), "failed", finished.Sub(a.started).Seconds())
	o.log("%s %s failed at %s: %v", a.kind, a.id, a.state, cause)

	if sentinel != nil && !errors.Is(cause, sentinel) {
		return fmt.Errorf("%w: %w", sentinel, cause)
	}
	return cause
}

// succeed journals the terminal success.
func (o *Orchestrator) succeed(ctx context.Context, a *attempt) {
	a.advance(domain.StateSucceeded)
	finished := time.Now()
	o.journalAppend(ctx, &domain.OperationRecord{
		OperationID: a.id,
		Kind:        a.kind,
		Mint:        a.mint,
		Signature:   a.signature,
		State:       domain.StateSucceeded,
		StartedAt:   a.started.UnixMilli(),
		FinishedAt:  finished.UnixMilli(),
	})
	observability.RecordOperation(string(a.kind), "succeeded", finished.Sub(a.started).Seconds())
}

// journalAppend is best-effort: a journal write failure never changes the
// outcome of the operation it records.
func (o *Orchestrator) journalAppend(ctx context.Context, record *domain.OperationRecord) {
	if o.journal == nil {
		return
	}
	if err := o.journal.Append(ctx, record); err != nil {
		log.Printf("[orchestrator] journal append %s: %v", record.OperationID, err)
	}
}

// recordSnapshot re-reads the mint after confirmation and appends a supply
// timeseries point. Best-effort observability data.
func (o *Orchestrator) recordSnapshot(ctx context.Context, mint string) {
	if o.snapshots == nil {
		return
	}
	descriptor, err := o.viewer.ReadMint(ctx, mint)
	if err != nil {
		log.Printf("[orchestrator] snapshot read %s: %v", mint, err)
		return
	}
	snapshot := &domain.SupplySnapshot{
		Mint:       mint,
		Supply:     descriptor.Supply,
		Decimals:   descriptor.Decimals,
		ObservedAt: time.Now().UnixMilli(),
	}
	if err := o.snapshots.InsertBulk(ctx, []*domain.SupplySnapshot{snapshot}); err != nil {
		log.Printf("[orchestrator] snapshot insert %s: %v", mint, err)
	}
}

func newOperationID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("op-%d", time.Now().UnixNano())
	}
	return "op-" + hex.EncodeToString(b[:])
}

func (o *Orchestrator) log(format string, args ...interface{}) {
	if o.verbose {
		log.Printf("[orchestrator] "+format, args...)
	}
}
