// Package stub provides an in-memory ledger for testing. Submitted
// transactions are decoded and their token-program instructions applied to
// stub account state, so callers observe the same read-after-write behavior
// a real endpoint gives.
package stub

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"

	"solana-token-forge/internal/solana"
)

// Token program instruction opcodes applied by the stub.
const (
	opInitializeMint = 0
	opSetAuthority   = 6
	opMintTo         = 7
)

// Authority types for SetAuthority.
const (
	authorityMintTokens   = 0
	authorityFreezeTokens = 1
)

// Account is one stub ledger account.
type Account struct {
	Lamports uint64
	Owner    string
	Data     []byte
}

// Ledger implements solana.Ledger, solana.Confirmer, and solana.AssetIndex
// in memory.
type Ledger struct {
	mu sync.Mutex

	// Accounts maps base58 pubkey to account state.
	Accounts map[string]*Account

	// Submitted holds every serialized transaction accepted by
	// SendTransaction, in order.
	Submitted [][]byte

	// Assets is the scripted searchAssets result per owner address.
	Assets map[string][]solana.AssetItem

	// Blockhash is returned from GetLatestBlockhash.
	Blockhash string

	// RentExemptLamports is returned from GetMinimumBalanceForRentExemption
	// regardless of size.
	RentExemptLamports uint64

	// FailSendWith, when set, makes SendTransaction fail without recording
	// the transaction.
	FailSendWith error

	// FailConfirmWith, when set, makes Confirm fail.
	FailConfirmWith error
}

// NewLedger creates an empty stub ledger.
func NewLedger() *Ledger {
	return &Ledger{
		Accounts:           make(map[string]*Account),
		Assets:             make(map[string][]solana.AssetItem),
		Blockhash:          "EkSnNWid2cvwEVnVx9aBqawnmiCNiDgp3gUdkDPTKN1N",
		RentExemptLamports: 1_461_600,
	}
}

// GetLatestBlockhash returns the scripted blockhash.
func (l *Ledger) GetLatestBlockhash(_ context.Context) (solana.LatestBlockhash, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return solana.LatestBlockhash{Blockhash: l.Blockhash, LastValidBlockHeight: 1000}, nil
}

// GetMinimumBalanceForRentExemption returns the scripted rent minimum.
func (l *Ledger) GetMinimumBalanceForRentExemption(_ context.Context, _ uint64) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.RentExemptLamports, nil
}

// GetAccountInfo returns the stub account, or nil when absent.
func (l *Ledger) GetAccountInfo(_ context.Context, pubkey string) (*solana.AccountInfo, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	acc, ok := l.Accounts[pubkey]
	if !ok {
		return nil, nil
	}
	data := make([]byte, len(acc.Data))
	copy(data, acc.Data)
	return &solana.AccountInfo{
		Lamports: acc.Lamports,
		Owner:    acc.Owner,
		Data:     data,
	}, nil
}

// SendTransaction decodes the transaction, verifies every required signature
// slot is populated, applies its instructions, and returns the base58 of the
// first signature.
func (l *Ledger) SendTransaction(_ context.Context, signedTx []byte) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.FailSendWith != nil {
		return "", l.FailSendWith
	}

	tx, err := types.TransactionDeserialize(signedTx)
	if err != nil {
		return "", fmt.Errorf("deserialize transaction: %w", err)
	}

	required := int(tx.Message.Header.NumRequireSignatures)
	if len(tx.Signatures) < required {
		return "", fmt.Errorf("transaction carries %d of %d required signatures", len(tx.Signatures), required)
	}
	empty := make([]byte, 64)
	for i := 0; i < required; i++ {
		if bytes.Equal(tx.Signatures[i], empty) {
			return "", fmt.Errorf("signature slot %d is empty", i)
		}
	}

	if err := l.applyTransaction(&tx); err != nil {
		return "", err
	}

	l.Submitted = append(l.Submitted, append([]byte(nil), signedTx...))
	return base58.Encode(tx.Signatures[0]), nil
}

// Confirm succeeds unless scripted otherwise.
func (l *Ledger) Confirm(_ context.Context, _ string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.FailConfirmWith
}

// SearchFungible returns the scripted asset list for the owner.
func (l *Ledger) SearchFungible(_ context.Context, owner string) ([]solana.AssetItem, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.Assets[owner], nil
}

// SetAccount seeds raw account state, for tests that read accounts the stub
// interpreter does not build itself.
func (l *Ledger) SetAccount(pubkey string, owner string, data []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Accounts[pubkey] = &Account{Lamports: 1, Owner: owner, Data: data}
}

// SubmissionCount returns how many transactions the stub accepted.
func (l *Ledger) SubmissionCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.Submitted)
}

// applyTransaction walks instructions and mutates account state.
func (l *Ledger) applyTransaction(tx *types.Transaction) error {
	msg := &tx.Message
	keys := msg.Accounts

	for _, ins := range msg.Instructions {
		if int(ins.ProgramIDIndex) >= len(keys) {
			return fmt.Errorf("program index %d out of range", ins.ProgramIDIndex)
		}
		program := keys[ins.ProgramIDIndex]

		accounts := make([]string, len(ins.Accounts))
		for i, idx := range ins.Accounts {
			if idx >= len(keys) {
				return fmt.Errorf("account index %d out of range", idx)
			}
			accounts[i] = keys[idx].ToBase58()
		}

		var err error
		switch program {
		case common.SystemProgramID:
			err = l.applySystem(ins.Data, accounts)
		case common.TokenProgramID:
			err = l.applyToken(ins.Data, accounts)
		case common.SPLAssociatedTokenAccountProgramID:
			err = l.applyCreateATA(accounts)
		case common.MetaplexTokenMetaProgramID:
			err = l.applyMetadata(ins.Data, accounts)
		default:
			err = fmt.Errorf("unsupported program %s", program.ToBase58())
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// applySystem handles system-program CreateAccount.
// Layout: u32 instruction, u64 lamports, u64 space, 32-byte owner.
func (l *Ledger) applySystem(data []byte, accounts []string) error {
	if len(data) < 4 {
		return fmt.Errorf("short system instruction")
	}
	if binary.LittleEndian.Uint32(data[0:4]) != 0 {
		return fmt.Errorf("unsupported system instruction %d", binary.LittleEndian.Uint32(data[0:4]))
	}
	if len(data) < 52 || len(accounts) < 2 {
		return fmt.Errorf("malformed CreateAccount")
	}

	newAccount := accounts[1]
	if _, exists := l.Accounts[newAccount]; exists {
		return fmt.Errorf("account %s already exists", newAccount)
	}

	lamports := binary.LittleEndian.Uint64(data[4:12])
	space := binary.LittleEndian.Uint64(data[12:20])
	owner := base58.Encode(data[20:52])

	l.Accounts[newAccount] = &Account{
		Lamports: lamports,
		Owner:    owner,
		Data:     make([]byte, space),
	}
	return nil
}

// applyToken handles the token-program opcodes the lifecycle emits.
func (l *Ledger) applyToken(data []byte, accounts []string) error {
	if len(data) == 0 {
		return fmt.Errorf("empty token instruction")
	}

	switch data[0] {
	case opInitializeMint:
		return l.applyInitializeMint(data, accounts)
	case opSetAuthority:
		return l.applySetAuthority(data, accounts)
	case opMintTo:
		return l.applyMintTo(data, accounts)
	default:
		return fmt.Errorf("unsupported token instruction %d", data[0])
	}
}

// applyInitializeMint writes the 82-byte mint layout into the pre-created
// account. Data layout: u8 opcode, u8 decimals, 32-byte mint authority,
// u8 freeze option, 32-byte freeze authority.
func (l *Ledger) applyInitializeMint(data []byte, accounts []string) error {
	if len(data) < 35 || len(accounts) < 1 {
		return fmt.Errorf("malformed InitializeMint")
	}
	acc, ok := l.Accounts[accounts[0]]
	if !ok {
		return fmt.Errorf("mint account %s not created", accounts[0])
	}
	if len(acc.Data) != MintAccountSize {
		return fmt.Errorf("mint account %s has size %d, want %d", accounts[0], len(acc.Data), MintAccountSize)
	}

	decimals := data[1]
	mintAuthority := data[2:34]
	var freezeAuthority []byte
	if data[34] == 1 {
		if len(data) < 67 {
			return fmt.Errorf("malformed InitializeMint freeze authority")
		}
		freezeAuthority = data[35:67]
	}

	copy(acc.Data, EncodeMint(mintAuthority, 0, decimals, freezeAuthority))
	return nil
}

// applySetAuthority updates or clears the mint or freeze authority.
// Data layout: u8 opcode, u8 authority type, u8 option, 32-byte new authority.
func (l *Ledger) applySetAuthority(data []byte, accounts []string) error {
	if len(data) < 3 || len(accounts) < 2 {
		return fmt.Errorf("malformed SetAuthority")
	}
	acc, ok := l.Accounts[accounts[0]]
	if !ok || len(acc.Data) != MintAccountSize {
		return fmt.Errorf("mint account %s not found", accounts[0])
	}

	current, _, decimals, freeze := DecodeMint(acc.Data)
	signer := accounts[1]

	var newAuthority []byte
	if data[2] == 1 {
		if len(data) < 35 {
			return fmt.Errorf("malformed SetAuthority new authority")
		}
		newAuthority = data[3:35]
	}

	switch data[1] {
	case authorityMintTokens:
		if current == nil {
			return fmt.Errorf("mint authority already revoked for %s", accounts[0])
		}
		if base58.Encode(current) != signer {
			return fmt.Errorf("signer %s is not the mint authority", signer)
		}
		supply := binary.LittleEndian.Uint64(acc.Data[36:44])
		copy(acc.Data, EncodeMint(newAuthority, supply, decimals, freeze))
	case authorityFreezeTokens:
		if freeze == nil {
			return fmt.Errorf("freeze authority already revoked for %s", accounts[0])
		}
		if base58.Encode(freeze) != signer {
			return fmt.Errorf("signer %s is not the freeze authority", signer)
		}
		supply := binary.LittleEndian.Uint64(acc.Data[36:44])
		copy(acc.Data, EncodeMint(current, supply, decimals, newAuthority))
	default:
		return fmt.Errorf("unsupported authority type %d", data[1])
	}
	return nil
}

// applyMintTo credits the destination token account and grows supply.
// Data layout: u8 opcode, u64 amount. Accounts: mint, destination, authority.
func (l *Ledger) applyMintTo(data []byte, accounts []string) error {
	if len(data) < 9 || len(accounts) < 3 {
		return fmt.Errorf("malformed MintTo")
	}
	mintAcc, ok := l.Accounts[accounts[0]]
	if !ok || len(mintAcc.Data) != MintAccountSize {
		return fmt.Errorf("mint account %s not found", accounts[0])
	}
	destAcc, ok := l.Accounts[accounts[1]]
	if !ok {
		return fmt.Errorf("destination account %s not found", accounts[1])
	}

	authority, _, _, _ := DecodeMint(mintAcc.Data)
	if authority == nil {
		return fmt.Errorf("mint authority revoked for %s", accounts[0])
	}
	if base58.Encode(authority) != accounts[2] {
		return fmt.Errorf("signer %s is not the mint authority", accounts[2])
	}

	amount := binary.LittleEndian.Uint64(data[1:9])

	supply := binary.LittleEndian.Uint64(mintAcc.Data[36:44])
	binary.LittleEndian.PutUint64(mintAcc.Data[36:44], supply+amount)

	if len(destAcc.Data) == TokenAccountSize {
		balance := binary.LittleEndian.Uint64(destAcc.Data[64:72])
		binary.LittleEndian.PutUint64(destAcc.Data[64:72], balance+amount)
	}
	return nil
}

// applyCreateATA creates the associated token account.
// Accounts: funder, ata, owner, mint, ...
func (l *Ledger) applyCreateATA(accounts []string) error {
	if len(accounts) < 4 {
		return fmt.Errorf("malformed CreateAssociatedTokenAccount")
	}
	ata, owner, mint := accounts[1], accounts[2], accounts[3]
	if _, exists := l.Accounts[ata]; exists {
		return fmt.Errorf("associated account %s already exists", ata)
	}

	mintBytes, err := base58.Decode(mint)
	if err != nil {
		return fmt.Errorf("decode mint: %w", err)
	}
	ownerBytes, err := base58.Decode(owner)
	if err != nil {
		return fmt.Errorf("decode owner: %w", err)
	}

	l.Accounts[ata] = &Account{
		Lamports: 2_039_280,
		Owner:    common.TokenProgramID.ToBase58(),
		Data:     EncodeTokenAccount(mintBytes, ownerBytes, 0),
	}
	return nil
}

// applyMetadata records the metadata account with the raw instruction data.
// The stub does not model the metadata borsh layout; tests that read
// metadata seed realistic bytes via SetAccount.
func (l *Ledger) applyMetadata(data []byte, accounts []string) error {
	if len(accounts) < 1 {
		return fmt.Errorf("malformed metadata instruction")
	}
	metadataAccount := accounts[0]
	acc, ok := l.Accounts[metadataAccount]
	if !ok {
		acc = &Account{Lamports: 1, Owner: common.MetaplexTokenMetaProgramID.ToBase58()}
		l.Accounts[metadataAccount] = acc
	}
	acc.Data = append([]byte(nil), data...)
	return nil
}

var (
	_ solana.Ledger     = (*Ledger)(nil)
	_ solana.Confirmer  = (*Ledger)(nil)
	_ solana.AssetIndex = (*Ledger)(nil)
)
