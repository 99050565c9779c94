package txbuild

import (
	"crypto/ed25519"
	"testing"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-token-forge/internal/domain"
)

const testBlockhash = "EkSnNWid2cvwEVnVx9aBqawnmiCNiDgp3gUdkDPTKN1N"

// createBundle builds the canonical 4-instruction launch bundle: create the
// mint account, initialize it, create the payer's associated account, mint
// the initial supply.
func createBundle(t *testing.T, payer, mint types.Account, decimals uint8, supply uint64) *Bundle {
	t.Helper()

	instructions := CreateMint(payer.PublicKey, mint.PublicKey, decimals, payer.PublicKey, nil, 1_461_600)

	ataIns, err := CreateAssociatedAccount(payer.PublicKey, payer.PublicKey, mint.PublicKey)
	require.NoError(t, err)
	instructions = append(instructions, ataIns...)

	ata, _, err := common.FindAssociatedTokenAddress(payer.PublicKey, mint.PublicKey)
	require.NoError(t, err)
	instructions = append(instructions, MintTo(mint.PublicKey, ata, payer.PublicKey, supply)...)

	bundle, err := NewBundle(payer.PublicKey, testBlockhash, instructions)
	require.NoError(t, err)
	return bundle
}

func TestCreateBundle_InstructionOrder(t *testing.T) {
	payer := types.NewAccount()
	mint := types.NewAccount()

	supply, err := domain.ScaleToBaseUnits("100", 9)
	require.NoError(t, err)
	require.Equal(t, uint64(100_000_000_000), supply)

	bundle := createBundle(t, payer, mint, 9, supply)
	msg := bundle.Message()

	require.Len(t, msg.Instructions, 4)

	wantPrograms := []common.PublicKey{
		common.SystemProgramID,
		common.TokenProgramID,
		common.SPLAssociatedTokenAccountProgramID,
		common.TokenProgramID,
	}
	for i, ins := range msg.Instructions {
		assert.Equal(t, wantPrograms[i], msg.Accounts[ins.ProgramIDIndex], "instruction %d", i)
	}
}

func TestBundle_RequiredSigners(t *testing.T) {
	payer := types.NewAccount()
	mint := types.NewAccount()

	bundle := createBundle(t, payer, mint, 9, 1)

	signers := bundle.RequiredSigners()
	require.Len(t, signers, 2)
	// Fee payer always signs first; the fresh mint key must sign its own
	// account creation.
	assert.Equal(t, payer.PublicKey.ToBase58(), signers[0])
	assert.Contains(t, signers, mint.PublicKey.ToBase58())
}

func TestBundle_SigningLifecycle(t *testing.T) {
	payer := types.NewAccount()
	mint := types.NewAccount()

	bundle := createBundle(t, payer, mint, 9, 1)

	require.Len(t, bundle.MissingSigners(), 2)

	// Partial: mint key signs first, wallet later.
	mintSig := ed25519.Sign(mint.PrivateKey, bundle.SignableBytes())
	require.NoError(t, bundle.AddSignature(mint.PublicKey.ToBase58(), mintSig))

	assert.Equal(t, []string{payer.PublicKey.ToBase58()}, bundle.MissingSigners())
	assert.Error(t, bundle.EnsureFullySigned())

	_, err := bundle.Serialize()
	assert.Error(t, err, "partially signed bundle must not serialize")

	payerSig := ed25519.Sign(payer.PrivateKey, bundle.SignableBytes())
	require.NoError(t, bundle.AddSignature(payer.PublicKey.ToBase58(), payerSig))

	assert.Empty(t, bundle.MissingSigners())
	require.NoError(t, bundle.EnsureFullySigned())

	raw, err := bundle.Serialize()
	require.NoError(t, err)
	assert.NotEmpty(t, raw)

	// Round-trips through the wire codec with both signatures in place.
	tx, err := types.TransactionDeserialize(raw)
	require.NoError(t, err)
	assert.Len(t, tx.Signatures, 2)
}

func TestBundle_RejectsForgedSignature(t *testing.T) {
	payer := types.NewAccount()
	mint := types.NewAccount()
	stranger := types.NewAccount()

	bundle := createBundle(t, payer, mint, 9, 1)

	// Right signer, wrong key material.
	forged := ed25519.Sign(stranger.PrivateKey, bundle.SignableBytes())
	assert.Error(t, bundle.AddSignature(payer.PublicKey.ToBase58(), forged))

	// Not a required signer at all.
	sig := ed25519.Sign(stranger.PrivateKey, bundle.SignableBytes())
	assert.Error(t, bundle.AddSignature(stranger.PublicKey.ToBase58(), sig))
}

func TestSetAuthority_RevokeIsNil(t *testing.T) {
	payer := types.NewAccount()
	mint := types.NewAccount()

	ins := SetAuthority(mint.PublicKey, payer.PublicKey, AuthorityMint, nil)
	require.Len(t, ins, 1)

	bundle, err := NewBundle(payer.PublicKey, testBlockhash, ins)
	require.NoError(t, err)

	// Only the current authority signs a revocation.
	assert.Equal(t, []string{payer.PublicKey.ToBase58()}, bundle.RequiredSigners())
}

func TestNewBundle_RejectsEmpty(t *testing.T) {
	payer := types.NewAccount()
	_, err := NewBundle(payer.PublicKey, testBlockhash, nil)
	assert.Error(t, err)
}
