package signing

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-token-forge/internal/txbuild"
)

func testBundle(t *testing.T, signer *LocalSigner) *txbuild.Bundle {
	t.Helper()

	mint := types.NewAccount()
	ins := txbuild.SetAuthority(mint.PublicKey, signer.Account().PublicKey, txbuild.AuthorityMint, nil)
	bundle, err := txbuild.NewBundle(signer.Account().PublicKey, "EkSnNWid2cvwEVnVx9aBqawnmiCNiDgp3gUdkDPTKN1N", ins)
	require.NoError(t, err)
	return bundle
}

func TestLocalSigner_SignBundle(t *testing.T) {
	signer := NewEphemeralSigner()
	bundle := testBundle(t, signer)

	require.NoError(t, signer.SignBundle(context.Background(), bundle))
	assert.Empty(t, bundle.MissingSigners())
	require.NoError(t, bundle.EnsureFullySigned())
}

func TestLocalSigner_SignBundles(t *testing.T) {
	signer := NewEphemeralSigner()
	bundles := []*txbuild.Bundle{testBundle(t, signer), testBundle(t, signer)}

	require.NoError(t, signer.SignBundles(context.Background(), bundles))
	for i, b := range bundles {
		assert.Empty(t, b.MissingSigners(), "bundle %d", i)
	}
}

func TestLocalSigner_NotARequiredSigner(t *testing.T) {
	owner := NewEphemeralSigner()
	stranger := NewEphemeralSigner()
	bundle := testBundle(t, owner)

	err := stranger.SignBundle(context.Background(), bundle)
	assert.Error(t, err)
}

func TestKeypairFromJSON_ByteArray(t *testing.T) {
	account := types.NewAccount()
	data, err := json.Marshal([]byte(account.PrivateKey))
	require.NoError(t, err)

	restored, err := KeypairFromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, account.PublicKey, restored.PublicKey)
}

func TestKeypairFromJSON_IntArray(t *testing.T) {
	account := types.NewAccount()

	// solana-keygen writes [int,int,...]; build that form by hand.
	parts := make([]string, len(account.PrivateKey))
	for i, b := range account.PrivateKey {
		parts[i] = fmt.Sprintf("%d", b)
	}
	data := []byte("[" + strings.Join(parts, ",") + "]")

	restored, err := KeypairFromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, account.PublicKey, restored.PublicKey)
}

func TestKeypairFromJSON_Rejects(t *testing.T) {
	testCases := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"not_json", "hello"},
		{"wrong_length", "[1,2,3]"},
		{"out_of_range", "[" + strings.Repeat("300,", 63) + "300]"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := KeypairFromJSON([]byte(tc.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadKeypairFile(t *testing.T) {
	account := types.NewAccount()
	data, err := json.Marshal([]byte(account.PrivateKey))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "id.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	restored, err := LoadKeypairFile(path)
	require.NoError(t, err)
	assert.Equal(t, account.PublicKey, restored.PublicKey)

	_, err = LoadKeypairFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestKeypairFromBase58(t *testing.T) {
	account := types.NewAccount()
	secret := base58.Encode(account.PrivateKey)

	restored, err := KeypairFromBase58(secret)
	require.NoError(t, err)
	assert.Equal(t, account.PublicKey, restored.PublicKey)

	_, err = KeypairFromBase58("not-base58-!!!")
	assert.Error(t, err)

	_, err = KeypairFromBase58(base58.Encode([]byte{1, 2, 3}))
	assert.Error(t, err)
}

func TestIsOnCurveAddress(t *testing.T) {
	wallet := types.NewAccount()
	assert.True(t, IsOnCurveAddress(wallet.PublicKey.ToBase58()))

	// An associated token account is a PDA, off the curve by construction.
	mint := types.NewAccount()
	ata, _, err := common.FindAssociatedTokenAddress(wallet.PublicKey, mint.PublicKey)
	require.NoError(t, err)
	assert.False(t, IsOnCurveAddress(ata.ToBase58()))

	assert.False(t, IsOnCurveAddress("not-an-address"))
	assert.False(t, IsOnCurveAddress(""))
}
