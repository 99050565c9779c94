package signing

import (
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"os"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"
)

// LoadKeypairFile reads a solana-keygen keypair file: a JSON array of 64
// byte values.
func LoadKeypairFile(path string) (types.Account, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Account{}, fmt.Errorf("read keypair file: %w", err)
	}
	return KeypairFromJSON(data)
}

// KeypairFromJSON restores a keypair from solana-keygen JSON. The canonical
// form is a [u8;64] array; an [int,...] array is accepted for compatibility
// with hand-edited files.
func KeypairFromJSON(data []byte) (types.Account, error) {
	keyBytes, err := decodeKeypairJSON(data)
	if err != nil {
		return types.Account{}, err
	}

	account, err := types.AccountFromBytes(keyBytes)
	if err != nil {
		return types.Account{}, fmt.Errorf("account from bytes: %w", err)
	}
	return account, nil
}

// KeypairFromBase58 restores a keypair from a base58-encoded 64-byte secret,
// the export format wallet apps use.
func KeypairFromBase58(secret string) (types.Account, error) {
	keyBytes, err := base58.Decode(secret)
	if err != nil {
		return types.Account{}, fmt.Errorf("decode base58 secret: %w", err)
	}
	if len(keyBytes) != ed25519.PrivateKeySize {
		return types.Account{}, fmt.Errorf("unexpected secret key length: got %d, want %d", len(keyBytes), ed25519.PrivateKeySize)
	}

	account, err := types.AccountFromBytes(keyBytes)
	if err != nil {
		return types.Account{}, fmt.Errorf("account from bytes: %w", err)
	}
	return account, nil
}

func decodeKeypairJSON(data []byte) ([]byte, error) {
	var keyBytes []byte
	if err := json.Unmarshal(data, &keyBytes); err == nil {
		if len(keyBytes) == ed25519.PrivateKeySize {
			return keyBytes, nil
		}
	}

	// Fallback: [int,int,...] form
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return nil, fmt.Errorf("unmarshal keypair json: %w", err)
	}

	if len(ints) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("unexpected secret key length: got %d, want %d", len(ints), ed25519.PrivateKeySize)
	}

	keyBytes = make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("keypair byte %d out of range: %d", i, v)
		}
		keyBytes[i] = byte(v)
	}

	return keyBytes, nil
}
