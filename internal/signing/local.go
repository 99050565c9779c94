package signing

import (
	"context"
	"crypto/ed25519"
	"fmt"

	"github.com/blocto/solana-go-sdk/types"

	"solana-token-forge/internal/txbuild"
)

// LocalSigner signs with an in-process ed25519 keypair. Used for the mint
// account key during creation and for headless CLI wallets.
type LocalSigner struct {
	account types.Account
}

// NewLocalSigner wraps a keypair.
func NewLocalSigner(account types.Account) *LocalSigner {
	return &LocalSigner{account: account}
}

// NewEphemeralSigner generates a fresh keypair. Every token creation attempt
// gets its own: a mint keypair is never reused across attempts.
func NewEphemeralSigner() *LocalSigner {
	return &LocalSigner{account: types.NewAccount()}
}

// PublicKey returns the base58 public key.
func (s *LocalSigner) PublicKey() string {
	return s.account.PublicKey.ToBase58()
}

// Account exposes the underlying keypair, for callers that need the typed
// public key.
func (s *LocalSigner) Account() types.Account {
	return s.account
}

// SignBundle signs the bundle's message bytes and attaches the signature.
func (s *LocalSigner) SignBundle(_ context.Context, bundle *txbuild.Bundle) error {
	signature := ed25519.Sign(s.account.PrivateKey, bundle.SignableBytes())
	if err := bundle.AddSignature(s.PublicKey(), signature); err != nil {
		return fmt.Errorf("attach signature: %w", err)
	}
	return nil
}

// SignBundles signs each bundle in order.
func (s *LocalSigner) SignBundles(ctx context.Context, bundles []*txbuild.Bundle) error {
	for i, bundle := range bundles {
		if err := s.SignBundle(ctx, bundle); err != nil {
			return fmt.Errorf("bundle %d: %w", i, err)
		}
	}
	return nil
}

var _ Signer = (*LocalSigner)(nil)
