// Package signing provides wallet signer abstractions over bundles. The
// lifecycle core never sees private key material: it hands a bundle to a
// Signer and gets it back with one more signature attached.
package signing

import (
	"context"
	"errors"

	"solana-token-forge/internal/txbuild"
)

// ErrSignatureDeclined is returned when the signer refuses to sign. A
// declined signature is a normal outcome, not a transport failure.
var ErrSignatureDeclined = errors.New("signature declined")

// Signer signs bundles on behalf of one public key.
type Signer interface {
	// PublicKey returns the base58 public key this signer signs as.
	PublicKey() string

	// SignBundle attaches this signer's signature to the bundle.
	SignBundle(ctx context.Context, bundle *txbuild.Bundle) error

	// SignBundles signs several bundles in one approval. Either all
	// bundles are signed or none: the first refusal aborts the batch.
	SignBundles(ctx context.Context, bundles []*txbuild.Bundle) error
}
