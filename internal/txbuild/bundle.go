package txbuild

import (
	"crypto/ed25519"
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
)

// Bundle is one ordered instruction list compiled into a message, plus the
// signatures collected so far. Required signers are derived from the message
// header, so signature bookkeeping is explicit rather than positional:
// signers attach by public key and the bundle places the signature in the
// right slot.
type Bundle struct {
	message    types.Message
	serialized []byte // message bytes every signer signs
	signers    []common.PublicKey
	signatures [][]byte // aligned with signers; nil until provided
}

// NewBundle compiles instructions into a message stamped with the blockhash
// and wraps it with signer accounting.
func NewBundle(feePayer common.PublicKey, recentBlockhash string, instructions []types.Instruction) (*Bundle, error) {
	if len(instructions) == 0 {
		return nil, fmt.Errorf("bundle has no instructions")
	}

	message := types.NewMessage(types.NewMessageParam{
		FeePayer:        feePayer,
		RecentBlockhash: recentBlockhash,
		Instructions:    instructions,
	})

	serialized, err := message.Serialize()
	if err != nil {
		return nil, fmt.Errorf("serialize message: %w", err)
	}

	count := int(message.Header.NumRequireSignatures)
	if count == 0 || count > len(message.Accounts) {
		return nil, fmt.Errorf("message header requires %d signatures over %d accounts", count, len(message.Accounts))
	}

	signers := make([]common.PublicKey, count)
	copy(signers, message.Accounts[:count])

	return &Bundle{
		message:    message,
		serialized: serialized,
		signers:    signers,
		signatures: make([][]byte, count),
	}, nil
}

// Message returns the compiled message.
func (b *Bundle) Message() types.Message {
	return b.message
}

// SignableBytes returns the serialized message bytes a signer must sign.
func (b *Bundle) SignableBytes() []byte {
	return b.serialized
}

// RequiredSigners returns the ordered base58 public keys that must sign.
func (b *Bundle) RequiredSigners() []string {
	out := make([]string, len(b.signers))
	for i, s := range b.signers {
		out[i] = s.ToBase58()
	}
	return out
}

// AddSignature attaches a signature for the given signer. The signature is
// verified against the message bytes before it is accepted, so a wrong or
// stale signature fails here instead of at submission.
func (b *Bundle) AddSignature(pubkey string, signature []byte) error {
	if len(signature) != ed25519.SignatureSize {
		return fmt.Errorf("signature for %s has %d bytes, want %d", pubkey, len(signature), ed25519.SignatureSize)
	}

	for i, signer := range b.signers {
		if signer.ToBase58() != pubkey {
			continue
		}
		if !ed25519.Verify(signer.Bytes(), b.serialized, signature) {
			return fmt.Errorf("signature for %s does not verify against the message", pubkey)
		}
		b.signatures[i] = append([]byte(nil), signature...)
		return nil
	}
	return fmt.Errorf("%s is not a required signer of this bundle", pubkey)
}

// MissingSigners returns the base58 public keys still lacking a signature.
func (b *Bundle) MissingSigners() []string {
	var missing []string
	for i, signer := range b.signers {
		if b.signatures[i] == nil {
			missing = append(missing, signer.ToBase58())
		}
	}
	return missing
}

// EnsureFullySigned fails unless every required signature slot holds a
// verified signature. Call before Serialize; an unsigned bundle must never
// reach submission.
func (b *Bundle) EnsureFullySigned() error {
	if missing := b.MissingSigners(); len(missing) > 0 {
		return fmt.Errorf("bundle is missing signatures from %v", missing)
	}
	for i, signer := range b.signers {
		if !ed25519.Verify(signer.Bytes(), b.serialized, b.signatures[i]) {
			return fmt.Errorf("signature from %s does not verify", signer.ToBase58())
		}
	}
	return nil
}

// Serialize returns the wire-format transaction. It refuses partially
// signed bundles.
func (b *Bundle) Serialize() ([]byte, error) {
	if err := b.EnsureFullySigned(); err != nil {
		return nil, err
	}

	sigs := make([]types.Signature, len(b.signatures))
	for i, s := range b.signatures {
		sigs[i] = types.Signature(s)
	}

	tx := types.Transaction{
		Signatures: sigs,
		Message:    b.message,
	}
	raw, err := tx.Serialize()
	if err != nil {
		return nil, fmt.Errorf("serialize transaction: %w", err)
	}
	return raw, nil
}
