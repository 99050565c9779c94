package signing

import (
	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// IsOnCurveAddress reports whether the base58 address decodes to a valid
// ed25519 curve point. Wallet addresses are on-curve; program-derived
// addresses (including associated token accounts) are not. Recipient owner
// addresses must pass this check: pasting an ATA where a wallet belongs
// would strand the minted units.
func IsOnCurveAddress(address string) bool {
	point, err := base58.Decode(address)
	if err != nil {
		return false
	}
	return isOnCurve(point)
}

func isOnCurve(point []byte) bool {
	if len(point) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}
