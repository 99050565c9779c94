package stub

import "encoding/binary"

// SPL account sizes.
const (
	MintAccountSize  = 82
	TokenAccountSize = 165
)

// EncodeMint builds the 82-byte SPL mint layout:
// mint authority option u32, mint authority 32, supply u64, decimals u8,
// initialized u8, freeze authority option u32, freeze authority 32.
// A nil authority encodes the revoked (option=0) state.
func EncodeMint(mintAuthority []byte, supply uint64, decimals uint8, freezeAuthority []byte) []byte {
	data := make([]byte, MintAccountSize)
	if mintAuthority != nil {
		binary.LittleEndian.PutUint32(data[0:4], 1)
		copy(data[4:36], mintAuthority)
	}
	binary.LittleEndian.PutUint64(data[36:44], supply)
	data[44] = decimals
	data[45] = 1 // initialized
	if freezeAuthority != nil {
		binary.LittleEndian.PutUint32(data[46:50], 1)
		copy(data[50:82], freezeAuthority)
	}
	return data
}

// DecodeMint is the inverse of EncodeMint. Revoked authorities come back nil.
func DecodeMint(data []byte) (mintAuthority []byte, supply uint64, decimals uint8, freezeAuthority []byte) {
	if len(data) != MintAccountSize {
		return nil, 0, 0, nil
	}
	if binary.LittleEndian.Uint32(data[0:4]) == 1 {
		mintAuthority = append([]byte(nil), data[4:36]...)
	}
	supply = binary.LittleEndian.Uint64(data[36:44])
	decimals = data[44]
	if binary.LittleEndian.Uint32(data[46:50]) == 1 {
		freezeAuthority = append([]byte(nil), data[50:82]...)
	}
	return mintAuthority, supply, decimals, freezeAuthority
}

// EncodeTokenAccount builds the 165-byte SPL token account layout with the
// given mint, owner, and balance. State is set to initialized; the delegate,
// native, and close-authority fields stay zero.
func EncodeTokenAccount(mint, owner []byte, amount uint64) []byte {
	data := make([]byte, TokenAccountSize)
	copy(data[0:32], mint)
	copy(data[32:64], owner)
	binary.LittleEndian.PutUint64(data[64:72], amount)
	data[108] = 1 // initialized
	return data
}
