// Package sol implements Solana address encoding: a raw 32-byte Ed25519
// public key rendered as plain Base58 (no checksum), per §4.10.
package sol

import (
	"fmt"

	"github.com/vaultedge/walletcore/codec/base58check"
	"github.com/vaultedge/walletcore/walleterr"
)

// Size is the length in bytes of a Solana address (an Ed25519 public
// key).
const Size = 32

// Address is a 32-byte Solana account address.
type Address [Size]byte

// FromPublicKey wraps a 32-byte Ed25519 public key as an Address.
func FromPublicKey(pub []byte) (Address, error) {
	var addr Address
	if len(pub) != Size {
		return addr, fmt.Errorf("sol: public key must be %d bytes: %w", Size, walleterr.ErrInvalidInput)
	}
	copy(addr[:], pub)
	return addr, nil
}

// String renders the address via plain Base58.
func (a Address) String() string {
	return base58check.Encode(a[:])
}

// Bytes returns a fresh copy of the address bytes.
func (a Address) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, a[:])
	return out
}

// Parse decodes a Base58 Solana address string.
func Parse(s string) (Address, error) {
	var addr Address
	decoded, err := base58check.Decode(s)
	if err != nil {
		return addr, err
	}
	if len(decoded) != Size {
		return addr, fmt.Errorf("sol: decoded address must be %d bytes, got %d: %w", Size, len(decoded), walleterr.ErrAddressFormat)
	}
	copy(addr[:], decoded)
	return addr, nil
}
