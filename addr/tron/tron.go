// Package tron implements TRON address derivation and encoding: the
// same 20-byte EVM-style derivation, prefixed with the mainnet byte
// 0x41 and rendered via Base58Check, per §4.10.
package tron

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/vaultedge/walletcore/codec/base58check"
	"github.com/vaultedge/walletcore/hash"
	"github.com/vaultedge/walletcore/walleterr"
)

// AddressPrefix is TRON mainnet's address version byte.
const AddressPrefix byte = 0x41

// Size is the length in bytes of a TRON address, prefix included.
const Size = 21

// Address is a 21-byte TRON account address (prefix 0x41 ‖ 20-byte hash).
type Address [Size]byte

// FromPublicKey derives the address from an uncompressed (65-byte,
// 0x04-prefixed) SEC1 public key.
func FromPublicKey(uncompressedPub []byte) (Address, error) {
	var addr Address
	if len(uncompressedPub) != 65 || uncompressedPub[0] != 0x04 {
		return addr, fmt.Errorf("tron: expected a 65-byte uncompressed public key: %w", walleterr.ErrInvalidInput)
	}
	digest := hash.Keccak256(uncompressedPub[1:])
	addr[0] = AddressPrefix
	copy(addr[1:], digest[12:32])
	return addr, nil
}

// String renders the address via Base58Check.
func (a Address) String() string {
	s, _ := base58check.EncodeCheckFullPayload(a[:])
	return s
}

// Hex renders the address as 42 lowercase hex characters (0x41 prefix
// included, no 0x marker), matching §8 scenario 2's expected form.
func (a Address) Hex() string {
	return hex.EncodeToString(a[:])
}

// Bytes returns a fresh copy of the address bytes.
func (a Address) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, a[:])
	return out
}

// Parse accepts a Base58Check string starting with "T" or a 42-char hex
// string with a 0x41 prefix (optional 0x marker).
func Parse(s string) (Address, error) {
	var addr Address
	if strings.HasPrefix(s, "T") {
		decoded, err := base58check.DecodeCheckFullPayload(s)
		if err != nil {
			return addr, err
		}
		if len(decoded) != Size || decoded[0] != AddressPrefix {
			return addr, fmt.Errorf("tron: decoded payload is not a 21-byte 0x41-prefixed address: %w", walleterr.ErrAddressFormat)
		}
		copy(addr[:], decoded)
		return addr, nil
	}

	hexStr := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(hexStr) != 2*Size {
		return addr, fmt.Errorf("tron: hex address must be %d hex chars: %w", 2*Size, walleterr.ErrAddressFormat)
	}
	b, err := hex.DecodeString(hexStr)
	if err != nil {
		return addr, fmt.Errorf("tron: invalid hex: %w", walleterr.ErrAddressFormat)
	}
	if b[0] != AddressPrefix {
		return addr, fmt.Errorf("tron: expected 0x41 prefix, got 0x%02x: %w", b[0], walleterr.ErrAddressFormat)
	}
	copy(addr[:], b)
	return addr, nil
}
