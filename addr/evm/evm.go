// Package evm implements Ethereum-family address derivation and EIP-55
// checksum casing, per §4.10.
package evm

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/vaultedge/walletcore/hash"
	"github.com/vaultedge/walletcore/walleterr"
)

// Size is the length in bytes of an EVM address.
const Size = 20

// Address is a 20-byte EVM account address.
type Address [Size]byte

// FromPublicKey derives the address from an uncompressed (65-byte,
// 0x04-prefixed) SEC1 public key: Keccak-256(pub[1:65])[12:32].
func FromPublicKey(uncompressedPub []byte) (Address, error) {
	var addr Address
	if len(uncompressedPub) != 65 || uncompressedPub[0] != 0x04 {
		return addr, fmt.Errorf("evm: expected a 65-byte uncompressed public key: %w", walleterr.ErrInvalidInput)
	}
	digest := hash.Keccak256(uncompressedPub[1:])
	copy(addr[:], digest[12:32])
	return addr, nil
}

// String renders the address with EIP-55 checksum casing.
func (a Address) String() string {
	return ToChecksum(hex.EncodeToString(a[:]))
}

// Bytes returns a fresh copy of the address bytes.
func (a Address) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, a[:])
	return out
}

// ToChecksum applies EIP-55 casing to a lowercase (or any-case) 40-hex-
// character address, with or without a 0x prefix.
func ToChecksum(addrHex string) string {
	addrHex = strings.TrimPrefix(strings.TrimPrefix(addrHex, "0x"), "0X")
	lower := strings.ToLower(addrHex)
	digest := hash.Keccak256([]byte(lower))
	digestHex := hex.EncodeToString(digest[:])

	out := make([]byte, len(lower))
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		if c >= 'a' && c <= 'f' {
			nibble := digestHex[i]
			if nibble >= '8' {
				c = c - 'a' + 'A'
			}
		}
		out[i] = c
	}
	return "0x" + string(out)
}

// Parse accepts a 40-hex-character address with or without a 0x prefix,
// in any casing, and returns the decoded bytes. It does not verify
// EIP-55 checksum casing; use IsChecksumValid for that.
func Parse(s string) (Address, error) {
	var addr Address
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s) != 2*Size {
		return addr, fmt.Errorf("evm: address must be %d hex chars: %w", 2*Size, walleterr.ErrAddressFormat)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return addr, fmt.Errorf("evm: invalid hex: %w", walleterr.ErrAddressFormat)
	}
	copy(addr[:], b)
	return addr, nil
}

// IsChecksumValid reports whether a mixed-case address string matches
// its own EIP-55 checksum casing. An all-lowercase or all-uppercase
// input is considered unchecksummed and trivially valid, per EIP-55.
func IsChecksumValid(s string) bool {
	stripped := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if stripped == strings.ToLower(stripped) || stripped == strings.ToUpper(stripped) {
		return true
	}
	return ToChecksum(stripped) == "0x"+stripped
}
