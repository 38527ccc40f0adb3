// Package base58check implements Base58 and Base58Check encoding per
// §4.8: the Bitcoin/TRON alphabet, leading-zero preservation, and a
// 4-byte double-SHA-256 checksum.
package base58check

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"

	"github.com/vaultedge/walletcore/hash"
	"github.com/vaultedge/walletcore/walleterr"
)

const checksumLen = 4

// Encode returns the plain Base58 encoding of data (no checksum).
func Encode(data []byte) string {
	return base58.Encode(data)
}

// Decode reverses Encode. It returns walleterr.ErrInvalidInput if s
// contains a character outside the Base58 alphabet.
func Decode(s string) ([]byte, error) {
	decoded := base58.Decode(s)
	if len(decoded) == 0 && s != "" && !allOnes(s) {
		return nil, fmt.Errorf("base58check: invalid character in %q: %w", s, walleterr.ErrInvalidInput)
	}
	return decoded, nil
}

func allOnes(s string) bool {
	for _, c := range s {
		if c != '1' {
			return false
		}
	}
	return true
}

// EncodeCheck prepends versionByte to payload, appends the first 4
// bytes of double-SHA-256(version ‖ payload), and Base58-encodes the
// result.
func EncodeCheck(versionByte byte, payload []byte) string {
	buf := make([]byte, 0, 1+len(payload)+checksumLen)
	buf = append(buf, versionByte)
	buf = append(buf, payload...)
	sum := hash.DoubleSHA256(buf)
	buf = append(buf, sum[:checksumLen]...)
	return base58.Encode(buf)
}

// DecodeCheck reverses EncodeCheck, returning the version byte and
// payload. It fails with ErrChecksumMismatch when the trailing 4 bytes
// disagree with the recomputed checksum, and ErrInvalidInput for any
// other malformation (bad character, too short).
func DecodeCheck(s string) (versionByte byte, payload []byte, err error) {
	decoded := base58.Decode(s)
	if len(decoded) < 1+checksumLen {
		return 0, nil, fmt.Errorf("base58check: %q too short to contain a checksum: %w", s, walleterr.ErrInvalidInput)
	}
	body := decoded[:len(decoded)-checksumLen]
	gotSum := decoded[len(decoded)-checksumLen:]
	wantSum := hash.DoubleSHA256(body)
	for i := 0; i < checksumLen; i++ {
		if gotSum[i] != wantSum[i] {
			return 0, nil, fmt.Errorf("base58check: %w", walleterr.ErrChecksumMismatch)
		}
	}
	return body[0], body[1:], nil
}

// EncodeCheckFullPayload Base58Check-encodes a payload that already
// includes its own prefix/version byte as its first byte (TRON's
// variant, per §4.8).
func EncodeCheckFullPayload(payload []byte) (string, error) {
	if len(payload) == 0 {
		return "", fmt.Errorf("base58check: empty payload: %w", walleterr.ErrInvalidInput)
	}
	return EncodeCheck(payload[0], payload[1:]), nil
}

// DecodeCheckFullPayload reverses EncodeCheckFullPayload, returning the
// full payload with its prefix byte as element 0.
func DecodeCheckFullPayload(s string) ([]byte, error) {
	version, rest, err := DecodeCheck(s)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, 1+len(rest))
	out = append(out, version)
	out = append(out, rest...)
	return out, nil
}
