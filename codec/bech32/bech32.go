// Package bech32 implements Bech32 and Bech32m (BIP-173 / BIP-350)
// encoding, decoding, and the SegWit witness-program address variant
// built on top of them, per §4.9. The charset/checksum arithmetic
// delegates to btcsuite/btcd's bech32 package — already a direct
// dependency of this module via codec/base58check's use of
// btcutil/base58 — so only the witness-version/encoding pairing and
// address assembly below is specific to this module.
package bech32

import (
	"fmt"
	"strings"

	btcbech32 "github.com/btcsuite/btcd/btcutil/bech32"

	"github.com/vaultedge/walletcore/walleterr"
)

// Checksum constants distinguishing Bech32 from Bech32m (BIP-350).
const (
	ConstBech32  uint32 = 1
	ConstBech32m uint32 = 0x2bc830a3
)

const maxLength = 90

// Encode builds a Bech32 (constVal=ConstBech32) or Bech32m
// (constVal=ConstBech32m) string from hrp and 5-bit data values.
func Encode(hrp string, data []int, constVal uint32) (string, error) {
	if hrp == "" {
		return "", fmt.Errorf("bech32: empty hrp: %w", walleterr.ErrInvalidInput)
	}
	raw, err := intsToBytes(data)
	if err != nil {
		return "", err
	}

	var out string
	switch constVal {
	case ConstBech32:
		out, err = btcbech32.Encode(hrp, raw)
	case ConstBech32m:
		out, err = btcbech32.EncodeM(hrp, raw)
	default:
		return "", fmt.Errorf("bech32: unknown checksum constant 0x%x: %w", constVal, walleterr.ErrInvalidInput)
	}
	if err != nil {
		return "", fmt.Errorf("bech32: %v: %w", err, walleterr.ErrInvalidInput)
	}
	if len(out) > maxLength {
		return "", fmt.Errorf("bech32: encoded length %d exceeds %d: %w", len(out), maxLength, walleterr.ErrInvalidInput)
	}
	return out, nil
}

// Decode parses a Bech32 or Bech32m string, returning its hrp, 5-bit
// data values (without the checksum), and which constant the checksum
// verified against.
func Decode(s string) (hrp string, data []int, constVal uint32, err error) {
	if len(s) > maxLength {
		return "", nil, 0, fmt.Errorf("bech32: length %d exceeds %d: %w", len(s), maxLength, walleterr.ErrAddressFormat)
	}

	gotHRP, raw, enc, decodeErr := btcbech32.DecodeGeneric(s)
	if decodeErr != nil {
		if strings.Contains(strings.ToLower(decodeErr.Error()), "checksum") {
			return "", nil, 0, fmt.Errorf("bech32: %w", walleterr.ErrChecksumMismatch)
		}
		return "", nil, 0, fmt.Errorf("bech32: %v: %w", decodeErr, walleterr.ErrAddressFormat)
	}

	switch enc {
	case btcbech32.Bech32:
		constVal = ConstBech32
	case btcbech32.Bech32m:
		constVal = ConstBech32m
	default:
		return "", nil, 0, fmt.Errorf("bech32: unknown encoding variant: %w", walleterr.ErrAddressFormat)
	}
	return gotHRP, bytesToInts(raw), constVal, nil
}

// ConvertBits regroups data from fromBits-wide values to toBits-wide
// values. When pad is true, the output is zero-padded to a whole
// toBits-wide group; when false, a non-zero-padding final group or
// leftover bits of toBits or more is an error.
func ConvertBits(data []int, fromBits, toBits uint, pad bool) ([]int, error) {
	raw, err := intsToBytes(data)
	if err != nil {
		return nil, err
	}
	converted, err := btcbech32.ConvertBits(raw, uint8(fromBits), uint8(toBits), pad)
	if err != nil {
		return nil, fmt.Errorf("bech32: %v: %w", err, walleterr.ErrInvalidInput)
	}
	return bytesToInts(converted), nil
}

func intsToBytes(data []int) ([]byte, error) {
	out := make([]byte, len(data))
	for i, v := range data {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("bech32: value %d out of byte range: %w", v, walleterr.ErrInvalidInput)
		}
		out[i] = byte(v)
	}
	return out, nil
}

func bytesToInts(data []byte) []int {
	out := make([]int, len(data))
	for i, b := range data {
		out[i] = int(b)
	}
	return out
}

// EncodeSegWitAddress encodes a SegWit witness program (version, data)
// under hrp, selecting Bech32 for version 0 and Bech32m for version>=1
// per BIP-350.
func EncodeSegWitAddress(hrp string, version int, program []byte) (string, error) {
	if version < 0 || version > 16 {
		return "", fmt.Errorf("bech32: witness version %d out of range: %w", version, walleterr.ErrInvalidInput)
	}
	if len(program) < 2 || len(program) > 40 {
		return "", fmt.Errorf("bech32: witness program length %d out of range: %w", len(program), walleterr.ErrInvalidInput)
	}
	if version == 0 && len(program) != 20 && len(program) != 32 {
		return "", fmt.Errorf("bech32: v0 witness program must be 20 or 32 bytes, got %d: %w", len(program), walleterr.ErrInvalidInput)
	}

	programInts := make([]int, len(program))
	for i, b := range program {
		programInts[i] = int(b)
	}
	converted, err := ConvertBits(programInts, 8, 5, true)
	if err != nil {
		return "", err
	}
	data := append([]int{version}, converted...)

	constVal := ConstBech32
	if version >= 1 {
		constVal = ConstBech32m
	}
	return Encode(hrp, data, constVal)
}

// DecodeSegWitAddress decodes a SegWit Bech32/Bech32m address, enforcing
// the version<->encoding pairing and witness-program length rules.
func DecodeSegWitAddress(expectedHRP, s string) (version int, program []byte, err error) {
	hrp, data, constVal, err := Decode(s)
	if err != nil {
		return 0, nil, err
	}
	if hrp != expectedHRP {
		return 0, nil, fmt.Errorf("bech32: hrp %q does not match expected %q: %w", hrp, expectedHRP, walleterr.ErrAddressFormat)
	}
	if len(data) < 1 {
		return 0, nil, fmt.Errorf("bech32: empty witness data: %w", walleterr.ErrAddressFormat)
	}

	version = data[0]
	if version == 0 && constVal != ConstBech32 {
		return 0, nil, fmt.Errorf("bech32: witness v0 must use Bech32, not Bech32m: %w", walleterr.ErrAddressFormat)
	}
	if version >= 1 && constVal != ConstBech32m {
		return 0, nil, fmt.Errorf("bech32: witness v%d must use Bech32m, not Bech32: %w", version, walleterr.ErrAddressFormat)
	}

	converted, err := ConvertBits(data[1:], 5, 8, false)
	if err != nil {
		return 0, nil, fmt.Errorf("bech32: %w", walleterr.ErrAddressFormat)
	}
	if len(converted) < 2 || len(converted) > 40 {
		return 0, nil, fmt.Errorf("bech32: witness program length %d out of range: %w", len(converted), walleterr.ErrAddressFormat)
	}
	if version == 0 && len(converted) != 20 && len(converted) != 32 {
		return 0, nil, fmt.Errorf("bech32: v0 witness program must be 20 or 32 bytes, got %d: %w", len(converted), walleterr.ErrAddressFormat)
	}
	if version == 1 && len(converted) != 32 {
		return 0, nil, fmt.Errorf("bech32: v1 witness program must be 32 bytes, got %d: %w", len(converted), walleterr.ErrAddressFormat)
	}

	program = make([]byte, len(converted))
	for i, v := range converted {
		program[i] = byte(v)
	}
	return version, program, nil
}
