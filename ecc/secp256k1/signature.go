package secp256k1

import (
	"fmt"

	"github.com/vaultedge/walletcore/bytesutil"
	"github.com/vaultedge/walletcore/walleterr"
)

// Signature is the Secp256k1Signature sum-type variant of §3: r and s
// are 32-byte big-endian integers, v is the recovery id in [0,3].
type Signature struct {
	R [32]byte
	S [32]byte
	V byte
}

// Bytes returns r ‖ s ‖ v (65 bytes).
func (s *Signature) Bytes() []byte {
	out := make([]byte, 65)
	copy(out[0:32], s.R[:])
	copy(out[32:64], s.S[:])
	out[64] = s.V
	return out
}

// ToCompact is an alias of Bytes, named for the §4.3 from_compact/
// to_compact round-trip contract.
func (s *Signature) ToCompact() []byte { return s.Bytes() }

// FromCompact parses a 65-byte r‖s‖v signature.
func FromCompact(b []byte) (*Signature, error) {
	if len(b) != 65 {
		return nil, fmt.Errorf("secp256k1: compact signature must be 65 bytes: %w", walleterr.ErrInvalidInput)
	}
	sig := &Signature{V: b[64]}
	copy(sig.R[:], b[0:32])
	copy(sig.S[:], b[32:64])
	return sig, nil
}

// ToEIP155 computes the EIP-155 replay-protected v value.
func (s *Signature) ToEIP155(chainID uint64) uint64 {
	return 35 + 2*chainID + uint64(s.V)
}

// ToEthereumV computes the legacy (pre-EIP-155) Ethereum v value.
func (s *Signature) ToEthereumV() byte {
	return 27 + s.V
}

// encodeDER assembles the DER `30 LEN 02 rLEN r 02 sLEN s` encoding used
// by Bitcoin script_sig/witness signatures, per §4.13. Both integers
// are stripped of leading zero bytes and, if the high bit of the first
// remaining byte is set, prefixed with an extra 0x00 to keep them
// non-negative two's-complement values.
func encodeDER(r, s [32]byte) []byte {
	rEnc := derInt(r[:])
	sEnc := derInt(s[:])
	body := make([]byte, 0, 4+len(rEnc)+len(sEnc))
	body = append(body, 0x02, byte(len(rEnc)))
	body = append(body, rEnc...)
	body = append(body, 0x02, byte(len(sEnc)))
	body = append(body, sEnc...)
	out := make([]byte, 0, 2+len(body))
	out = append(out, 0x30, byte(len(body)))
	out = append(out, body...)
	return out
}

func derInt(x []byte) []byte {
	stripped := bytesutil.StripLeadingZeros(x)
	if stripped[0]&0x80 != 0 {
		padded := make([]byte, 0, len(stripped)+1)
		padded = append(padded, 0x00)
		return append(padded, stripped...)
	}
	return stripped
}

// EncodeDER returns the DER encoding of this signature's r and s
// (excluding any sighash-type trailer — callers append that).
func (s *Signature) EncodeDER() []byte {
	return encodeDER(s.R, s.S)
}
