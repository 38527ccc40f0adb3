// Package bip39 implements entropy<->mnemonic conversion with the
// BIP-39 checksum and PBKDF2-HMAC-SHA512 seed derivation. The English
// wordlist is reused from tyler-smith/go-bip39; entropy/checksum
// accounting and seed derivation are implemented directly so that a
// checksum failure and a malformed-mnemonic failure surface as
// distinguishable errors (the upstream library returns one untyped
// error for both).
package bip39

import (
	"crypto/sha512"
	"fmt"
	"strings"

	gobip39 "github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/text/unicode/norm"

	"github.com/vaultedge/walletcore/bytesutil"
	"github.com/vaultedge/walletcore/hash"
	"github.com/vaultedge/walletcore/walleterr"
)

// SeedSize is the length in bytes of a derived BIP-39 seed.
const SeedSize = 64

const (
	pbkdf2Iterations = 2048
	seedSaltPrefix   = "mnemonic"
)

var validEntropyBits = map[int]bool{128: true, 160: true, 192: true, 224: true, 256: true}

var (
	wordlist  = gobip39.GetWordList()
	wordIndex = buildWordIndex(wordlist)
)

func buildWordIndex(words []string) map[string]int {
	m := make(map[string]int, len(words))
	for i, w := range words {
		m[w] = i
	}
	return m
}

// NewEntropy returns bits/8 bytes of CSPRNG entropy. bits must be one of
// 128, 160, 192, 224, 256.
func NewEntropy(bits int) ([]byte, error) {
	if !validEntropyBits[bits] {
		return nil, fmt.Errorf("bip39: entropy size %d bits is not one of 128/160/192/224/256: %w", bits, walleterr.ErrInvalidInput)
	}
	return bytesutil.RandomBytes(bits / 8)
}

// NewMnemonic encodes entropy (16/20/24/28/32 bytes) as a mnemonic: the
// checksum (entropy_bits/32 bits, taken from the top of SHA-256(entropy))
// is appended before splitting into 11-bit word indices.
func NewMnemonic(entropy []byte) (string, error) {
	entropyBits := len(entropy) * 8
	if !validEntropyBits[entropyBits] {
		return "", fmt.Errorf("bip39: entropy must be 16/20/24/28/32 bytes, got %d: %w", len(entropy), walleterr.ErrInvalidInput)
	}
	checksumBits := entropyBits / 32
	checksum := hash.SHA256(entropy)

	bits := bytesToBits(entropy)
	bits = append(bits, bytesToBits(checksum)[:checksumBits]...)

	words := make([]string, 0, len(bits)/11)
	for i := 0; i < len(bits); i += 11 {
		idx := bitsToUint(bits[i : i+11])
		words = append(words, wordlist[idx])
	}
	return strings.Join(words, " "), nil
}

// EntropyFromMnemonic recovers the original entropy from a mnemonic,
// verifying word-count, wordlist membership, and checksum. Comparison
// is case-insensitive.
func EntropyFromMnemonic(mnemonic string) ([]byte, error) {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(mnemonic)))
	switch len(words) {
	case 12, 15, 18, 21, 24:
	default:
		return nil, fmt.Errorf("bip39: mnemonic has %d words, want 12/15/18/21/24: %w", len(words), walleterr.ErrInvalidInput)
	}

	totalBits := len(words) * 11
	entropyBits := totalBits * 32 / 33
	checksumBits := totalBits - entropyBits

	bits := make([]bool, 0, totalBits)
	for _, w := range words {
		idx, ok := wordIndex[w]
		if !ok {
			return nil, fmt.Errorf("bip39: word %q is not in the wordlist: %w", w, walleterr.ErrInvalidInput)
		}
		bits = append(bits, uintToBits(idx, 11)...)
	}

	entropy := bitsToBytes(bits[:entropyBits])
	wantChecksum := bytesToBits(hash.SHA256(entropy))[:checksumBits]
	gotChecksum := bits[entropyBits:]
	for i := range wantChecksum {
		if wantChecksum[i] != gotChecksum[i] {
			return nil, fmt.Errorf("bip39: checksum mismatch: %w", walleterr.ErrChecksumMismatch)
		}
	}
	return entropy, nil
}

// Validate reports whether mnemonic has a valid word count, every word
// in the wordlist, and a matching checksum.
func Validate(mnemonic string) bool {
	_, err := EntropyFromMnemonic(mnemonic)
	return err == nil
}

// SeedFromMnemonic derives the 64-byte seed via
// PBKDF2-HMAC-SHA512(NFKD(mnemonic), "mnemonic"+NFKD(passphrase), 2048,
// 64). Words are rejoined with single spaces before NFKD, since NFKD
// does not collapse runs of whitespace between them and the reference
// derivation defines the password as the words "joined by a single
// space". It does not require the mnemonic to pass checksum
// validation, matching the reference BIP-39 seed derivation.
func SeedFromMnemonic(mnemonic, passphrase string) []byte {
	normalizedMnemonic := norm.NFKD.String(strings.Join(strings.Fields(mnemonic), " "))
	salt := norm.NFKD.String(seedSaltPrefix + passphrase)
	return pbkdf2.Key([]byte(normalizedMnemonic), []byte(salt), pbkdf2Iterations, SeedSize, sha512.New)
}

func bytesToBits(b []byte) []bool {
	bits := make([]bool, len(b)*8)
	for i, byt := range b {
		for j := 0; j < 8; j++ {
			bits[i*8+j] = byt&(1<<(7-j)) != 0
		}
	}
	return bits
}

func uintToBits(v, n int) []bool {
	bits := make([]bool, n)
	for i := 0; i < n; i++ {
		bits[i] = v&(1<<(n-1-i)) != 0
	}
	return bits
}

func bitsToUint(bits []bool) int {
	v := 0
	for _, b := range bits {
		v <<= 1
		if b {
			v |= 1
		}
	}
	return v
}

func bitsToBytes(bits []bool) []byte {
	out := make([]byte, len(bits)/8)
	for i := range out {
		var b byte
		for j := 0; j < 8; j++ {
			b <<= 1
			if bits[i*8+j] {
				b |= 1
			}
		}
		out[i] = b
	}
	return out
}
