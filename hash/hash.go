// Package hash provides the stateless hashing primitives used across the
// module: SHA-256 (+double), Keccak-256 (the Ethereum/NIST-draft
// variant, not SHA3-256), RIPEMD-160, Blake2b, and HMAC-SHA-256/512.
// Every function allocates and returns a fresh array; there is no
// shared mutable state.
package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // RIPEMD-160 is required by Bitcoin's HASH160
	"golang.org/x/crypto/sha3"
)

// SHA256 returns the SHA-256 digest of data.
func SHA256(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// DoubleSHA256 returns SHA-256(SHA-256(data)), as used by Bitcoin and
// TRON checksums and transaction ids.
func DoubleSHA256(data []byte) [32]byte {
	first := sha256.Sum256(data)
	return sha256.Sum256(first[:])
}

// Keccak256 returns the Keccak-256 digest of data using the original
// (pre-NIST-finalization) padding, as used by Ethereum and TRON. This
// is deliberately not SHA3-256, which uses different padding.
func Keccak256(data []byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// RIPEMD160 returns the RIPEMD-160 digest of data.
func RIPEMD160(data []byte) [20]byte {
	h := ripemd160.New()
	h.Write(data)
	var out [20]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Hash160 returns RIPEMD160(SHA256(data)), Bitcoin's standard pubkey/
// script hash.
func Hash160(data []byte) [20]byte {
	s := sha256.Sum256(data)
	return RIPEMD160(s[:])
}

// Blake2b256 returns the 32-byte Blake2b digest of data.
func Blake2b256(data []byte) ([32]byte, error) {
	var digest [32]byte
	out, err := blake2bSum(data, 32)
	if err != nil {
		return digest, err
	}
	copy(digest[:], out[:32])
	return digest, nil
}

// Blake2b returns the Blake2b digest of data at the requested length in
// bytes (1..=64).
func Blake2b(data []byte, size int) ([]byte, error) {
	out, err := blake2bSum(data, size)
	if err != nil {
		return nil, err
	}
	return out[:size], nil
}

func blake2bSum(data []byte, size int) ([64]byte, error) {
	var zero [64]byte
	h, err := blake2b.New(size, nil)
	if err != nil {
		return zero, fmt.Errorf("hash: blake2b init: %w", err)
	}
	h.Write(data)
	var out [64]byte
	copy(out[:], h.Sum(nil))
	return out, nil
}

// HMACSHA256 returns HMAC-SHA-256(key, data).
func HMACSHA256(key, data []byte) [32]byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	var out [32]byte
	copy(out[:], mac.Sum(nil))
	return out
}

// HMACSHA512 returns HMAC-SHA-512(key, data).
func HMACSHA512(key, data []byte) [64]byte {
	mac := hmac.New(sha512.New, key)
	mac.Write(data)
	var out [64]byte
	copy(out[:], mac.Sum(nil))
	return out
}
