// Package bytesutil provides the byte-level primitives every other
// package in this module builds on: constant-time comparison, secure
// wipe, left-padding, leading-zero stripping, and OS-backed randomness.
package bytesutil

import (
	"crypto/rand"
	"fmt"
)

// ConstantTimeEq reports whether a and b hold the same bytes, taking
// time independent of where they first differ. Unequal lengths return
// false immediately (length itself is not treated as secret here).
func ConstantTimeEq(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var acc byte
	for i := range a {
		acc |= a[i] ^ b[i]
	}
	return acc == 0
}

// SecureWipe overwrites buf with zero bytes in place. The loop form
// (rather than a single bulk clear) keeps the compiler from recognizing
// and eliding a dead store to a buffer that is about to go out of scope.
func SecureWipe(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}

// PadLeft returns x left-padded with zero bytes to length n. If x is
// already n bytes or longer, its trailing n bytes are returned.
func PadLeft(x []byte, n int) []byte {
	if len(x) >= n {
		return x[len(x)-n:]
	}
	out := make([]byte, n)
	copy(out[n-len(x):], x)
	return out
}

// StripLeadingZeros drops leading zero bytes from x, preserving a
// single zero byte for an all-zero or empty input.
func StripLeadingZeros(x []byte) []byte {
	i := 0
	for i < len(x) && x[i] == 0 {
		i++
	}
	if i == len(x) {
		return []byte{0}
	}
	return x[i:]
}

// RandomBytes returns n cryptographically secure random bytes sourced
// from the OS CSPRNG.
func RandomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("bytesutil: read random bytes: %w", err)
	}
	return buf, nil
}
