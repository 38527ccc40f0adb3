// Package ed25519 implements the module's EdDSA signer used by the
// SLIP10_ED25519 scheme (Solana today; any other Ed25519-based chain
// tomorrow). Ed25519 hashes the message internally, so signing never
// takes a pre-hash.
package ed25519

import (
	"crypto/ed25519"
	"fmt"

	"github.com/vaultedge/walletcore/bytesutil"
	"github.com/vaultedge/walletcore/walleterr"
)

// SeedSize is the length in bytes of an Ed25519 seed (SLIP-10's "priv").
const SeedSize = ed25519.SeedSize

// PublicKeySize is the length in bytes of an Ed25519 public key.
const PublicKeySize = ed25519.PublicKeySize

// SignatureSize is the length in bytes of an Ed25519 signature.
const SignatureSize = ed25519.SignatureSize

// KeyPair is the SigningKey implementation for the SLIP10_ED25519
// scheme. It exclusively owns its seed; Destroy wipes it.
type KeyPair struct {
	seed      [SeedSize]byte
	priv      ed25519.PrivateKey
	destroyed bool
}

// NewKeyPair constructs a KeyPair from a 32-byte seed.
func NewKeyPair(seed []byte) (*KeyPair, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("ed25519: seed must be %d bytes: %w", SeedSize, walleterr.ErrInvalidInput)
	}
	kp := &KeyPair{priv: ed25519.NewKeyFromSeed(seed)}
	copy(kp.seed[:], seed)
	return kp, nil
}

// Destroy wipes the seed and derived private key. Idempotent.
func (k *KeyPair) Destroy() {
	if k.destroyed {
		return
	}
	bytesutil.SecureWipe(k.seed[:])
	bytesutil.SecureWipe(k.priv)
	k.destroyed = true
}

// PublicKey returns a fresh copy of the 32-byte public key.
func (k *KeyPair) PublicKey() ([]byte, error) {
	if k.destroyed {
		return nil, walleterr.ErrDestroyed
	}
	out := make([]byte, PublicKeySize)
	copy(out, k.priv[SeedSize:])
	return out, nil
}

// Scheme identifies this signer's (algorithm, curve) pair.
func (k *KeyPair) Scheme() string { return "SLIP10_ED25519" }

// Sign signs message directly (no pre-hash) and returns the 64-byte
// signature.
func (k *KeyPair) Sign(message []byte) ([]byte, error) {
	if k.destroyed {
		return nil, walleterr.ErrDestroyed
	}
	return ed25519.Sign(k.priv, message), nil
}

// DerivePublicKey computes the 32-byte public key for a raw 32-byte
// seed without constructing a KeyPair.
func DerivePublicKey(seed []byte) ([]byte, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("ed25519: seed must be %d bytes: %w", SeedSize, walleterr.ErrInvalidInput)
	}
	priv := ed25519.NewKeyFromSeed(seed)
	defer bytesutil.SecureWipe(priv)
	out := make([]byte, PublicKeySize)
	copy(out, priv[SeedSize:])
	return out, nil
}

// Sign signs message with a raw 32-byte seed, returning a 64-byte
// signature.
func Sign(seed, message []byte) ([]byte, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("ed25519: seed must be %d bytes: %w", SeedSize, walleterr.ErrInvalidInput)
	}
	priv := ed25519.NewKeyFromSeed(seed)
	defer bytesutil.SecureWipe(priv)
	return ed25519.Sign(priv, message), nil
}

// Verify reports whether sig is a valid Ed25519 signature of message
// under pub. Mis-sized inputs return false rather than panicking.
func Verify(message, sig, pub []byte) bool {
	if len(pub) != PublicKeySize || len(sig) != SignatureSize {
		return false
	}
	return ed25519.Verify(pub, message, sig)
}
