// Package secp256k1 implements the module's ECDSA-over-secp256k1 signer:
// deterministic (RFC 6979) signing with low-S normalization and public
// key recovery, built on top of btcsuite/btcd's secp256k1 curve
// implementation (the same library the teacher uses for every chain's
// key derivation).
package secp256k1

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/vaultedge/walletcore/bytesutil"
	"github.com/vaultedge/walletcore/walleterr"
)

// PrivateKeySize is the length in bytes of a secp256k1 scalar.
const PrivateKeySize = 32

// KeyPair is the SigningKey implementation for the BIP32_SECP256K1
// scheme. It exclusively owns its private scalar; Destroy wipes it and
// makes every subsequent method return walleterr.ErrDestroyed.
type KeyPair struct {
	priv      *btcec.PrivateKey
	raw       [PrivateKeySize]byte
	destroyed bool
}

// NewKeyPair constructs a KeyPair from a 32-byte scalar. The input is
// copied; the caller's slice is not retained.
func NewKeyPair(priv []byte) (*KeyPair, error) {
	if len(priv) != PrivateKeySize {
		return nil, fmt.Errorf("secp256k1: private key must be %d bytes: %w", PrivateKeySize, walleterr.ErrInvalidInput)
	}
	kp := &KeyPair{priv: btcec.PrivKeyFromBytes(priv)}
	copy(kp.raw[:], priv)
	return kp, nil
}

// Destroy wipes the private scalar. Idempotent; never returns an error.
func (k *KeyPair) Destroy() {
	if k.destroyed {
		return
	}
	bytesutil.SecureWipe(k.raw[:])
	k.priv.Zero()
	k.destroyed = true
}

// PrivateKeyBytes returns a fresh copy of the 32-byte scalar.
func (k *KeyPair) PrivateKeyBytes() ([]byte, error) {
	if k.destroyed {
		return nil, walleterr.ErrDestroyed
	}
	out := make([]byte, PrivateKeySize)
	copy(out, k.raw[:])
	return out, nil
}

// PublicKey returns the SEC1-encoded public key, compressed (33 bytes)
// or uncompressed (65 bytes).
func (k *KeyPair) PublicKey(compressed bool) ([]byte, error) {
	if k.destroyed {
		return nil, walleterr.ErrDestroyed
	}
	pub := k.priv.PubKey()
	if compressed {
		return pub.SerializeCompressed(), nil
	}
	return pub.SerializeUncompressed(), nil
}

// Scheme identifies this signer's (algorithm, curve) pair.
func (k *KeyPair) Scheme() string { return "BIP32_SECP256K1" }

// Sign produces a deterministic, low-S, recovery-enabled signature over
// a 32-byte hash. See Sign (package function) for the algorithm.
func (k *KeyPair) Sign(hash32 []byte) (*Signature, error) {
	if k.destroyed {
		return nil, walleterr.ErrDestroyed
	}
	return sign(k.priv, hash32)
}

// DerivePublicKey computes the SEC1-encoded public key for a raw
// 32-byte private scalar without constructing a KeyPair.
func DerivePublicKey(priv []byte, compressed bool) ([]byte, error) {
	if len(priv) != PrivateKeySize {
		return nil, fmt.Errorf("secp256k1: private key must be %d bytes: %w", PrivateKeySize, walleterr.ErrInvalidInput)
	}
	key := btcec.PrivKeyFromBytes(priv)
	defer key.Zero()
	pub := key.PubKey()
	if compressed {
		return pub.SerializeCompressed(), nil
	}
	return pub.SerializeUncompressed(), nil
}
