package secp256k1

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"

	"github.com/vaultedge/walletcore/walleterr"
)

const hashSize = 32

// sign implements §4.3: RFC 6979 deterministic k (delegated to btcec's
// ecdsa.SignCompact, which always produces the BIP-62 low-S canonical
// form), then a recovery-id search over the four candidates so the
// returned v is guaranteed to recover the signer's own public key.
func sign(priv *btcec.PrivateKey, hash32 []byte) (*Signature, error) {
	if len(hash32) != hashSize {
		return nil, fmt.Errorf("secp256k1: message hash must be %d bytes: %w", hashSize, walleterr.ErrInvalidInput)
	}

	// isCompressedKey=false yields the 27+recid compact header; the
	// embedded recid may already be the right candidate, but we search
	// all four explicitly to satisfy §4.3's documented algorithm rather
	// than trust the library's internal bookkeeping blindly.
	compact := ecdsa.SignCompact(priv, hash32, false)
	rs := compact[1:65]

	wantPub := priv.PubKey().SerializeCompressed()

	for v := byte(0); v < 4; v++ {
		candidate := make([]byte, 65)
		candidate[0] = 27 + v
		copy(candidate[1:], rs)

		recovered, _, err := ecdsa.RecoverCompact(candidate, hash32)
		if err != nil {
			continue
		}
		if bytes.Equal(recovered.SerializeCompressed(), wantPub) {
			sig := &Signature{V: v}
			copy(sig.R[:], rs[0:32])
			copy(sig.S[:], rs[32:64])
			return sig, nil
		}
	}

	return nil, fmt.Errorf("secp256k1: %w", walleterr.ErrRecoveryFailed)
}

// Sign is the package-level entry point: sign a 32-byte hash with a raw
// 32-byte private scalar.
func Sign(priv []byte, hash32 []byte) (*Signature, error) {
	if len(priv) != PrivateKeySize {
		return nil, fmt.Errorf("secp256k1: private key must be %d bytes: %w", PrivateKeySize, walleterr.ErrInvalidInput)
	}
	key := btcec.PrivKeyFromBytes(priv)
	defer key.Zero()
	return sign(key, hash32)
}

// Verify performs standard ECDSA verification of (r, s) against pub
// (SEC1-encoded, compressed or uncompressed) over hash32. It returns
// false for any malformed input without distinguishing which check
// failed, per §4.3.
func Verify(hash32 []byte, r, s [32]byte, pub []byte) bool {
	if len(hash32) != hashSize {
		return false
	}
	pubKey, err := btcec.ParsePubKey(pub)
	if err != nil {
		return false
	}
	der := encodeDER(r, s)
	sig, err := ecdsa.ParseDERSignature(der)
	if err != nil {
		return false
	}
	return sig.Verify(hash32, pubKey)
}

// RecoverPublicKey implements the standard SECG recovery algorithm: it
// returns the uncompressed (65-byte) public key that produced (r, s, v)
// over hash32, or an error if v is out of range, if the implied R point
// has no valid x-coordinate, or if R has the wrong order.
func RecoverPublicKey(hash32 []byte, r, s [32]byte, v byte) ([]byte, error) {
	if v > 3 {
		return nil, fmt.Errorf("secp256k1: recovery id must be in [0,3]: %w", walleterr.ErrInvalidInput)
	}
	if len(hash32) != hashSize {
		return nil, fmt.Errorf("secp256k1: message hash must be %d bytes: %w", hashSize, walleterr.ErrInvalidInput)
	}
	compact := make([]byte, 65)
	compact[0] = 27 + v
	copy(compact[1:33], r[:])
	copy(compact[33:65], s[:])

	pub, _, err := ecdsa.RecoverCompact(compact, hash32)
	if err != nil {
		return nil, fmt.Errorf("secp256k1: recover public key: %w", err)
	}
	return pub.SerializeUncompressed(), nil
}
