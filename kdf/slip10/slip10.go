// Package slip10 implements the Ed25519 hierarchical-deterministic key
// tree of SLIP-10: unlike BIP-32, Ed25519 has no public-key-only
// derivation, so every child index must be hardened.
package slip10

import (
	"fmt"

	"github.com/vaultedge/walletcore/bytesutil"
	"github.com/vaultedge/walletcore/hash"
	"github.com/vaultedge/walletcore/kdf/bip32"
	"github.com/vaultedge/walletcore/walleterr"
)

const seedHMACKey = "ed25519 seed"

// ExtendedKey is an Ed25519 (seed, chain_code) pair at a given depth.
// Destroy wipes both.
type ExtendedKey struct {
	seed      [32]byte
	chainCode [32]byte
	depth     uint8
	path      string
	destroyed bool
}

// Depth returns the number of derivation steps from the master key.
func (k *ExtendedKey) Depth() uint8 { return k.depth }

// Path returns the derivation path string that produced this key.
func (k *ExtendedKey) Path() string { return k.path }

// Seed returns a fresh copy of the 32-byte Ed25519 seed.
func (k *ExtendedKey) Seed() ([]byte, error) {
	if k.destroyed {
		return nil, walleterr.ErrDestroyed
	}
	out := make([]byte, 32)
	copy(out, k.seed[:])
	return out, nil
}

// ChainCode returns a fresh copy of the 32-byte chain code.
func (k *ExtendedKey) ChainCode() ([]byte, error) {
	if k.destroyed {
		return nil, walleterr.ErrDestroyed
	}
	out := make([]byte, 32)
	copy(out, k.chainCode[:])
	return out, nil
}

// Destroy wipes the seed and chain code. Idempotent.
func (k *ExtendedKey) Destroy() {
	if k.destroyed {
		return
	}
	bytesutil.SecureWipe(k.seed[:])
	bytesutil.SecureWipe(k.chainCode[:])
	k.destroyed = true
}

// MasterFromSeed derives the SLIP-10 Ed25519 master key from a BIP-39
// seed (or any sufficiently random byte string).
func MasterFromSeed(seed []byte) (*ExtendedKey, error) {
	i := hash.HMACSHA512([]byte(seedHMACKey), seed)
	k := &ExtendedKey{depth: 0, path: "m"}
	copy(k.seed[:], i[:32])
	copy(k.chainCode[:], i[32:])
	return k, nil
}

// CKD derives the hardened child at index from parent. index is taken
// as the raw (unhardened) child number; the hardened offset is applied
// internally, matching SLIP-10's "every index is hardened" rule. Passing
// an index that already carries the hardened bit is an error: SLIP-10
// has no non-hardened derivation to fall back to.
func CKD(parent *ExtendedKey, index uint32) (*ExtendedKey, error) {
	if parent.destroyed {
		return nil, walleterr.ErrDestroyed
	}
	if index >= bip32.HardenedOffset {
		return nil, fmt.Errorf("slip10: index %d already hardened: %w", index, walleterr.ErrHardenedRequired)
	}

	hardenedIndex := index + bip32.HardenedOffset
	data := make([]byte, 0, 1+32+4)
	data = append(data, 0x00)
	data = append(data, parent.seed[:]...)
	data = append(data, be32(hardenedIndex)...)

	i := hash.HMACSHA512(parent.chainCode[:], data)
	child := &ExtendedKey{
		depth: parent.depth + 1,
		path:  fmt.Sprintf("%s/%d'", parent.path, index),
	}
	copy(child.seed[:], i[:32])
	copy(child.chainCode[:], i[32:])
	return child, nil
}

func be32(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

// DerivePath derives the extended key at path starting from master.
// Every segment of path must be hardened (trailing ' or h); a
// non-hardened segment returns walleterr.ErrHardenedRequired.
// Intermediate extended keys are destroyed as soon as consumed.
func DerivePath(master *ExtendedKey, path string) (*ExtendedKey, error) {
	indices, err := bip32.ParsePath(path)
	if err != nil {
		return nil, err
	}
	current := master
	owned := false
	for _, idx := range indices {
		if idx < bip32.HardenedOffset {
			if owned {
				current.Destroy()
			}
			return nil, fmt.Errorf("slip10: path %q: %w", path, walleterr.ErrHardenedRequired)
		}
		next, err := CKD(current, idx-bip32.HardenedOffset)
		if err != nil {
			if owned {
				current.Destroy()
			}
			return nil, err
		}
		if owned {
			current.Destroy()
		}
		current = next
		owned = true
	}
	if !owned {
		clone := &ExtendedKey{depth: master.depth, path: master.path}
		seed, err := master.Seed()
		if err != nil {
			return nil, err
		}
		cc, err := master.ChainCode()
		if err != nil {
			return nil, err
		}
		copy(clone.seed[:], seed)
		copy(clone.chainCode[:], cc)
		bytesutil.SecureWipe(seed)
		bytesutil.SecureWipe(cc)
		return clone, nil
	}
	return current, nil
}
