// Package bip32 implements the secp256k1 hierarchical-deterministic key
// tree of BIP-32: master-key generation from a seed, hardened and
// non-hardened child key derivation (CKD), and derivation-path parsing.
//
// The arithmetic is implemented directly against the curve order rather
// than delegated to tyler-smith/go-bip32 (otherwise the teacher's choice
// of BIP-32 library — see every wallet/*.go's deriveKey helper) because
// that library's NewChildKey does not surface the I_L>=n / zero-result
// cases of §4.5 as a distinguishable error a caller can retry on; this
// package needs that signal to honor walleterr.ErrDerivationInvalid.
package bip32

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/vaultedge/walletcore/bytesutil"
	"github.com/vaultedge/walletcore/ecc/secp256k1"
	"github.com/vaultedge/walletcore/hash"
	"github.com/vaultedge/walletcore/walleterr"
)

// HardenedOffset is the index at and above which a child is hardened
// (2^31), per BIP-32/BIP-44.
const HardenedOffset uint32 = 0x80000000

const seedHMACKey = "Bitcoin seed"

// curveOrder is the secp256k1 group order n.
var curveOrder, _ = new(big.Int).SetString(
	"FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141", 16)

// ExtendedKey is a (priv, chain_code) pair at a given depth and path,
// exclusively owned: Destroy wipes the scalar and chain code.
type ExtendedKey struct {
	priv      [32]byte
	chainCode [32]byte
	depth     uint8
	path      string
	destroyed bool
}

// Depth returns the number of derivation steps from the master key.
func (k *ExtendedKey) Depth() uint8 { return k.depth }

// Path returns the derivation path string that produced this key.
func (k *ExtendedKey) Path() string { return k.path }

// PrivateKey returns a fresh copy of the 32-byte scalar.
func (k *ExtendedKey) PrivateKey() ([]byte, error) {
	if k.destroyed {
		return nil, walleterr.ErrDestroyed
	}
	out := make([]byte, 32)
	copy(out, k.priv[:])
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

// Destroy wipes the scalar and chain code. Idempotent.
func (k *ExtendedKey) Destroy() {
	if k.destroyed {
		return
	}
	bytesutil.SecureWipe(k.priv[:])
	bytesutil.SecureWipe(k.chainCode[:])
	k.destroyed = true
}

// MasterFromSeed derives the master extended key from a BIP-39 seed (or
// any sufficiently random byte string), per §4.5.
func MasterFromSeed(seed []byte) (*ExtendedKey, error) {
	i := hash.HMACSHA512([]byte(seedHMACKey), seed)
	il, ir := i[:32], i[32:]

	ilInt := new(big.Int).SetBytes(il)
	if ilInt.Sign() == 0 || ilInt.Cmp(curveOrder) >= 0 {
		return nil, fmt.Errorf("bip32: master key from seed: %w", walleterr.ErrDerivationInvalid)
	}

	k := &ExtendedKey{depth: 0, path: "m"}
	copy(k.priv[:], il)
	copy(k.chainCode[:], ir)
	return k, nil
}

// CKD derives the child at index from parent, per §4.5: hardened
// children (index >= HardenedOffset) use the parent's private key;
// non-hardened children use the parent's compressed public key.
func CKD(parent *ExtendedKey, index uint32) (*ExtendedKey, error) {
	if parent.destroyed {
		return nil, walleterr.ErrDestroyed
	}

	var data []byte
	if index >= HardenedOffset {
		data = make([]byte, 0, 1+32+4)
		data = append(data, 0x00)
		data = append(data, parent.priv[:]...)
	} else {
		pub, err := secp256k1.DerivePublicKey(parent.priv[:], true)
		if err != nil {
			return nil, fmt.Errorf("bip32: derive parent public key: %w", err)
		}
		data = make([]byte, 0, len(pub)+4)
		data = append(data, pub...)
	}
	data = append(data, be32(index)...)

	i := hash.HMACSHA512(parent.chainCode[:], data)
	il, ir := i[:32], i[32:]

	ilInt := new(big.Int).SetBytes(il)
	if ilInt.Cmp(curveOrder) >= 0 {
		return nil, fmt.Errorf("bip32: CKD index %d: %w", index, walleterr.ErrDerivationInvalid)
	}

	childInt := new(big.Int).Add(ilInt, new(big.Int).SetBytes(parent.priv[:]))
	childInt.Mod(childInt, curveOrder)
	if childInt.Sign() == 0 {
		return nil, fmt.Errorf("bip32: CKD index %d: %w", index, walleterr.ErrDerivationInvalid)
	}

	child := &ExtendedKey{
		depth: parent.depth + 1,
		path:  childPath(parent.path, index),
	}
	copy(child.priv[:], bytesutil.PadLeft(childInt.Bytes(), 32))
	copy(child.chainCode[:], ir)
	return child, nil
}

func be32(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

func childPath(parentPath string, index uint32) string {
	if index >= HardenedOffset {
		return fmt.Sprintf("%s/%d'", parentPath, index-HardenedOffset)
	}
	return fmt.Sprintf("%s/%d", parentPath, index)
}

// ParsePath parses a derivation path string of the form "m", "m/44'",
// "m/44'/60'/0'/0/0", etc. Apostrophe (') and 'h' both mark a hardened
// segment. An empty path ("" or "m") is allowed and means "master".
func ParsePath(path string) ([]uint32, error) {
	path = strings.TrimSpace(path)
	if path == "" || path == "m" {
		return nil, nil
	}
	if !strings.HasPrefix(path, "m/") {
		return nil, fmt.Errorf("bip32: path must start with \"m/\": %w", walleterr.ErrInvalidInput)
	}
	segments := strings.Split(path[2:], "/")
	indices := make([]uint32, 0, len(segments))
	for _, seg := range segments {
		if seg == "" {
			return nil, fmt.Errorf("bip32: empty path segment: %w", walleterr.ErrInvalidInput)
		}
		hardened := false
		switch seg[len(seg)-1] {
		case '\'', 'h', 'H':
			hardened = true
			seg = seg[:len(seg)-1]
		}
		n, err := strconv.ParseUint(seg, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("bip32: path segment %q: %w", seg, walleterr.ErrInvalidInput)
		}
		if hardened {
			n += uint64(HardenedOffset)
		}
		indices = append(indices, uint32(n))
	}
	return indices, nil
}

// DerivePath derives the extended key at path starting from master.
// Intermediate extended keys are destroyed as soon as the next step has
// consumed them.
func DerivePath(master *ExtendedKey, path string) (*ExtendedKey, error) {
	indices, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	current := master
	owned := false
	for _, idx := range indices {
		next, err := CKD(current, idx)
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
		// Path was "m": return a key with the same material as master
		// but independently owned, so the caller's eventual Destroy
		// does not reach into the caller-supplied master key.
		clone := &ExtendedKey{depth: master.depth, path: master.path}
		priv, err := master.PrivateKey()
		if err != nil {
			return nil, err
		}
		cc, err := master.ChainCode()
		if err != nil {
			return nil, err
		}
		copy(clone.priv[:], priv)
		copy(clone.chainCode[:], cc)
		bytesutil.SecureWipe(priv)
		bytesutil.SecureWipe(cc)
		return clone, nil
	}
	return current, nil
}
