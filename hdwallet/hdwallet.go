// Package hdwallet implements the unified, scheme-aware HD wallet of
// §4.15: a seed plus two lazily-initialized master keys (BIP-32
// secp256k1 and SLIP-10 Ed25519), with mutex-guarded lazy
// initialization so concurrent derive_path calls from multiple
// goroutines sharing the same wallet are safe.
package hdwallet

import (
	"fmt"
	"sync"

	"github.com/vaultedge/walletcore/bytesutil"
	"github.com/vaultedge/walletcore/kdf/bip32"
	"github.com/vaultedge/walletcore/kdf/slip10"
	"github.com/vaultedge/walletcore/walleterr"
)

// Scheme identifies which HD tree a derivation runs against.
type Scheme int

const (
	SchemeBIP32Secp256k1 Scheme = iota
	SchemeSLIP10Ed25519
)

// DerivedKey is the result of a derivation: an exclusively-owned copy
// of the resulting private scalar (or Ed25519 seed) and chain code,
// independent of the wallet's cached master key. Destroy wipes both.
type DerivedKey struct {
	scheme    Scheme
	priv      [32]byte
	chainCode [32]byte
	path      string
	destroyed bool
}

// Scheme reports which HD tree produced this key.
func (k *DerivedKey) Scheme() Scheme { return k.scheme }

// Path returns the derivation path string that produced this key.
func (k *DerivedKey) Path() string { return k.path }

// PrivateMaterial returns a fresh copy of the 32-byte scalar (secp256k1)
// or seed (Ed25519).
func (k *DerivedKey) PrivateMaterial() ([]byte, error) {
	if k.destroyed {
		return nil, walleterr.ErrDestroyed
	}
	out := make([]byte, 32)
	copy(out, k.priv[:])
	return out, nil
}

// ChainCode returns a fresh copy of the 32-byte chain code.
func (k *DerivedKey) ChainCode() ([]byte, error) {
	if k.destroyed {
		return nil, walleterr.ErrDestroyed
	}
	out := make([]byte, 32)
	copy(out, k.chainCode[:])
	return out, nil
}

// Destroy wipes the private scalar and chain code. Idempotent.
func (k *DerivedKey) Destroy() {
	if k.destroyed {
		return
	}
	bytesutil.SecureWipe(k.priv[:])
	bytesutil.SecureWipe(k.chainCode[:])
	k.destroyed = true
}

// UnifiedHDWallet owns a seed and lazily materializes one master key
// per scheme on first use. Each scheme's master key is guarded by its
// own mutex so a derive_path(BIP32) call never blocks one for SLIP-10,
// and the cache is checked under that mutex so the master is derived
// once and reused on every later call.
type UnifiedHDWallet struct {
	mu        sync.Mutex // guards seed/destroyed only
	seed      []byte
	destroyed bool

	bip32Mu     sync.Mutex
	bip32Master *bip32.ExtendedKey

	slip10Mu     sync.Mutex
	slip10Master *slip10.ExtendedKey
}

// New constructs a wallet that owns a copy of seed.
func New(seed []byte) *UnifiedHDWallet {
	owned := make([]byte, len(seed))
	copy(owned, seed)
	return &UnifiedHDWallet{seed: owned}
}

func (w *UnifiedHDWallet) seedCopy() ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return nil, walleterr.ErrDestroyed
	}
	out := make([]byte, len(w.seed))
	copy(out, w.seed)
	return out, nil
}

// DerivePath derives path against the master key of scheme, returning
// an independently-owned DerivedKey. The wallet's cached master key is
// read-only during derivation: DerivePath never mutates or destroys it.
func (w *UnifiedHDWallet) DerivePath(path string, scheme Scheme) (*DerivedKey, error) {
	switch scheme {
	case SchemeBIP32Secp256k1:
		w.bip32Mu.Lock()
		master, err := w.bip32MasterKeyLocked()
		w.bip32Mu.Unlock()
		if err != nil {
			return nil, err
		}
		return deriveBIP32(master, path)
	case SchemeSLIP10Ed25519:
		w.slip10Mu.Lock()
		master, err := w.slip10MasterKeyLocked()
		w.slip10Mu.Unlock()
		if err != nil {
			return nil, err
		}
		return deriveSLIP10(master, path)
	default:
		return nil, fmt.Errorf("hdwallet: unknown scheme %d: %w", scheme, walleterr.ErrUnsupportedScheme)
	}
}

// bip32MasterKeyLocked assumes w.bip32Mu is already held; it returns
// the cached master key, deriving and caching it from the seed on first
// use. DerivePath releases the lock before deriving from the result.
func (w *UnifiedHDWallet) bip32MasterKeyLocked() (*bip32.ExtendedKey, error) {
	if w.bip32Master != nil {
		return w.bip32Master, nil
	}
	seed, err := w.seedCopy()
	if err != nil {
		return nil, err
	}
	defer bytesutil.SecureWipe(seed)
	master, err := bip32.MasterFromSeed(seed)
	if err != nil {
		return nil, err
	}
	w.bip32Master = master
	return master, nil
}

func (w *UnifiedHDWallet) slip10MasterKeyLocked() (*slip10.ExtendedKey, error) {
	if w.slip10Master != nil {
		return w.slip10Master, nil
	}
	seed, err := w.seedCopy()
	if err != nil {
		return nil, err
	}
	defer bytesutil.SecureWipe(seed)
	master, err := slip10.MasterFromSeed(seed)
	if err != nil {
		return nil, err
	}
	w.slip10Master = master
	return master, nil
}

func deriveBIP32(master *bip32.ExtendedKey, path string) (*DerivedKey, error) {
	derived, err := bip32.DerivePath(master, path)
	if err != nil {
		return nil, err
	}
	defer derived.Destroy()
	priv, err := derived.PrivateKey()
	if err != nil {
		return nil, err
	}
	cc, err := derived.ChainCode()
	if err != nil {
		return nil, err
	}
	defer bytesutil.SecureWipe(priv)
	defer bytesutil.SecureWipe(cc)
	k := &DerivedKey{scheme: SchemeBIP32Secp256k1, path: path}
	copy(k.priv[:], priv)
	copy(k.chainCode[:], cc)
	return k, nil
}

func deriveSLIP10(master *slip10.ExtendedKey, path string) (*DerivedKey, error) {
	derived, err := slip10.DerivePath(master, path)
	if err != nil {
		return nil, err
	}
	defer derived.Destroy()
	seed, err := derived.Seed()
	if err != nil {
		return nil, err
	}
	cc, err := derived.ChainCode()
	if err != nil {
		return nil, err
	}
	defer bytesutil.SecureWipe(seed)
	defer bytesutil.SecureWipe(cc)
	k := &DerivedKey{scheme: SchemeSLIP10Ed25519, path: path}
	copy(k.priv[:], seed)
	copy(k.chainCode[:], cc)
	return k, nil
}

// DerivedRangeResult pairs an index with its derived key, in ascending
// index order.
type DerivedRangeResult struct {
	Index int
	Key   *DerivedKey
}

// DeriveRange treats basePath as the parent path and derives
// basePath/(start+i) for i in [0, count), replacing the last segment
// of basePath. Results are returned in strictly ascending index order.
func (w *UnifiedHDWallet) DeriveRange(basePath string, start, count int, scheme Scheme) ([]DerivedRangeResult, error) {
	if count < 0 {
		return nil, fmt.Errorf("hdwallet: negative count %d: %w", count, walleterr.ErrInvalidInput)
	}
	results := make([]DerivedRangeResult, 0, count)
	for i := 0; i < count; i++ {
		idx := start + i
		path, err := replaceLastSegment(basePath, idx)
		if err != nil {
			return nil, err
		}
		key, err := w.DerivePath(path, scheme)
		if err != nil {
			return nil, err
		}
		results = append(results, DerivedRangeResult{Index: idx, Key: key})
	}
	return results, nil
}

// Destroy wipes the seed and both cached master keys. Idempotent.
func (w *UnifiedHDWallet) Destroy() {
	w.mu.Lock()
	if !w.destroyed {
		bytesutil.SecureWipe(w.seed)
		w.destroyed = true
	}
	w.mu.Unlock()

	w.bip32Mu.Lock()
	if w.bip32Master != nil {
		w.bip32Master.Destroy()
	}
	w.bip32Mu.Unlock()

	w.slip10Mu.Lock()
	if w.slip10Master != nil {
		w.slip10Master.Destroy()
	}
	w.slip10Mu.Unlock()
}
