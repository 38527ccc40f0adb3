package spi

import (
	"fmt"
	"sync/atomic"

	"github.com/vaultedge/walletcore/walleterr"
)

// Registry maps ChainType to its ChainAdapter and AddressEncoder.
// Reads never block: each lookup is a single atomic pointer load of an
// immutable map. Writes build a new map (copy-on-write) and swap it in
// with an atomic compare-and-swap, rebuilding and retrying if another
// writer swapped first, so concurrent readers never observe a
// partially-updated map and the last writer always wins — there is no
// per-entry locking to get wrong.
type Registry struct {
	adapters atomic.Pointer[map[ChainType]ChainAdapter]
	encoders atomic.Pointer[map[ChainType]AddressEncoder]
}

// NewRegistry returns an empty, independently-owned registry. It is
// not a singleton: callers that want process-wide sharing use Default,
// but nothing requires going through it.
func NewRegistry() *Registry {
	r := &Registry{}
	emptyAdapters := map[ChainType]ChainAdapter{}
	emptyEncoders := map[ChainType]AddressEncoder{}
	r.adapters.Store(&emptyAdapters)
	r.encoders.Store(&emptyEncoders)
	return r
}

// RegisterAdapter installs adapter a for its ChainType, replacing any
// prior adapter for the same chain.
func (r *Registry) RegisterAdapter(a ChainAdapter) {
	for {
		old := r.adapters.Load()
		next := make(map[ChainType]ChainAdapter, len(*old)+1)
		for k, v := range *old {
			next[k] = v
		}
		next[a.ChainType()] = a
		if r.adapters.CompareAndSwap(old, &next) {
			return
		}
	}
}

// LookupAdapter returns the adapter registered for ct, or
// walleterr.ErrUnsupportedChain if none is registered.
func (r *Registry) LookupAdapter(ct ChainType) (ChainAdapter, error) {
	m := r.adapters.Load()
	if m == nil {
		return nil, fmt.Errorf("spi: no adapter registered for %q: %w", ct, walleterr.ErrUnsupportedChain)
	}
	a, ok := (*m)[ct]
	if !ok {
		return nil, fmt.Errorf("spi: no adapter registered for %q: %w", ct, walleterr.ErrUnsupportedChain)
	}
	return a, nil
}

// RegisterEncoder installs e for its ChainType, replacing any prior
// encoder for the same chain.
func (r *Registry) RegisterEncoder(e AddressEncoder) {
	for {
		old := r.encoders.Load()
		next := make(map[ChainType]AddressEncoder, len(*old)+1)
		for k, v := range *old {
			next[k] = v
		}
		next[e.ChainType()] = e
		if r.encoders.CompareAndSwap(old, &next) {
			return
		}
	}
}

// LookupEncoder returns the encoder registered for ct, or
// walleterr.ErrUnsupportedChain if none is registered.
func (r *Registry) LookupEncoder(ct ChainType) (AddressEncoder, error) {
	m := r.encoders.Load()
	if m == nil {
		return nil, fmt.Errorf("spi: no encoder registered for %q: %w", ct, walleterr.ErrUnsupportedChain)
	}
	e, ok := (*m)[ct]
	if !ok {
		return nil, fmt.Errorf("spi: no encoder registered for %q: %w", ct, walleterr.ErrUnsupportedChain)
	}
	return e, nil
}

// Reset clears every registered adapter and encoder. Intended for test
// isolation between cases that register different fakes.
func (r *Registry) Reset() {
	emptyAdapters := map[ChainType]ChainAdapter{}
	emptyEncoders := map[ChainType]AddressEncoder{}
	r.adapters.Store(&emptyAdapters)
	r.encoders.Store(&emptyEncoders)
}

// Default is the process-wide registry most callers use. It is just a
// Registry value, initialized at package load — not a hidden special
// case; any code that wants isolation can call NewRegistry instead.
var Default = NewRegistry()

// Register installs a and/or e into Default. Either may be nil to
// register only one capability for a chain.
func Register(a ChainAdapter, e AddressEncoder) {
	if a != nil {
		Default.RegisterAdapter(a)
	}
	if e != nil {
		Default.RegisterEncoder(e)
	}
}

// LookupAdapter looks up ct's adapter in Default.
func LookupAdapter(ct ChainType) (ChainAdapter, error) { return Default.LookupAdapter(ct) }

// LookupEncoder looks up ct's encoder in Default.
func LookupEncoder(ct ChainType) (AddressEncoder, error) { return Default.LookupEncoder(ct) }

// Reset clears Default. Intended for test isolation.
func Reset() { Default.Reset() }
