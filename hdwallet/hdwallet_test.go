package hdwallet

import (
	"bytes"
	"sync"
	"testing"
)

func testSeed() []byte {
	seed := make([]byte, 64)
	for i := range seed {
		seed[i] = byte(i)
	}
	return seed
}

func TestDerivePathBIP32Deterministic(t *testing.T) {
	w := New(testSeed())
	defer w.Destroy()

	k1, err := w.DerivePath("m/44'/60'/0'/0/0", SchemeBIP32Secp256k1)
	if err != nil {
		t.Fatalf("DerivePath: %v", err)
	}
	defer k1.Destroy()
	k2, err := w.DerivePath("m/44'/60'/0'/0/0", SchemeBIP32Secp256k1)
	if err != nil {
		t.Fatalf("DerivePath: %v", err)
	}
	defer k2.Destroy()

	p1, _ := k1.PrivateMaterial()
	p2, _ := k2.PrivateMaterial()
	if !bytes.Equal(p1, p2) {
		t.Fatalf("repeated derivation of the same path produced different keys")
	}
}

func TestDerivePathSLIP10OnlyHardened(t *testing.T) {
	w := New(testSeed())
	defer w.Destroy()

	if _, err := w.DerivePath("m/44'/501'/0'/0", SchemeSLIP10Ed25519); err == nil {
		t.Fatalf("expected error for non-hardened SLIP-10 segment")
	}
	k, err := w.DerivePath("m/44'/501'/0'/0'", SchemeSLIP10Ed25519)
	if err != nil {
		t.Fatalf("DerivePath: %v", err)
	}
	k.Destroy()
}

func TestDerivePathDifferentPathsDiffer(t *testing.T) {
	w := New(testSeed())
	defer w.Destroy()

	k1, err := w.DerivePath("m/44'/60'/0'/0/0", SchemeBIP32Secp256k1)
	if err != nil {
		t.Fatalf("DerivePath: %v", err)
	}
	defer k1.Destroy()
	k2, err := w.DerivePath("m/44'/60'/0'/0/1", SchemeBIP32Secp256k1)
	if err != nil {
		t.Fatalf("DerivePath: %v", err)
	}
	defer k2.Destroy()

	p1, _ := k1.PrivateMaterial()
	p2, _ := k2.PrivateMaterial()
	if bytes.Equal(p1, p2) {
		t.Fatalf("different paths produced the same private material")
	}
}

func TestDeriveRangeAscendingOrder(t *testing.T) {
	w := New(testSeed())
	defer w.Destroy()

	results, err := w.DeriveRange("m/44'/60'/0'/0/0", 0, 3, SchemeBIP32Secp256k1)
	if err != nil {
		t.Fatalf("DeriveRange: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Index != i {
			t.Fatalf("result %d has index %d, want %d", i, r.Index, i)
		}
		r.Key.Destroy()
	}
}

func TestDeriveRangeHardenedBasePath(t *testing.T) {
	w := New(testSeed())
	defer w.Destroy()

	results, err := w.DeriveRange("m/44'/501'/0'/0'", 0, 2, SchemeSLIP10Ed25519)
	if err != nil {
		t.Fatalf("DeriveRange: %v", err)
	}
	for _, r := range results {
		r.Key.Destroy()
	}
}

func TestDestroyIsIdempotentAndBlocksFurtherAccess(t *testing.T) {
	w := New(testSeed())
	w.Destroy()
	w.Destroy() // must not panic

	if _, err := w.DerivePath("m/44'/60'/0'/0/0", SchemeBIP32Secp256k1); err == nil {
		t.Fatalf("expected error deriving from a destroyed wallet")
	}
}

func TestConcurrentDerivePath(t *testing.T) {
	w := New(testSeed())
	defer w.Destroy()

	const n = 50
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			k, err := w.DerivePath("m/44'/60'/0'/0/0", SchemeBIP32Secp256k1)
			if err != nil {
				errs <- err
				return
			}
			k.Destroy()
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent DerivePath failed: %v", err)
	}
}

func TestDerivedKeyDestroyIsIdempotent(t *testing.T) {
	w := New(testSeed())
	defer w.Destroy()

	k, err := w.DerivePath("m/44'/60'/0'/0/0", SchemeBIP32Secp256k1)
	if err != nil {
		t.Fatalf("DerivePath: %v", err)
	}
	k.Destroy()
	k.Destroy()
	if _, err := k.PrivateMaterial(); err == nil {
		t.Fatalf("expected error reading private material after destroy")
	}
}
