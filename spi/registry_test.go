package spi

import (
	"errors"
	"sync"
	"testing"

	"github.com/vaultedge/walletcore/walleterr"
)

type fakeAdapter struct{ ct ChainType }

func (f fakeAdapter) ChainType() ChainType { return f.ct }
func (f fakeAdapter) Sign(rawTx any, signingKey any) (any, error) {
	return rawTx, nil
}
func (f fakeAdapter) RawBytes(signedTx any) ([]byte, error) { return []byte("raw"), nil }
func (f fakeAdapter) TxHash(signedTx any) ([]byte, error)   { return []byte("hash"), nil }

type fakeEncoder struct{ ct ChainType }

func (f fakeEncoder) ChainType() ChainType                        { return f.ct }
func (f fakeEncoder) Encode(pubKey []byte, options any) (string, error) { return "addr", nil }
func (f fakeEncoder) RequiredFormat() PubKeyFormat                { return CompressedSecp256k1_33 }

func TestRegistryLookupMissingReturnsUnsupportedChain(t *testing.T) {
	r := NewRegistry()
	if _, err := r.LookupAdapter(ChainEVM); err == nil {
		t.Fatalf("expected error for unregistered chain")
	} else if !errors.Is(err, walleterr.ErrUnsupportedChain) {
		t.Fatalf("expected ErrUnsupportedChain, got %v", err)
	}
}

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	r.RegisterAdapter(fakeAdapter{ct: ChainEVM})
	r.RegisterEncoder(fakeEncoder{ct: ChainEVM})

	a, err := r.LookupAdapter(ChainEVM)
	if err != nil {
		t.Fatalf("LookupAdapter: %v", err)
	}
	if a.ChainType() != ChainEVM {
		t.Fatalf("looked up adapter has wrong chain type")
	}

	e, err := r.LookupEncoder(ChainEVM)
	if err != nil {
		t.Fatalf("LookupEncoder: %v", err)
	}
	if e.ChainType() != ChainEVM {
		t.Fatalf("looked up encoder has wrong chain type")
	}
}

func TestRegistryLastWriterWins(t *testing.T) {
	r := NewRegistry()
	r.RegisterAdapter(fakeAdapter{ct: ChainEVM})
	r.RegisterAdapter(fakeAdapter{ct: ChainEVM}) // second registration for same chain

	a, err := r.LookupAdapter(ChainEVM)
	if err != nil {
		t.Fatalf("LookupAdapter: %v", err)
	}
	if a.ChainType() != ChainEVM {
		t.Fatalf("unexpected adapter after re-registration")
	}
}

func TestRegistryReset(t *testing.T) {
	r := NewRegistry()
	r.RegisterAdapter(fakeAdapter{ct: ChainTron})
	r.Reset()
	if _, err := r.LookupAdapter(ChainTron); err == nil {
		t.Fatalf("expected error after Reset")
	}
}

func TestRegistryConcurrentRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	chains := []ChainType{ChainEVM, ChainTron, ChainBitcoin, ChainSolana}

	var wg sync.WaitGroup
	for _, c := range chains {
		wg.Add(1)
		go func(c ChainType) {
			defer wg.Done()
			r.RegisterAdapter(fakeAdapter{ct: c})
		}(c)
	}
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.LookupAdapter(ChainEVM)
		}()
	}
	wg.Wait()

	for _, c := range chains {
		if _, err := r.LookupAdapter(c); err != nil {
			t.Fatalf("chain %s missing after concurrent registration: %v", c, err)
		}
	}
}

func TestDefaultRegistryPackageFunctions(t *testing.T) {
	Reset()
	defer Reset()
	Register(fakeAdapter{ct: ChainSolana}, fakeEncoder{ct: ChainSolana})

	if _, err := LookupAdapter(ChainSolana); err != nil {
		t.Fatalf("LookupAdapter: %v", err)
	}
	if _, err := LookupEncoder(ChainSolana); err != nil {
		t.Fatalf("LookupEncoder: %v", err)
	}
}

