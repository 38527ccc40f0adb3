package deriver

import (
	"errors"
	"strings"
	"testing"

	"github.com/vaultedge/walletcore/addr/btc"
	"github.com/vaultedge/walletcore/hdwallet"
	"github.com/vaultedge/walletcore/kdf/bip44"
	"github.com/vaultedge/walletcore/spi"
	"github.com/vaultedge/walletcore/walleterr"
)

func testWallet() *hdwallet.UnifiedHDWallet {
	seed := make([]byte, 64)
	for i := range seed {
		seed[i] = byte(i * 7)
	}
	return hdwallet.New(seed)
}

func TestUserIDToAccountIndexDeterministicAndBounded(t *testing.T) {
	idx1, err := UserIDToAccountIndex("alice")
	if err != nil {
		t.Fatalf("UserIDToAccountIndex: %v", err)
	}
	idx2, err := UserIDToAccountIndex("alice")
	if err != nil {
		t.Fatalf("UserIDToAccountIndex: %v", err)
	}
	if idx1 != idx2 {
		t.Fatalf("same user id produced different indices: %d vs %d", idx1, idx2)
	}
	if idx1 < 0 || idx1 >= accountIndexModulus {
		t.Fatalf("index %d out of range [0, %d)", idx1, accountIndexModulus)
	}

	idxBob, err := UserIDToAccountIndex("bob")
	if err != nil {
		t.Fatalf("UserIDToAccountIndex: %v", err)
	}
	if idxBob == idx1 {
		t.Fatalf("different user ids collided (statistically implausible for this test fixture)")
	}
}

func TestUserIDToAccountIndexRejectsEmpty(t *testing.T) {
	if _, err := UserIDToAccountIndex(""); !errors.Is(err, walleterr.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPathForChainTemplates(t *testing.T) {
	cases := []struct {
		chain spi.ChainType
		want  string
	}{
		{spi.ChainEVM, "m/44'/60'/1'/0/2"},
		{spi.ChainTron, "m/44'/195'/1'/0/2"},
		{spi.ChainCosmos, "m/44'/118'/1'/0/2"},
		{spi.ChainAptos, "m/44'/637'/1'/0/2"},
		{spi.ChainNear, "m/44'/397'/1'/0/2"},
	}
	for _, c := range cases {
		got, err := PathForChain(c.chain, 1, 0, 2, bip44.BtcLegacy)
		if err != nil {
			t.Fatalf("PathForChain(%s): %v", c.chain, err)
		}
		if got != c.want {
			t.Fatalf("PathForChain(%s) = %q, want %q", c.chain, got, c.want)
		}
	}
}

func TestPathForChainSolanaHasNoChangeLevel(t *testing.T) {
	got, err := PathForChain(spi.ChainSolana, 1, 0, 2, bip44.BtcLegacy)
	if err != nil {
		t.Fatalf("PathForChain: %v", err)
	}
	if want := "m/44'/501'/1'/2'"; got != want {
		t.Fatalf("PathForChain(SOL) = %q, want %q", got, want)
	}
}

func TestPathForChainBitcoinPurposeByAddressType(t *testing.T) {
	cases := []struct {
		addrType bip44.BtcAddressType
		want     string
	}{
		{bip44.BtcLegacy, "m/44'/0'/1'/0/2"},
		{bip44.BtcNestedSegWit, "m/49'/0'/1'/0/2"},
		{bip44.BtcNativeSegWit, "m/84'/0'/1'/0/2"},
		{bip44.BtcTaproot, "m/86'/0'/1'/0/2"},
	}
	for _, c := range cases {
		got, err := PathForChain(spi.ChainBitcoin, 1, 0, 2, c.addrType)
		if err != nil {
			t.Fatalf("PathForChain: %v", err)
		}
		if got != c.want {
			t.Fatalf("PathForChain(BTC, %v) = %q, want %q", c.addrType, got, c.want)
		}
	}
}

func TestPathForChainRejectsUnknownChain(t *testing.T) {
	if _, err := PathForChain(spi.ChainType("DOGE"), 0, 0, 0, bip44.BtcLegacy); !errors.Is(err, walleterr.ErrUnsupportedChain) {
		t.Fatalf("expected ErrUnsupportedChain, got %v", err)
	}
}

func TestDeriveForUserEVM(t *testing.T) {
	w := testWallet()
	defer w.Destroy()

	account, err := DeriveForUser(w, "alice", spi.ChainEVM, Options{})
	if err != nil {
		t.Fatalf("DeriveForUser: %v", err)
	}
	defer account.SigningKey.Destroy()

	if account.UserID != "alice" {
		t.Fatalf("wrong user id echoed back: %q", account.UserID)
	}
	if !strings.HasPrefix(account.Path, "m/44'/60'/") {
		t.Fatalf("unexpected path %q", account.Path)
	}
	if !strings.HasPrefix(account.Address, "0x") || len(account.Address) != 42 {
		t.Fatalf("unexpected EVM address %q", account.Address)
	}
	if account.SigningKey.Scheme() != "BIP32_SECP256K1" {
		t.Fatalf("unexpected scheme %q", account.SigningKey.Scheme())
	}

	view := account.ToDerivedAddress()
	if view.Chain != "EVM" || view.Address != account.Address || view.DerivationPath != account.Path {
		t.Fatalf("ToDerivedAddress mismatch: %+v", view)
	}
	if len(view.PublicKey) != len(account.PublicKey)*2 {
		t.Fatalf("expected hex-encoded public key, got %q", view.PublicKey)
	}
}

func TestDeriveForUserIsDeterministic(t *testing.T) {
	w := testWallet()
	defer w.Destroy()

	a1, err := DeriveForUser(w, "alice", spi.ChainEVM, Options{})
	if err != nil {
		t.Fatalf("DeriveForUser: %v", err)
	}
	defer a1.SigningKey.Destroy()
	a2, err := DeriveForUser(w, "alice", spi.ChainEVM, Options{})
	if err != nil {
		t.Fatalf("DeriveForUser: %v", err)
	}
	defer a2.SigningKey.Destroy()

	if a1.Address != a2.Address || a1.Path != a2.Path {
		t.Fatalf("repeated derivation for the same user diverged: %+v vs %+v", a1, a2)
	}
}

func TestDeriveForUserSolana(t *testing.T) {
	w := testWallet()
	defer w.Destroy()

	account, err := DeriveForUser(w, "alice", spi.ChainSolana, Options{})
	if err != nil {
		t.Fatalf("DeriveForUser: %v", err)
	}
	defer account.SigningKey.Destroy()

	if !strings.HasPrefix(account.Path, "m/44'/501'/") {
		t.Fatalf("unexpected path %q", account.Path)
	}
	if account.SigningKey.Scheme() != "SLIP10_ED25519" {
		t.Fatalf("unexpected scheme %q", account.SigningKey.Scheme())
	}

	sig, err := account.SigningKey.Sign([]byte("hello"))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	pub, err := account.SigningKey.PublicKey()
	if err != nil {
		t.Fatalf("PublicKey: %v", err)
	}
	if len(sig) != 64 || len(pub) != 32 {
		t.Fatalf("unexpected signature/pubkey sizes: %d / %d", len(sig), len(pub))
	}
}

func TestDeriveForUserBitcoinAddressTypes(t *testing.T) {
	w := testWallet()
	defer w.Destroy()

	cases := []struct {
		addrType bip44.BtcAddressType
		prefix   string
	}{
		{bip44.BtcLegacy, "1"},
		{bip44.BtcNestedSegWit, "3"},
		{bip44.BtcNativeSegWit, "bc1q"},
		{bip44.BtcTaproot, "bc1p"},
	}
	for _, c := range cases {
		account, err := DeriveForUser(w, "alice", spi.ChainBitcoin, Options{BTCAddressType: c.addrType, BTCNetwork: btc.Mainnet})
		if err != nil {
			t.Fatalf("DeriveForUser(%v): %v", c.addrType, err)
		}
		if !strings.HasPrefix(account.Address, c.prefix) {
			t.Fatalf("address %q does not have expected prefix %q", account.Address, c.prefix)
		}
		account.SigningKey.Destroy()
	}
}

func TestDeriveForUserRejectsChainWithNoAddressEncoder(t *testing.T) {
	w := testWallet()
	defer w.Destroy()

	if _, err := DeriveForUser(w, "alice", spi.ChainCosmos, Options{}); !errors.Is(err, walleterr.ErrUnsupportedChain) {
		t.Fatalf("expected ErrUnsupportedChain, got %v", err)
	}
}

func TestDeriveAddressReturnsAddress(t *testing.T) {
	w := testWallet()
	defer w.Destroy()

	addr, err := DeriveAddress(w, "alice", spi.ChainEVM, Options{})
	if err != nil {
		t.Fatalf("DeriveAddress: %v", err)
	}
	if addr == "" {
		t.Fatalf("expected non-empty address")
	}
}

func TestDeriveRangeAscendingAndDistinct(t *testing.T) {
	w := testWallet()
	defer w.Destroy()

	accounts, err := DeriveRange(w, spi.ChainEVM, 0, 0, 3, Options{})
	if err != nil {
		t.Fatalf("DeriveRange: %v", err)
	}
	if len(accounts) != 3 {
		t.Fatalf("expected 3 accounts, got %d", len(accounts))
	}
	seen := map[string]bool{}
	for i, a := range accounts {
		if a.Index != i {
			t.Fatalf("account %d has index %d, want %d", i, a.Index, i)
		}
		if seen[a.Address] {
			t.Fatalf("duplicate address %q at index %d", a.Address, i)
		}
		seen[a.Address] = true
		if view := a.ToDerivedAddress(); view.Address != a.Address || view.Chain != "EVM" {
			t.Fatalf("ToDerivedAddress mismatch at index %d: %+v", i, view)
		}
		a.SigningKey.Destroy()
	}
}

func TestDeriveAddressRangeMatchesDeriveRange(t *testing.T) {
	w := testWallet()
	defer w.Destroy()

	accounts, err := DeriveRange(w, spi.ChainSolana, 0, 0, 2, Options{})
	if err != nil {
		t.Fatalf("DeriveRange: %v", err)
	}
	want := make([]string, len(accounts))
	for i, a := range accounts {
		want[i] = a.Address
		a.SigningKey.Destroy()
	}

	got, err := DeriveAddressRange(w, spi.ChainSolana, 0, 0, 2, Options{})
	if err != nil {
		t.Fatalf("DeriveAddressRange: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("length mismatch: %d vs %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("address %d mismatch: %q vs %q", i, got[i], want[i])
		}
	}
}
