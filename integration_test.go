package walletcore_test

import (
	"testing"

	"github.com/vaultedge/walletcore/addr/evm"
	"github.com/vaultedge/walletcore/addr/tron"
	"github.com/vaultedge/walletcore/deriver"
	"github.com/vaultedge/walletcore/ecc/secp256k1"
	"github.com/vaultedge/walletcore/hdwallet"
	"github.com/vaultedge/walletcore/mnemonic/bip39"
	"github.com/vaultedge/walletcore/spi"
)

const testMnemonic = "leopard rotate tip rescue vessel rain argue detail music picture amused genuine"

// deriveAddress derives path under scheme and renders its address via
// encode, matching spec.md §8 scenario 4's direct path-based vectors
// (which predate any user-id-to-account-index routing).
func deriveAddress(t *testing.T, wallet *hdwallet.UnifiedHDWallet, path string, scheme hdwallet.Scheme, encode func(pub []byte) (string, error)) string {
	t.Helper()
	key, err := wallet.DerivePath(path, scheme)
	if err != nil {
		t.Fatalf("DerivePath(%q): %v", path, err)
	}
	defer key.Destroy()

	priv, err := key.PrivateMaterial()
	if err != nil {
		t.Fatalf("PrivateMaterial: %v", err)
	}
	pub, err := secp256k1.DerivePublicKey(priv, false)
	if err != nil {
		t.Fatalf("DerivePublicKey: %v", err)
	}
	addr, err := encode(pub)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return addr
}

func TestMnemonicToMultiChainAddresses(t *testing.T) {
	seed := bip39.SeedFromMnemonic(testMnemonic, "")
	wallet := hdwallet.New(seed)
	defer wallet.Destroy()

	encodeEVM := func(pub []byte) (string, error) {
		a, err := evm.FromPublicKey(pub)
		return a.String(), err
	}
	encodeTron := func(pub []byte) (string, error) {
		a, err := tron.FromPublicKey(pub)
		return a.String(), err
	}

	evm0 := deriveAddress(t, wallet, "m/44'/60'/0'/0/0", hdwallet.SchemeBIP32Secp256k1, encodeEVM)
	if evm0 != "0xd2c7D06ebA1B002EaCce0883F18904069F6a5F61" {
		t.Fatalf("EVM address m/44'/60'/0'/0/0 = %q, want 0xd2c7D06ebA1B002EaCce0883F18904069F6a5F61", evm0)
	}

	evm1 := deriveAddress(t, wallet, "m/44'/60'/0'/0/1", hdwallet.SchemeBIP32Secp256k1, encodeEVM)
	if evm1 != "0x192dbD14f1e70Da49E685d826fbFD5ed2be7d063" {
		t.Fatalf("EVM address m/44'/60'/0'/0/1 = %q, want 0x192dbD14f1e70Da49E685d826fbFD5ed2be7d063", evm1)
	}

	tron0 := deriveAddress(t, wallet, "m/44'/195'/0'/0/0", hdwallet.SchemeBIP32Secp256k1, encodeTron)
	if tron0 != "TVU9iSQSxvxWJYA1r8RnSCgJfziPLfRhDt" {
		t.Fatalf("TRON address m/44'/195'/0'/0/0 = %q, want TVU9iSQSxvxWJYA1r8RnSCgJfziPLfRhDt", tron0)
	}
}

func TestMnemonicToSolanaAddressRange(t *testing.T) {
	seed := bip39.SeedFromMnemonic(testMnemonic, "")
	wallet := hdwallet.New(seed)
	defer wallet.Destroy()

	addresses, err := deriver.DeriveAddressRange(wallet, spi.ChainSolana, 0, 0, 2, deriver.Options{})
	if err != nil {
		t.Fatalf("DeriveAddressRange(SOL): %v", err)
	}
	want := []string{
		"FFa2YFCS192tx4KAKpaLKPdbGmuTJs6wPT1WxYyYzo1W",
		"6W4rYZjVcxXVB72uAbuuXJBb7EZgRYqySxSM71jW3mMk",
	}
	for i, w := range want {
		if addresses[i] != w {
			t.Fatalf("Solana address index %d = %q, want %q", i, addresses[i], w)
		}
	}
}

// TestMnemonicUserIDSharesAccountIndexAcrossChains verifies that
// deriving for the same user id on two different chains routes through
// the same account index, since UserIDToAccountIndex is chain-independent.
func TestMnemonicUserIDSharesAccountIndexAcrossChains(t *testing.T) {
	accountIndex, err := deriver.UserIDToAccountIndex("user-a")
	if err != nil {
		t.Fatalf("UserIDToAccountIndex: %v", err)
	}

	seed := bip39.SeedFromMnemonic(testMnemonic, "")
	wallet := hdwallet.New(seed)
	defer wallet.Destroy()

	evmAccount, err := deriver.DeriveForUser(wallet, "user-a", spi.ChainEVM, deriver.Options{})
	if err != nil {
		t.Fatalf("DeriveForUser(EVM): %v", err)
	}
	defer evmAccount.SigningKey.Destroy()

	tronAccount, err := deriver.DeriveForUser(wallet, "user-a", spi.ChainTron, deriver.Options{})
	if err != nil {
		t.Fatalf("DeriveForUser(TRON): %v", err)
	}
	defer tronAccount.SigningKey.Destroy()

	if evmAccount.AccountIndex != accountIndex || tronAccount.AccountIndex != accountIndex {
		t.Fatalf("account index not shared: evm=%d tron=%d want=%d", evmAccount.AccountIndex, tronAccount.AccountIndex, accountIndex)
	}
}
