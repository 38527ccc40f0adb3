package wallet

import (
	"math/big"
	"testing"

	addrtron "github.com/vaultedge/walletcore/addr/tron"
	btcaddr "github.com/vaultedge/walletcore/addr/btc"
	"github.com/vaultedge/walletcore/ecc/ed25519"
	"github.com/vaultedge/walletcore/ecc/secp256k1"
	"github.com/vaultedge/walletcore/kdf/bip44"
	"github.com/vaultedge/walletcore/spi"
	btctx "github.com/vaultedge/walletcore/tx/btc"
	evmtx "github.com/vaultedge/walletcore/tx/evm"
	soltx "github.com/vaultedge/walletcore/tx/sol"
	trontx "github.com/vaultedge/walletcore/tx/tron"
)

func testRegistry() *spi.Registry {
	r := spi.NewRegistry()
	RegisterDefaults(r)
	return r
}

func testSecp256k1Priv(b byte) []byte {
	priv := make([]byte, 32)
	priv[31] = b
	return priv
}

func testEd25519Seed(b byte) []byte {
	seed := make([]byte, ed25519.SeedSize)
	seed[31] = b
	return seed
}

func TestRegisterDefaultsWiresEveryChain(t *testing.T) {
	r := testRegistry()
	for _, ct := range []spi.ChainType{spi.ChainEVM, spi.ChainTron, spi.ChainBitcoin, spi.ChainSolana} {
		if _, err := r.LookupAdapter(ct); err != nil {
			t.Fatalf("LookupAdapter(%s): %v", ct, err)
		}
		if _, err := r.LookupEncoder(ct); err != nil {
			t.Fatalf("LookupEncoder(%s): %v", ct, err)
		}
	}
}

func TestEVMAdapterSignRoundTrip(t *testing.T) {
	r := testRegistry()
	adapter, err := r.LookupAdapter(spi.ChainEVM)
	if err != nil {
		t.Fatalf("LookupAdapter: %v", err)
	}

	var to [20]byte
	to[19] = 0x01
	rawTx := evmtx.RawTransaction{
		Nonce:    1,
		GasPrice: big.NewInt(1),
		GasLimit: 21000,
		To:       &to,
		Value:    big.NewInt(1),
		ChainID:  1,
	}
	priv := testSecp256k1Priv(1)

	signed, err := adapter.Sign(rawTx, priv)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := adapter.RawBytes(signed); err != nil {
		t.Fatalf("RawBytes: %v", err)
	}
	if _, err := adapter.TxHash(signed); err != nil {
		t.Fatalf("TxHash: %v", err)
	}
}

func TestEVMAdapterRejectsWrongRawTxType(t *testing.T) {
	r := testRegistry()
	adapter, _ := r.LookupAdapter(spi.ChainEVM)
	if _, err := adapter.Sign("not a raw tx", testSecp256k1Priv(1)); err == nil {
		t.Fatalf("expected error for mistyped rawTx")
	}
}

func TestEVMEncoderProducesChecksummedAddress(t *testing.T) {
	r := testRegistry()
	encoder, err := r.LookupEncoder(spi.ChainEVM)
	if err != nil {
		t.Fatalf("LookupEncoder: %v", err)
	}
	pub, err := secp256k1.DerivePublicKey(testSecp256k1Priv(1), false)
	if err != nil {
		t.Fatalf("DerivePublicKey: %v", err)
	}
	addr, err := encoder.Encode(pub, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(addr) != 42 || addr[:2] != "0x" {
		t.Fatalf("unexpected EVM address %q", addr)
	}
	if encoder.RequiredFormat() != spi.UncompressedSecp256k1_65 {
		t.Fatalf("unexpected required format %v", encoder.RequiredFormat())
	}
}

func TestTronAdapterSignRoundTrip(t *testing.T) {
	r := testRegistry()
	adapter, err := r.LookupAdapter(spi.ChainTron)
	if err != nil {
		t.Fatalf("LookupAdapter: %v", err)
	}

	priv := testSecp256k1Priv(2)
	pub, _ := secp256k1.DerivePublicKey(priv, false)
	from, err := addrtron.FromPublicKey(pub)
	if err != nil {
		t.Fatalf("FromPublicKey: %v", err)
	}

	rawTx := trontx.RawTransaction{
		ContractType: trontx.TransferContractType,
		Expiration:   1000,
		Timestamp:    1,
		FeeLimit:     0,
		OwnerAddress: [21]byte(from),
		ToAddress:    [21]byte(from),
		Amount:       1,
	}

	signed, err := adapter.Sign(rawTx, priv)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := adapter.RawBytes(signed); err != nil {
		t.Fatalf("RawBytes: %v", err)
	}
	if _, err := adapter.TxHash(signed); err != nil {
		t.Fatalf("TxHash: %v", err)
	}
}

func TestTronEncoderRequiresUncompressedFormat(t *testing.T) {
	r := testRegistry()
	encoder, err := r.LookupEncoder(spi.ChainTron)
	if err != nil {
		t.Fatalf("LookupEncoder: %v", err)
	}
	if encoder.RequiredFormat() != spi.UncompressedSecp256k1_65 {
		t.Fatalf("unexpected required format %v", encoder.RequiredFormat())
	}
	pub, _ := secp256k1.DerivePublicKey(testSecp256k1Priv(3), false)
	addr, err := encoder.Encode(pub, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if addr[0] != 'T' {
		t.Fatalf("expected TRON address to start with T, got %q", addr)
	}
}

func TestBTCAdapterSignRoundTrip(t *testing.T) {
	r := testRegistry()
	adapter, err := r.LookupAdapter(spi.ChainBitcoin)
	if err != nil {
		t.Fatalf("LookupAdapter: %v", err)
	}

	priv := testSecp256k1Priv(4)
	pub, _ := secp256k1.DerivePublicKey(priv, true)
	addr, err := btcaddr.NewP2PKH(pub, btcaddr.Mainnet)
	if err != nil {
		t.Fatalf("NewP2PKH: %v", err)
	}

	rawTx := btctx.RawTransaction{
		Version: 1,
		Inputs: []btctx.TxInput{{
			PrevTxID:      [32]byte{1},
			PrevVout:      0,
			Sequence:      0xffffffff,
			PrevOutScript: addr.ScriptPubKey(),
			PrevOutValue:  100000,
		}},
		Outputs: []btctx.TxOutput{{Value: 90000, ScriptPubKey: addr.ScriptPubKey()}},
	}
	specs := []btctx.InputSpec{{PrivateKey: priv, IsSegWit: false}}

	signed, err := adapter.Sign(rawTx, specs)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := adapter.RawBytes(signed); err != nil {
		t.Fatalf("RawBytes: %v", err)
	}
	if _, err := adapter.TxHash(signed); err != nil {
		t.Fatalf("TxHash: %v", err)
	}
}

func TestBTCAdapterRejectsWrongSignerType(t *testing.T) {
	r := testRegistry()
	adapter, _ := r.LookupAdapter(spi.ChainBitcoin)
	if _, err := adapter.Sign(btctx.RawTransaction{}, testSecp256k1Priv(4)); err == nil {
		t.Fatalf("expected error for mistyped signingKey")
	}
}

func TestBTCEncoderDispatchesByAddressType(t *testing.T) {
	r := testRegistry()
	encoder, err := r.LookupEncoder(spi.ChainBitcoin)
	if err != nil {
		t.Fatalf("LookupEncoder: %v", err)
	}
	pub, _ := secp256k1.DerivePublicKey(testSecp256k1Priv(5), true)

	legacy, err := encoder.Encode(pub, BTCAddressOptions{AddressType: bip44.BtcLegacy, Network: btcaddr.Mainnet})
	if err != nil {
		t.Fatalf("Encode(legacy): %v", err)
	}
	segwit, err := encoder.Encode(pub, BTCAddressOptions{AddressType: bip44.BtcNativeSegWit, Network: btcaddr.Mainnet})
	if err != nil {
		t.Fatalf("Encode(segwit): %v", err)
	}
	if legacy == segwit {
		t.Fatalf("legacy and native-segwit encodings should differ")
	}
	if legacy[0] != '1' {
		t.Fatalf("expected legacy address to start with 1, got %q", legacy)
	}
	if encoder.RequiredFormat() != spi.CompressedSecp256k1_33 {
		t.Fatalf("unexpected required format %v", encoder.RequiredFormat())
	}
}

func TestBTCEncoderRejectsWrongOptionsType(t *testing.T) {
	r := testRegistry()
	encoder, _ := r.LookupEncoder(spi.ChainBitcoin)
	pub, _ := secp256k1.DerivePublicKey(testSecp256k1Priv(5), true)
	if _, err := encoder.Encode(pub, "not options"); err == nil {
		t.Fatalf("expected error for mistyped options")
	}
}

func TestSolanaAdapterSignRoundTrip(t *testing.T) {
	r := testRegistry()
	adapter, err := r.LookupAdapter(spi.ChainSolana)
	if err != nil {
		t.Fatalf("LookupAdapter: %v", err)
	}

	seed := testEd25519Seed(6)
	pub, _ := ed25519.DerivePublicKey(seed)
	var feePayer [32]byte
	copy(feePayer[:], pub)

	rawTx := soltx.RawTransaction{
		FeePayer: feePayer,
		Accounts: []soltx.AccountMeta{{PubKey: feePayer, IsSigner: true, IsWritable: true}},
	}

	signed, err := adapter.Sign(rawTx, [][]byte{seed})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := adapter.RawBytes(signed); err != nil {
		t.Fatalf("RawBytes: %v", err)
	}
	if _, err := adapter.TxHash(signed); err != nil {
		t.Fatalf("TxHash: %v", err)
	}
}

func TestSolanaEncoderRequiresRawFormat(t *testing.T) {
	r := testRegistry()
	encoder, err := r.LookupEncoder(spi.ChainSolana)
	if err != nil {
		t.Fatalf("LookupEncoder: %v", err)
	}
	if encoder.RequiredFormat() != spi.Ed25519Raw32 {
		t.Fatalf("unexpected required format %v", encoder.RequiredFormat())
	}
	pub, _ := ed25519.DerivePublicKey(testEd25519Seed(7))
	addr, err := encoder.Encode(pub, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if addr == "" {
		t.Fatalf("expected non-empty Solana address")
	}
}
