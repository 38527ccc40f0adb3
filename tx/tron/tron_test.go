package tron

import (
	"bytes"
	"testing"

	"github.com/vaultedge/walletcore/hash"
)

func TestEncodeVarint(t *testing.T) {
	cases := []struct {
		v    uint64
		want []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{300, []byte{0xac, 0x02}},
	}
	for _, c := range cases {
		if got := encodeVarint(c.v); !bytes.Equal(got, c.want) {
			t.Fatalf("encodeVarint(%d) = %x, want %x", c.v, got, c.want)
		}
	}
}

func testRawTransferTx() RawTransaction {
	var owner, to [21]byte
	owner[0] = 0x41
	to[0] = 0x41
	for i := 1; i < 21; i++ {
		owner[i] = byte(i)
		to[i] = byte(i + 1)
	}
	return RawTransaction{
		ContractType:  TransferContractType,
		RefBlockBytes: [2]byte{0x01, 0x02},
		RefBlockHash:  [8]byte{1, 2, 3, 4, 5, 6, 7, 8},
		Expiration:    1_700_000_000_000,
		Timestamp:     1_699_999_000_000,
		OwnerAddress:  owner,
		ToAddress:     to,
		Amount:        1_000_000,
	}
}

func TestEncodeRawDataDeterministic(t *testing.T) {
	tx := testRawTransferTx()
	a, err := EncodeRawData(tx)
	if err != nil {
		t.Fatalf("EncodeRawData: %v", err)
	}
	b, err := EncodeRawData(tx)
	if err != nil {
		t.Fatalf("EncodeRawData: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("raw_data encoding is not deterministic")
	}
	if len(a) == 0 {
		t.Fatalf("raw_data is empty")
	}
}

func TestEncodeRawDataOmitsZeroFeeLimit(t *testing.T) {
	tx := testRawTransferTx()
	tx.FeeLimit = 0
	withZero, _ := EncodeRawData(tx)
	tx.FeeLimit = 5_000_000
	withFee, _ := EncodeRawData(tx)
	if len(withFee) <= len(withZero) {
		t.Fatalf("expected non-zero fee_limit to add bytes to raw_data")
	}
}

func TestSignProducesValidSignatureAndAddress(t *testing.T) {
	priv := make([]byte, 32)
	priv[31] = 1
	tx := testRawTransferTx()

	signed, err := Sign(tx, priv)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if want := "TMVQGm1qAQYVdetCeGRRkTWYYrLXuHK2HC"; signed.From.String() != want {
		t.Fatalf("from = %q, want %q", signed.From.String(), want)
	}
	if len(signed.Signature) != 65 {
		t.Fatalf("signature length = %d, want 65", len(signed.Signature))
	}
	wantTxID := hash.SHA256(signed.RawData)
	if !bytes.Equal(signed.TxID[:], wantTxID[:]) {
		t.Fatalf("txid does not match sha256(raw_data)")
	}
}

func TestSignRejectsUnsupportedContractType(t *testing.T) {
	priv := make([]byte, 32)
	priv[31] = 1
	tx := testRawTransferTx()
	tx.ContractType = ContractType(99)
	if _, err := Sign(tx, priv); err == nil {
		t.Fatalf("expected error for unsupported contract type")
	}
}
