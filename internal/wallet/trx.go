package wallet

import (
	"fmt"

	addrtron "github.com/vaultedge/walletcore/addr/tron"
	"github.com/vaultedge/walletcore/spi"
	trontx "github.com/vaultedge/walletcore/tx/tron"
	"github.com/vaultedge/walletcore/walleterr"
)

// TronAdapter is the spi.ChainAdapter for TRON transfer/trigger
// contracts. rawTx must be a trontx.RawTransaction and signingKey a
// raw 32-byte secp256k1 private scalar.
type TronAdapter struct{}

func (TronAdapter) ChainType() spi.ChainType { return spi.ChainTron }

func (TronAdapter) Sign(rawTx any, signingKey any) (any, error) {
	tx, ok := rawTx.(trontx.RawTransaction)
	if !ok {
		return nil, fmt.Errorf("wallet: TronAdapter.Sign expected tron.RawTransaction: %w", walleterr.ErrInvalidInput)
	}
	priv, ok := signingKey.([]byte)
	if !ok {
		return nil, fmt.Errorf("wallet: TronAdapter.Sign expected a raw private key: %w", walleterr.ErrInvalidInput)
	}
	return trontx.Sign(tx, priv)
}

func (TronAdapter) RawBytes(signedTx any) ([]byte, error) {
	s, ok := signedTx.(*trontx.SignedTransaction)
	if !ok {
		return nil, fmt.Errorf("wallet: TronAdapter.RawBytes expected *tron.SignedTransaction: %w", walleterr.ErrInvalidInput)
	}
	return s.Broadcast, nil
}

func (TronAdapter) TxHash(signedTx any) ([]byte, error) {
	s, ok := signedTx.(*trontx.SignedTransaction)
	if !ok {
		return nil, fmt.Errorf("wallet: TronAdapter.TxHash expected *tron.SignedTransaction: %w", walleterr.ErrInvalidInput)
	}
	return s.TxID[:], nil
}

// TronEncoder is the spi.AddressEncoder for TRON addresses: the same
// Keccak-derived 20-byte hash as EVM, prefixed 0x41 and Base58Check
// encoded.
type TronEncoder struct{}

func (TronEncoder) ChainType() spi.ChainType { return spi.ChainTron }

func (TronEncoder) Encode(pubKey []byte, options any) (string, error) {
	a, err := addrtron.FromPublicKey(pubKey)
	if err != nil {
		return "", err
	}
	return a.String(), nil
}

func (TronEncoder) RequiredFormat() spi.PubKeyFormat { return spi.UncompressedSecp256k1_65 }
