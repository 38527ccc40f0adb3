package wallet

import (
	"fmt"

	evmaddr "github.com/vaultedge/walletcore/addr/evm"
	evmtx "github.com/vaultedge/walletcore/tx/evm"
	"github.com/vaultedge/walletcore/spi"
	"github.com/vaultedge/walletcore/walleterr"
)

// EVMAdapter is the spi.ChainAdapter for EVM-family legacy/EIP-155
// transactions. rawTx must be an evmtx.RawTransaction and signingKey a
// raw 32-byte secp256k1 private scalar.
type EVMAdapter struct{}

func (EVMAdapter) ChainType() spi.ChainType { return spi.ChainEVM }

func (EVMAdapter) Sign(rawTx any, signingKey any) (any, error) {
	tx, ok := rawTx.(evmtx.RawTransaction)
	if !ok {
		return nil, fmt.Errorf("wallet: EVMAdapter.Sign expected evm.RawTransaction: %w", walleterr.ErrInvalidInput)
	}
	priv, ok := signingKey.([]byte)
	if !ok {
		return nil, fmt.Errorf("wallet: EVMAdapter.Sign expected a raw private key: %w", walleterr.ErrInvalidInput)
	}
	return evmtx.Sign(tx, priv)
}

func (EVMAdapter) RawBytes(signedTx any) ([]byte, error) {
	s, ok := signedTx.(*evmtx.SignedTransaction)
	if !ok {
		return nil, fmt.Errorf("wallet: EVMAdapter.RawBytes expected *evm.SignedTransaction: %w", walleterr.ErrInvalidInput)
	}
	return s.Broadcast, nil
}

func (EVMAdapter) TxHash(signedTx any) ([]byte, error) {
	s, ok := signedTx.(*evmtx.SignedTransaction)
	if !ok {
		return nil, fmt.Errorf("wallet: EVMAdapter.TxHash expected *evm.SignedTransaction: %w", walleterr.ErrInvalidInput)
	}
	return s.TxID[:], nil
}

// EVMEncoder is the spi.AddressEncoder for EVM addresses: Keccak-256
// of an uncompressed public key, EIP-55 checksummed.
type EVMEncoder struct{}

func (EVMEncoder) ChainType() spi.ChainType { return spi.ChainEVM }

func (EVMEncoder) Encode(pubKey []byte, options any) (string, error) {
	a, err := evmaddr.FromPublicKey(pubKey)
	if err != nil {
		return "", err
	}
	return a.String(), nil
}

func (EVMEncoder) RequiredFormat() spi.PubKeyFormat { return spi.UncompressedSecp256k1_65 }
