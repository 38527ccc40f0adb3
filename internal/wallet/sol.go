package wallet

import (
	"fmt"

	soladdr "github.com/vaultedge/walletcore/addr/sol"
	"github.com/vaultedge/walletcore/spi"
	soltx "github.com/vaultedge/walletcore/tx/sol"
	"github.com/vaultedge/walletcore/walleterr"
)

// SolanaAdapter is the spi.ChainAdapter for Solana legacy-message
// transactions. rawTx must be a soltx.RawTransaction and signingKey a
// [][]byte of per-signer 32-byte Ed25519 seeds, ordered to match the
// compiled message's signer accounts.
type SolanaAdapter struct{}

func (SolanaAdapter) ChainType() spi.ChainType { return spi.ChainSolana }

func (SolanaAdapter) Sign(rawTx any, signingKey any) (any, error) {
	tx, ok := rawTx.(soltx.RawTransaction)
	if !ok {
		return nil, fmt.Errorf("wallet: SolanaAdapter.Sign expected sol.RawTransaction: %w", walleterr.ErrInvalidInput)
	}
	seeds, ok := signingKey.([][]byte)
	if !ok {
		return nil, fmt.Errorf("wallet: SolanaAdapter.Sign expected [][]byte signer seeds: %w", walleterr.ErrInvalidInput)
	}
	return soltx.Sign(tx, seeds)
}

func (SolanaAdapter) RawBytes(signedTx any) ([]byte, error) {
	s, ok := signedTx.(*soltx.SignedTransaction)
	if !ok {
		return nil, fmt.Errorf("wallet: SolanaAdapter.RawBytes expected *sol.SignedTransaction: %w", walleterr.ErrInvalidInput)
	}
	return s.Broadcast, nil
}

func (SolanaAdapter) TxHash(signedTx any) ([]byte, error) {
	s, ok := signedTx.(*soltx.SignedTransaction)
	if !ok {
		return nil, fmt.Errorf("wallet: SolanaAdapter.TxHash expected *sol.SignedTransaction: %w", walleterr.ErrInvalidInput)
	}
	return s.TxHash[:], nil
}

// SolanaEncoder is the spi.AddressEncoder for Solana: a raw 32-byte
// Ed25519 public key rendered as plain Base58.
type SolanaEncoder struct{}

func (SolanaEncoder) ChainType() spi.ChainType { return spi.ChainSolana }

func (SolanaEncoder) Encode(pubKey []byte, options any) (string, error) {
	a, err := soladdr.FromPublicKey(pubKey)
	if err != nil {
		return "", err
	}
	return a.String(), nil
}

func (SolanaEncoder) RequiredFormat() spi.PubKeyFormat { return spi.Ed25519Raw32 }
