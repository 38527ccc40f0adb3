// Package evm implements EIP-155 legacy transaction encoding and
// signing: RLP preimage construction, Keccak-256 sighash, signed-tx
// assembly, and `from` address derivation, per §4.11.
package evm

import (
	"fmt"
	"math/big"

	"github.com/vaultedge/walletcore/addr/evm"
	"github.com/vaultedge/walletcore/ecc/secp256k1"
	"github.com/vaultedge/walletcore/hash"
	"github.com/vaultedge/walletcore/walleterr"
)

// RawTransaction holds the legacy/EIP-155 fields of §4.11. To is nil
// for contract-creation transactions.
type RawTransaction struct {
	Nonce    uint64
	GasPrice *big.Int
	GasLimit uint64
	To       *[20]byte
	Value    *big.Int
	Data     []byte
	ChainID  uint64
}

// SignedTransaction is a raw transaction plus its signature and derived
// fields.
type SignedTransaction struct {
	Raw       RawTransaction
	From      evm.Address
	Signature *secp256k1.Signature
	Broadcast []byte
	TxID      [32]byte
}

func (tx RawTransaction) toField() []byte {
	if tx.To == nil {
		return nil
	}
	return tx.To[:]
}

// SigningHash computes Keccak-256 of the EIP-155 preimage
// RLP([nonce, gasPrice, gasLimit, to, value, data, chainId, 0, 0]).
func (tx RawTransaction) SigningHash() [32]byte {
	encoded := rlpEncodeList(
		rlpEncodeUint(tx.Nonce),
		rlpEncodeBigInt(tx.GasPrice),
		rlpEncodeUint(tx.GasLimit),
		rlpEncodeBytes(tx.toField()),
		rlpEncodeBigInt(tx.Value),
		rlpEncodeBytes(tx.Data),
		rlpEncodeUint(tx.ChainID),
		rlpEncodeUint(0),
		rlpEncodeUint(0),
	)
	return hash.Keccak256(encoded)
}

// Sign signs tx with a raw 32-byte secp256k1 private key, assembling
// the signed RLP, txid, and the `from` address derived from priv's
// public key.
func Sign(tx RawTransaction, priv []byte) (*SignedTransaction, error) {
	if tx.ChainID == 0 {
		return nil, fmt.Errorf("evm: chain id must be non-zero for EIP-155 signing: %w", walleterr.ErrInvalidInput)
	}
	signingHash := tx.SigningHash()
	signingHashSlice := signingHash[:]

	sig, err := secp256k1.Sign(priv, signingHashSlice)
	if err != nil {
		return nil, fmt.Errorf("evm: sign: %w", err)
	}

	pub, err := secp256k1.DerivePublicKey(priv, false)
	if err != nil {
		return nil, fmt.Errorf("evm: derive public key: %w", err)
	}
	fromAddr, err := evm.FromPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("evm: derive from address: %w", err)
	}

	vEIP155 := sig.ToEIP155(tx.ChainID)
	signedRLP := rlpEncodeList(
		rlpEncodeUint(tx.Nonce),
		rlpEncodeBigInt(tx.GasPrice),
		rlpEncodeUint(tx.GasLimit),
		rlpEncodeBytes(tx.toField()),
		rlpEncodeBigInt(tx.Value),
		rlpEncodeBytes(tx.Data),
		rlpEncodeUint(vEIP155),
		rlpEncodeBytes(trimLeadingZero(sig.R[:])),
		rlpEncodeBytes(trimLeadingZero(sig.S[:])),
	)

	return &SignedTransaction{
		Raw:       tx,
		From:      fromAddr,
		Signature: sig,
		Broadcast: signedRLP,
		TxID:      hash.Keccak256(signedRLP),
	}, nil
}

func trimLeadingZero(b []byte) []byte {
	i := 0
	for i < len(b)-1 && b[i] == 0 {
		i++
	}
	return b[i:]
}
