// Package tron implements TRON transaction construction and signing:
// a minimal hand-rolled protobuf encoding of `raw_data` for
// TransferContract and TriggerSmartContract, SHA-256 txid, and
// secp256k1 signing into a 65-byte r‖s‖v field, per §4.12.
package tron

import (
	"fmt"

	addrtron "github.com/vaultedge/walletcore/addr/tron"
	"github.com/vaultedge/walletcore/ecc/secp256k1"
	"github.com/vaultedge/walletcore/hash"
	"github.com/vaultedge/walletcore/walleterr"
)

// ContractType selects which contract raw_data carries.
type ContractType int32

const (
	TransferContractType     ContractType = 1
	TriggerSmartContractType ContractType = 31
)

const (
	transferTypeURL = "type.googleapis.com/protocol.TransferContract"
	triggerTypeURL  = "type.googleapis.com/protocol.TriggerSmartContract"
)

// RawTransaction holds the fields needed to build a TRON `raw_data`,
// per §4.12. Which of (ToAddress, Amount) vs (ContractAddress,
// CallValue, Data) is used depends on ContractType.
type RawTransaction struct {
	ContractType ContractType

	RefBlockBytes [2]byte
	RefBlockHash  [8]byte
	Expiration    int64
	Timestamp     int64
	FeeLimit      int64

	OwnerAddress [21]byte

	// TransferContractType fields.
	ToAddress [21]byte
	Amount    int64

	// TriggerSmartContractType fields.
	ContractAddress [21]byte
	CallValue       int64
	Data            []byte
}

// SignedTransaction is a raw TRON transaction plus its signature.
type SignedTransaction struct {
	Raw       RawTransaction
	From      addrtron.Address
	Signature [65]byte
	RawData   []byte
	Broadcast []byte
	TxID      [32]byte
}

func encodeTransferContract(tx RawTransaction) []byte {
	var out []byte
	out = append(out, encodeBytesField(1, tx.OwnerAddress[:])...)
	out = append(out, encodeBytesField(2, tx.ToAddress[:])...)
	if tx.Amount != 0 {
		out = append(out, encodeVarintField(3, uint64(tx.Amount))...)
	}
	return out
}

func encodeTriggerSmartContract(tx RawTransaction) []byte {
	var out []byte
	out = append(out, encodeBytesField(1, tx.OwnerAddress[:])...)
	out = append(out, encodeBytesField(2, tx.ContractAddress[:])...)
	if tx.CallValue != 0 {
		out = append(out, encodeVarintField(3, uint64(tx.CallValue))...)
	}
	if len(tx.Data) > 0 {
		out = append(out, encodeBytesField(4, tx.Data)...)
	}
	return out
}

func encodeAny(typeURL string, value []byte) []byte {
	var out []byte
	out = append(out, encodeBytesField(1, []byte(typeURL))...)
	out = append(out, encodeBytesField(2, value)...)
	return out
}

func encodeContract(contractType ContractType, any []byte) []byte {
	var out []byte
	out = append(out, encodeVarintField(1, uint64(contractType))...)
	out = append(out, encodeBytesField(2, any)...)
	return out
}

// EncodeRawData builds the protobuf `raw_data` bytes for tx.
func EncodeRawData(tx RawTransaction) ([]byte, error) {
	var contractBytes, typeURL []byte
	switch tx.ContractType {
	case TransferContractType:
		contractBytes = encodeTransferContract(tx)
		typeURL = []byte(transferTypeURL)
	case TriggerSmartContractType:
		contractBytes = encodeTriggerSmartContract(tx)
		typeURL = []byte(triggerTypeURL)
	default:
		return nil, fmt.Errorf("tron: unsupported contract type %d: %w", tx.ContractType, walleterr.ErrUnsupportedChain)
	}

	any := encodeAny(string(typeURL), contractBytes)
	contract := encodeContract(tx.ContractType, any)

	var raw []byte
	raw = append(raw, encodeBytesField(1, tx.RefBlockBytes[:])...)
	raw = append(raw, encodeBytesField(4, tx.RefBlockHash[:])...)
	raw = append(raw, encodeVarintField(8, uint64(tx.Expiration))...)
	raw = append(raw, encodeBytesField(11, contract)...)
	raw = append(raw, encodeVarintField(14, uint64(tx.Timestamp))...)
	if tx.FeeLimit != 0 {
		raw = append(raw, encodeVarintField(18, uint64(tx.FeeLimit))...)
	}
	return raw, nil
}

// Sign builds raw_data, computes its SHA-256 txid, and signs that txid
// with a raw 32-byte secp256k1 private key.
func Sign(tx RawTransaction, priv []byte) (*SignedTransaction, error) {
	rawData, err := EncodeRawData(tx)
	if err != nil {
		return nil, err
	}
	txid := hash.SHA256(rawData)

	sig, err := secp256k1.Sign(priv, txid[:])
	if err != nil {
		return nil, fmt.Errorf("tron: sign: %w", err)
	}

	pub, err := secp256k1.DerivePublicKey(priv, false)
	if err != nil {
		return nil, fmt.Errorf("tron: derive public key: %w", err)
	}
	fromAddr, err := addrtron.FromPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("tron: derive from address: %w", err)
	}

	var sigBytes [65]byte
	copy(sigBytes[:32], sig.R[:])
	copy(sigBytes[32:64], sig.S[:])
	sigBytes[64] = sig.V

	txnBytes := encodeTransaction(rawData, sigBytes[:])

	return &SignedTransaction{
		Raw:       tx,
		From:      fromAddr,
		Signature: sigBytes,
		RawData:   rawData,
		Broadcast: txnBytes,
		TxID:      txid,
	}, nil
}

func encodeTransaction(rawData, signature []byte) []byte {
	var out []byte
	out = append(out, encodeBytesField(1, rawData)...)
	out = append(out, encodeBytesField(2, signature)...)
	return out
}
