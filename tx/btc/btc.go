// Package btc implements Bitcoin transaction construction and signing
// for the P2PKH and P2WPKH script templates, per §4.13: CompactSize/
// little-endian serialization, the canonical legacy sighash algorithm,
// the BIP-143 SegWit sighash, DER signature assembly, and txid/wtxid/
// vsize computation.
package btc

import (
	"fmt"

	"github.com/vaultedge/walletcore/ecc/secp256k1"
	"github.com/vaultedge/walletcore/hash"
	"github.com/vaultedge/walletcore/walleterr"
)

// SighashAll is the only sighash type this package implements; §4.13
// does not require SIGHASH_NONE/SINGLE/ANYONECANPAY, so those are
// deliberately out of scope rather than half-implemented.
const SighashAll uint32 = 0x01

// TxInput is one spent outpoint. PrevOutScript and PrevOutValue
// describe the output being spent and are required to compute the
// sighash (legacy substitutes PrevOutScript into the digest; BIP-143
// folds PrevOutValue into the preimage so a hardware signer can verify
// the amount without fetching the parent transaction).
type TxInput struct {
	PrevTxID      [32]byte
	PrevVout      uint32
	ScriptSig     []byte
	Sequence      uint32
	Witness       [][]byte
	PrevOutScript []byte
	PrevOutValue  uint64
}

// TxOutput is one created output.
type TxOutput struct {
	Value        uint64
	ScriptPubKey []byte
}

// RawTransaction is an unsigned (or partially signed) Bitcoin
// transaction.
type RawTransaction struct {
	Version  int32
	Inputs   []TxInput
	Outputs  []TxOutput
	LockTime uint32
}

// SignedTransaction is a fully signed transaction plus its derived ids.
type SignedTransaction struct {
	Raw       RawTransaction
	Broadcast []byte
	TxID      [32]byte
	WTxID     [32]byte
	VSize     int
}

// LegacySighash implements the canonical pre-SegWit signing algorithm
// for input inputIndex: every other input's script_sig is blanked and
// the signing input's script_sig is replaced with prevOutScript, the
// result is serialized with no witness data, a 4-byte little-endian
// sighash type is appended, and the whole preimage is double-SHA256'd.
// This is deliberately the full canonical algorithm (blank-others,
// substitute-self) rather than the simplified non-canonical shortcut
// of hashing the transaction as-is plus a sighash type, which does not
// bind each input's signature to its own prevout script.
func LegacySighash(tx RawTransaction, inputIndex int, prevOutScript []byte, sighashType uint32) ([32]byte, error) {
	if inputIndex < 0 || inputIndex >= len(tx.Inputs) {
		return [32]byte{}, fmt.Errorf("btc: input index %d out of range: %w", inputIndex, walleterr.ErrInvalidInput)
	}
	override := func(i int) []byte {
		if i == inputIndex {
			return prevOutScript
		}
		return nil
	}
	preimage := serializeNoWitnessWithOverride(tx, override)
	preimage = appendLE32(preimage, sighashType)
	return hash.DoubleSHA256(preimage), nil
}

// BIP143Sighash implements the SegWit v0 signature hash of BIP-143 for
// input inputIndex, spending a P2WPKH (or P2WSH with the equivalent
// scriptCode) output of amount satoshis. Only SIGHASH_ALL is supported.
func BIP143Sighash(tx RawTransaction, inputIndex int, scriptCode []byte, amount uint64, sighashType uint32) ([32]byte, error) {
	if inputIndex < 0 || inputIndex >= len(tx.Inputs) {
		return [32]byte{}, fmt.Errorf("btc: input index %d out of range: %w", inputIndex, walleterr.ErrInvalidInput)
	}
	if sighashType != SighashAll {
		return [32]byte{}, fmt.Errorf("btc: unsupported sighash type %d: %w", sighashType, walleterr.ErrUnsupportedScheme)
	}

	var prevouts, sequences []byte
	for _, in := range tx.Inputs {
		prevouts = append(prevouts, in.PrevTxID[:]...)
		prevouts = appendLE32(prevouts, in.PrevVout)
		sequences = appendLE32(sequences, in.Sequence)
	}
	hashPrevouts := hash.DoubleSHA256(prevouts)
	hashSequence := hash.DoubleSHA256(sequences)

	var outputsBuf []byte
	for _, out := range tx.Outputs {
		outputsBuf = appendLE64(outputsBuf, out.Value)
		outputsBuf = writeVarBytes(outputsBuf, out.ScriptPubKey)
	}
	hashOutputs := hash.DoubleSHA256(outputsBuf)

	in := tx.Inputs[inputIndex]

	var preimage []byte
	preimage = appendLE32(preimage, uint32(tx.Version))
	preimage = append(preimage, hashPrevouts[:]...)
	preimage = append(preimage, hashSequence[:]...)
	preimage = append(preimage, in.PrevTxID[:]...)
	preimage = appendLE32(preimage, in.PrevVout)
	preimage = writeVarBytes(preimage, scriptCode)
	preimage = appendLE64(preimage, amount)
	preimage = appendLE32(preimage, in.Sequence)
	preimage = append(preimage, hashOutputs[:]...)
	preimage = appendLE32(preimage, tx.LockTime)
	preimage = appendLE32(preimage, sighashType)

	return hash.DoubleSHA256(preimage), nil
}

// P2PKHScriptSig assembles `push(DER sig ‖ sighashType) push(pubkey)`,
// the script_sig for a legacy P2PKH input.
func P2PKHScriptSig(sig *secp256k1.Signature, sighashType uint32, pubkey []byte) []byte {
	sigWithType := append(sig.EncodeDER(), byte(sighashType))
	var out []byte
	out = append(out, byte(len(sigWithType)))
	out = append(out, sigWithType...)
	out = append(out, byte(len(pubkey)))
	out = append(out, pubkey...)
	return out
}

// P2WPKHWitness assembles the two-item witness stack `[DER sig ‖
// sighashType, pubkey]` for a native SegWit P2WPKH input.
func P2WPKHWitness(sig *secp256k1.Signature, sighashType uint32, pubkey []byte) [][]byte {
	sigWithType := append(sig.EncodeDER(), byte(sighashType))
	return [][]byte{sigWithType, pubkey}
}

// p2wpkhScriptCode builds the BIP-143 scriptCode for a P2WPKH output
// whose program (20-byte pubkey hash) is program: the classic P2PKH
// script, per BIP-143's "equivalent of the P2PKH output script" rule.
func p2wpkhScriptCode(program [20]byte) []byte {
	out := make([]byte, 0, 25)
	out = append(out, 0x76, 0xa9, 0x14)
	out = append(out, program[:]...)
	out = append(out, 0x88, 0xac)
	return out
}

// InputSpec describes how to sign one input: its raw private key and
// whether the output it spends is native SegWit (P2WPKH) or legacy
// (P2PKH). PubKeyHash is the 20-byte HASH160 of the compressed public
// key, used to build the scriptCode for SegWit inputs.
type InputSpec struct {
	PrivateKey []byte
	IsSegWit   bool
	PubKeyHash [20]byte
}

// Sign signs every input of tx according to specs (one entry per
// input, same order) and returns the fully assembled transaction with
// its txid, wtxid, and vsize. Only P2PKH and P2WPKH inputs are
// supported, matching this package's address templates.
func Sign(tx RawTransaction, specs []InputSpec) (*SignedTransaction, error) {
	if len(specs) != len(tx.Inputs) {
		return nil, fmt.Errorf("btc: %d input specs for %d inputs: %w", len(specs), len(tx.Inputs), walleterr.ErrInvalidInput)
	}

	signed := tx
	signed.Inputs = make([]TxInput, len(tx.Inputs))
	copy(signed.Inputs, tx.Inputs)

	for i, spec := range specs {
		pub, err := secp256k1.DerivePublicKey(spec.PrivateKey, true)
		if err != nil {
			return nil, fmt.Errorf("btc: derive public key for input %d: %w", i, err)
		}

		var digest [32]byte
		if spec.IsSegWit {
			scriptCode := p2wpkhScriptCode(spec.PubKeyHash)
			digest, err = BIP143Sighash(signed, i, scriptCode, tx.Inputs[i].PrevOutValue, SighashAll)
		} else {
			digest, err = LegacySighash(signed, i, tx.Inputs[i].PrevOutScript, SighashAll)
		}
		if err != nil {
			return nil, fmt.Errorf("btc: sighash for input %d: %w", i, err)
		}

		sig, err := secp256k1.Sign(spec.PrivateKey, digest[:])
		if err != nil {
			return nil, fmt.Errorf("btc: sign input %d: %w", i, err)
		}

		if spec.IsSegWit {
			signed.Inputs[i].ScriptSig = nil
			signed.Inputs[i].Witness = P2WPKHWitness(sig, SighashAll, pub)
		} else {
			signed.Inputs[i].ScriptSig = P2PKHScriptSig(sig, SighashAll, pub)
			signed.Inputs[i].Witness = nil
		}
	}

	broadcast := Broadcast(signed)
	txid := hash.DoubleSHA256(SerializeNoWitness(signed))
	var wtxid [32]byte
	if hasWitness(signed) {
		wtxid = hash.DoubleSHA256(SerializeWithWitness(signed))
	} else {
		wtxid = txid
	}

	return &SignedTransaction{
		Raw:       signed,
		Broadcast: broadcast,
		TxID:      reverseBytes(txid),
		WTxID:     reverseBytes(wtxid),
		VSize:     VSize(signed),
	}, nil
}

// reverseBytes returns b reversed — Bitcoin displays txids in
// big-endian (reversed internal byte order) for historical reasons.
func reverseBytes(b [32]byte) [32]byte {
	var out [32]byte
	for i := range b {
		out[i] = b[len(b)-1-i]
	}
	return out
}
