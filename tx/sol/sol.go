// Package sol implements Solana message compilation and signing, per
// §4.14: account collection and canonical group sorting, compact-u16
// (shortvec) encoding, the legacy message layout, and Ed25519 signing.
package sol

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/vaultedge/walletcore/ecc/ed25519"
	"github.com/vaultedge/walletcore/walleterr"
)

// AccountMeta is one account referenced by a transaction, before group
// sorting.
type AccountMeta struct {
	PubKey     [32]byte
	IsSigner   bool
	IsWritable bool
}

// Instruction is an unsigned instruction: ProgramID is a full pubkey,
// rewritten to an index by CompileMessage; AccountIndices already index
// the compiled account list and are copied through unchanged.
type Instruction struct {
	ProgramID      [32]byte
	AccountIndices []byte
	Data           []byte
}

// RawTransaction is an unsigned Solana transaction.
type RawTransaction struct {
	RecentBlockhash [32]byte
	FeePayer        [32]byte
	Accounts        []AccountMeta
	Instructions    []Instruction
}

// CompiledInstruction references the compiled message's account list
// by index, per the wire layout of §4.14.
type CompiledInstruction struct {
	ProgramIDIndex byte
	AccountIndices []byte
	Data           []byte
}

// Message is a compiled Solana message: the sorted account list, the
// header counts, and the instructions with their program ids rewritten
// to indices into it.
type Message struct {
	Header          [3]byte
	Accounts        [][32]byte
	RecentBlockhash [32]byte
	Instructions    []CompiledInstruction
}

// sortableAccount is the union of fee payer, explicit accounts, and
// instruction program ids, deduplicated by byte equality, before
// group sorting.
type sortableAccount struct {
	pubKey     [32]byte
	isSigner   bool
	isWritable bool
	isFeePayer bool
}

// group returns the canonical BIP-44-unrelated sort bucket: 0 = signer
// ∧ writable, 1 = signer ∧ readonly, 2 = ¬signer ∧ writable, 3 =
// ¬signer ∧ readonly.
func (a sortableAccount) group() int {
	switch {
	case a.isSigner && a.isWritable:
		return 0
	case a.isSigner && !a.isWritable:
		return 1
	case !a.isSigner && a.isWritable:
		return 2
	default:
		return 3
	}
}

// collectAccounts builds the deduplicated account set: the fee payer,
// every explicit account in tx.Accounts, and every instruction's
// program id (added read-only, non-signer, unless already present
// with stronger flags).
func collectAccounts(tx RawTransaction) []sortableAccount {
	index := make(map[[32]byte]int)
	var accounts []sortableAccount

	upsert := func(pubKey [32]byte, isSigner, isWritable, isFeePayer bool) {
		if i, ok := index[pubKey]; ok {
			if isSigner {
				accounts[i].isSigner = true
			}
			if isWritable {
				accounts[i].isWritable = true
			}
			if isFeePayer {
				accounts[i].isFeePayer = true
			}
			return
		}
		index[pubKey] = len(accounts)
		accounts = append(accounts, sortableAccount{
			pubKey: pubKey, isSigner: isSigner, isWritable: isWritable, isFeePayer: isFeePayer,
		})
	}

	upsert(tx.FeePayer, true, true, true)
	for _, acc := range tx.Accounts {
		upsert(acc.PubKey, acc.IsSigner, acc.IsWritable, false)
	}
	for _, ix := range tx.Instructions {
		upsert(ix.ProgramID, false, false, false)
	}
	return accounts
}

// sortAccounts orders accounts into the canonical four groups, fee
// payer first, with a lexicographic-pubkey tiebreak within each group
// (§9 Open Question: the source's sort is not stable across ties with
// identical flags but different pubkeys; this makes the order fully
// deterministic across implementations).
func sortAccounts(accounts []sortableAccount) []sortableAccount {
	sort.SliceStable(accounts, func(i, j int) bool {
		a, b := accounts[i], accounts[j]
		if a.isFeePayer != b.isFeePayer {
			return a.isFeePayer
		}
		if a.isFeePayer && b.isFeePayer {
			return false
		}
		if a.group() != b.group() {
			return a.group() < b.group()
		}
		return bytes.Compare(a.pubKey[:], b.pubKey[:]) < 0
	})
	return accounts
}

// CompileMessage builds the sorted account list, header, and
// index-rewritten instructions for tx.
func CompileMessage(tx RawTransaction) (*Message, error) {
	accounts := sortAccounts(collectAccounts(tx))

	indexOf := make(map[[32]byte]int, len(accounts))
	for i, a := range accounts {
		indexOf[a.pubKey] = i
	}

	var numRequiredSignatures, numReadonlySigned, numReadonlyUnsigned int
	for _, a := range accounts {
		if a.isSigner {
			numRequiredSignatures++
			if !a.isWritable {
				numReadonlySigned++
			}
		} else if !a.isWritable {
			numReadonlyUnsigned++
		}
	}
	if numRequiredSignatures > 255 || numReadonlySigned > 255 || numReadonlyUnsigned > 255 {
		return nil, fmt.Errorf("sol: account header counts exceed a byte: %w", walleterr.ErrArithmeticOverflow)
	}

	instructions := make([]CompiledInstruction, len(tx.Instructions))
	for i, ix := range tx.Instructions {
		// collectAccounts always inserts every instruction's program id,
		// so this lookup cannot miss.
		programIdx := indexOf[ix.ProgramID]
		if programIdx > 255 {
			return nil, fmt.Errorf("sol: instruction %d program index exceeds a byte: %w", i, walleterr.ErrArithmeticOverflow)
		}
		instructions[i] = CompiledInstruction{
			ProgramIDIndex: byte(programIdx),
			AccountIndices: append([]byte(nil), ix.AccountIndices...),
			Data:           append([]byte(nil), ix.Data...),
		}
	}

	pubKeys := make([][32]byte, len(accounts))
	for i, a := range accounts {
		pubKeys[i] = a.pubKey
	}

	return &Message{
		Header: [3]byte{
			byte(numRequiredSignatures),
			byte(numReadonlySigned),
			byte(numReadonlyUnsigned),
		},
		Accounts:        pubKeys,
		RecentBlockhash: tx.RecentBlockhash,
		Instructions:    instructions,
	}, nil
}

// Serialize encodes msg per §4.14: header ‖ compact_array(accounts) ‖
// recent_blockhash ‖ compact_array(instructions).
func (m *Message) Serialize() []byte {
	var buf []byte
	buf = append(buf, m.Header[:]...)
	buf = writeCompactArrayHeader(buf, len(m.Accounts))
	for _, pk := range m.Accounts {
		buf = append(buf, pk[:]...)
	}
	buf = append(buf, m.RecentBlockhash[:]...)
	buf = writeCompactArrayHeader(buf, len(m.Instructions))
	for _, ix := range m.Instructions {
		buf = append(buf, ix.ProgramIDIndex)
		buf = writeCompactArrayHeader(buf, len(ix.AccountIndices))
		buf = append(buf, ix.AccountIndices...)
		buf = writeCompactArrayHeader(buf, len(ix.Data))
		buf = append(buf, ix.Data...)
	}
	return buf
}

// SignedTransaction is a compiled message plus its Ed25519 signatures,
// one per required-signature account in message-account order.
type SignedTransaction struct {
	Message    *Message
	Signatures [][64]byte
	Broadcast  []byte
	TxHash     [64]byte
}

// Sign signs the compiled message with signerSeeds, a slice of raw
// 32-byte Ed25519 seeds in the same order as the message's required
// signer accounts (message.Accounts[:numRequiredSignatures]). TxHash
// is the fee payer's (first signer's) 64-byte signature, per §4.14.
func Sign(tx RawTransaction, signerSeeds [][]byte) (*SignedTransaction, error) {
	msg, err := CompileMessage(tx)
	if err != nil {
		return nil, err
	}
	numSigners := int(msg.Header[0])
	if len(signerSeeds) != numSigners {
		return nil, fmt.Errorf("sol: %d signer seeds for %d required signatures: %w", len(signerSeeds), numSigners, walleterr.ErrInvalidInput)
	}

	serialized := msg.Serialize()

	signatures := make([][64]byte, numSigners)
	for i, seed := range signerSeeds {
		pub, err := ed25519.DerivePublicKey(seed)
		if err != nil {
			return nil, fmt.Errorf("sol: derive public key for signer %d: %w", i, err)
		}
		if i >= len(msg.Accounts) || msg.Accounts[i] != toArray32(pub) {
			return nil, fmt.Errorf("sol: signer %d does not match message account order: %w", i, walleterr.ErrInvalidInput)
		}
		sig, err := ed25519.Sign(seed, serialized)
		if err != nil {
			return nil, fmt.Errorf("sol: sign with signer %d: %w", i, err)
		}
		copy(signatures[i][:], sig)
	}

	var broadcast []byte
	broadcast = writeCompactArrayHeader(broadcast, len(signatures))
	for _, sig := range signatures {
		broadcast = append(broadcast, sig[:]...)
	}
	broadcast = append(broadcast, serialized...)

	var txHash [64]byte
	if numSigners > 0 {
		txHash = signatures[0]
	}

	return &SignedTransaction{
		Message:    msg,
		Signatures: signatures,
		Broadcast:  broadcast,
		TxHash:     txHash,
	}, nil
}

func toArray32(b []byte) [32]byte {
	var out [32]byte
	copy(out[:], b)
	return out
}
