package btc

// writeCompactSize appends n encoded per Bitcoin's variable-length integer rule.
func writeCompactSize(buf []byte, n uint64) []byte {
	switch {
	case n < 0xfd:
		return append(buf, byte(n))
	case n <= 0xffff:
		buf = append(buf, 0xfd)
		return appendLE16(buf, uint16(n))
	case n <= 0xffffffff:
		buf = append(buf, 0xfe)
		return appendLE32(buf, uint32(n))
	default:
		buf = append(buf, 0xff)
		return appendLE64(buf, n)
	}
}

func appendLE16(buf []byte, v uint16) []byte {
	return append(buf, byte(v), byte(v>>8))
}

func appendLE32(buf []byte, v uint32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func appendLE64(buf []byte, v uint64) []byte {
	return append(buf,
		byte(v), byte(v>>8), byte(v>>16), byte(v>>24),
		byte(v>>32), byte(v>>40), byte(v>>48), byte(v>>56))
}

func writeVarBytes(buf []byte, data []byte) []byte {
	buf = writeCompactSize(buf, uint64(len(data)))
	return append(buf, data...)
}

// serializeInputsNoWitness appends each input's non-witness fields:
// prev_txid ‖ prev_vout(LE4) ‖ script_sig ‖ sequence(LE4).
func serializeInputsNoWitness(buf []byte, inputs []TxInput, scriptSigOverride func(i int) []byte) []byte {
	buf = writeCompactSize(buf, uint64(len(inputs)))
	for i, in := range inputs {
		buf = append(buf, in.PrevTxID[:]...)
		buf = appendLE32(buf, in.PrevVout)
		scriptSig := in.ScriptSig
		if scriptSigOverride != nil {
			scriptSig = scriptSigOverride(i)
		}
		buf = writeVarBytes(buf, scriptSig)
		buf = appendLE32(buf, in.Sequence)
	}
	return buf
}

func serializeOutputs(buf []byte, outputs []TxOutput) []byte {
	buf = writeCompactSize(buf, uint64(len(outputs)))
	for _, out := range outputs {
		buf = appendLE64(buf, out.Value)
		buf = writeVarBytes(buf, out.ScriptPubKey)
	}
	return buf
}

// SerializeNoWitness encodes tx in the legacy consensus format, with no
// SegWit marker/flag and no witness data — the form used by txid and by
// the legacy sighash.
func SerializeNoWitness(tx RawTransaction) []byte {
	return serializeNoWitnessWithOverride(tx, nil)
}

func serializeNoWitnessWithOverride(tx RawTransaction, scriptSigOverride func(i int) []byte) []byte {
	var buf []byte
	buf = appendLE32(buf, uint32(tx.Version))
	buf = serializeInputsNoWitness(buf, tx.Inputs, scriptSigOverride)
	buf = serializeOutputs(buf, tx.Outputs)
	buf = appendLE32(buf, tx.LockTime)
	return buf
}

// SerializeWithWitness encodes tx with the SegWit marker (0x00), flag
// (0x01), and each input's witness stack — the form used by wtxid and
// broadcast bytes for SegWit transactions.
func SerializeWithWitness(tx RawTransaction) []byte {
	var buf []byte
	buf = appendLE32(buf, uint32(tx.Version))
	buf = append(buf, 0x00, 0x01)
	buf = serializeInputsNoWitness(buf, tx.Inputs, nil)
	buf = serializeOutputs(buf, tx.Outputs)
	for _, in := range tx.Inputs {
		buf = writeCompactSize(buf, uint64(len(in.Witness)))
		for _, item := range in.Witness {
			buf = writeVarBytes(buf, item)
		}
	}
	buf = appendLE32(buf, tx.LockTime)
	return buf
}

func hasWitness(tx RawTransaction) bool {
	for _, in := range tx.Inputs {
		if len(in.Witness) > 0 {
			return true
		}
	}
	return false
}

// Broadcast returns the wire-format bytes for tx: the witness-inclusive
// serialization if any input carries a witness, otherwise the plain
// legacy serialization.
func Broadcast(tx RawTransaction) []byte {
	if hasWitness(tx) {
		return SerializeWithWitness(tx)
	}
	return SerializeNoWitness(tx)
}

// VSize computes BIP-141 virtual size: rawbytes for a non-SegWit
// transaction, ceil(weight/4) for one carrying witness data, where
// weight = 3*len(no-witness serialization) + len(witness serialization).
func VSize(tx RawTransaction) int {
	base := len(SerializeNoWitness(tx))
	if !hasWitness(tx) {
		return base
	}
	weight := 3*base + len(SerializeWithWitness(tx))
	return (weight + 3) / 4
}
