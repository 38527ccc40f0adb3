package sol

// compact-u16 (Solana's "shortvec" length prefix): the same 7-bit
// continuation-byte encoding as LEB128/protobuf varints, but bounded
// to 16 bits (at most 3 bytes) since it only ever encodes a count.

func writeCompactU16(buf []byte, n uint16) []byte {
	v := n
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			buf = append(buf, b|0x80)
		} else {
			buf = append(buf, b)
			break
		}
	}
	return buf
}

func writeCompactArrayHeader(buf []byte, length int) []byte {
	return writeCompactU16(buf, uint16(length))
}
