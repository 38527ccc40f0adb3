package evm

import "math/big"

// rlpEncodeBytes implements the RLP byte-string encoding rule of §4.11.
func rlpEncodeBytes(data []byte) []byte {
	if len(data) == 1 && data[0] < 0x80 {
		return []byte{data[0]}
	}
	if len(data) <= 55 {
		out := make([]byte, 0, 1+len(data))
		out = append(out, 0x80+byte(len(data)))
		return append(out, data...)
	}
	lenBE := bigEndianMinimal(uint64(len(data)))
	out := make([]byte, 0, 1+len(lenBE)+len(data))
	out = append(out, 0xb7+byte(len(lenBE)))
	out = append(out, lenBE...)
	return append(out, data...)
}

// rlpEncodeList wraps already-encoded children with the RLP list header.
func rlpEncodeList(children ...[]byte) []byte {
	payload := make([]byte, 0)
	for _, c := range children {
		payload = append(payload, c...)
	}
	if len(payload) <= 55 {
		out := make([]byte, 0, 1+len(payload))
		out = append(out, 0xc0+byte(len(payload)))
		return append(out, payload...)
	}
	lenBE := bigEndianMinimal(uint64(len(payload)))
	out := make([]byte, 0, 1+len(lenBE)+len(payload))
	out = append(out, 0xf7+byte(len(lenBE)))
	out = append(out, lenBE...)
	return append(out, payload...)
}

// rlpEncodeUint encodes v as a minimal big-endian byte string; 0
// encodes as the empty byte string.
func rlpEncodeUint(v uint64) []byte {
	return rlpEncodeBytes(bigEndianMinimal(v))
}

// rlpEncodeBigInt encodes a non-negative big.Int the same way, per the
// "strip the two's-complement sign byte" rule: big.Int.Bytes() is
// already an unsigned minimal big-endian encoding, so no extra
// stripping is needed here.
func rlpEncodeBigInt(v *big.Int) []byte {
	if v == nil || v.Sign() == 0 {
		return rlpEncodeBytes(nil)
	}
	return rlpEncodeBytes(v.Bytes())
}

func bigEndianMinimal(v uint64) []byte {
	if v == 0 {
		return nil
	}
	var buf [8]byte
	buf[0] = byte(v >> 56)
	buf[1] = byte(v >> 48)
	buf[2] = byte(v >> 40)
	buf[3] = byte(v >> 32)
	buf[4] = byte(v >> 24)
	buf[5] = byte(v >> 16)
	buf[6] = byte(v >> 8)
	buf[7] = byte(v)
	i := 0
	for i < len(buf)-1 && buf[i] == 0 {
		i++
	}
	return buf[i:]
}
