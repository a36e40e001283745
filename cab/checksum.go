package cab

import "encoding/binary"

// checksum computes the cabinet block XOR-fold checksum over p.
//
// The fold treats p as a sequence of little-endian 32-bit words, XORing
// them two at a time (8 bytes per step) into the accumulator; a trailing
// 4-byte word is XORed in on its own; and a final 1-3 byte remainder is
// packed big-endian into the low 24 bits of one more XOR term. This is
// the same bespoke fold the original cabinet tooling uses for CFDATA
// blocks — it does not correspond to any standard hash (not CRC, not
// Adler-32, not FNV), so it is implemented directly rather than adapted
// from a general-purpose checksum package.
//
// Per the format, the checksum of a data block covers cbData (2 bytes,
// LE) || cbUncomp (2 bytes, LE) || payload — i.e. the CFDATA header
// starting just after the csum field, followed by the block's payload
// bytes. The csum field itself is never part of its own input.
func checksum(p []byte) uint32 {
	var sum uint32
	for len(p) >= 8 {
		sum ^= binary.LittleEndian.Uint32(p) ^ binary.LittleEndian.Uint32(p[4:])
		p = p[8:]
	}
	if len(p) >= 4 {
		sum ^= binary.LittleEndian.Uint32(p)
		p = p[4:]
	}
	switch len(p) {
	case 3:
		sum ^= uint32(p[0])<<16 | uint32(p[1])<<8 | uint32(p[2])
	case 2:
		sum ^= uint32(p[0])<<8 | uint32(p[1])
	case 1:
		sum ^= uint32(p[0])
	}
	return sum
}

// blockChecksum computes the checksum for a CFDATA block given its
// uncompressed/compressed size fields and its payload.
func blockChecksum(cbData, cbUncomp uint16, payload []byte) uint32 {
	var head [4]byte
	putU16(head[0:2], cbData)
	putU16(head[2:4], cbUncomp)
	buf := make([]byte, 0, 4+len(payload))
	buf = append(buf, head[:]...)
	buf = append(buf, payload...)
	return checksum(buf)
}
