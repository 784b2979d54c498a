package packfile

// The pack format uses two dialects of the same little-endian,
// continuation-bit variable-length integer: entry headers reserve the
// low four bits of the first byte for the size (the next three bits
// carry the entry kind), while delta sizes use all seven low bits of
// every byte including the first. Both continue adding 7-bit groups,
// least-significant first, as long as the high bit is set. Per the
// design notes, the decoder is parameterized on the first byte's value
// bit count rather than duplicated.

// varintFirst extracts the initial `valueBits` low bits of b as the
// beginning of a variable-length integer, and reports whether another
// continuation byte follows.
func varintFirst(b byte, valueBits uint) (value uint64, cont bool) {
	mask := byte(1<<valueBits - 1)
	return uint64(b & mask), b&0x80 != 0
}

// byteSource is the minimal reading capability the continuation-byte
// loop needs.
type byteSource interface {
	ReadByte() (byte, error)
}

// varintContinue reads 7-bit continuation groups onto an
// already-started value, starting at the given bit shift.
func varintContinue(r byteSource, value uint64, shift uint) (uint64, error) {
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		value |= uint64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
	}
	return value, nil
}

// readDeltaSize reads one of the two size fields at the front of a
// delta instruction stream: seven bits per byte, little-endian groups.
func readDeltaSize(r byteSource) (uint64, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	value, cont := varintFirst(b, 7)
	if !cont {
		return value, nil
	}
	return varintContinue(r, value, 7)
}
