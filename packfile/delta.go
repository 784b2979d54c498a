package packfile

import (
	"bytes"

	"github.com/kbolino/mingit/giterrors"
)

// copySizeZeroMeans is the size a copy instruction's all-zero size
// bitmap denotes, per the wider pack format and §9 Open Question (a).
// This implementation honors it, as the design notes recommend for a
// conformant implementation.
const copySizeZeroMeans = 0x10000

// ApplyDelta reconstructs a target object's payload from a base
// payload and a ref-delta instruction stream, per §4.6.
func ApplyDelta(base, delta []byte) ([]byte, error) {
	r := bytes.NewReader(delta)

	srcSize, err := readDeltaSize(r)
	if err != nil {
		return nil, giterrors.Wrap(giterrors.MalformedDelta, err, "could not read delta source size")
	}
	if int(srcSize) != len(base) {
		return nil, giterrors.New(giterrors.MalformedDelta, "delta declares source size %d, base is %d bytes", srcSize, len(base))
	}

	targetSize, err := readDeltaSize(r)
	if err != nil {
		return nil, giterrors.Wrap(giterrors.MalformedDelta, err, "could not read delta target size")
	}

	out := make([]byte, 0, targetSize)
	for r.Len() > 0 {
		opcode, err := r.ReadByte()
		if err != nil {
			return nil, giterrors.Wrap(giterrors.MalformedDelta, err, "could not read delta opcode")
		}

		switch {
		case opcode&0x80 != 0: // copy
			offset, err := readLittleEndianBytes(r, opcode&0x0f, 4)
			if err != nil {
				return nil, giterrors.Wrap(giterrors.MalformedDelta, err, "truncated copy offset")
			}
			size, err := readLittleEndianBytes(r, (opcode>>4)&0x07, 3)
			if err != nil {
				return nil, giterrors.Wrap(giterrors.MalformedDelta, err, "truncated copy size")
			}
			if size == 0 {
				size = copySizeZeroMeans
			}
			if uint64(offset)+uint64(size) > uint64(len(base)) {
				return nil, giterrors.New(giterrors.MalformedDelta, "copy [%d,%d) overruns base of %d bytes", offset, offset+size, len(base))
			}
			out = append(out, base[offset:offset+size]...)

		case opcode == 0: // reserved
			return nil, giterrors.New(giterrors.MalformedDelta, "reserved delta opcode 0")

		default: // insert
			n := int(opcode)
			lit := make([]byte, n)
			if _, err := readFull(r, lit); err != nil {
				return nil, giterrors.Wrap(giterrors.MalformedDelta, err, "truncated insert of %d bytes", n)
			}
			out = append(out, lit...)
		}
	}

	if len(out) != int(targetSize) {
		return nil, giterrors.New(giterrors.MalformedDelta, "reconstructed %d bytes, delta declared %d", len(out), targetSize)
	}
	return out, nil
}

// readLittleEndianBytes reads up to numBytes bytes from r, one per set
// bit (lowest first) of mask, and assembles them little-endian. A
// cleared bit contributes zero without consuming a byte.
func readLittleEndianBytes(r byteSource, mask byte, numBytes int) (uint32, error) {
	var v uint32
	for i := 0; i < numBytes; i++ {
		if mask&(1<<uint(i)) == 0 {
			continue
		}
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		v |= uint32(b) << uint(8*i)
	}
	return v, nil
}

// readFull reads exactly len(buf) bytes from r one at a time; used
// instead of io.ReadFull since r here is only guaranteed to be a
// byteSource in the generic helpers above.
func readFull(r byteSource, buf []byte) (int, error) {
	for i := range buf {
		b, err := r.ReadByte()
		if err != nil {
			return i, err
		}
		buf[i] = b
	}
	return len(buf), nil
}
