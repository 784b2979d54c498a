// Package pktline implements the length-prefixed framing used by the
// smart HTTP protocol for reference discovery and want/have
// negotiation (§4.3). Only the trivial flush/payload framing is
// supported; sideband and capability negotiation are out of scope.
package pktline

import (
	"encoding/hex"

	"github.com/kbolino/mingit/giterrors"
)

// lengthSize is the number of hex characters in the length prefix.
const lengthSize = 4

// Flush is the four-byte flush-pkt.
var Flush = []byte("0000")

// Write frames payload as a pkt-line: a four-hex-character big-endian
// length prefix (counting the prefix itself) followed by payload. An
// empty payload produces exactly "0000" (a flush).
func Write(payload []byte) []byte {
	if len(payload) == 0 {
		return append([]byte(nil), Flush...)
	}
	length := lengthSize + len(payload)
	out := make([]byte, 0, length)
	out = append(out, []byte(hexLength(length))...)
	out = append(out, payload...)
	return out
}

func hexLength(n int) string {
	const hexdigits = "0123456789abcdef"
	b := make([]byte, lengthSize)
	for i := lengthSize - 1; i >= 0; i-- {
		b[i] = hexdigits[n&0xf]
		n >>= 4
	}
	return string(b)
}

// Read parses one pkt-line out of buf starting at offset. It returns
// the payload (empty for a flush), and the offset of the byte
// following the pkt-line.
func Read(buf []byte, offset int) ([]byte, int, error) {
	if offset+lengthSize > len(buf) {
		return nil, 0, giterrors.New(giterrors.TransportError, "pkt-line length prefix truncated at offset %d", offset)
	}
	lengthField := buf[offset : offset+lengthSize]
	length, err := parseHexLength(lengthField)
	if err != nil {
		return nil, 0, giterrors.Wrap(giterrors.TransportError, err, "invalid pkt-line length %q at offset %d", string(lengthField), offset)
	}
	if length == 0 {
		return []byte{}, offset + lengthSize, nil
	}
	end := offset + length
	if end > len(buf) {
		return nil, 0, giterrors.New(giterrors.TransportError, "pkt-line payload truncated at offset %d", offset)
	}
	return buf[offset+lengthSize : end], end, nil
}

func parseHexLength(field []byte) (int, error) {
	if len(field) != lengthSize {
		return 0, giterrors.New(giterrors.TransportError, "length field must be %d characters", lengthSize)
	}
	raw := make([]byte, 2)
	if _, err := hex.Decode(raw, field); err != nil {
		return 0, err
	}
	return int(raw[0])<<8 | int(raw[1]), nil
}

// ReadAll splits buf into its constituent pkt-lines (flush pkt-lines
// included as empty slices), in order.
func ReadAll(buf []byte) ([][]byte, error) {
	var lines [][]byte
	offset := 0
	for offset < len(buf) {
		payload, next, err := Read(buf, offset)
		if err != nil {
			return nil, err
		}
		lines = append(lines, payload)
		offset = next
	}
	return lines, nil
}
