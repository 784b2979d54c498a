package packfile_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbolino/mingit/packfile"
)

// buildDelta assembles a delta instruction stream: source size, target
// size, then a sequence of copy/insert instructions.
func buildDelta(srcSize, targetSize int, ops func(*bytes.Buffer)) []byte {
	var buf bytes.Buffer
	writeDeltaSize(&buf, srcSize)
	writeDeltaSize(&buf, targetSize)
	ops(&buf)
	return buf.Bytes()
}

func writeDeltaSize(buf *bytes.Buffer, n int) {
	for {
		b := byte(n & 0x7f)
		n >>= 7
		if n != 0 {
			b |= 0x80
		}
		buf.WriteByte(b)
		if n == 0 {
			break
		}
	}
}

func writeCopy(buf *bytes.Buffer, offset, size int) {
	var opcode byte = 0x80
	var args []byte
	for i := 0; i < 4; i++ {
		b := byte((offset >> (8 * i)) & 0xff)
		if b != 0 {
			opcode |= 1 << uint(i)
			args = append(args, b)
		}
	}
	for i := 0; i < 3; i++ {
		b := byte((size >> (8 * i)) & 0xff)
		if b != 0 {
			opcode |= 1 << uint(4+i)
			args = append(args, b)
		}
	}
	buf.WriteByte(opcode)
	buf.Write(args)
}

func writeInsert(buf *bytes.Buffer, lit []byte) {
	buf.WriteByte(byte(len(lit)))
	buf.Write(lit)
}

func TestApplyDeltaFidelity(t *testing.T) {
	t.Parallel()

	base := []byte("the quick brown fox")
	delta := buildDelta(len(base), len(base), func(buf *bytes.Buffer) {
		writeCopy(buf, 0, len(base))
	})

	out, err := packfile.ApplyDelta(base, delta)
	require.NoError(t, err)
	assert.Equal(t, base, out)
}

func TestApplyDeltaScenario(t *testing.T) {
	t.Parallel()

	base := []byte("the quick brown fox")
	delta := buildDelta(len(base), 16, func(buf *bytes.Buffer) {
		writeCopy(buf, 0, 9)
		writeInsert(buf, []byte("red "))
		writeCopy(buf, 16, 3)
	})

	out, err := packfile.ApplyDelta(base, delta)
	require.NoError(t, err)
	assert.Equal(t, "the quickred fox", string(out))
	assert.Len(t, out, 16)
}

func TestApplyDeltaRejectsWrongTargetSize(t *testing.T) {
	t.Parallel()

	base := []byte("the quick brown fox")
	delta := buildDelta(len(base), 99, func(buf *bytes.Buffer) {
		writeCopy(buf, 0, 9)
		writeInsert(buf, []byte("red "))
		writeCopy(buf, 16, 3)
	})

	_, err := packfile.ApplyDelta(base, delta)
	require.Error(t, err)
}

func TestApplyDeltaRejectsSourceSizeMismatch(t *testing.T) {
	t.Parallel()

	base := []byte("short")
	delta := buildDelta(999, len(base), func(buf *bytes.Buffer) {
		writeCopy(buf, 0, len(base))
	})

	_, err := packfile.ApplyDelta(base, delta)
	require.Error(t, err)
}

func TestApplyDeltaRejectsReservedOpcode(t *testing.T) {
	t.Parallel()

	base := []byte("abc")
	delta := buildDelta(len(base), 0, func(buf *bytes.Buffer) {
		buf.WriteByte(0)
	})

	_, err := packfile.ApplyDelta(base, delta)
	require.Error(t, err)
}
