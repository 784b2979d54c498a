package pktline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbolino/mingit/pktline"
)

func TestWriteFlush(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []byte("0000"), pktline.Write(nil))
}

func TestWriteAndReadRoundTrip(t *testing.T) {
	t.Parallel()

	framed := pktline.Write([]byte("want deadbeef\n"))
	payload, next, err := pktline.Read(framed, 0)
	require.NoError(t, err)
	assert.Equal(t, "want deadbeef\n", string(payload))
	assert.Equal(t, len(framed), next)
}

func TestReadAllHandlesFlush(t *testing.T) {
	t.Parallel()

	var buf []byte
	buf = append(buf, pktline.Write([]byte("want deadbeef\n"))...)
	buf = append(buf, pktline.Flush...)
	buf = append(buf, pktline.Write([]byte("done\n"))...)

	lines, err := pktline.ReadAll(buf)
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, "want deadbeef\n", string(lines[0]))
	assert.Empty(t, lines[1])
	assert.Equal(t, "done\n", string(lines[2]))
}

func TestReadRejectsShortBuffer(t *testing.T) {
	t.Parallel()

	_, _, err := pktline.Read([]byte("00"), 0)
	require.Error(t, err)
}

func TestReadRejectsNonHexLength(t *testing.T) {
	t.Parallel()

	_, _, err := pktline.Read([]byte("zzzzdata"), 0)
	require.Error(t, err)
}
