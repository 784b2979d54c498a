package giterrors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbolino/mingit/giterrors"
)

func TestWrapPreservesCauseForUnwrapping(t *testing.T) {
	t.Parallel()

	cause := errors.New("disk full")
	err := giterrors.Wrap(giterrors.FilesystemError, cause, "could not write object %s", "deadbeef")

	assert.Equal(t, giterrors.FilesystemError, err.Kind)
	assert.Contains(t, err.Error(), "deadbeef")
	assert.Contains(t, err.Error(), "disk full")
	require.True(t, errors.Is(err, cause))
}

func TestIsComparesKindOnly(t *testing.T) {
	t.Parallel()

	a := giterrors.New(giterrors.CorruptPack, "bad trailer")
	b := giterrors.New(giterrors.CorruptPack, "wrong entry count")
	c := giterrors.New(giterrors.MissingBase, "base not found")

	assert.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, c))
}

func TestWithIdentityAndOffsetAreIndependentCopies(t *testing.T) {
	t.Parallel()

	base := giterrors.New(giterrors.MalformedDelta, "bad opcode")
	withID := base.WithIdentity("abc123")
	withOffset := withID.WithOffset(42)

	assert.Empty(t, base.Identity)
	assert.Equal(t, "abc123", withOffset.Identity)
	assert.EqualValues(t, 42, withOffset.Offset)
}
