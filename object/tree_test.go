package object_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbolino/mingit/object"
)

func TestTreeOrdering(t *testing.T) {
	t.Parallel()

	blobID := object.New(object.KindBlob, []byte("hi\n")).ID()

	// "foo.txt" should sort before the directory "foo" because the
	// directory name is compared as if it had a trailing slash, and
	// '.' (0x2e) is less than '/' (0x2f).
	tree := object.NewTree([]object.Entry{
		{Mode: object.ModeFile, Name: "foo.txt", ID: blobID},
		{Mode: object.ModeDirectory, Name: "foo", ID: blobID},
		{Mode: object.ModeFile, Name: "a.txt", ID: blobID},
	})

	entries := tree.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "a.txt", entries[0].Name)
	assert.Equal(t, "foo.txt", entries[1].Name)
	assert.Equal(t, "foo", entries[2].Name)
}

func TestTreeOfOneFile(t *testing.T) {
	t.Parallel()

	blob := object.NewBlob([]byte("hi\n"))
	blobID := blob.ToObject().ID()

	tree := object.NewTree([]object.Entry{
		{Mode: object.ModeFile, Name: "a.txt", ID: blobID},
	})

	expected := object.Mode(0o100644).String() + " a.txt\x00" + string(blobID.Bytes())
	assert.Equal(t, []byte(expected), tree.ToObject().Bytes())
}

func TestTreeRoundTrip(t *testing.T) {
	t.Parallel()

	blobID := object.New(object.KindBlob, []byte("hi\n")).ID()
	original := object.NewTree([]object.Entry{
		{Mode: object.ModeFile, Name: "a.txt", ID: blobID},
		{Mode: object.ModeDirectory, Name: "sub", ID: blobID},
	})

	parsed, err := object.NewTreeFromObject(original.ToObject())
	require.NoError(t, err)
	assert.Equal(t, original.Entries(), parsed.Entries())
}

func TestTreeSerializationIsDeterministic(t *testing.T) {
	t.Parallel()

	blobID := object.New(object.KindBlob, []byte("hi\n")).ID()
	entries := []object.Entry{
		{Mode: object.ModeFile, Name: "a.txt", ID: blobID},
		{Mode: object.ModeDirectory, Name: "sub", ID: blobID},
	}

	first := object.NewTree(entries).ToObject()
	second := object.NewTree(entries).ToObject()
	assert.Equal(t, first.Bytes(), second.Bytes())
	assert.Equal(t, first.ID(), second.ID())
}
