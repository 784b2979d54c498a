package store_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbolino/mingit/object"
	"github.com/kbolino/mingit/store"
)

func TestReferencesSetHeadToBranchAndResolve(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(".git", 0o755))
	refs := store.NewReferences(fs, ".git")

	require.NoError(t, refs.SetHeadToBranch("main"))

	head, err := afero.ReadFile(fs, ".git/HEAD")
	require.NoError(t, err)
	assert.Equal(t, "ref: refs/heads/main\n", string(head))

	id := object.New(object.KindBlob, []byte("content")).ID()
	require.NoError(t, refs.SetBranch("main", id))

	resolved, err := refs.ResolveHead()
	require.NoError(t, err)
	assert.Equal(t, id, resolved)
}

func TestReferencesSetBranchWritesHexIdentity(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(".git", 0o755))
	refs := store.NewReferences(fs, ".git")

	id := object.New(object.KindBlob, []byte("other content")).ID()
	require.NoError(t, refs.SetBranch("feature", id))

	data, err := afero.ReadFile(fs, ".git/refs/heads/feature")
	require.NoError(t, err)
	assert.Equal(t, id.String()+"\n", string(data))
}
