package store_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbolino/mingit/object"
	"github.com/kbolino/mingit/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(".git/objects", 0o755))
	return store.New(fs, ".git")
}

func TestStorePutGetRoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	id, err := s.Put(object.KindBlob, []byte("hello\n"))
	require.NoError(t, err)

	has, err := s.Has(id)
	require.NoError(t, err)
	assert.True(t, has)

	o, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, object.KindBlob, o.Kind())
	assert.Equal(t, []byte("hello\n"), o.Bytes())
}

func TestStorePutIsIdempotent(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	id1, err := s.Put(object.KindBlob, []byte("same content"))
	require.NoError(t, err)
	id2, err := s.Put(object.KindBlob, []byte("same content"))
	require.NoError(t, err)
	assert.Equal(t, id1, id2)
}

func TestStoreHasMissingObject(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	has, err := s.Has(object.NullOid)
	require.NoError(t, err)
	assert.False(t, has)
}
