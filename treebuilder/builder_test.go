package treebuilder_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbolino/mingit/object"
	"github.com/kbolino/mingit/store"
	"github.com/kbolino/mingit/treebuilder"
)

func newTestStore(t *testing.T, fs afero.Fs) *store.Store {
	t.Helper()
	require.NoError(t, fs.MkdirAll(".git/objects", 0o755))
	return store.New(fs, ".git")
}

func TestBuildSkipsDotGitAndRecursesIntoSubdirectories(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	s := newTestStore(t, fs)

	require.NoError(t, afero.WriteFile(fs, "a.txt", []byte("hi\n"), 0o644))
	require.NoError(t, fs.MkdirAll("sub", 0o755))
	require.NoError(t, afero.WriteFile(fs, "sub/nested.txt", []byte("there\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "run.sh", []byte("#!/bin/sh\n"), 0o755))

	treeID, err := treebuilder.Build(fs, s, ".")
	require.NoError(t, err)

	o, err := s.Get(treeID)
	require.NoError(t, err)
	tree, err := object.NewTreeFromObject(o)
	require.NoError(t, err)

	entries := tree.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "a.txt", entries[0].Name)
	assert.Equal(t, object.ModeFile, entries[0].Mode)
	assert.Equal(t, "run.sh", entries[1].Name)
	assert.Equal(t, object.ModeExecutable, entries[1].Mode)
	assert.Equal(t, "sub", entries[2].Name)
	assert.True(t, entries[2].Mode.IsDir())

	subObj, err := s.Get(entries[2].ID)
	require.NoError(t, err)
	subTree, err := object.NewTreeFromObject(subObj)
	require.NoError(t, err)
	subEntries := subTree.Entries()
	require.Len(t, subEntries, 1)
	assert.Equal(t, "nested.txt", subEntries[0].Name)
}

func TestBuildIsContentAddressed(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	s := newTestStore(t, fs)
	require.NoError(t, afero.WriteFile(fs, "a.txt", []byte("same\n"), 0o644))

	id1, err := treebuilder.Build(fs, s, ".")
	require.NoError(t, err)
	id2, err := treebuilder.Build(fs, s, ".")
	require.NoError(t, err)
	assert.Equal(t, id1, id2)
}
