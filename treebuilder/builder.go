// Package treebuilder implements the local tree builder (§4.9): a
// recursive directory walk that snapshots a working directory into a
// tree object, skipping `.git` at the root.
package treebuilder

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"github.com/kbolino/mingit/giterrors"
	"github.com/kbolino/mingit/internal/gitpath"
	"github.com/kbolino/mingit/object"
)

// Putter persists a (kind, payload) pair, matching store.Store's Put
// method.
type Putter interface {
	Put(kind object.Kind, payload []byte) (object.Oid, error)
}

// Build walks dir and stores a tree object for it (and, recursively,
// for every subdirectory), returning the root tree's identity.
//
// Symlinks are not produced by this builder: afero does not expose a
// portable way to read a symlink's target across all of its
// backends, so the builder only ever emits ModeFile, ModeExecutable
// and ModeDirectory entries. object.ModeSymlink remains part of the
// wire format for trees received over a clone.
func Build(fs afero.Fs, put Putter, dir string) (object.Oid, error) {
	return build(fs, put, dir, true)
}

func build(fs afero.Fs, put Putter, dir string, isRoot bool) (object.Oid, error) {
	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		return object.NullOid, giterrors.Wrap(giterrors.FilesystemError, err, "could not list %s", dir)
	}

	names := make([]string, 0, len(infos))
	byName := make(map[string]os.FileInfo, len(infos))
	for _, info := range infos {
		if isRoot && info.Name() == gitpath.DotGitPath {
			continue
		}
		names = append(names, info.Name())
		byName[info.Name()] = info
	}
	sort.Strings(names)

	entries := make([]object.Entry, 0, len(names))
	for _, name := range names {
		info := byName[name]
		childPath := filepath.Join(dir, name)

		if info.IsDir() {
			subID, err := build(fs, put, childPath, false)
			if err != nil {
				return object.NullOid, err
			}
			entries = append(entries, object.Entry{Mode: object.ModeDirectory, Name: name, ID: subID})
			continue
		}

		content, err := afero.ReadFile(fs, childPath)
		if err != nil {
			return object.NullOid, giterrors.Wrap(giterrors.FilesystemError, err, "could not read %s", childPath)
		}
		mode := object.ModeFile
		if info.Mode()&0o111 != 0 {
			mode = object.ModeExecutable
		}
		id, err := put.Put(object.KindBlob, content)
		if err != nil {
			return object.NullOid, err
		}
		entries = append(entries, object.Entry{Mode: mode, Name: name, ID: id})
	}

	tree := object.NewTree(entries)
	return put.Put(object.KindTree, tree.ToObject().Bytes())
}
