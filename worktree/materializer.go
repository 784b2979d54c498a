// Package worktree implements the working-tree materializer (§4.7):
// walking the tree rooted at a commit's tree pointer and writing
// blobs/directories to a destination filesystem.
package worktree

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/kbolino/mingit/giterrors"
	"github.com/kbolino/mingit/object"
)

// Getter retrieves a previously stored object by identity, matching
// store.Store's Get method.
type Getter interface {
	Get(id object.Oid) (*object.Object, error)
}

// Materialize writes the working tree of commitID's root tree to dest,
// which MUST already exist and be empty.
func Materialize(fs afero.Fs, src Getter, commitID object.Oid, dest string) error {
	commitObj, err := src.Get(commitID)
	if err != nil {
		return err
	}
	commit, err := object.NewCommitFromObject(commitObj)
	if err != nil {
		return err
	}
	return materializeTree(fs, src, commit.Tree, dest)
}

func materializeTree(fs afero.Fs, src Getter, treeID object.Oid, dest string) error {
	treeObj, err := src.Get(treeID)
	if err != nil {
		return err
	}
	tree, err := object.NewTreeFromObject(treeObj)
	if err != nil {
		return err
	}

	for _, e := range tree.Entries() {
		path := filepath.Join(dest, e.Name)
		switch e.Mode {
		case object.ModeDirectory:
			if err := fs.MkdirAll(path, 0o755); err != nil {
				return giterrors.Wrap(giterrors.FilesystemError, err, "could not create directory %s", path)
			}
			if err := materializeTree(fs, src, e.ID, path); err != nil {
				return err
			}

		case object.ModeFile, object.ModeExecutable:
			blobObj, err := src.Get(e.ID)
			if err != nil {
				return err
			}
			perm := os.FileMode(0o644)
			if e.Mode == object.ModeExecutable {
				perm = 0o755
			}
			if err := afero.WriteFile(fs, path, blobObj.Bytes(), perm); err != nil {
				return giterrors.Wrap(giterrors.FilesystemError, err, "could not write %s", path)
			}

		default:
			return giterrors.New(giterrors.UnsupportedKind, "entry %s has unsupported mode %s (symlinks/gitlinks are out of scope)", e.Name, e.Mode)
		}
	}
	return nil
}
