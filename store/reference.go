package store

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/kbolino/mingit/giterrors"
	"github.com/kbolino/mingit/internal/gitpath"
	"github.com/kbolino/mingit/object"
)

// References persists and resolves the two files a repository needs
// per §3/§4.4: `.git/HEAD` (a symbolic pointer) and the branch files
// under `.git/refs/heads/`.
type References struct {
	fs   afero.Fs
	root string
}

// NewReferences returns a References rooted at dotGitPath.
func NewReferences(fs afero.Fs, dotGitPath string) *References {
	return &References{fs: fs, root: dotGitPath}
}

func (r *References) branchPath(branch string) string {
	return filepath.Join(r.root, gitpath.RefsHeadsPath, branch)
}

// SetHeadToBranch writes `.git/HEAD` as `ref: refs/heads/<branch>\n`.
func (r *References) SetHeadToBranch(branch string) error {
	content := "ref: " + gitpath.RefsHeadsPath + "/" + branch + "\n"
	p := filepath.Join(r.root, gitpath.HEADPath)
	if err := afero.WriteFile(r.fs, p, []byte(content), 0o644); err != nil {
		return giterrors.Wrap(giterrors.FilesystemError, err, "could not write %s", p)
	}
	return nil
}

// SetBranch points the given branch at id, writing the 40-character
// hex identity followed by a newline.
func (r *References) SetBranch(branch string, id object.Oid) error {
	p := r.branchPath(branch)
	if err := r.fs.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return giterrors.Wrap(giterrors.FilesystemError, err, "could not create %s", filepath.Dir(p))
	}
	if err := afero.WriteFile(r.fs, p, []byte(id.String()+"\n"), 0o644); err != nil {
		return giterrors.Wrap(giterrors.FilesystemError, err, "could not write %s", p)
	}
	return nil
}

// ResolveHead follows `.git/HEAD` to the identity it ultimately
// points at, one level of symbolic indirection deep (the only shape
// this engine ever writes).
func (r *References) ResolveHead() (object.Oid, error) {
	p := filepath.Join(r.root, gitpath.HEADPath)
	data, err := afero.ReadFile(r.fs, p)
	if err != nil {
		return object.NullOid, giterrors.Wrap(giterrors.FilesystemError, err, "could not read %s", p)
	}
	data = bytes.TrimSpace(data)
	if !bytes.HasPrefix(data, []byte("ref: ")) {
		return object.NewOidFromHex(data)
	}
	target := strings.TrimPrefix(string(data), "ref: ")
	branchData, err := afero.ReadFile(r.fs, filepath.Join(r.root, target))
	if err != nil {
		return object.NullOid, giterrors.Wrap(giterrors.FilesystemError, err, "could not read %s", target)
	}
	return object.NewOidFromHex(bytes.TrimSpace(branchData))
}
