// Package repo wires the core engine together behind the small set of
// operations a command-line frontend needs (§4.13): init, hash-object,
// cat-file, ls-tree, write-tree, commit-tree, and clone.
package repo

import (
	"context"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/kbolino/mingit/giterrors"
	"github.com/kbolino/mingit/gitlog"
	"github.com/kbolino/mingit/internal/gitpath"
	"github.com/kbolino/mingit/object"
	"github.com/kbolino/mingit/packfile"
	"github.com/kbolino/mingit/store"
	"github.com/kbolino/mingit/transport"
	"github.com/kbolino/mingit/treebuilder"
	"github.com/kbolino/mingit/worktree"
)

// Repository is a single working directory plus its .git database.
type Repository struct {
	fs   afero.Fs
	root string // working directory; .git lives at root/gitpath.DotGitPath

	objects *store.Store
	refs    *store.References
	log     gitlog.Logger
}

// Open returns a Repository rooted at dir, assuming dir/.git already
// exists (see Init otherwise).
func Open(fs afero.Fs, dir string) *Repository {
	dotGit := filepath.Join(dir, gitpath.DotGitPath)
	return &Repository{
		fs:      fs,
		root:    dir,
		objects: store.New(fs, dotGit),
		refs:    store.NewReferences(fs, dotGit),
		log:     gitlog.Noop{},
	}
}

// Init creates a new repository at dir: the objects directory, the
// default config, and HEAD pointing at an unborn main branch.
func Init(fs afero.Fs, dir string) (*Repository, error) {
	dotGit := filepath.Join(dir, gitpath.DotGitPath)
	if err := fs.MkdirAll(filepath.Join(dotGit, gitpath.ObjectsPath), 0o755); err != nil {
		return nil, giterrors.Wrap(giterrors.FilesystemError, err, "could not create %s", dotGit)
	}
	if err := store.WriteDefaultConfig(fs, dotGit); err != nil {
		return nil, err
	}

	r := Open(fs, dir)
	if err := r.refs.SetHeadToBranch(gitpath.HeadBranch); err != nil {
		return nil, err
	}
	return r, nil
}

// HashObject computes (and, if write is true, persists) the blob
// identity of content.
func (r *Repository) HashObject(content []byte, write bool) (object.Oid, error) {
	if !write {
		return object.New(object.KindBlob, content).ID(), nil
	}
	return r.objects.Put(object.KindBlob, content)
}

// CatFile retrieves the stored object with the given identity.
func (r *Repository) CatFile(id object.Oid) (*object.Object, error) {
	return r.objects.Get(id)
}

// LsTree lists the entries of the tree with the given identity.
func (r *Repository) LsTree(id object.Oid) ([]object.Entry, error) {
	o, err := r.objects.Get(id)
	if err != nil {
		return nil, err
	}
	tree, err := object.NewTreeFromObject(o)
	if err != nil {
		return nil, err
	}
	return tree.Entries(), nil
}

// WriteTree snapshots the working directory into a tree object and
// returns its identity.
func (r *Repository) WriteTree() (object.Oid, error) {
	return treebuilder.Build(r.fs, r.objects, r.root)
}

// CommitTree creates a commit pointing at tree with the given parents
// and message, using the given author signature as both author and
// committer.
func (r *Repository) CommitTree(tree object.Oid, parents []object.Oid, author object.Signature, message string) (object.Oid, error) {
	c := object.NewCommit(tree, parents, author, nil, message)
	return r.objects.Put(object.KindCommit, c.ToObject().Bytes())
}

// Clone discovers the remote's HEAD, fetches the pack reachable from
// it, reconstructs every object, writes refs/HEAD, and materializes
// the working tree at dir. A nil logger is equivalent to gitlog.Noop{}.
func Clone(ctx context.Context, fs afero.Fs, repoURL string, dir string, log gitlog.Logger, opts ...transport.Option) (*Repository, error) {
	r, err := Init(fs, dir)
	if err != nil {
		return nil, err
	}
	if log != nil {
		r.log = log
	}

	client, err := transport.NewClient(repoURL, append(opts, transport.WithLogger(r.log))...)
	if err != nil {
		return nil, err
	}

	head, err := client.DiscoverHead(ctx)
	if err != nil {
		return nil, err
	}
	if head.IsZero() {
		return r, nil // empty remote repository; nothing to fetch
	}

	pack, err := client.FetchPack(ctx, head)
	if err != nil {
		return nil, err
	}

	receiver := packfile.NewReceiver(r.objects)
	if _, err := receiver.Receive(pack); err != nil {
		return nil, err
	}

	if err := r.refs.SetBranch(gitpath.HeadBranch, head); err != nil {
		return nil, err
	}

	if err := worktree.Materialize(fs, r.objects, head, r.root); err != nil {
		return nil, err
	}

	r.log.Info("clone complete", "head", head.String())
	return r, nil
}
