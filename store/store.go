// Package store implements the content-addressed object store (§4.2):
// a flat, two-level `objects/xx/rest` directory of zlib-compressed
// canonical object bytes, backed by an afero filesystem so it can run
// against a real disk or an in-memory fixture.
package store

import (
	"io/ioutil"
	"path/filepath"

	"github.com/klauspost/compress/zlib"
	"github.com/spf13/afero"

	"github.com/kbolino/mingit/giterrors"
	"github.com/kbolino/mingit/internal/cache"
	"github.com/kbolino/mingit/internal/errutil"
	"github.com/kbolino/mingit/internal/gitpath"
	"github.com/kbolino/mingit/internal/syncutil"
	"github.com/kbolino/mingit/object"
)

// defaultCacheSize bounds the in-process read-through cache placed in
// front of the loose-object files.
const defaultCacheSize = 256

// Store is the content-addressed object database rooted at a .git
// directory.
type Store struct {
	fs   afero.Fs
	root string // path to the .git directory

	mu    *syncutil.NamedMutex
	cache *cache.LRU
}

// New returns a Store rooted at dotGitPath on fs. The directory is
// assumed to already contain an `objects` subdirectory (see Init).
func New(fs afero.Fs, dotGitPath string) *Store {
	return &Store{
		fs:    fs,
		root:  dotGitPath,
		mu:    syncutil.NewNamedMutex(64),
		cache: cache.NewLRU(defaultCacheSize),
	}
}

func (s *Store) objectPath(id object.Oid) string {
	hex := id.String()
	return filepath.Join(s.root, gitpath.ObjectsPath, hex[:2], hex[2:])
}

// Has reports whether an object with the given identity is present.
func (s *Store) Has(id object.Oid) (bool, error) {
	s.mu.RLock(id[:])
	defer s.mu.RUnlock(id[:])
	return s.hasUnsafe(id)
}

func (s *Store) hasUnsafe(id object.Oid) (bool, error) {
	if _, found := s.cache.Get(id); found {
		return true, nil
	}
	exists, err := afero.Exists(s.fs, s.objectPath(id))
	if err != nil {
		return false, giterrors.Wrap(giterrors.FilesystemError, err, "could not stat object %s", id)
	}
	return exists, nil
}

// Put persists (kind, payload) under its identity. It is idempotent:
// calling it twice with the same content is a no-op on the second call
// (per P2, two Puts of the same content produce identical on-disk
// bytes because the second Put never touches the file).
func (s *Store) Put(kind object.Kind, payload []byte) (object.Oid, error) {
	o := object.New(kind, payload)
	id := o.ID()

	s.mu.Lock(id[:])
	defer s.mu.Unlock(id[:])

	exists, err := s.hasUnsafe(id)
	if err != nil {
		return object.NullOid, err
	}
	if exists {
		return id, nil
	}

	compressed, err := o.Compress()
	if err != nil {
		return object.NullOid, err
	}

	p := s.objectPath(id)
	if err := s.fs.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return object.NullOid, giterrors.Wrap(giterrors.FilesystemError, err, "could not create directory for object %s", id)
	}
	if err := afero.WriteFile(s.fs, p, compressed, 0o444); err != nil {
		return object.NullOid, giterrors.Wrap(giterrors.FilesystemError, err, "could not write object %s", id)
	}

	s.cache.Add(id, o)
	return id, nil
}

// Get retrieves the object stored under id.
func (s *Store) Get(id object.Oid) (*object.Object, error) {
	s.mu.RLock(id[:])
	defer s.mu.RUnlock(id[:])
	return s.getUnsafe(id)
}

func (s *Store) getUnsafe(id object.Oid) (o *object.Object, err error) {
	if cached, found := s.cache.Get(id); found {
		if co, ok := cached.(*object.Object); ok {
			return co, nil
		}
	}

	p := s.objectPath(id)
	f, err := s.fs.Open(p)
	if err != nil {
		return nil, giterrors.Wrap(giterrors.FilesystemError, err, "object %s not found", id)
	}
	defer errutil.Close(f, &err)

	zr, err := zlib.NewReader(f)
	if err != nil {
		return nil, giterrors.Wrap(giterrors.FilesystemError, err, "could not decompress object %s", id)
	}
	defer errutil.Close(zr, &err)

	data, err := ioutil.ReadAll(zr)
	if err != nil {
		return nil, giterrors.Wrap(giterrors.FilesystemError, err, "could not read object %s", id)
	}

	o, perr := object.NewFromBytes(data)
	if perr != nil {
		return nil, perr
	}
	s.cache.Add(id, o)
	return o, nil
}
