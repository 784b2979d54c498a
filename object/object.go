// Package object implements the canonical object codec (§4.1), and the
// blob/tree/commit payload formats layered on top of it (§3).
package object

import (
	"bytes"
	"strconv"
	"sync"

	"github.com/klauspost/compress/zlib"

	"github.com/kbolino/mingit/giterrors"
)

// Kind is one of the closed set of object kinds a store can hold.
type Kind string

// The supported object kinds. Tag is accepted and stored but never
// interpreted, per §3.
const (
	KindCommit Kind = "commit"
	KindTree   Kind = "tree"
	KindBlob   Kind = "blob"
	KindTag    Kind = "tag"
)

// IsValid reports whether k is one of the four known kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindCommit, KindTree, KindBlob, KindTag:
		return true
	default:
		return false
	}
}

// Object is an in-memory (kind, payload) pair together with its lazily
// computed identity.
type Object struct {
	kind    Kind
	payload []byte

	once sync.Once
	id   Oid
}

// New builds an Object from a kind and payload. The identity is computed
// lazily on first use.
func New(kind Kind, payload []byte) *Object {
	return &Object{kind: kind, payload: payload}
}

// NewWithID builds an Object whose identity is already known, skipping
// the hash computation. The identity is not checked against the
// payload, so callers MUST only use this when they trust the identity.
func NewWithID(id Oid, kind Kind, payload []byte) *Object {
	o := &Object{kind: kind, payload: payload, id: id}
	o.once.Do(func() {})
	return o
}

// Kind returns the object's kind.
func (o *Object) Kind() Kind { return o.kind }

// Bytes returns the object's raw payload.
func (o *Object) Bytes() []byte { return o.payload }

// Size returns the length of the payload in bytes.
func (o *Object) Size() int { return len(o.payload) }

// Serialize builds the canonical byte sequence for (kind, payload):
// "<kind> <length>\0<payload>".
func Serialize(kind Kind, payload []byte) []byte {
	header := string(kind) + " " + strconv.Itoa(len(payload))
	out := make([]byte, 0, len(header)+1+len(payload))
	out = append(out, header...)
	out = append(out, 0)
	out = append(out, payload...)
	return out
}

// Parse inverts Serialize: it reads the kind up to the first space, the
// ASCII decimal length up to the first NUL, validates the length
// against the remaining bytes, and returns the kind and the payload.
func Parse(data []byte) (Kind, []byte, error) {
	sp := bytes.IndexByte(data, ' ')
	if sp < 0 {
		return "", nil, giterrors.New(giterrors.MalformedObjectHeader, "missing space after kind")
	}
	kind := Kind(data[:sp])
	if !kind.IsValid() {
		return "", nil, giterrors.New(giterrors.UnsupportedKind, "unknown object kind %q", string(kind))
	}

	rest := data[sp+1:]
	nul := bytes.IndexByte(rest, 0)
	if nul < 0 {
		return "", nil, giterrors.New(giterrors.MalformedObjectHeader, "missing NUL after length")
	}
	lengthField := rest[:nul]
	length, err := strconv.Atoi(string(lengthField))
	if err != nil || length < 0 {
		return "", nil, giterrors.New(giterrors.MalformedObjectHeader, "non-decimal length %q", string(lengthField))
	}

	payload := rest[nul+1:]
	if len(payload) != length {
		return "", nil, giterrors.New(giterrors.MalformedObjectHeader, "declared length %d does not match payload of %d bytes", length, len(payload))
	}
	return kind, payload, nil
}

// ID returns the object's identity, computing it from Serialize(kind,
// payload) on first call.
func (o *Object) ID() Oid {
	o.once.Do(func() {
		o.id = NewOidFromContent(Serialize(o.kind, o.payload))
	})
	return o.id
}

// NewFromBytes parses canonical object bytes (as read back from
// storage) into an Object, computing and caching its identity.
func NewFromBytes(data []byte) (*Object, error) {
	kind, payload, err := Parse(data)
	if err != nil {
		return nil, err
	}
	o := New(kind, payload)
	o.id = NewOidFromContent(data)
	o.once.Do(func() {})
	return o, nil
}

// Compress returns the zlib-compressed canonical bytes of the object,
// in the form the object store persists to disk.
func (o *Object) Compress() ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(Serialize(o.kind, o.payload)); err != nil {
		return nil, giterrors.Wrap(giterrors.FilesystemError, err, "could not compress object")
	}
	if err := w.Close(); err != nil {
		return nil, giterrors.Wrap(giterrors.FilesystemError, err, "could not flush compressed object")
	}
	return buf.Bytes(), nil
}
