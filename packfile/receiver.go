// Package packfile implements the pack-stream receiver (§4.5) and the
// ref-delta reconstructor (§4.6): parsing the binary pack container,
// driving per-entry decompression, reconstructing delta entries
// against already-received bases, and verifying the trailing
// checksum (§4.8).
package packfile

import (
	"bytes"
	"crypto/sha1" //nolint:gosec // required by the wire format
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/kbolino/mingit/giterrors"
	"github.com/kbolino/mingit/object"
)

// entryKind is the pack-internal numbering used by entry headers,
// distinct from object.Kind which only names the four storable kinds.
type entryKind uint8

const (
	entryCommit   entryKind = 1
	entryTree     entryKind = 2
	entryBlob     entryKind = 3
	entryTag      entryKind = 4
	entryOfsDelta entryKind = 6
	entryRefDelta entryKind = 7
)

func (k entryKind) objectKind() (object.Kind, bool) {
	switch k {
	case entryCommit:
		return object.KindCommit, true
	case entryTree:
		return object.KindTree, true
	case entryBlob:
		return object.KindBlob, true
	case entryTag:
		return object.KindTag, true
	default:
		return "", false
	}
}

const (
	packSignature  = "PACK"
	packVersion    = 2
	packHeaderSize = 12
	trailerSize    = object.OidSize
)

// Putter persists a (kind, payload) pair, matching store.Store's Put
// method.
type Putter interface {
	Put(kind object.Kind, payload []byte) (object.Oid, error)
}

// Stats summarizes a completed Receive call.
type Stats struct {
	ObjectCount int
}

// entry is what the in-memory index (§3 "In-memory store") keeps for
// every object received in this pack, so later ref-delta entries can
// resolve their base without round-tripping through the persistent
// store.
type entry struct {
	kind    object.Kind
	payload []byte
}

// Receiver drives one clone's worth of pack reception. It is scoped to
// a single invocation, per §5 (no global state).
type Receiver struct {
	dest  Putter
	index map[object.Oid]entry
}

// NewReceiver returns a Receiver that persists every recovered object
// through dest.
func NewReceiver(dest Putter) *Receiver {
	return &Receiver{dest: dest, index: make(map[object.Oid]entry)}
}

// Receive parses and processes an entire pack stream, as described in
// §4.5, storing every entry (after delta reconstruction, where
// applicable) and verifying the trailing checksum per §4.8.
func (rv *Receiver) Receive(pack []byte) (Stats, error) {
	if len(pack) < packHeaderSize+trailerSize {
		return Stats{}, giterrors.New(giterrors.CorruptPack, "pack is too short to contain a header and trailer")
	}
	if string(pack[0:4]) != packSignature {
		return Stats{}, giterrors.New(giterrors.CorruptPack, "bad signature %q", string(pack[0:4]))
	}
	version := be32(pack[4:8])
	if version != packVersion {
		return Stats{}, giterrors.New(giterrors.CorruptPack, "unsupported pack version %d", version)
	}
	count := be32(pack[8:12])

	cursor := packHeaderSize
	for i := uint32(0); i < count; i++ {
		consumed, err := rv.readEntry(pack[cursor : len(pack)-trailerSize])
		if err != nil {
			return Stats{}, err
		}
		cursor += consumed
	}

	if cursor != len(pack)-trailerSize {
		return Stats{}, giterrors.New(giterrors.CorruptPack, "pack cursor at %d after %d entries, expected %d", cursor, count, len(pack)-trailerSize)
	}

	if err := verifyTrailer(pack); err != nil {
		return Stats{}, err
	}

	return Stats{ObjectCount: int(count)}, nil
}

// readEntry parses and processes one self-delimiting entry starting at
// the front of buf (which excludes the trailer), returning the number
// of bytes consumed.
func (rv *Receiver) readEntry(buf []byte) (int, error) {
	r := bytes.NewReader(buf)
	startLen := r.Len()

	first, err := r.ReadByte()
	if err != nil {
		return 0, giterrors.Wrap(giterrors.CorruptPack, err, "truncated entry header")
	}
	size, cont := varintFirst(first, 4)
	if cont {
		size, err = varintContinue(r, size, 4)
		if err != nil {
			return 0, giterrors.Wrap(giterrors.CorruptPack, err, "truncated entry header")
		}
	}
	kind := entryKind((first >> 4) & 0x07)

	switch kind {
	case entryCommit, entryTree, entryBlob, entryTag:
		objKind, _ := kind.objectKind()
		payload, err := inflate(r, int(size))
		if err != nil {
			return 0, err
		}
		id, err := rv.dest.Put(objKind, payload)
		if err != nil {
			return 0, err
		}
		rv.index[id] = entry{kind: objKind, payload: payload}

	case entryRefDelta:
		baseIDBytes := make([]byte, object.OidSize)
		if _, err := readFull(r, baseIDBytes); err != nil {
			return 0, giterrors.Wrap(giterrors.CorruptPack, err, "truncated ref-delta base identity")
		}
		baseID, err := object.NewOidFromRawBytes(baseIDBytes)
		if err != nil {
			return 0, giterrors.Wrap(giterrors.CorruptPack, err, "invalid ref-delta base identity")
		}
		base, found := rv.index[baseID]
		if !found {
			return 0, giterrors.New(giterrors.MissingBase, "ref-delta base %s not found among already-received objects", baseID).WithIdentity(baseID.String())
		}

		deltaPayload, err := inflate(r, int(size))
		if err != nil {
			return 0, err
		}
		reconstructed, err := ApplyDelta(base.payload, deltaPayload)
		if err != nil {
			return 0, err
		}
		// a delta never changes kind.
		id, err := rv.dest.Put(base.kind, reconstructed)
		if err != nil {
			return 0, err
		}
		rv.index[id] = entry{kind: base.kind, payload: reconstructed}

	case entryOfsDelta:
		return 0, giterrors.New(giterrors.UnsupportedKind, "ofs-delta pack entries are not implemented")

	default:
		return 0, giterrors.New(giterrors.CorruptPack, "unknown pack entry kind %d", kind)
	}

	return startLen - r.Len(), nil
}

// inflate decompresses a zlib stream from r and validates its length
// against the size declared by the entry header. r must be a
// *bytes.Reader (or otherwise implement io.ByteReader) so that the
// decompressor reads exactly the bytes of this entry's zlib stream and
// nothing of the next entry's header.
func inflate(r *bytes.Reader, declaredSize int) ([]byte, error) {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, giterrors.Wrap(giterrors.CorruptPack, err, "could not open zlib stream")
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, zr); err != nil {
		return nil, giterrors.Wrap(giterrors.CorruptPack, err, "could not decompress entry")
	}
	if err := zr.Close(); err != nil {
		return nil, giterrors.Wrap(giterrors.CorruptPack, err, "zlib stream did not close cleanly")
	}
	if buf.Len() != declaredSize {
		return nil, giterrors.New(giterrors.CorruptPack, "entry declared size %d, decompressed to %d", declaredSize, buf.Len())
	}
	return buf.Bytes(), nil
}

// verifyTrailer checks the trailing 20-byte SHA-1 against a fresh
// digest of every preceding byte of the pack, per §4.8.
func verifyTrailer(pack []byte) error {
	body := pack[:len(pack)-trailerSize]
	trailer := pack[len(pack)-trailerSize:]

	sum := sha1.Sum(body) //nolint:gosec // required by the wire format
	if !bytes.Equal(sum[:], trailer) {
		return giterrors.New(giterrors.CorruptPack, "pack trailer checksum mismatch")
	}
	return nil
}

func be32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
