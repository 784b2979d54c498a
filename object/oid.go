package object

import (
	"crypto/sha1" //nolint:gosec // required by the wire format
	"encoding/hex"

	"github.com/kbolino/mingit/giterrors"
)

// OidSize is the number of raw bytes in an object identity.
const OidSize = 20

// NullOid is the zero-value identity.
var NullOid = Oid{}

// Oid is a 20-byte SHA-1 object identity. Both the raw and the
// lowercase-hex representations round-trip losslessly to this value.
type Oid [OidSize]byte

// Bytes returns the raw 20-byte form of the identity.
func (o Oid) Bytes() []byte {
	return o[:]
}

// String returns the lowercase 40-character hex form of the identity.
func (o Oid) String() string {
	return hex.EncodeToString(o[:])
}

// IsZero reports whether o is the null identity.
func (o Oid) IsZero() bool {
	return o == NullOid
}

// NewOidFromContent computes the identity of already-canonicalized
// object bytes (header + NUL + payload).
func NewOidFromContent(canonical []byte) Oid {
	return Oid(sha1.Sum(canonical)) //nolint:gosec // required by the wire format
}

// NewOidFromHex parses a 40-character ASCII-hex identity.
func NewOidFromHex(hexBytes []byte) (Oid, error) {
	if len(hexBytes) != OidSize*2 {
		return NullOid, giterrors.New(giterrors.MalformedObjectHeader, "identity must be %d hex characters, got %d", OidSize*2, len(hexBytes))
	}
	var raw [OidSize]byte
	if _, err := hex.Decode(raw[:], hexBytes); err != nil {
		return NullOid, giterrors.Wrap(giterrors.MalformedObjectHeader, err, "invalid hex identity %q", string(hexBytes))
	}
	return Oid(raw), nil
}

// NewOidFromHexString is NewOidFromHex for a string argument.
func NewOidFromHexString(s string) (Oid, error) {
	return NewOidFromHex([]byte(s))
}

// NewOidFromRawBytes interprets exactly OidSize raw bytes as an identity.
func NewOidFromRawBytes(raw []byte) (Oid, error) {
	if len(raw) != OidSize {
		return NullOid, giterrors.New(giterrors.MalformedObjectHeader, "identity must be %d raw bytes, got %d", OidSize, len(raw))
	}
	var o Oid
	copy(o[:], raw)
	return o, nil
}
