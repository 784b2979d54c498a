// Package giterrors defines the closed set of error kinds the engine
// surfaces to its callers.
package giterrors

import (
	"fmt"

	"golang.org/x/xerrors"
)

// Kind identifies one of the fatal error categories the core can raise.
type Kind string

// The error kinds surfaced by the core.
const (
	// MalformedObjectHeader: kind or length field of a stored object is
	// unparsable.
	MalformedObjectHeader Kind = "MalformedObjectHeader"
	// UnsupportedKind: object kind outside {commit, tree, blob} where one
	// was required, or pack entry kind 6 (ofs-delta) where not implemented.
	UnsupportedKind Kind = "UnsupportedKind"
	// CorruptPack: bad signature/version, invalid entry header,
	// decompression short or long, trailer mismatch, wrong entry count.
	CorruptPack Kind = "CorruptPack"
	// MissingBase: a ref-delta names an identity not yet in the in-memory
	// store.
	MissingBase Kind = "MissingBase"
	// MalformedDelta: size mismatch, reserved opcode, cursor overrun.
	MalformedDelta Kind = "MalformedDelta"
	// TransportError: unexpected HTTP status, missing NAK, missing HEAD
	// line, non-40-character identity.
	TransportError Kind = "TransportError"
	// FilesystemError: write or read failure at materialization time.
	FilesystemError Kind = "FilesystemError"
)

// Error is the concrete error type returned by every fallible operation
// in the core packages. It carries enough context for a top-level
// handler to print a single diagnostic line identifying the kind and,
// where meaningful, the offending identity or byte offset.
type Error struct {
	Kind     Kind
	Detail   string
	Identity string // offending object identity, if any
	Offset   int64  // offending byte offset, -1 if not applicable
	Cause    error
}

// New builds an *Error of the given kind with a formatted detail message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...), Offset: -1}
}

// Wrap builds an *Error of the given kind around a causing error. The
// cause is run through xerrors so the wrapped chain carries a frame
// (file/line) even when the ultimate caller only ever sees Error's own
// Detail/Kind fields.
func Wrap(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...), Offset: -1, Cause: xerrors.Errorf("%w", cause)}
}

// WithIdentity returns a copy of e annotated with the offending object
// identity (40-character hex).
func (e *Error) WithIdentity(id string) *Error {
	e2 := *e
	e2.Identity = id
	return &e2
}

// WithOffset returns a copy of e annotated with the offending byte offset.
func (e *Error) WithOffset(off int64) *Error {
	e2 := *e
	e2.Offset = off
	return &e2
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	if e.Identity != "" {
		msg += fmt.Sprintf(" (object %s)", e.Identity)
	}
	if e.Offset >= 0 {
		msg += fmt.Sprintf(" (offset %d)", e.Offset)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %s", e.Cause)
	}
	return msg
}

// Unwrap exposes the wrapped cause, if any, for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether err is an *Error of the given kind, allowing
// errors.Is(err, giterrors.New(kind, "")) style checks as well as
// direct kind comparisons via As.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}
