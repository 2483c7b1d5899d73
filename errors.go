package gobwire

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies a codec failure per the error taxonomy: wire-level
// truncation and corruption, schema mismatches between stream and host
// type, unsupported-but-well-formed constructs, resource caps, and I/O
// failures from the underlying source or sink.
type ErrorKind int

const (
	// Truncated means the source ended inside a message.
	Truncated ErrorKind = iota + 1
	// CorruptStream means a varint overflowed, a field delta was invalid,
	// a length was negative, or a well-known id was out of range.
	CorruptStream
	// UnknownType means a value message referenced a TypeId that no
	// preceding definition message installed.
	UnknownType
	// SchemaMismatch means the visitor or emitter requested a kind
	// incompatible with the wire kind (e.g. struct vs bool at the root).
	SchemaMismatch
	// UnsupportedKind means a well-formed wire construct this
	// implementation does not handle (e.g. complex numbers).
	UnsupportedKind
	// ResourceLimit means an implementation-defined cap was exceeded.
	ResourceLimit
	// IoError means the underlying source or sink failed.
	IoError
)

func (k ErrorKind) String() string {
	switch k {
	case Truncated:
		return "Truncated"
	case CorruptStream:
		return "CorruptStream"
	case UnknownType:
		return "UnknownType"
	case SchemaMismatch:
		return "SchemaMismatch"
	case UnsupportedKind:
		return "UnsupportedKind"
	case ResourceLimit:
		return "ResourceLimit"
	case IoError:
		return "IoError"
	default:
		return "Unknown"
	}
}

// Error is the error type returned by every exported Encoder/Decoder
// method, apart from the bare io.EOF that Decoder.Decode returns at a clean
// end of stream. Internal recursive encode/decode routines signal failure by
// panicking with an *Error; the exported entry points recover and return
// it, keeping the recursive kind-dispatch call sites free of threaded
// error returns.
type Error struct {
	Kind ErrorKind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("gobwire: %s: %s: %v", e.Kind, e.msg, e.err)
	}
	return fmt.Sprintf("gobwire: %s: %s", e.Kind, e.msg)
}

func (e *Error) Unwrap() error { return e.err }

// newError builds a *Error without panicking; throw builds one and panics
// with it, to be recovered at the Encoder.Encode/Decoder.Decode boundary.
func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

func throw(kind ErrorKind, format string, args ...any) {
	panic(newError(kind, format, args...))
}

// wrapIo wraps an I/O failure with a stack trace and converts it into the
// IoError kind.
func wrapIo(err error, context string) *Error {
	return &Error{Kind: IoError, msg: context, err: errors.Wrap(err, context)}
}

// recoverErr converts a panicked *Error (or any other panic) into *err.
// Call via `defer recoverErr(&err)` at every exported entry point.
func recoverErr(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if e, ok := r.(*Error); ok {
		*err = e
		return
	}
	if e, ok := r.(error); ok {
		*err = &Error{Kind: CorruptStream, msg: "internal", err: e}
		return
	}
	*err = newError(CorruptStream, "internal panic: %v", r)
}
