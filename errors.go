package mesh

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind enumerates the compiler's error taxonomy. Every Kind is fatal to
// the compile that raised it; the mesh is left inspectable but unusable.
type Kind int

const (
	// FileNotFound covers reader-level I/O failures: the VFS had no
	// record and the file could not be opened from disk.
	FileNotFound Kind = iota
	// EmptyFile covers a resolved buffer with zero length.
	EmptyFile
	// FormatInvalid covers header/size sanity-check failures specific to
	// a binary or text format.
	FormatInvalid
	// SizeMismatch covers a user-supplied array whose length is not a
	// multiple of its expected stride, or mismatched to nface/nvert.
	SizeMismatch
	// IndexOutOfRange covers a face or bone vertex index outside its
	// valid range.
	IndexOutOfRange
	// MissingData covers no vertices after all ingestion paths, or a
	// skin missing a required array.
	MissingData
	// RepeatedSpecification covers a user array and a file-loaded array
	// both populated for the same channel.
	RepeatedSpecification
	// HullFailure covers the hull kernel erroring or producing
	// non-triangular output.
	HullFailure
	// DegenerateGeometry covers validarea/validvolume/valideigenvalue/
	// validinequality being false; raised lazily on first inertia access.
	DegenerateGeometry
	// InconsistentOrientation covers the orientation audit finding a
	// duplicate directed half-edge; raised lazily on first inertia access.
	InconsistentOrientation
	// UnknownReference covers a skin bone or material name that does not
	// resolve against the scene graph.
	UnknownReference
	// InternalConsistency covers should-not-occur invariant violations:
	// post-canonicalization index out of range, hull size mismatch.
	InternalConsistency
)

func (k Kind) String() string {
	switch k {
	case FileNotFound:
		return "FileNotFound"
	case EmptyFile:
		return "EmptyFile"
	case FormatInvalid:
		return "FormatInvalid"
	case SizeMismatch:
		return "SizeMismatch"
	case IndexOutOfRange:
		return "IndexOutOfRange"
	case MissingData:
		return "MissingData"
	case RepeatedSpecification:
		return "RepeatedSpecification"
	case HullFailure:
		return "HullFailure"
	case DegenerateGeometry:
		return "DegenerateGeometry"
	case InconsistentOrientation:
		return "InconsistentOrientation"
	case UnknownReference:
		return "UnknownReference"
	case InternalConsistency:
		return "InternalConsistency"
	default:
		return "Unknown"
	}
}

// Error is the typed error every failing compile step raises, carrying
// the mesh's identifier and a human-readable message.
type Error struct {
	Kind  Kind
	ID    string
	Msg   string
	cause error
}

func (e *Error) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("mesh %q: %s: %s", e.ID, e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.cause }

// newErr builds an *Error with no underlying cause.
func newErr(kind Kind, id, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, ID: id, Msg: fmt.Sprintf(format, args...)}
}

// wrapErr builds an *Error around cause, stack-annotated via pkg/errors so
// a %+v of the returned error carries a cause chain back to the original
// failure site.
func wrapErr(kind Kind, id string, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Kind:  kind,
		ID:    id,
		Msg:   fmt.Sprintf(format, args...),
		cause: errors.WithStack(cause),
	}
}
