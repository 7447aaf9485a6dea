// Package gverrors defines the error taxonomy shared by every layer of the
// graph storage engine: record files, the codec, the IO layer, and the
// graph engine all fail through one of the sentinel kinds below so callers
// can distinguish them with errors.Is regardless of which layer raised them.
package gverrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel error kinds. Compare with errors.Is, never with ==, since every
// returned error is wrapped with operation context via Wrap.
var (
	// CorruptStore signals a record file whose size is not a multiple of
	// its record size, or a decoded pointer that violates an invariant.
	// Fatal for the affected operation; the engine stays open.
	CorruptStore = errors.New("corrupt store")

	// RecordNotFound signals a requested physical index >= record count.
	RecordNotFound = errors.New("record not found")

	// NotFound signals an entity absent after a rehydration attempt, or
	// present on disk but tombstoned (used=false).
	NotFound = errors.New("not found")

	// AlreadyExists signals create-graph called while a graph exists.
	AlreadyExists = errors.New("already exists")

	// InvalidArgument signals a relationship create with a null endpoint,
	// add-property on a non-owner, or an unknown comparator.
	InvalidArgument = errors.New("invalid argument")

	// SyntaxError is raised by the CLI's parser collaborator and
	// surfaced verbatim by the CLI.
	SyntaxError = errors.New("syntax error")
)

// Wrap attaches operation context to one of the sentinel kinds above,
// preserving errors.Is comparability against kind while adding a
// human-readable, stack-carrying message via pkg/errors.
func Wrap(kind error, format string, args ...any) error {
	return &taggedError{kind: kind, msg: errors.WithStack(fmt.Errorf(format, args...))}
}

type taggedError struct {
	kind error
	msg  error
}

func (e *taggedError) Error() string {
	return fmt.Sprintf("%s: %s", e.kind, e.msg)
}

func (e *taggedError) Unwrap() error { return e.kind }

// Is lets errors.Is(err, gverrors.NotFound) succeed for a wrapped error
// without also matching on the wrapped context message.
func (e *taggedError) Is(target error) bool {
	return errors.Is(e.kind, target)
}
