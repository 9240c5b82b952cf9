package eval

import (
	"errors"
	"fmt"

	"github.com/signadot/tagload/ir"
)

var (
	ErrUnknownTag      = errors.New("unknown tag")
	ErrUnknownKind     = errors.New("unknown resolver kind")
	ErrBadOptions      = errors.New("bad resolver options")
	ErrBadArguments    = errors.New("bad tag arguments")
	ErrMissingEnv      = errors.New("missing environment variable")
	ErrInvalidNumeric  = errors.New("invalid numeric value")
	ErrInvalidBool     = errors.New("invalid boolean value")
	ErrRootNotFound    = errors.New("root not found")
	ErrInvalidURI      = errors.New("invalid uri")
	ErrFormatMismatch  = errors.New("format mismatch")
	ErrCyclicReference = errors.New("cyclic reference")

	// ErrPathNotFound is shared with ir so lookups on nodes and on resolved
	// maps match the same sentinel.
	ErrPathNotFound = ir.ErrPathNotFound
)

// Error reports the tag occurrence whose resolution failed.
type Error struct {
	Tag      string
	Location string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("!%s at %s: %v", e.Tag, e.Location, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
