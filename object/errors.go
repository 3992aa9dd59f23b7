// ----------------------------------------------------------------------------
// FILE: object/errors.go
// ----------------------------------------------------------------------------
package object

import "github.com/pkg/errors"

// RuntimeError is the single runtime-error category spec.md §7 calls for: undefined
// variable, field access on a non-instance, arithmetic on the wrong types, division by
// zero, a missing method, an arity mismatch, or incomparable values all surface as this
// one type with a short human-readable message. There is no error hierarchy beneath it.
type RuntimeError struct {
	msg   string
	cause error
}

func (e *RuntimeError) Error() string { return e.msg }

// Cause lets github.com/pkg/errors.Cause/%+v recover the wrapped error (if any) during
// development, without the language itself exposing more than one error category.
func (e *RuntimeError) Cause() error { return e.cause }

// NewRuntimeError builds a RuntimeError from a message and printf-style arguments.
func NewRuntimeError(format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{msg: errors.Errorf(format, args...).Error()}
}

// WrapRuntimeError builds a RuntimeError that rewraps an inner failure under a new,
// more generic message, without changing its severity. The comparison composites
// (NotEqual, Greater, LessOrEqual, GreaterOrEqual) use this to turn any inner compare
// failure into the generic "cannot compare" error spec.md §7 describes.
func WrapRuntimeError(cause error, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{msg: errors.Errorf(format, args...).Error(), cause: cause}
}
