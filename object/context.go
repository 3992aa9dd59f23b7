// ----------------------------------------------------------------------------
// FILE: object/context.go
// ----------------------------------------------------------------------------
package object

import (
	"io"

	logging "gopkg.in/op/go-logging.v1"
)

// callDepth tracks the live recursion depth of ClassInstance.Call against a configured
// ceiling. It is shared (by pointer) between a Context and every Sub Context derived
// from it, so a __str__ call invoked from inside Stringify still counts against the
// same budget as the call that triggered the stringification.
type callDepth struct {
	max     int
	current int
}

// Context is the execution context threaded through every Execute call. Per spec §6 it
// exposes exactly one operation to the language itself, Output(), which Print and
// Stringify write through. The Logger and call-depth guard are expansions: an optional
// structured sink for interpreter-internal diagnostics (method dispatch, comparison
// rewraps), and a safety net against runaway Language-level recursion — neither changes
// the Language's observable semantics when left at their defaults (no logger, no depth
// limit).
type Context struct {
	out    io.Writer
	Logger *logging.Logger
	depth  *callDepth
}

// NewContext builds a Context writing to out with no logger attached and no call-depth
// limit.
func NewContext(out io.Writer) *Context {
	return &Context{out: out, depth: &callDepth{}}
}

// Output returns the byte/text sink that Print and Stringify write to.
func (c *Context) Output() io.Writer { return c.out }

// WithLogger attaches a structured logger and returns the same Context for chaining.
func (c *Context) WithLogger(logger *logging.Logger) *Context {
	c.Logger = logger
	return c
}

// WithMaxCallDepth sets the ceiling on live ClassInstance.Call nesting; 0 (the default)
// means unlimited. Returns the same Context for chaining.
func (c *Context) WithMaxCallDepth(max int) *Context {
	c.depth.max = max
	return c
}

// Sub returns a fresh Context that shares this Context's logger and call-depth budget
// but redirects output to out. Stringify uses this to capture a nested __str__ call's
// output into a buffer instead of letting it leak to the caller's real output sink
// (spec §9).
func (c *Context) Sub(out io.Writer) *Context {
	return &Context{out: out, Logger: c.Logger, depth: c.depth}
}

// EnterCall increments the live call-depth counter, failing with a runtime error if
// doing so would exceed the configured maximum. ClassInstance.Call pairs every
// successful EnterCall with a deferred LeaveCall.
func (c *Context) EnterCall() error {
	if c.depth.max > 0 && c.depth.current >= c.depth.max {
		return NewRuntimeError("maximum call depth of %d exceeded", c.depth.max)
	}
	c.depth.current++
	return nil
}

// LeaveCall decrements the live call-depth counter.
func (c *Context) LeaveCall() {
	c.depth.current--
}

func (c *Context) debugf(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Debugf(format, args...)
	}
}

func (c *Context) warningf(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Warningf(format, args...)
	}
}
