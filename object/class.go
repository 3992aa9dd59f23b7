// ----------------------------------------------------------------------------
// FILE: object/class.go
// ----------------------------------------------------------------------------
package object

import "fmt"

// Executable is satisfied by the ast package's MethodBody node. Keeping it as an
// interface here (rather than importing ast, which itself imports object for Value,
// Scope, and Context) keeps the dependency one-directional: object is a leaf package.
type Executable interface {
	Execute(scope *Scope, ctx *Context) (Value, error)
}

// Method is a class member: a name, its positional formal parameter names (the language
// has no default arguments), and an owned body. Body is always an ast.MethodBody in
// practice, which already implements the "catch exactly one return transfer" contract.
type Method struct {
	Name   string
	Params []string
	Body   Executable
}

// Class is the runtime representation of a `class` definition: an ordered method list
// plus an optional parent for single inheritance. Classes live in the scope that defines
// them and are referenced by ClassInstance without the instance owning the class's
// lifetime.
type Class struct {
	Name    string
	Methods []*Method
	Parent  *Class
}

func (c *Class) Type() ValueType { return CLASS_OBJ }
func (c *Class) Inspect() string { return "Class " + c.Name }

// Truthy: every Class reference is falsy. This mirrors the source interpreter's
// behavior and is almost certainly a bug by ordinary dynamic-language conventions
// (Python classes are truthy) — preserved deliberately rather than fixed.
func (c *Class) Truthy() bool { return false }

// FindMethod searches the class's own method list first (linear scan, first match
// wins), then the immediate parent's method list, and no further. A match in a
// grandparent is invisible to this lookup; this one-level-deep limit matches the
// source interpreter and is flagged there as a probable bug, not a design goal.
func (c *Class) FindMethod(name string) *Method {
	for _, m := range c.Methods {
		if m.Name == name {
			return m
		}
	}
	if c.Parent != nil {
		for _, m := range c.Parent.Methods {
			if m.Name == name {
				return m
			}
		}
	}
	return nil
}

// HasMethod reports whether FindMethod resolves name to a method whose arity equals
// the given argument count.
func (c *Class) HasMethod(name string, arity int) bool {
	m := c.FindMethod(name)
	return m != nil && len(m.Params) == arity
}

// ClassInstance is an instantiation of a Class: a class reference (the instance does
// not own the class's lifetime — the class is owned by whatever scope bound its name)
// plus a field map populated by assignment and __init__.
type ClassInstance struct {
	Class  *Class
	Fields map[string]Value
}

// NewClassInstance allocates an instance with an empty field map.
func NewClassInstance(class *Class) *ClassInstance {
	return &ClassInstance{Class: class, Fields: make(map[string]Value)}
}

func (ci *ClassInstance) Type() ValueType { return INSTANCE_OBJ }

// Inspect renders an opaque identity token; use FormatValue for the __str__-aware
// program-visible representation.
func (ci *ClassInstance) Inspect() string {
	return fmt.Sprintf("<%s instance>", ci.Class.Name)
}

// Truthy: every ClassInstance reference is falsy, matching Class.Truthy and the same
// deliberate-preservation rationale.
func (ci *ClassInstance) Truthy() bool { return false }

// Call implements the instance call protocol (spec §4.2): look up the method and check
// its arity, bind a fresh scope with self and the positional arguments, execute the
// method body against it, and return the body's result. Absence of an explicit return
// yields NoneValue, which MethodBody.Execute already guarantees.
func (ci *ClassInstance) Call(name string, args []Value, ctx *Context) (Value, error) {
	method := ci.Class.FindMethod(name)
	if method == nil {
		return nil, NewRuntimeError("no method %q on %s", name, ci.Class.Name)
	}
	if len(method.Params) != len(args) {
		return nil, NewRuntimeError("method %q of %s takes %d argument(s), got %d",
			name, ci.Class.Name, len(method.Params), len(args))
	}

	if err := ctx.EnterCall(); err != nil {
		return nil, err
	}
	defer ctx.LeaveCall()

	scope := NewScope()
	scope.Set("self", ci)
	for i, param := range method.Params {
		scope.Set(param, args[i])
	}

	ctx.debugf("dispatching %s.%s (arity %d)", ci.Class.Name, name, len(args))
	return method.Body.Execute(scope, ctx)
}
