// ----------------------------------------------------------------------------
// FILE: ast/ast.go
// ----------------------------------------------------------------------------
// PACKAGE: ast
// PURPOSE: The node set the parser builds and the evaluator drives. Each node carries
//          its own execution semantics directly (Execute(scope, ctx) -> Value, error)
//          rather than being dispatched through a central type switch, per the explicit
//          per-node execute contract the value system and evaluator are built around.
// ----------------------------------------------------------------------------

package ast

import (
	"fmt"
	"strings"

	"lucid/object"
)

// Node is implemented by every statement and expression in the tree. Statements and
// expressions are not distinguished at the type level: an IfElse can be used for its
// value the same way a Comparison can, matching the source interpreter's uniform
// "everything executes to a Value" design.
type Node interface {
	Execute(scope *object.Scope, ctx *object.Context) (object.Value, error)
}

// returnSignal is how Return carries its value out of the enclosing method body. It
// is an error so that it rides the same channel every other failure already uses;
// Compound and friends simply forward any non-nil error upward without inspecting it,
// and MethodBody is the one place that unwraps it. This is the "explicit result
// channel" spec.md §9 recommends in place of an exception-like transfer.
type returnSignal struct {
	value object.Value
}

func (r *returnSignal) Error() string { return "return used outside of a method body" }

// resolvePath implements the shared traversal VariableValue and FieldAssignment both
// need: look the first name up in scope, then walk the remaining names through
// ClassInstance field maps. path must be non-empty.
func resolvePath(scope *object.Scope, path []string) (object.Value, error) {
	cur, ok := scope.Get(path[0])
	if !ok {
		return nil, object.NewRuntimeError("undefined variable %q", path[0])
	}
	for _, name := range path[1:] {
		inst, ok := cur.(*object.ClassInstance)
		if !ok {
			return nil, object.NewRuntimeError("cannot access %q on a non-instance value", name)
		}
		field, ok := inst.Fields[name]
		if !ok {
			return nil, object.NewRuntimeError("instance of %s has no field %q", inst.Class.Name, name)
		}
		cur = field
	}
	return cur, nil
}

// Literal wraps an already-constructed Value (a number, string, bool, or None
// constant) and returns it verbatim. It mirrors the source interpreter's templated
// constant-wrapping statement (ValueStatement<T>); the specification's node list
// omits it because executing a literal has no behavior worth documenting beyond
// "return the stored value," but the parser needs some leaf node for number/string/
// bool/None tokens.
type Literal struct {
	Value object.Value
}

func (l *Literal) Execute(scope *object.Scope, ctx *object.Context) (object.Value, error) {
	return l.Value, nil
}

// ----------------------------------------------------------------------------------
// Assignment / variable access
// ----------------------------------------------------------------------------------

// Assignment evaluates Expr and stores the result under Name in scope.
type Assignment struct {
	Name string
	Expr Node
}

func (a *Assignment) Execute(scope *object.Scope, ctx *object.Context) (object.Value, error) {
	val, err := a.Expr.Execute(scope, ctx)
	if err != nil {
		return nil, err
	}
	return scope.Set(a.Name, val), nil
}

// VariableValue resolves a dotted identifier path (x, x.a, x.a.b, ...). The first name
// resolves in scope; every further step must land on a ClassInstance and looks the next
// name up in its field map, never its methods.
type VariableValue struct {
	Path []string
}

func (v *VariableValue) Execute(scope *object.Scope, ctx *object.Context) (object.Value, error) {
	return resolvePath(scope, v.Path)
}

// FieldAssignment resolves ObjectPath to a ClassInstance and sets Field in its field
// map to Expr's value. A target that does not resolve to a ClassInstance is a no-op
// that yields None rather than an error.
type FieldAssignment struct {
	ObjectPath []string
	Field      string
	Expr       Node
}

func (f *FieldAssignment) Execute(scope *object.Scope, ctx *object.Context) (object.Value, error) {
	val, err := f.Expr.Execute(scope, ctx)
	if err != nil {
		return nil, err
	}
	target, err := resolvePath(scope, f.ObjectPath)
	if err != nil {
		return nil, err
	}
	inst, ok := target.(*object.ClassInstance)
	if !ok {
		return object.NoneValue, nil
	}
	inst.Fields[f.Field] = val
	return val, nil
}

// ----------------------------------------------------------------------------------
// Output
// ----------------------------------------------------------------------------------

// Print evaluates each argument left to right and writes their formatted
// representations, space-separated and newline-terminated, to ctx's output.
type Print struct {
	Args []Node
}

func (p *Print) Execute(scope *object.Scope, ctx *object.Context) (object.Value, error) {
	values := make([]object.Value, len(p.Args))
	for i, arg := range p.Args {
		v, err := arg.Execute(scope, ctx)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	line, err := object.FormatAll(values, ctx)
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(ctx.Output(), line)
	return object.NoneValue, nil
}

// Stringify evaluates Arg, renders it through the same protocol Print uses but against
// a fresh buffer-backed context, and returns the buffer's contents as a String. Any
// side effects a nested __str__ call produces (e.g. a print statement inside it) land
// in that buffer rather than leaking to the real output sink (spec.md §9).
type Stringify struct {
	Arg Node
}

func (s *Stringify) Execute(scope *object.Scope, ctx *object.Context) (object.Value, error) {
	val, err := s.Arg.Execute(scope, ctx)
	if err != nil {
		return nil, err
	}
	var buf strings.Builder
	sub := ctx.Sub(&buf)
	text, err := object.FormatValue(val, sub)
	if err != nil {
		return nil, err
	}
	buf.WriteString(text)
	return &object.String{Value: buf.String()}, nil
}

// ----------------------------------------------------------------------------------
// Arithmetic
// ----------------------------------------------------------------------------------

// Add implements Number+Number, String+String concatenation, and __add__ dispatch for
// a ClassInstance left operand of matching arity; anything else is a runtime error.
type Add struct {
	Lhs, Rhs Node
}

func (a *Add) Execute(scope *object.Scope, ctx *object.Context) (object.Value, error) {
	l, r, err := evalPair(a.Lhs, a.Rhs, scope, ctx)
	if err != nil {
		return nil, err
	}
	switch lv := l.(type) {
	case *object.Number:
		if rv, ok := r.(*object.Number); ok {
			return &object.Number{Value: lv.Value + rv.Value}, nil
		}
	case *object.String:
		if rv, ok := r.(*object.String); ok {
			return &object.String{Value: lv.Value + rv.Value}, nil
		}
	case *object.ClassInstance:
		if lv.Class.HasMethod("__add__", 1) {
			return lv.Call("__add__", []object.Value{r}, ctx)
		}
	}
	return nil, object.NewRuntimeError("unsupported operand types for +")
}

// Sub, Mult, and Div operate on Numbers only; there is no dunder fallback, unlike Add.
type Sub struct{ Lhs, Rhs Node }

func (s *Sub) Execute(scope *object.Scope, ctx *object.Context) (object.Value, error) {
	l, r, err := numericPair(s.Lhs, s.Rhs, scope, ctx, "-")
	if err != nil {
		return nil, err
	}
	return &object.Number{Value: l - r}, nil
}

type Mult struct{ Lhs, Rhs Node }

func (m *Mult) Execute(scope *object.Scope, ctx *object.Context) (object.Value, error) {
	l, r, err := numericPair(m.Lhs, m.Rhs, scope, ctx, "*")
	if err != nil {
		return nil, err
	}
	return &object.Number{Value: l * r}, nil
}

type Div struct{ Lhs, Rhs Node }

func (d *Div) Execute(scope *object.Scope, ctx *object.Context) (object.Value, error) {
	l, r, err := numericPair(d.Lhs, d.Rhs, scope, ctx, "/")
	if err != nil {
		return nil, err
	}
	if r == 0 {
		return nil, object.NewRuntimeError("division by zero")
	}
	return &object.Number{Value: l / r}, nil
}

func evalPair(lhs, rhs Node, scope *object.Scope, ctx *object.Context) (object.Value, object.Value, error) {
	l, err := lhs.Execute(scope, ctx)
	if err != nil {
		return nil, nil, err
	}
	r, err := rhs.Execute(scope, ctx)
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}

func numericPair(lhs, rhs Node, scope *object.Scope, ctx *object.Context, op string) (int64, int64, error) {
	l, r, err := evalPair(lhs, rhs, scope, ctx)
	if err != nil {
		return 0, 0, err
	}
	ln, ok := l.(*object.Number)
	if !ok {
		return 0, 0, object.NewRuntimeError("operand of %q must be a number", op)
	}
	rn, ok := r.(*object.Number)
	if !ok {
		return 0, 0, object.NewRuntimeError("operand of %q must be a number", op)
	}
	return ln.Value, rn.Value, nil
}

// ----------------------------------------------------------------------------------
// Control flow
// ----------------------------------------------------------------------------------

// Compound executes each statement in order and returns None. Any error, including a
// return transfer, propagates to the caller unexamined.
type Compound struct {
	Stmts []Node
}

func (c *Compound) Execute(scope *object.Scope, ctx *object.Context) (object.Value, error) {
	for _, stmt := range c.Stmts {
		if _, err := stmt.Execute(scope, ctx); err != nil {
			return nil, err
		}
	}
	return object.NoneValue, nil
}

// Return evaluates Expr and transfers control out of the enclosing MethodBody,
// carrying the value with it. A bare Return outside of a method body is undefined
// behavior (the source does not guard this either): the signal simply propagates as
// an ordinary error to whatever drives the top-level Compound.
type Return struct {
	Expr Node
}

func (r *Return) Execute(scope *object.Scope, ctx *object.Context) (object.Value, error) {
	val, err := r.Expr.Execute(scope, ctx)
	if err != nil {
		return nil, err
	}
	return nil, &returnSignal{value: val}
}

// ClassDefinition resolves ParentName (if any) against scope, wires it onto Class.Parent,
// and binds Class's name in scope to a reference to it. Resolving the parent at execution
// time rather than parse time lets a class reference its parent however scope ordering
// works out, the same as any other name lookup.
type ClassDefinition struct {
	Class      *object.Class
	ParentName string
}

func (c *ClassDefinition) Execute(scope *object.Scope, ctx *object.Context) (object.Value, error) {
	if c.ParentName != "" {
		parentVal, ok := scope.Get(c.ParentName)
		if !ok {
			return nil, object.NewRuntimeError("undefined parent class %q", c.ParentName)
		}
		parent, ok := parentVal.(*object.Class)
		if !ok {
			return nil, object.NewRuntimeError("%q is not a class", c.ParentName)
		}
		c.Class.Parent = parent
	}
	return scope.Set(c.Class.Name, c.Class), nil
}

// IfElse evaluates Cond and executes IfBody if truthy, else ElseBody if present, else
// yields None. ElseBody may be nil.
type IfElse struct {
	Cond     Node
	IfBody   Node
	ElseBody Node
}

func (i *IfElse) Execute(scope *object.Scope, ctx *object.Context) (object.Value, error) {
	cond, err := i.Cond.Execute(scope, ctx)
	if err != nil {
		return nil, err
	}
	if cond.Truthy() {
		return i.IfBody.Execute(scope, ctx)
	}
	if i.ElseBody != nil {
		return i.ElseBody.Execute(scope, ctx)
	}
	return object.NoneValue, nil
}

// ----------------------------------------------------------------------------------
// Boolean operators
// ----------------------------------------------------------------------------------

// Or evaluates Lhs; if truthy it short-circuits and returns True without evaluating
// Rhs. Otherwise it evaluates Rhs and returns its truthiness.
type Or struct{ Lhs, Rhs Node }

func (o *Or) Execute(scope *object.Scope, ctx *object.Context) (object.Value, error) {
	l, err := o.Lhs.Execute(scope, ctx)
	if err != nil {
		return nil, err
	}
	if l.Truthy() {
		return object.TrueValue, nil
	}
	r, err := o.Rhs.Execute(scope, ctx)
	if err != nil {
		return nil, err
	}
	return object.NativeBool(r.Truthy()), nil
}

// And evaluates Lhs; if falsy it short-circuits and returns False without evaluating
// Rhs. Otherwise it evaluates Rhs and returns its truthiness.
type And struct{ Lhs, Rhs Node }

func (a *And) Execute(scope *object.Scope, ctx *object.Context) (object.Value, error) {
	l, err := a.Lhs.Execute(scope, ctx)
	if err != nil {
		return nil, err
	}
	if !l.Truthy() {
		return object.FalseValue, nil
	}
	r, err := a.Rhs.Execute(scope, ctx)
	if err != nil {
		return nil, err
	}
	return object.NativeBool(r.Truthy()), nil
}

// Not evaluates Expr and returns the negation of its truthiness.
type Not struct{ Expr Node }

func (n *Not) Execute(scope *object.Scope, ctx *object.Context) (object.Value, error) {
	v, err := n.Expr.Execute(scope, ctx)
	if err != nil {
		return nil, err
	}
	return object.NativeBool(!v.Truthy()), nil
}

// ----------------------------------------------------------------------------------
// Comparison
// ----------------------------------------------------------------------------------

// Comparator names one of the six comparison operators Comparison can apply.
type Comparator string

const (
	CmpEqual          Comparator = "=="
	CmpNotEqual       Comparator = "!="
	CmpLess           Comparator = "<"
	CmpGreater        Comparator = ">"
	CmpLessOrEqual    Comparator = "<="
	CmpGreaterOrEqual Comparator = ">="
)

// Comparison evaluates Lhs and Rhs and applies the named comparator, wrapping the
// boolean result as a Bool value.
type Comparison struct {
	Cmp      Comparator
	Lhs, Rhs Node
}

func (c *Comparison) Execute(scope *object.Scope, ctx *object.Context) (object.Value, error) {
	l, r, err := evalPair(c.Lhs, c.Rhs, scope, ctx)
	if err != nil {
		return nil, err
	}
	var result bool
	switch c.Cmp {
	case CmpEqual:
		result, err = object.Equal(l, r, ctx)
	case CmpNotEqual:
		result, err = object.NotEqual(l, r, ctx)
	case CmpLess:
		result, err = object.Less(l, r, ctx)
	case CmpGreater:
		result, err = object.Greater(l, r, ctx)
	case CmpLessOrEqual:
		result, err = object.LessOrEqual(l, r, ctx)
	case CmpGreaterOrEqual:
		result, err = object.GreaterOrEqual(l, r, ctx)
	default:
		return nil, object.NewRuntimeError("unknown comparator %q", c.Cmp)
	}
	if err != nil {
		return nil, err
	}
	return object.NativeBool(result), nil
}

// ----------------------------------------------------------------------------------
// Instantiation
// ----------------------------------------------------------------------------------

// NewInstance constructs a fresh instance of whatever Class evaluates to (a class
// reference) and evaluates Args left to right. If the class has an __init__ whose
// arity matches the argument count (zero when Args is empty or nil), it is invoked
// with those arguments; otherwise the instance is returned uninitialized, without
// error. This single rule covers both of spec.md §4.3's described forms ("args
// absent" and "args present") because this grammar only ever reaches NewInstance
// through a call expression, so an absent argument list and an empty one are
// indistinguishable and behave identically: both ask for a zero-arity __init__.
type NewInstance struct {
	Class Node
	Args  []Node
}

func (n *NewInstance) Execute(scope *object.Scope, ctx *object.Context) (object.Value, error) {
	classVal, err := n.Class.Execute(scope, ctx)
	if err != nil {
		return nil, err
	}
	class, ok := classVal.(*object.Class)
	if !ok {
		return nil, object.NewRuntimeError("cannot instantiate a non-class value")
	}
	instance := object.NewClassInstance(class)

	args := make([]object.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := a.Execute(scope, ctx)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	if class.HasMethod("__init__", len(args)) {
		if _, err := instance.Call("__init__", args, ctx); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// MethodCall evaluates Receiver, evaluates Args left to right, and invokes the named
// method on the result. The receiver must evaluate to a ClassInstance; anything else
// is a runtime error.
type MethodCall struct {
	Receiver Node
	Name     string
	Args     []Node
}

func (m *MethodCall) Execute(scope *object.Scope, ctx *object.Context) (object.Value, error) {
	recvVal, err := m.Receiver.Execute(scope, ctx)
	if err != nil {
		return nil, err
	}
	inst, ok := recvVal.(*object.ClassInstance)
	if !ok {
		return nil, object.NewRuntimeError("cannot call %q on a non-instance value", m.Name)
	}
	args := make([]object.Value, len(m.Args))
	for i, a := range m.Args {
		v, err := a.Execute(scope, ctx)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return inst.Call(m.Name, args, ctx)
}

// ----------------------------------------------------------------------------------
// Method bodies
// ----------------------------------------------------------------------------------

// MethodBody wraps a method's statement body, catching exactly the return transfer
// Return produces and yielding its carried value. A body that completes without
// returning yields None. MethodBody is what satisfies object.Executable, so it is the
// concrete type every object.Method.Body holds.
type MethodBody struct {
	Body Node
}

func (m *MethodBody) Execute(scope *object.Scope, ctx *object.Context) (object.Value, error) {
	_, err := m.Body.Execute(scope, ctx)
	if err == nil {
		return object.NoneValue, nil
	}
	if rs, ok := err.(*returnSignal); ok {
		return rs.value, nil
	}
	return nil, err
}

// ClassRef is a thin Node wrapping an already-resolved class reference, used where the
// parser needs to hand NewInstance a class literal rather than a name to look up (the
// common case is still a VariableValue naming the class).
type ClassRef struct {
	Class *object.Class
}

func (c *ClassRef) Execute(scope *object.Scope, ctx *object.Context) (object.Value, error) {
	return c.Class, nil
}
