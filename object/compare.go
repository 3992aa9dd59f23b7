// ----------------------------------------------------------------------------
// FILE: object/compare.go
// ----------------------------------------------------------------------------
package object

// Equal implements spec.md §4.2's equal(a, b, ctx):
//   - two None handles are always equal,
//   - Numbers, Strings, and Bools compare by payload,
//   - a ClassInstance on the left with __eq__ of arity 1 dispatches to it,
//   - anything else fails with a runtime error.
func Equal(a, b Value, ctx *Context) (bool, error) {
	switch l := a.(type) {
	case *None:
		if _, ok := b.(*None); ok {
			return true, nil
		}
	case *Number:
		if r, ok := b.(*Number); ok {
			return l.Value == r.Value, nil
		}
	case *String:
		if r, ok := b.(*String); ok {
			return l.Value == r.Value, nil
		}
	case *Bool:
		if r, ok := b.(*Bool); ok {
			return l.Value == r.Value, nil
		}
	case *ClassInstance:
		if l.Class.HasMethod("__eq__", 1) {
			result, err := l.Call("__eq__", []Value{b}, ctx)
			if err != nil {
				return false, err
			}
			boolResult, ok := result.(*Bool)
			if !ok {
				return false, NewRuntimeError("__eq__ on %s must return a boolean", l.Class.Name)
			}
			return boolResult.Value, nil
		}
	}
	return false, NewRuntimeError("values of these types cannot be compared")
}

// Less implements spec.md §4.2's less(a, b, ctx): same structure as Equal but
// dispatching to __lt__ for class instances, with no cross-type ordering.
func Less(a, b Value, ctx *Context) (bool, error) {
	switch l := a.(type) {
	case *Number:
		r, ok := b.(*Number)
		if !ok {
			return false, NewRuntimeError("values of these types cannot be compared")
		}
		return l.Value < r.Value, nil
	case *String:
		r, ok := b.(*String)
		if !ok {
			return false, NewRuntimeError("values of these types cannot be compared")
		}
		return l.Value < r.Value, nil
	case *Bool:
		r, ok := b.(*Bool)
		if !ok {
			return false, NewRuntimeError("values of these types cannot be compared")
		}
		return !l.Value && r.Value, nil
	case *ClassInstance:
		if l.Class.HasMethod("__lt__", 1) {
			result, err := l.Call("__lt__", []Value{b}, ctx)
			if err != nil {
				return false, err
			}
			boolResult, ok := result.(*Bool)
			if !ok {
				return false, NewRuntimeError("__lt__ on %s must return a boolean", l.Class.Name)
			}
			return boolResult.Value, nil
		}
	}
	return false, NewRuntimeError("values of these types cannot be compared")
}

// NotEqual, Greater, LessOrEqual, and GreaterOrEqual are the derived comparisons of
// spec.md §4.2: not_equal = ¬equal, greater = ¬less ∧ ¬equal, less_or_equal = ¬greater,
// greater_or_equal = ¬less. Any inner failure is rewrapped as a generic "cannot compare"
// error without changing its severity (spec.md §7).

func NotEqual(a, b Value, ctx *Context) (bool, error) {
	eq, err := Equal(a, b, ctx)
	if err != nil {
		ctx.warningf("rewrapping comparison failure: %v", err)
		return false, WrapRuntimeError(err, "cannot compare values")
	}
	return !eq, nil
}

func Greater(a, b Value, ctx *Context) (bool, error) {
	lt, err := Less(a, b, ctx)
	if err != nil {
		ctx.warningf("rewrapping comparison failure: %v", err)
		return false, WrapRuntimeError(err, "cannot compare values")
	}
	eq, err := Equal(a, b, ctx)
	if err != nil {
		ctx.warningf("rewrapping comparison failure: %v", err)
		return false, WrapRuntimeError(err, "cannot compare values")
	}
	return !lt && !eq, nil
}

func LessOrEqual(a, b Value, ctx *Context) (bool, error) {
	gt, err := Greater(a, b, ctx)
	if err != nil {
		return false, err
	}
	return !gt, nil
}

func GreaterOrEqual(a, b Value, ctx *Context) (bool, error) {
	lt, err := Less(a, b, ctx)
	if err != nil {
		ctx.warningf("rewrapping comparison failure: %v", err)
		return false, WrapRuntimeError(err, "cannot compare values")
	}
	return !lt, nil
}
