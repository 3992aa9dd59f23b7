package object

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// literalBody is a minimal Executable used by tests that need a Method body without
// pulling in the ast package (which itself depends on object).
type literalBody struct {
	fn func(scope *Scope, ctx *Context) (Value, error)
}

func (l *literalBody) Execute(scope *Scope, ctx *Context) (Value, error) {
	return l.fn(scope, ctx)
}

func newCtx() *Context {
	return NewContext(&bytes.Buffer{})
}

func TestTruthiness(t *testing.T) {
	assert.True(t, (&Number{Value: 1}).Truthy())
	assert.False(t, (&Number{Value: 0}).Truthy())
	assert.True(t, (&String{Value: "x"}).Truthy())
	assert.False(t, (&String{Value: ""}).Truthy())
	assert.True(t, TrueValue.Truthy())
	assert.False(t, FalseValue.Truthy())
	assert.False(t, NoneValue.Truthy())

	class := &Class{Name: "A"}
	assert.False(t, class.Truthy(), "classes are falsy, matching the source's probable bug")

	instance := NewClassInstance(class)
	assert.False(t, instance.Truthy(), "instances are falsy, matching the source's probable bug")
}

func TestFindMethodOwnClassWins(t *testing.T) {
	m := &Method{Name: "greet", Params: nil}
	class := &Class{Name: "A", Methods: []*Method{m}}
	assert.Same(t, m, class.FindMethod("greet"))
	assert.Nil(t, class.FindMethod("missing"))
}

func TestFindMethodFallsBackToParentOnce(t *testing.T) {
	parentMethod := &Method{Name: "greet"}
	parent := &Class{Name: "Parent", Methods: []*Method{parentMethod}}
	child := &Class{Name: "Child", Parent: parent}
	assert.Same(t, parentMethod, child.FindMethod("greet"))
}

func TestFindMethodDoesNotReachGrandparent(t *testing.T) {
	grandparentMethod := &Method{Name: "greet"}
	grandparent := &Class{Name: "Grandparent", Methods: []*Method{grandparentMethod}}
	parent := &Class{Name: "Parent", Parent: grandparent}
	child := &Class{Name: "Child", Parent: parent}
	assert.Nil(t, child.FindMethod("greet"), "lookup is one level of inheritance deep only, per spec")
}

func TestHasMethodChecksArity(t *testing.T) {
	class := &Class{Name: "A", Methods: []*Method{{Name: "f", Params: []string{"x"}}}}
	assert.True(t, class.HasMethod("f", 1))
	assert.False(t, class.HasMethod("f", 0))
	assert.False(t, class.HasMethod("g", 1))
}

func TestInstanceCallBindsSelfAndParams(t *testing.T) {
	var seenSelf Value
	var seenArg Value
	body := &literalBody{fn: func(scope *Scope, ctx *Context) (Value, error) {
		seenSelf, _ = scope.Get("self")
		seenArg, _ = scope.Get("v")
		return NoneValue, nil
	}}
	class := &Class{Name: "A", Methods: []*Method{{Name: "__init__", Params: []string{"v"}, Body: body}}}
	instance := NewClassInstance(class)

	_, err := instance.Call("__init__", []Value{&Number{Value: 42}}, newCtx())
	require.NoError(t, err)
	assert.Same(t, instance, seenSelf)
	assert.Equal(t, &Number{Value: 42}, seenArg)
}

func TestInstanceCallMissingMethod(t *testing.T) {
	class := &Class{Name: "A"}
	instance := NewClassInstance(class)
	_, err := instance.Call("missing", nil, newCtx())
	require.Error(t, err)
}

func TestInstanceCallArityMismatch(t *testing.T) {
	class := &Class{Name: "A", Methods: []*Method{{Name: "f", Params: []string{"x"}}}}
	instance := NewClassInstance(class)
	_, err := instance.Call("f", nil, newCtx())
	require.Error(t, err)
}

func TestEqualPrimitives(t *testing.T) {
	ctx := newCtx()
	eq, err := Equal(&Number{Value: 3}, &Number{Value: 3}, ctx)
	require.NoError(t, err)
	assert.True(t, eq)

	eq, err = Equal(NoneValue, NoneValue, ctx)
	require.NoError(t, err)
	assert.True(t, eq)

	_, err = Equal(&Number{Value: 1}, &String{Value: "1"}, ctx)
	assert.Error(t, err, "cross-type equality between primitives is a runtime error")
}

func TestEqualDispatchesToEqDunder(t *testing.T) {
	body := &literalBody{fn: func(scope *Scope, ctx *Context) (Value, error) {
		return TrueValue, nil
	}}
	class := &Class{Name: "A", Methods: []*Method{{Name: "__eq__", Params: []string{"other"}, Body: body}}}
	instance := NewClassInstance(class)

	eq, err := Equal(instance, NoneValue, newCtx())
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestEqualFailsWithoutDunder(t *testing.T) {
	class := &Class{Name: "A"}
	instance := NewClassInstance(class)
	_, err := Equal(instance, instance, newCtx())
	assert.Error(t, err)
}

func TestDerivedComparisons(t *testing.T) {
	ctx := newCtx()
	a, b := &Number{Value: 1}, &Number{Value: 2}

	gt, err := Greater(b, a, ctx)
	require.NoError(t, err)
	assert.True(t, gt)

	le, err := LessOrEqual(a, b, ctx)
	require.NoError(t, err)
	assert.True(t, le)

	ge, err := GreaterOrEqual(a, a, ctx)
	require.NoError(t, err)
	assert.True(t, ge)

	ne, err := NotEqual(a, b, ctx)
	require.NoError(t, err)
	assert.True(t, ne)
}

func TestDerivedComparisonsRewrapFailures(t *testing.T) {
	ctx := newCtx()
	class := &Class{Name: "A"}
	instance := NewClassInstance(class)

	_, err := NotEqual(instance, instance, ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot compare")
}

func TestFormatValuePrimitives(t *testing.T) {
	ctx := newCtx()
	s, err := FormatValue(&Number{Value: 7}, ctx)
	require.NoError(t, err)
	assert.Equal(t, "7", s)

	s, err = FormatValue(NoneValue, ctx)
	require.NoError(t, err)
	assert.Equal(t, "None", s)

	s, err = FormatValue(TrueValue, ctx)
	require.NoError(t, err)
	assert.Equal(t, "True", s)
}

func TestFormatValueDispatchesToStr(t *testing.T) {
	body := &literalBody{fn: func(scope *Scope, ctx *Context) (Value, error) {
		return &String{Value: "hi"}, nil
	}}
	class := &Class{Name: "A", Methods: []*Method{{Name: "__str__", Body: body}}}
	instance := NewClassInstance(class)

	s, err := FormatValue(instance, newCtx())
	require.NoError(t, err)
	assert.Equal(t, "hi", s)
}

func TestFormatValueAcceptsNonStringStrResult(t *testing.T) {
	body := &literalBody{fn: func(scope *Scope, ctx *Context) (Value, error) {
		return &Number{Value: 42}, nil
	}}
	class := &Class{Name: "A", Methods: []*Method{{Name: "__str__", Body: body}}}
	instance := NewClassInstance(class)

	s, err := FormatValue(instance, newCtx())
	require.NoError(t, err, "__str__ result is printed through the generic protocol, not required to be a String")
	assert.Equal(t, "42", s)
}

func TestFormatValueFallsBackToOpaqueToken(t *testing.T) {
	class := &Class{Name: "A"}
	instance := NewClassInstance(class)
	s, err := FormatValue(instance, newCtx())
	require.NoError(t, err)
	assert.Contains(t, s, "A")
}

func TestFormatAllJoinsWithSpaces(t *testing.T) {
	s, err := FormatAll([]Value{&Number{Value: 1}, &String{Value: "x"}, NoneValue}, newCtx())
	require.NoError(t, err)
	assert.Equal(t, "1 x None", s)
}
