// ==============================================================================================
// FILE: parser/parser_test.go
// ==============================================================================================
// PURPOSE: Unit tests for individual grammar rules (assignments, arithmetic precedence, classes,
//          control flow, calls) and a couple of integration-style end-to-end checks that run a
//          parsed program through the evaluator and assert on its output.
// ==============================================================================================

package parser

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lucid/ast"
	"lucid/lexer"
	"lucid/object"
)

func parseOK(t *testing.T, src string) *ast.Compound {
	t.Helper()
	l := lexer.New(src)
	program, errs := ParseProgram(l)
	require.Empty(t, errs, "unexpected parser errors: %v", errs)
	return program
}

func TestParsesAssignmentStatements(t *testing.T) {
	program := parseOK(t, "x = 5\ny = 'hi'\nz = True\n")
	require.Len(t, program.Stmts, 3)

	names := []string{"x", "y", "z"}
	for i, stmt := range program.Stmts {
		a, ok := stmt.(*ast.Assignment)
		require.True(t, ok, "statement %d is %T, not *ast.Assignment", i, stmt)
		assert.Equal(t, names[i], a.Name)
	}
}

func TestParsesArithmeticPrecedence(t *testing.T) {
	program := parseOK(t, "x = 1 + 2 * 3\n")
	a := program.Stmts[0].(*ast.Assignment)
	add, ok := a.Expr.(*ast.Add)
	require.True(t, ok)
	_, ok = add.Rhs.(*ast.Mult)
	assert.True(t, ok, "multiplication must bind tighter than addition")
}

func TestParsesComparisonAndBooleanOperators(t *testing.T) {
	program := parseOK(t, "x = a < b and not c or d == e\n")
	a := program.Stmts[0].(*ast.Assignment)
	or, ok := a.Expr.(*ast.Or)
	require.True(t, ok, "or is the loosest-binding operator")
	_, ok = or.Lhs.(*ast.And)
	assert.True(t, ok)
	_, ok = or.Rhs.(*ast.Comparison)
	assert.True(t, ok)
}

func TestParsesIfElse(t *testing.T) {
	src := "if x:\n  print 'yes'\nelse:\n  print 'no'\n"
	program := parseOK(t, src)
	ie, ok := program.Stmts[0].(*ast.IfElse)
	require.True(t, ok)
	assert.NotNil(t, ie.IfBody)
	assert.NotNil(t, ie.ElseBody)
}

func TestParsesIfWithoutElse(t *testing.T) {
	src := "if x:\n  print 'yes'\n"
	program := parseOK(t, src)
	ie, ok := program.Stmts[0].(*ast.IfElse)
	require.True(t, ok)
	assert.Nil(t, ie.ElseBody)
}

func TestParsesClassWithInheritance(t *testing.T) {
	src := "" +
		"class A:\n" +
		"  def __init__(self, v):\n" +
		"    self.v = v\n" +
		"class B(A):\n" +
		"  def __str__(self):\n" +
		"    return 'B'\n"
	program := parseOK(t, src)
	require.Len(t, program.Stmts, 2)

	cdA := program.Stmts[0].(*ast.ClassDefinition)
	assert.Equal(t, "A", cdA.Class.Name)
	assert.Equal(t, "", cdA.ParentName)
	require.Len(t, cdA.Class.Methods, 1)
	assert.Equal(t, "__init__", cdA.Class.Methods[0].Name)

	cdB := program.Stmts[1].(*ast.ClassDefinition)
	assert.Equal(t, "B", cdB.Class.Name)
	assert.Equal(t, "A", cdB.ParentName)
}

func TestParsesMethodDefStripsSelfFromParams(t *testing.T) {
	src := "" +
		"class A:\n" +
		"  def __init__(self, v):\n" +
		"    self.v = v\n" +
		"  def __str__(self):\n" +
		"    return self.v\n"
	program := parseOK(t, src)
	cd := program.Stmts[0].(*ast.ClassDefinition)
	require.Len(t, cd.Class.Methods, 2)
	assert.Equal(t, []string{"v"}, cd.Class.Methods[0].Params, "self is bound out-of-band and must not appear in Params")
	assert.Empty(t, cd.Class.Methods[1].Params)
}

func TestParsesFieldAccessAndAssignment(t *testing.T) {
	program := parseOK(t, "a.b.c = 1\n")
	fa, ok := program.Stmts[0].(*ast.FieldAssignment)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, fa.ObjectPath)
	assert.Equal(t, "c", fa.Field)
}

func TestParsesMethodCallOnDottedReceiver(t *testing.T) {
	program := parseOK(t, "a.greet(1, 2)\n")
	mc, ok := program.Stmts[0].(*ast.MethodCall)
	require.True(t, ok)
	assert.Equal(t, "greet", mc.Name)
	assert.Len(t, mc.Args, 2)
}

func TestParsesNewInstance(t *testing.T) {
	program := parseOK(t, "a = Point(1, 2)\n")
	assign := program.Stmts[0].(*ast.Assignment)
	ni, ok := assign.Expr.(*ast.NewInstance)
	require.True(t, ok)
	assert.Len(t, ni.Args, 2)
}

func TestParsesTopLevelDefAsRecursiveCall(t *testing.T) {
	src := "def f(n):\n  if n <= 1:\n    return 1\n  else:\n    return n * f(n - 1)\n"
	program := parseOK(t, src)
	assign, ok := program.Stmts[0].(*ast.Assignment)
	require.True(t, ok)
	assert.Equal(t, "f", assign.Name)
	_, ok = assign.Expr.(*ast.NewInstance)
	assert.True(t, ok, "a top-level def desugars to a single-method class instantiation")
}

func TestRejectsAssignmentToNonPath(t *testing.T) {
	l := lexer.New("1 + 1 = 2\n")
	_, errs := ParseProgram(l)
	assert.NotEmpty(t, errs)
}

// ----------------------------------------------------------------------------------
// End-to-end: parse then execute, matching spec.md §8's scenarios.
// ----------------------------------------------------------------------------------

func runEndToEnd(t *testing.T, src string) string {
	t.Helper()
	program := parseOK(t, src)
	var out bytes.Buffer
	ctx := object.NewContext(&out)
	_, err := program.Execute(object.NewScope(), ctx)
	require.NoError(t, err)
	return out.String()
}

func TestEndToEndArithmetic(t *testing.T) {
	assert.Equal(t, "7\n", runEndToEnd(t, "print 1 + 2 * 3\n"))
}

func TestEndToEndRecursiveFactorial(t *testing.T) {
	src := "def f(n):\n  if n <= 1:\n    return 1\n  else:\n    return n * f(n - 1)\nprint f(5)\n"
	assert.Equal(t, "120\n", runEndToEnd(t, src))
}

func TestEndToEndClassHierarchy(t *testing.T) {
	src := "" +
		"class A:\n" +
		"  def __init__(self, v):\n" +
		"    self.v = v\n" +
		"  def __str__(self):\n" +
		"    return self.v\n" +
		"class B(A):\n" +
		"  def __str__(self):\n" +
		"    return 'B'\n" +
		"print A('hi')\n" +
		"print B('x')\n"
	assert.Equal(t, "hi\nB\n", runEndToEnd(t, src))
}
