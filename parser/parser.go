// ==============================================================================================
// FILE: parser/parser.go
// ==============================================================================================
// PACKAGE: parser
// PURPOSE: Recursive descent over indentation-delimited blocks, with a Pratt parser for
//          expressions. Converts the lexer's token stream into the ast package's node set.
// ==============================================================================================

package parser

import (
	"fmt"
	"strconv"

	"lucid/ast"
	"lucid/lexer"
	"lucid/object"
	"lucid/token"
)

// Precedence constants determine how tightly an operator binds. Higher binds tighter.
// Order, loosest to tightest: or, and, comparisons, +/-, * /, unary - and not, call/member
// access.
const (
	_ int = iota
	LOWEST
	OR_PREC
	AND_PREC
	COMPARE
	SUM
	PRODUCT
	PREFIX
	CALLP // call and member access: f(x), a.b
)

// key turns a token into the string used to index the prefix/infix/precedence maps. CHAR
// tokens share one TokenType across many operators, so they are keyed by literal instead.
func key(tok token.Token) string {
	if tok.Type == token.CHAR {
		return "CHAR:" + tok.Literal
	}
	return string(tok.Type)
}

var precedences = map[string]int{
	string(token.OR):            OR_PREC,
	string(token.AND):            AND_PREC,
	string(token.EQ):             COMPARE,
	string(token.NOT_EQ):         COMPARE,
	string(token.LESS_OR_EQ):     COMPARE,
	string(token.GREATER_OR_EQ):  COMPARE,
	"CHAR:<":                     COMPARE,
	"CHAR:>":                     COMPARE,
	"CHAR:+":                     SUM,
	"CHAR:-":                     SUM,
	"CHAR:*":                     PRODUCT,
	"CHAR:/":                     PRODUCT,
	"CHAR:(":                     CALLP,
	"CHAR:.":                     CALLP,
}

type (
	prefixParseFn func() ast.Node
	infixParseFn  func(left ast.Node) ast.Node
)

// Parser turns a token stream into a tree of ast.Node. It tracks, purely at parse time, which
// top-level `def` names have been seen so that a bare call to one of them desugars to a method
// call on the bound instance rather than an instantiation (see parseCallExpression).
type Parser struct {
	l      *lexer.Lexer
	cur    token.Token
	peek   token.Token
	errors []string

	prefixParseFns map[string]prefixParseFn
	infixParseFns  map[string]infixParseFn

	currentFunctionName string
	knownFunctions       map[string]bool
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		l:              l,
		errors:         []string{},
		knownFunctions: make(map[string]bool),
	}

	p.prefixParseFns = make(map[string]prefixParseFn)
	p.registerPrefixType(token.IDENT, p.parseIdentifier)
	p.registerPrefixType(token.NUMBER, p.parseNumberLiteral)
	p.registerPrefixType(token.STRING, p.parseStringLiteral)
	p.registerPrefixType(token.TRUE, p.parseBoolLiteral)
	p.registerPrefixType(token.FALSE, p.parseBoolLiteral)
	p.registerPrefixType(token.NONE, p.parseNoneLiteral)
	p.registerPrefixType(token.NOT, p.parseNotExpression)
	p.registerPrefixChar("-", p.parsePrefixMinus)
	p.registerPrefixChar("(", p.parseGroupedExpression)

	p.infixParseFns = make(map[string]infixParseFn)
	p.registerInfixType(token.OR, p.parseOrExpression)
	p.registerInfixType(token.AND, p.parseAndExpression)
	p.registerInfixType(token.EQ, p.parseComparison(ast.CmpEqual))
	p.registerInfixType(token.NOT_EQ, p.parseComparison(ast.CmpNotEqual))
	p.registerInfixType(token.LESS_OR_EQ, p.parseComparison(ast.CmpLessOrEqual))
	p.registerInfixType(token.GREATER_OR_EQ, p.parseComparison(ast.CmpGreaterOrEqual))
	p.registerInfixChar("<", p.parseComparison(ast.CmpLess))
	p.registerInfixChar(">", p.parseComparison(ast.CmpGreater))
	p.registerInfixChar("+", p.parseAdd)
	p.registerInfixChar("-", p.parseSub)
	p.registerInfixChar("*", p.parseMult)
	p.registerInfixChar("/", p.parseDiv)
	p.registerInfixChar(".", p.parseDotExpression)
	p.registerInfixChar("(", p.parseCallExpression)

	p.cur = l.Current()
	p.peek = l.Advance()

	return p
}

func (p *Parser) registerPrefixType(t token.TokenType, fn prefixParseFn) { p.prefixParseFns[string(t)] = fn }
func (p *Parser) registerPrefixChar(lit string, fn prefixParseFn)       { p.prefixParseFns["CHAR:"+lit] = fn }
func (p *Parser) registerInfixType(t token.TokenType, fn infixParseFn)  { p.infixParseFns[string(t)] = fn }
func (p *Parser) registerInfixChar(lit string, fn infixParseFn)         { p.infixParseFns["CHAR:"+lit] = fn }

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.l.Advance()
}

func (p *Parser) curIs(t token.TokenType) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t token.TokenType) bool { return p.peek.Type == t }
func (p *Parser) curIsChar(lit string) bool     { return p.cur.Type == token.CHAR && p.cur.Literal == lit }
func (p *Parser) peekIsChar(lit string) bool    { return p.peek.Type == token.CHAR && p.peek.Literal == lit }

func (p *Parser) errorf(format string, args ...interface{}) {
	msg := fmt.Sprintf("line %d:%d - %s", p.cur.Line, p.cur.Column, fmt.Sprintf(format, args...))
	p.errors = append(p.errors, msg)
}

func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) expectCur(t token.TokenType) bool {
	if p.curIs(t) {
		return true
	}
	p.errorf("expected %s, got %s", t, p.cur.Type)
	return false
}

func (p *Parser) expectCurChar(lit string) bool {
	if p.curIsChar(lit) {
		return true
	}
	p.errorf("expected %q, got %s %q", lit, p.cur.Type, p.cur.Literal)
	return false
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[key(p.peek)]; ok {
		return prec
	}
	return LOWEST
}

// ----------------------------------------------------------------------------------
// Program / statements
// ----------------------------------------------------------------------------------

// ParseProgram parses the whole token stream as a sequence of top-level statements.
func ParseProgram(l *lexer.Lexer) (*ast.Compound, []string) {
	p := New(l)
	var stmts []ast.Node
	for !p.curIs(token.EOF) {
		if p.curIs(token.NEWLINE) {
			p.advance()
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return &ast.Compound{Stmts: stmts}, p.Errors()
}

func (p *Parser) parseStatement() ast.Node {
	switch p.cur.Type {
	case token.CLASS:
		return p.parseClassDefinition()
	case token.DEF:
		return p.parseTopLevelDef()
	case token.IF:
		return p.parseIfElse()
	case token.RETURN:
		return p.parseReturn()
	case token.PRINT:
		return p.parsePrint()
	default:
		return p.parseExpressionStatement()
	}
}

// parseBlock parses the body of an if/else/def/class header: it expects the header's
// trailing ':' to already be consumed, leaving cur at NEWLINE, followed by an INDENT, a run
// of statements, and a DEDENT.
func (p *Parser) parseBlock() *ast.Compound {
	if !p.expectCur(token.NEWLINE) {
		return &ast.Compound{}
	}
	p.advance()
	if !p.expectCur(token.INDENT) {
		return &ast.Compound{}
	}
	p.advance()

	var stmts []ast.Node
	for !p.curIs(token.DEDENT) && !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	if p.curIs(token.DEDENT) {
		p.advance()
	}
	return &ast.Compound{Stmts: stmts}
}

func (p *Parser) parseReturn() ast.Node {
	p.advance() // consume 'return'
	expr := p.parseExpression(LOWEST)
	p.consumeStatementEnd()
	return &ast.Return{Expr: expr}
}

func (p *Parser) parsePrint() ast.Node {
	p.advance() // consume 'print'
	args := []ast.Node{p.parseExpression(LOWEST)}
	for p.peekIsChar(",") {
		p.advance() // now cur is ','
		p.advance() // now cur is the next argument's first token
		args = append(args, p.parseExpression(LOWEST))
	}
	p.consumeStatementEnd()
	return &ast.Print{Args: args}
}

// consumeStatementEnd eats the NEWLINE that terminates a simple (non-block) statement.
// It is called right after an expression has been parsed, so cur is still the expression's
// last token and the NEWLINE (if any) is in peek. At EOF there may be no NEWLINE left to
// consume; that is not an error. Anything else is recorded as an error and the rest of the
// line is skipped, so parsing resumes at the next statement.
func (p *Parser) consumeStatementEnd() {
	if p.peekIs(token.NEWLINE) {
		p.advance()
		p.advance()
		return
	}
	if p.peekIs(token.EOF) {
		p.advance()
		return
	}
	if p.curIs(token.EOF) {
		return
	}
	p.errorf("expected end of statement, got %s %q", p.peek.Type, p.peek.Literal)
	for !p.curIs(token.NEWLINE) && !p.curIs(token.EOF) {
		p.advance()
	}
	if p.curIs(token.NEWLINE) {
		p.advance()
	}
}

func (p *Parser) parseExpressionStatement() ast.Node {
	expr := p.parseExpression(LOWEST)

	if p.peekIsChar("=") {
		path, ok := variablePath(expr)
		if !ok {
			p.errorf("left-hand side of assignment must be a name or dotted path")
			p.consumeStatementEnd()
			return nil
		}
		p.advance() // cur = '='
		p.advance() // cur = first token of rhs
		rhs := p.parseExpression(LOWEST)
		p.consumeStatementEnd()
		if len(path) == 1 {
			return &ast.Assignment{Name: path[0], Expr: rhs}
		}
		return &ast.FieldAssignment{ObjectPath: path[:len(path)-1], Field: path[len(path)-1], Expr: rhs}
	}

	p.consumeStatementEnd()
	return expr
}

func variablePath(n ast.Node) ([]string, bool) {
	vv, ok := n.(*ast.VariableValue)
	if !ok {
		return nil, false
	}
	return vv.Path, true
}

// ----------------------------------------------------------------------------------
// Classes and methods
// ----------------------------------------------------------------------------------

func (p *Parser) parseClassDefinition() ast.Node {
	p.advance() // consume 'class'
	if !p.expectCur(token.IDENT) {
		return nil
	}
	name := p.cur.Literal
	p.advance()

	class := &object.Class{Name: name}
	var parentName string

	if p.curIsChar("(") {
		p.advance()
		if !p.expectCur(token.IDENT) {
			return nil
		}
		parentName = p.cur.Literal
		p.advance()
		if !p.expectCurChar(")") {
			return nil
		}
		p.advance()
	}

	if !p.expectCurChar(":") {
		return nil
	}
	p.advance()
	class.Methods = p.parseClassBody()

	return &ast.ClassDefinition{Class: class, ParentName: parentName}
}

func (p *Parser) parseClassBody() []*object.Method {
	if !p.expectCur(token.NEWLINE) {
		return nil
	}
	p.advance()
	if !p.expectCur(token.INDENT) {
		return nil
	}
	p.advance()

	var methods []*object.Method
	for !p.curIs(token.DEDENT) && !p.curIs(token.EOF) {
		if !p.curIs(token.DEF) {
			p.errorf("expected a method definition inside a class body, got %s", p.cur.Type)
			p.advance()
			continue
		}
		m := p.parseMethodDef()
		if m != nil {
			methods = append(methods, m)
		}
	}
	if p.curIs(token.DEDENT) {
		p.advance()
	}
	return methods
}

func (p *Parser) parseMethodDef() *object.Method {
	p.advance() // consume 'def'
	if !p.expectCur(token.IDENT) {
		return nil
	}
	name := p.cur.Literal
	p.advance()
	params := p.parseParamList()
	if !p.expectCurChar(":") {
		return nil
	}
	p.advance()
	body := p.parseBlock()
	// ClassInstance.Call binds self out-of-band (object/class.go) and excludes it from
	// arity; a method's own formal-parameter list must not carry it, even though every
	// method header in this Language's surface syntax declares it explicitly.
	if len(params) > 0 && params[0] == "self" {
		params = params[1:]
	}
	return &object.Method{Name: name, Params: params, Body: &ast.MethodBody{Body: body}}
}

func (p *Parser) parseParamList() []string {
	if !p.expectCurChar("(") {
		return nil
	}
	p.advance()
	var params []string
	if !p.curIsChar(")") {
		if p.expectCur(token.IDENT) {
			params = append(params, p.cur.Literal)
			p.advance()
		}
		for p.curIsChar(",") {
			p.advance()
			if p.expectCur(token.IDENT) {
				params = append(params, p.cur.Literal)
				p.advance()
			}
		}
	}
	if !p.expectCurChar(")") {
		return params
	}
	p.advance()
	return params
}

func (p *Parser) parseArgList() []ast.Node {
	if !p.expectCurChar("(") {
		return nil
	}
	p.advance()
	var args []ast.Node
	if !p.curIsChar(")") {
		args = append(args, p.parseExpression(LOWEST))
		for p.peekIsChar(",") {
			p.advance()
			p.advance()
			args = append(args, p.parseExpression(LOWEST))
		}
		p.advance() // move cur onto ')'
	}
	p.expectCurChar(")")
	return args
}

// ----------------------------------------------------------------------------------
// Top-level def: desugars into a single-method class bound to an instance, since this
// grammar's only invocation forms are NewInstance and MethodCall and scopes do not chain.
// A bare call to the function's own name from within its own body is rewritten to
// self.call(...) at parse time; this is a static rewrite, not a runtime closure capture.
// ----------------------------------------------------------------------------------

func (p *Parser) parseTopLevelDef() ast.Node {
	p.advance() // consume 'def'
	if !p.expectCur(token.IDENT) {
		return nil
	}
	name := p.cur.Literal
	p.advance()
	params := p.parseParamList()
	if !p.expectCurChar(":") {
		return nil
	}
	p.advance()

	prevFn := p.currentFunctionName
	p.currentFunctionName = name
	body := p.parseBlock()
	p.currentFunctionName = prevFn
	p.knownFunctions[name] = true

	class := &object.Class{Name: name, Methods: []*object.Method{
		{Name: "call", Params: params, Body: &ast.MethodBody{Body: body}},
	}}

	return &ast.Assignment{
		Name: name,
		Expr: &ast.NewInstance{Class: &ast.ClassRef{Class: class}},
	}
}

// ----------------------------------------------------------------------------------
// If / else
// ----------------------------------------------------------------------------------

func (p *Parser) parseIfElse() ast.Node {
	p.advance() // consume 'if'
	cond := p.parseExpression(LOWEST)
	if !p.peekIsChar(":") {
		p.errorf("expected %q after if condition, got %s %q", ":", p.peek.Type, p.peek.Literal)
		return nil
	}
	p.advance() // cur = ':'
	p.advance() // consume ':', cur = NEWLINE
	ifBody := p.parseBlock()

	var elseBody ast.Node
	if p.curIs(token.ELSE) {
		p.advance()
		if !p.expectCurChar(":") {
			return nil
		}
		p.advance()
		elseBody = p.parseBlock()
	}

	return &ast.IfElse{Cond: cond, IfBody: ifBody, ElseBody: elseBody}
}

// ----------------------------------------------------------------------------------
// Expressions (Pratt)
// ----------------------------------------------------------------------------------

func (p *Parser) parseExpression(precedence int) ast.Node {
	prefix := p.prefixParseFns[key(p.cur)]
	if prefix == nil {
		p.errorf("no prefix parse function for %s %q", p.cur.Type, p.cur.Literal)
		return nil
	}
	left := prefix()

	for precedence < p.peekPrecedence() {
		infix := p.infixParseFns[key(p.peek)]
		if infix == nil {
			return left
		}
		p.advance()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdentifier() ast.Node {
	v := &ast.VariableValue{Path: []string{p.cur.Literal}}
	return v
}

func (p *Parser) parseNumberLiteral() ast.Node {
	n, err := strconv.ParseInt(p.cur.Literal, 10, 64)
	if err != nil {
		p.errorf("invalid integer literal %q", p.cur.Literal)
		return nil
	}
	return &ast.Literal{Value: &object.Number{Value: n}}
}

func (p *Parser) parseStringLiteral() ast.Node {
	return &ast.Literal{Value: &object.String{Value: p.cur.Literal}}
}

func (p *Parser) parseBoolLiteral() ast.Node {
	return &ast.Literal{Value: object.NativeBool(p.cur.Type == token.TRUE)}
}

func (p *Parser) parseNoneLiteral() ast.Node {
	return &ast.Literal{Value: object.NoneValue}
}

func (p *Parser) parseNotExpression() ast.Node {
	p.advance() // consume 'not'
	expr := p.parseExpression(PREFIX)
	return &ast.Not{Expr: expr}
}

func (p *Parser) parsePrefixMinus() ast.Node {
	p.advance() // consume '-'
	expr := p.parseExpression(PREFIX)
	return &ast.Sub{Lhs: &ast.Literal{Value: &object.Number{Value: 0}}, Rhs: expr}
}

func (p *Parser) parseGroupedExpression() ast.Node {
	p.advance() // consume '('
	expr := p.parseExpression(LOWEST)
	if !p.peekIsChar(")") {
		p.errorf("expected %q, got %s %q", ")", p.peek.Type, p.peek.Literal)
		return expr
	}
	p.advance() // cur = ')'
	return expr
}

func (p *Parser) parseOrExpression(left ast.Node) ast.Node {
	p.advance() // consume 'or'
	rhs := p.parseExpression(OR_PREC)
	return &ast.Or{Lhs: left, Rhs: rhs}
}

func (p *Parser) parseAndExpression(left ast.Node) ast.Node {
	p.advance() // consume 'and'
	rhs := p.parseExpression(AND_PREC)
	return &ast.And{Lhs: left, Rhs: rhs}
}

func (p *Parser) parseComparison(cmp ast.Comparator) infixParseFn {
	return func(left ast.Node) ast.Node {
		p.advance() // consume the operator
		rhs := p.parseExpression(COMPARE)
		return &ast.Comparison{Cmp: cmp, Lhs: left, Rhs: rhs}
	}
}

func (p *Parser) parseAdd(left ast.Node) ast.Node {
	p.advance()
	return &ast.Add{Lhs: left, Rhs: p.parseExpression(SUM)}
}

func (p *Parser) parseSub(left ast.Node) ast.Node {
	p.advance()
	return &ast.Sub{Lhs: left, Rhs: p.parseExpression(SUM)}
}

func (p *Parser) parseMult(left ast.Node) ast.Node {
	p.advance()
	return &ast.Mult{Lhs: left, Rhs: p.parseExpression(PRODUCT)}
}

func (p *Parser) parseDiv(left ast.Node) ast.Node {
	p.advance()
	return &ast.Div{Lhs: left, Rhs: p.parseExpression(PRODUCT)}
}

// parseDotExpression handles `.name` after any already-parsed expression. If a call
// immediately follows the name it produces a MethodCall; otherwise it extends left's
// path with name, which only makes sense when left is itself a VariableValue.
func (p *Parser) parseDotExpression(left ast.Node) ast.Node {
	p.advance() // consume '.'
	if !p.expectCur(token.IDENT) {
		return left
	}
	name := p.cur.Literal

	if p.peekIsChar("(") {
		p.advance() // cur = '('
		args := p.parseArgList()
		return &ast.MethodCall{Receiver: left, Name: name, Args: args}
	}

	if vv, ok := left.(*ast.VariableValue); ok {
		newPath := make([]string, len(vv.Path)+1)
		copy(newPath, vv.Path)
		newPath[len(vv.Path)] = name
		return &ast.VariableValue{Path: newPath}
	}
	p.errorf("field access on a non-variable expression is not supported")
	return left
}

// parseCallExpression handles a bare `(args)` immediately after a single identifier: it is
// never reached for a dotted path, since parseDotExpression already consumes a trailing call
// itself. A bare call to a known top-level def desugars to a method call ("call") on the
// bound instance or on self, depending on whether it is a recursive self-reference; any other
// bare identifier is treated as a class reference being instantiated.
func (p *Parser) parseCallExpression(left ast.Node) ast.Node {
	args := p.parseArgList()

	vv, ok := left.(*ast.VariableValue)
	if !ok || len(vv.Path) == 0 {
		p.errorf("cannot call a non-identifier expression")
		return nil
	}
	if len(vv.Path) > 1 {
		receiverPath := vv.Path[:len(vv.Path)-1]
		methodName := vv.Path[len(vv.Path)-1]
		return &ast.MethodCall{Receiver: &ast.VariableValue{Path: receiverPath}, Name: methodName, Args: args}
	}

	name := vv.Path[0]
	if name == p.currentFunctionName {
		return &ast.MethodCall{Receiver: &ast.VariableValue{Path: []string{"self"}}, Name: "call", Args: args}
	}
	if p.knownFunctions[name] {
		return &ast.MethodCall{Receiver: &ast.VariableValue{Path: []string{name}}, Name: "call", Args: args}
	}
	return &ast.NewInstance{Class: vv, Args: args}
}
