// ----------------------------------------------------------------------------
// FILE: lexer/lexer.go
// ----------------------------------------------------------------------------
package lexer

import (
	"fmt"

	"github.com/pkg/errors"

	"lucid/token"
)

// LexError reports a failure in the character scanner: an unterminated string,
// an unrecognized escape sequence, or a stray character the grammar has no
// token for. It carries the source position so callers can surface a useful
// message without re-deriving it from the token stream.
type LexError struct {
	Line, Column int
	msg          string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at %d:%d: %s", e.Line, e.Column, e.msg)
}

func newLexError(line, col int, format string, args ...interface{}) *LexError {
	return &LexError{Line: line, Column: col, msg: errors.Errorf(format, args...).Error()}
}

// Lexer turns source text into a token stream, synthesizing Newline/Indent/
// Dedent tokens from leading whitespace. It exposes the current()/advance()
// contract: Current returns the token produced by the most recent call to
// New or Advance, and Advance consumes the stream and returns the next one.
type Lexer struct {
	input []rune

	pos          int // index of the next unread rune
	line, column int

	indent int            // current baseline indentation, in spaces
	queue  []token.Token   // structural tokens already computed, awaiting return
	last   token.TokenType // type of the most recently returned token

	cur token.Token
	err *LexError
}

// New constructs a Lexer over src and primes Current with the first token.
func New(src string) *Lexer {
	l := &Lexer{input: []rune(src), line: 1, column: 1}
	l.indent, _ = l.skipBlankLinesAndMeasureIndent()
	l.cur = l.scan()
	return l
}

// Current returns the most recently produced token without consuming more input.
func (l *Lexer) Current() token.Token { return l.cur }

// Advance consumes the stream and returns the next token, which also becomes
// the new Current.
func (l *Lexer) Advance() token.Token {
	l.cur = l.scan()
	return l.cur
}

// Err returns the first lexical error encountered, or nil if none has occurred.
func (l *Lexer) Err() error {
	if l.err == nil {
		return nil
	}
	return l.err
}

// --------------------------------------------------------------------------
// rune-level cursor
// --------------------------------------------------------------------------

func (l *Lexer) atEOF() bool { return l.pos >= len(l.input) }

func (l *Lexer) peek() rune {
	if l.atEOF() {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) consume() rune {
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

// --------------------------------------------------------------------------
// indentation preview
// --------------------------------------------------------------------------

// skipBlankLinesAndMeasureIndent consumes whitespace-only and comment-only
// lines starting at the current position, then returns the number of leading
// spaces on the first line that carries real content, along with whether
// input was exhausted before such a line was found. It is used both to
// establish the starting indent and to preview the indent of the line that
// follows a Newline.
func (l *Lexer) skipBlankLinesAndMeasureIndent() (indent int, eof bool) {
	for {
		spaces := 0
		for l.peek() == ' ' {
			l.consume()
			spaces++
		}
		if l.atEOF() {
			return 0, true
		}
		switch l.peek() {
		case '\n':
			l.consume()
			continue
		case '#':
			for !l.atEOF() && l.peek() != '\n' {
				l.consume()
			}
			if l.atEOF() {
				return 0, true
			}
			l.consume() // the newline itself
			continue
		default:
			return spaces, false
		}
	}
}

// --------------------------------------------------------------------------
// token production
// --------------------------------------------------------------------------

// scan returns the next token, draining the pending structural queue first.
func (l *Lexer) scan() token.Token {
	if len(l.queue) > 0 {
		t := l.queue[0]
		l.queue = l.queue[1:]
		l.last = t.Type
		return t
	}
	t := l.lex()
	l.last = t.Type
	return t
}

func (l *Lexer) lex() token.Token {
	l.skipSpacesAndComments()

	if l.atEOF() {
		return l.handleEOF()
	}

	line, col := l.line, l.column
	ch := l.peek()

	if ch == '\n' {
		l.consume()
		return l.handleNewline(line, col)
	}

	switch {
	case isIDStart(ch):
		return l.lexIdentifier(line, col)
	case isDigit(ch):
		return l.lexNumber(line, col)
	case ch == '"' || ch == '\'':
		return l.lexString(line, col)
	default:
		return l.lexOperator(line, col)
	}
}

func (l *Lexer) skipSpacesAndComments() {
	for {
		switch l.peek() {
		case ' ':
			l.consume()
		case '#':
			for !l.atEOF() && l.peek() != '\n' {
				l.consume()
			}
		default:
			return
		}
	}
}

func (l *Lexer) lexIdentifier(line, col int) token.Token {
	start := l.pos
	for isIDStart(l.peek()) || isDigit(l.peek()) {
		l.consume()
	}
	text := string(l.input[start:l.pos])
	return token.Token{Type: token.LookupIdent(text), Literal: text, Line: line, Column: col}
}

func (l *Lexer) lexNumber(line, col int) token.Token {
	start := l.pos
	for isDigit(l.peek()) {
		l.consume()
	}
	return token.Token{Type: token.NUMBER, Literal: string(l.input[start:l.pos]), Line: line, Column: col}
}

func (l *Lexer) lexString(line, col int) token.Token {
	quote := l.consume()
	var out []rune
	for {
		if l.atEOF() {
			l.fail(line, col, "unterminated string literal")
			return token.Token{Type: token.ILLEGAL, Literal: l.err.msg, Line: line, Column: col}
		}
		ch := l.consume()
		if ch == quote {
			return token.Token{Type: token.STRING, Literal: string(out), Line: line, Column: col}
		}
		if ch == '\\' {
			if l.atEOF() {
				l.fail(line, col, "unterminated string literal")
				return token.Token{Type: token.ILLEGAL, Literal: l.err.msg, Line: line, Column: col}
			}
			esc := l.consume()
			switch esc {
			case '"':
				out = append(out, '"')
			case '\'':
				out = append(out, '\'')
			case 't':
				out = append(out, '\t')
			case 'n':
				out = append(out, '\n')
			default:
				l.fail(line, col, "unrecognized escape sequence \\%c", esc)
				return token.Token{Type: token.ILLEGAL, Literal: l.err.msg, Line: line, Column: col}
			}
			continue
		}
		out = append(out, ch)
	}
}

func (l *Lexer) lexOperator(line, col int) token.Token {
	ch := l.consume()
	switch ch {
	case '+', '-', '*', '/', '(', ')', '.', ',', ':':
		return token.Token{Type: token.CHAR, Literal: string(ch), Line: line, Column: col}
	case '=':
		if l.peek() == '=' {
			l.consume()
			return token.Token{Type: token.EQ, Literal: "==", Line: line, Column: col}
		}
		return token.Token{Type: token.CHAR, Literal: "=", Line: line, Column: col}
	case '!':
		if l.peek() == '=' {
			l.consume()
			return token.Token{Type: token.NOT_EQ, Literal: "!=", Line: line, Column: col}
		}
		l.fail(line, col, "unexpected character '!'")
		return token.Token{Type: token.ILLEGAL, Literal: l.err.msg, Line: line, Column: col}
	case '<':
		if l.peek() == '=' {
			l.consume()
			return token.Token{Type: token.LESS_OR_EQ, Literal: "<=", Line: line, Column: col}
		}
		return token.Token{Type: token.CHAR, Literal: "<", Line: line, Column: col}
	case '>':
		if l.peek() == '=' {
			l.consume()
			return token.Token{Type: token.GREATER_OR_EQ, Literal: ">=", Line: line, Column: col}
		}
		return token.Token{Type: token.CHAR, Literal: ">", Line: line, Column: col}
	default:
		l.fail(line, col, "unexpected character %q", ch)
		return token.Token{Type: token.ILLEGAL, Literal: l.err.msg, Line: line, Column: col}
	}
}

// handleNewline is invoked having just consumed the '\n' that ends a logical
// line carrying a real token. It previews the indentation of the next
// content-bearing line and queues whatever structural tokens that implies.
func (l *Lexer) handleNewline(line, col int) token.Token {
	newIndent, eof := l.skipBlankLinesAndMeasureIndent()

	var toks []token.Token
	if l.last != token.NEWLINE {
		toks = append(toks, token.Token{Type: token.NEWLINE, Line: line, Column: col})
	}

	if eof {
		for l.indent > 0 {
			l.indent -= 2
			toks = append(toks, token.Token{Type: token.DEDENT, Line: l.line, Column: l.column})
		}
		toks = append(toks, token.Token{Type: token.EOF, Line: l.line, Column: l.column})
	} else {
		delta := newIndent - l.indent
		switch {
		case delta == 0:
			// same block, nothing structural to add
		case delta == 2:
			toks = append(toks, token.Token{Type: token.INDENT, Line: l.line, Column: l.column})
			l.indent = newIndent
		case delta < 0 && delta%2 == 0:
			steps := -delta / 2
			for i := 0; i < steps; i++ {
				toks = append(toks, token.Token{Type: token.DEDENT, Line: l.line, Column: l.column})
			}
			l.indent = newIndent
		default:
			l.fail(l.line, l.column, "inconsistent indentation: %d spaces is not reachable from %d", newIndent, l.indent)
			toks = append(toks, token.Token{Type: token.ILLEGAL, Literal: l.err.msg, Line: l.line, Column: l.column})
		}
	}

	if len(toks) == 0 {
		// Indent unchanged and not at EOF: nothing structural fired, so the
		// real next token is whatever follows on the new line.
		return l.lex()
	}

	l.queue = toks[1:]
	return toks[0]
}

func (l *Lexer) handleEOF() token.Token {
	var toks []token.Token
	if l.last != token.NEWLINE && l.last != token.DEDENT && l.last != token.EOF && l.last != "" {
		toks = append(toks, token.Token{Type: token.NEWLINE, Line: l.line, Column: l.column})
	}
	for l.indent > 0 {
		l.indent -= 2
		toks = append(toks, token.Token{Type: token.DEDENT, Line: l.line, Column: l.column})
	}
	toks = append(toks, token.Token{Type: token.EOF, Line: l.line, Column: l.column})
	l.queue = toks[1:]
	return toks[0]
}

func (l *Lexer) fail(line, col int, format string, args ...interface{}) {
	if l.err != nil {
		return
	}
	l.err = newLexError(line, col, format, args...)
}

// --------------------------------------------------------------------------
// character classes
// --------------------------------------------------------------------------

func isIDStart(ch rune) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}
