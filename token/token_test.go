package token

import "testing"

func TestLookupIdent(t *testing.T) {
	cases := map[string]TokenType{
		"class":  CLASS,
		"return": RETURN,
		"if":     IF,
		"else":   ELSE,
		"def":    DEF,
		"print":  PRINT,
		"and":    AND,
		"or":     OR,
		"not":    NOT,
		"None":   NONE,
		"True":   TRUE,
		"False":  FALSE,
		"foo":    IDENT,
		"classy": IDENT, // must not prefix-match "class"
	}
	for ident, want := range cases {
		if got := LookupIdent(ident); got != want {
			t.Errorf("LookupIdent(%q) = %s, want %s", ident, got, want)
		}
	}
}

func TestTokenEqual(t *testing.T) {
	a := Token{Type: NUMBER, Literal: "5", Line: 1, Column: 1}
	b := Token{Type: NUMBER, Literal: "5", Line: 9, Column: 9}
	if !a.Equal(b) {
		t.Errorf("expected tokens with equal type/literal to be Equal regardless of position")
	}

	c := Token{Type: NUMBER, Literal: "6"}
	if a.Equal(c) {
		t.Errorf("expected tokens with differing literal to be unequal")
	}

	d := Token{Type: NEWLINE}
	e := Token{Type: NEWLINE}
	if !d.Equal(e) {
		t.Errorf("expected structural tokens with no payload to compare equal by type alone")
	}
}

func TestIsStructural(t *testing.T) {
	for _, tt := range []TokenType{NEWLINE, INDENT, DEDENT} {
		if !IsStructural(tt) {
			t.Errorf("IsStructural(%s) = false, want true", tt)
		}
	}
	for _, tt := range []TokenType{EOF, IDENT, CLASS} {
		if IsStructural(tt) {
			t.Errorf("IsStructural(%s) = true, want false", tt)
		}
	}
}
