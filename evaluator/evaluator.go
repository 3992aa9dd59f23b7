// ==============================================================================================
// FILE: evaluator/evaluator.go
// ==============================================================================================
// PACKAGE: evaluator
// PURPOSE: Wires the lexer, parser, and value system together into the embedding contract
//          spec.md §6 describes: construct a lexer over input, drive the parser to build the
//          AST, wrap the top level in a Compound, and Execute it against a scope and a context.
//          Execution semantics themselves live on the ast package's nodes (spec.md §4.3); this
//          package is the thin driver plus the aggregated parse-error type.
// ==============================================================================================

package evaluator

import (
	"fmt"
	"strings"

	"lucid/ast"
	"lucid/lexer"
	"lucid/object"
	"lucid/parser"
)

// ParseError reports that source failed to parse. It aggregates every message the
// parser accumulated (parser.Parser does not stop at the first error) rather than
// surfacing just one.
type ParseError struct {
	Errors []string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", strings.Join(e.Errors, "; "))
}

// Parse lexes and parses src into the root Compound the evaluator drives. A lexical
// failure takes priority over parser errors, since a bad token stream is why the parser
// went off the rails in the first place.
func Parse(src string) (*ast.Compound, error) {
	l := lexer.New(src)
	program, errs := parser.ParseProgram(l)
	if lexErr := l.Err(); lexErr != nil {
		return nil, lexErr
	}
	if len(errs) > 0 {
		return nil, &ParseError{Errors: errs}
	}
	return program, nil
}

// Run parses src and executes it against scope and ctx. This is the whole of the
// "embedding program" contract spec.md §6 asks for: lex, parse, wrap in Compound,
// Execute. Callers that want to run many snippets against one persistent scope (a
// REPL) call Run once per line with the same scope.
func Run(src string, scope *object.Scope, ctx *object.Context) (object.Value, error) {
	program, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return program.Execute(scope, ctx)
}
