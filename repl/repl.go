// ==============================================================================================
// FILE: repl/repl.go
// ==============================================================================================
// PACKAGE: repl
// PURPOSE: The Read-Eval-Print Loop interface.
//          It connects the user input stream to the interpreter pipeline (Lexer->Parser->
//          Evaluator) and manages the persistent session state: a single top-level Scope shared
//          across every line, exactly as spec.md §3 describes for the top level.
// ==============================================================================================

package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"lucid/ast"
	"lucid/evaluator"
	"lucid/lexer"
	"lucid/object"
	"lucid/token"
)

// ----------------------------------------------------------------------------
// UI CONSTANTS & CONFIGURATION
// ----------------------------------------------------------------------------

const (
	PROMPT = ">> "
	LOGO   = `
┏━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┓
┃  _           _     _                               ┃
┃ | |_   _  __| | __| |                              ┃
┃ | | | | |/ _` + "`" + ` |/ _` + "`" + ` |                              ┃
┃ | | |_| | (_| | (_| |                              ┃
┃ |_|\__,_|\__,_|\__,_|                              ┃
┃                                                     ┃
┃ lucid — a small indentation-structured language     ┃
┗━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┛
`
)

// ANSI color codes for terminal output. Disabled entirely when cfg.Color is false.
const (
	reset  = "\033[0m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	gray   = "\033[37m"
	bold   = "\033[1m"
)

// Options controls REPL presentation. A zero-value Options is colorless, matching what
// a non-interactive pipe should get.
type Options struct {
	Color bool
}

// Start launches the Read-Eval-Print Loop. It reads from in, evaluates Language source
// line by line, and writes results to out. The scope persists across the whole
// session, so a class or variable defined on one line is visible on the next — the
// same persistent-top-level-scope design the teacher's repl.go uses for its
// Environment, adapted to this Language's flat, non-chaining Scope (spec.md §3).
func Start(in io.Reader, out io.Writer, opts Options) {
	scanner := bufio.NewScanner(in)
	scope := object.NewScope()
	ctx := object.NewContext(out)
	debugMode := false

	fmt.Fprint(out, LOGO)
	printHelp(out)

	for {
		fmt.Fprint(out, colorize(opts, gray, PROMPT))
		if !scanner.Scan() {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			switch line {
			case ".exit":
				fmt.Fprintln(out, colorize(opts, yellow, "Goodbye!"))
				return
			case ".clear":
				scope = object.NewScope()
				fmt.Fprintln(out, colorize(opts, green, "Scope cleared."))
			case ".debug":
				debugMode = !debugMode
				status := "disabled"
				if debugMode {
					status = "enabled"
				}
				fmt.Fprintf(out, "%s\n", colorize(opts, gray, "token/AST dump "+status))
			case ".help":
				printHelp(out)
			default:
				fmt.Fprintf(out, "%s\n", colorize(opts, red, "unknown command: "+line+" (try .help)"))
			}
			continue
		}

		if debugMode {
			printTokens(out, opts, line)
		}

		program, err := evaluator.Parse(line)
		if err != nil {
			fmt.Fprintf(out, "%s\n", colorize(opts, red, err.Error()))
			continue
		}

		if debugMode {
			printAST(out, opts, program)
		}

		if _, err := program.Execute(scope, ctx); err != nil {
			msg := "runtime error: " + err.Error()
			if opts.Color {
				msg = bold + "runtime error: " + reset + red + err.Error()
			}
			fmt.Fprintf(out, "%s\n", colorize(opts, red, msg))
		}
	}
}

func colorize(opts Options, color, s string) string {
	if !opts.Color {
		return s
	}
	return color + s + reset
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  .exit   quit the REPL")
	fmt.Fprintln(out, "  .clear  reset the top-level scope")
	fmt.Fprintln(out, "  .debug  toggle token/AST dumps before evaluation")
	fmt.Fprintln(out, "  .help   show this message")
	fmt.Fprintln(out)
}

func printTokens(out io.Writer, opts Options, line string) {
	fmt.Fprintln(out, colorize(opts, gray, "┌── tokens ──"))
	l := lexer.New(line)
	for tok := l.Current(); ; tok = l.Advance() {
		fmt.Fprintf(out, "│ %-12s %q\n", tok.Type, tok.Literal)
		if tok.Type == token.EOF {
			break
		}
	}
	fmt.Fprintln(out, colorize(opts, gray, "└────────────"))
}

func printAST(out io.Writer, opts Options, program *ast.Compound) {
	fmt.Fprintln(out, colorize(opts, gray, "┌── ast ──"))
	for _, stmt := range program.Stmts {
		fmt.Fprintf(out, "│ %s\n", describe(stmt))
	}
	fmt.Fprintln(out, colorize(opts, gray, "└─────────"))
}

// describe renders a shallow, one-line debug form of an AST node for the .debug
// command. It is not a full pretty-printer — just enough to see what the parser built
// without reaching for a debugger.
func describe(n ast.Node) string {
	switch v := n.(type) {
	case *ast.Assignment:
		return fmt.Sprintf("Assignment(%s = %s)", v.Name, describe(v.Expr))
	case *ast.VariableValue:
		return fmt.Sprintf("VariableValue(%s)", strings.Join(v.Path, "."))
	case *ast.Print:
		return fmt.Sprintf("Print(%d args)", len(v.Args))
	case *ast.IfElse:
		return "IfElse(...)"
	case *ast.Return:
		return fmt.Sprintf("Return(%s)", describe(v.Expr))
	case *ast.ClassDefinition:
		return fmt.Sprintf("ClassDefinition(%s)", v.Class.Name)
	case *ast.MethodCall:
		return fmt.Sprintf("MethodCall(.%s, %d args)", v.Name, len(v.Args))
	case *ast.NewInstance:
		return fmt.Sprintf("NewInstance(%d args)", len(v.Args))
	case *ast.Literal:
		return fmt.Sprintf("Literal(%s)", v.Value.Inspect())
	default:
		return fmt.Sprintf("%T", n)
	}
}
