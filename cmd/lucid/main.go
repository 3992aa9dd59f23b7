// ==============================================================================================
// FILE: cmd/lucid/main.go
// ==============================================================================================
// PURPOSE: The CLI entry point. Flag-parsed with github.com/pborman/getopt (the flag library
//          the openconfig/goyang repository in the retrieval pack uses for its own main), it
//          either runs a source file to completion against stdout, or — with no file argument —
//          starts the REPL, matching spec.md §6's "embedding program" contract exactly.
// ==============================================================================================

package main

import (
	"fmt"
	"os"

	"github.com/pborman/getopt"

	"lucid/config"
	"lucid/evaluator"
	"lucid/object"
	"lucid/repl"
)

func main() {
	var configPath string
	var noColor, verbose, help bool
	var maxDepth int

	getopt.StringVarLong(&configPath, "config", 0, "path to an optional YAML config file", "PATH")
	getopt.BoolVarLong(&noColor, "no-color", 0, "disable colored REPL output")
	getopt.IntVarLong(&maxDepth, "max-call-depth", 0, "override the configured recursion ceiling (0 leaves it unchanged)", "N")
	getopt.BoolVarLong(&verbose, "verbose", 'v', "log comparison diagnostics to stderr (method dispatch too when log_level is DEBUG)")
	getopt.BoolVarLong(&help, "help", '?', "display this help")
	getopt.SetParameters("[SOURCE_FILE]")

	if err := getopt.Getopt(func(o getopt.Option) bool { return true }); err != nil {
		fmt.Fprintln(os.Stderr, err)
		getopt.PrintUsage(os.Stderr)
		os.Exit(2)
	}
	if help {
		getopt.PrintUsage(os.Stderr)
		os.Exit(0)
	}

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lucid: reading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if noColor {
		cfg.Color = false
	}
	if maxDepth > 0 {
		cfg.MaxCallDepth = maxDepth
	}

	ctx := object.NewContext(os.Stdout).WithMaxCallDepth(cfg.MaxCallDepth)
	if verbose {
		ctx = ctx.WithLogger(cfg.NewLogger("lucid"))
	}

	args := getopt.Args()
	if len(args) == 0 {
		repl.Start(os.Stdin, os.Stdout, repl.Options{Color: cfg.Color})
		return
	}

	runFile(args[0], ctx)
}

func runFile(path string, ctx *object.Context) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lucid: %v\n", err)
		os.Exit(1)
	}

	if _, err := evaluator.Run(string(data), object.NewScope(), ctx); err != nil {
		fmt.Fprintf(os.Stderr, "lucid: %v\n", err)
		os.Exit(1)
	}
}
