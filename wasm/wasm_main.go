// ==============================================================================================
// FILE: wasm/wasm_main.go
// BUILD: GOOS=js GOARCH=wasm go build -o main.wasm wasm/wasm_main.go
// ==============================================================================================
package main

import (
	"strings"
	"syscall/js"

	"lucid/evaluator"
	"lucid/object"
)

func main() {
	c := make(chan struct{}, 0)
	js.Global().Set("runLucid", js.FuncOf(runLucid))
	<-c
}

// runLucid is the bridge between JS and Go: it lexes, parses, and executes source
// against a fresh top-level scope every call, buffering print/Stringify output into a
// strings.Builder instead of the process's real stdout (there isn't one in a browser),
// and returns {result, logs, error} to the caller.
func runLucid(this js.Value, p []js.Value) interface{} {
	if len(p) == 0 {
		return map[string]interface{}{"error": "runLucid requires a source string argument"}
	}
	source := p[0].String()

	var buf strings.Builder
	ctx := object.NewContext(&buf)
	scope := object.NewScope()

	result, err := evaluator.Run(source, scope, ctx)
	if err != nil {
		return map[string]interface{}{
			"logs":  buf.String(),
			"error": err.Error(),
		}
	}

	return map[string]interface{}{
		"logs":   buf.String(),
		"result": result.Inspect(),
	}
}
