// ----------------------------------------------------------------------------
// FILE: object/print.go
// ----------------------------------------------------------------------------
package object

import "strings"

// FormatValue renders v the way Print and Stringify present it (spec.md §4.2):
// Numbers print their digits, Strings print raw text with no quoting, Bools print
// True/False, None prints "None", Class prints "Class <name>", and a ClassInstance
// invokes its (or its parent's) zero-arity __str__ if one is defined, falling back to
// an opaque identity token otherwise. __str__'s result is printed through this same
// protocol rather than required to be a String, matching the source interpreter's
// Call(STR_METHOD)->Print(os).
func FormatValue(v Value, ctx *Context) (string, error) {
	switch val := v.(type) {
	case *ClassInstance:
		if val.Class.HasMethod("__str__", 0) {
			result, err := val.Call("__str__", nil, ctx)
			if err != nil {
				return "", err
			}
			return FormatValue(result, ctx)
		}
		return val.Inspect(), nil
	default:
		return v.Inspect(), nil
	}
}

// FormatAll joins the formatted representation of each value with single spaces,
// matching the Print statement's argument separator.
func FormatAll(values []Value, ctx *Context) (string, error) {
	parts := make([]string, len(values))
	for i, v := range values {
		s, err := FormatValue(v, ctx)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return strings.Join(parts, " "), nil
}
