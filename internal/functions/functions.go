// Package functions implements the process-wide function registry used by
// template pipelines (${path | fn | fn:arg}), grounded on
// original_source/src/functions/mod.rs: a capability table mapping a name to
// a (Value, args) -> (Value, error) transform, built once and additive.
package functions

import (
	"fmt"

	"github.com/konflab/konf/internal/value"
)

// Arg is one literal argument to a function call: a quoted string, an
// integer, a float, or a bool, per spec.md §4.4's `literal` production.
type Arg struct {
	kind    argKind
	str     string
	i       int64
	f       float64
	b       bool
}

type argKind int

const (
	argString argKind = iota
	argInt
	argFloat
	argBoolean
)

func StringArg(s string) Arg  { return Arg{kind: argString, str: s} }
func IntArg(i int64) Arg      { return Arg{kind: argInt, i: i} }
func FloatArg(f float64) Arg  { return Arg{kind: argFloat, f: f} }
func BooleanArg(b bool) Arg   { return Arg{kind: argBoolean, b: b} }

// AsValue converts an Arg to the value.Value it represents, used by
// functions like `default` that hand back their literal argument verbatim.
func (a Arg) AsValue() value.Value {
	switch a.kind {
	case argString:
		return value.String(a.str)
	case argInt:
		return value.Int(a.i)
	case argFloat:
		return value.Float(a.f)
	case argBoolean:
		return value.Boolean(a.b)
	default:
		return value.Null()
	}
}

// Error mirrors original_source/src/functions/mod.rs's FunctionError enum:
// distinct causes, never collapsed into one opaque kind.
type Error struct {
	Function string
	Reason   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("function %q: %s", e.Function, e.Reason)
}

func unsupportedType(fn string, v value.Value) error {
	return &Error{Function: fn, Reason: fmt.Sprintf("does not support type %s", v.TypeName())}
}

func executionError(fn, msg string) error {
	return &Error{Function: fn, Reason: msg}
}

func invalidArgument(fn, expected, got string) error {
	return &Error{Function: fn, Reason: fmt.Sprintf("expected %s, got %s", expected, got)}
}

// Func is one registered template function.
type Func interface {
	Name() string
	Execute(v value.Value, args []Arg) (value.Value, error)
}

// Registry holds every registered Func, keyed by name.
type Registry struct {
	funcs map[string]Func
}

// NewRegistry builds a Registry carrying the built-in set: trim, upper,
// lower, base64, base64_decode, url_escape, default — the table mandated by
// spec.md §4.4.
func NewRegistry() *Registry {
	r := &Registry{funcs: make(map[string]Func, 8)}
	r.Register(trimFunc{})
	r.Register(upperFunc{})
	r.Register(lowerFunc{})
	r.Register(base64EncodeFunc{})
	r.Register(base64DecodeFunc{})
	r.Register(urlEscapeFunc{})
	r.Register(defaultFunc{})
	return r
}

// Register adds or replaces a Func. The registry is process-wide and
// additive: hosts may register more functions at startup.
func (r *Registry) Register(f Func) {
	r.funcs[f.Name()] = f
}

// Get returns the Func registered under name, if any.
func (r *Registry) Get(name string) (Func, bool) {
	f, ok := r.funcs[name]
	return f, ok
}

// Execute looks up name and runs it on v with args, returning
// *Error{Function: name} wrapping "unknown function" if name is unregistered.
func (r *Registry) Execute(name string, v value.Value, args []Arg) (value.Value, error) {
	f, ok := r.funcs[name]
	if !ok {
		return value.Value{}, &Error{Function: name, Reason: "unknown function"}
	}
	return f.Execute(v, args)
}

var global = NewRegistry()

// Global returns the process-wide registry the template resolver uses by
// default. Hosts that need extra functions call Global().Register(...) once
// at startup; reads thereafter are lock-free (no mutation after boot).
func Global() *Registry { return global }
