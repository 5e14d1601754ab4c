// Package value defines the format-agnostic tree used throughout konf: every
// loader parses into a Value, every writer serializes one back out, and the
// template resolver rewrites Values in place.
package value

import "fmt"

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBoolean
	KindSequence
	KindMapping
)

// Sequence is an ordered list of Values.
type Sequence = []Value

// Mapping is a string-keyed map of Values. Iteration order is not part of
// the type; writers that need deterministic output sort keys themselves.
type Mapping = map[string]Value

// Value is the tagged union over String, Int, Float, Boolean, Null,
// Sequence, and Mapping. Only one of the fields is meaningful, selected by
// Kind; the zero Value is KindNull.
type Value struct {
	Kind Kind

	str  string
	i    int64
	f    float64
	b    bool
	seq  Sequence
	mp   Mapping
}

func Null() Value                 { return Value{Kind: KindNull} }
func String(s string) Value       { return Value{Kind: KindString, str: s} }
func Int(i int64) Value           { return Value{Kind: KindInt, i: i} }
func Float(f float64) Value       { return Value{Kind: KindFloat, f: f} }
func Boolean(b bool) Value        { return Value{Kind: KindBoolean, b: b} }
func NewSequence(s Sequence) Value { return Value{Kind: KindSequence, seq: s} }
func NewMapping(m Mapping) Value   { return Value{Kind: KindMapping, mp: m} }

func (v Value) IsNull() bool { return v.Kind == KindNull }

func (v Value) AsString() (string, bool) {
	if v.Kind != KindString {
		return "", false
	}
	return v.str, true
}

func (v Value) AsInt() (int64, bool) {
	if v.Kind != KindInt {
		return 0, false
	}
	return v.i, true
}

func (v Value) AsFloat() (float64, bool) {
	if v.Kind != KindFloat {
		return 0, false
	}
	return v.f, true
}

func (v Value) AsBoolean() (bool, bool) {
	if v.Kind != KindBoolean {
		return false, false
	}
	return v.b, true
}

func (v Value) AsSequence() (Sequence, bool) {
	if v.Kind != KindSequence {
		return nil, false
	}
	return v.seq, true
}

func (v Value) AsMapping() (Mapping, bool) {
	if v.Kind != KindMapping {
		return nil, false
	}
	return v.mp, true
}

// Get looks up key in a mapping Value. Returns (zero, false) for any other
// Kind, or if the key is absent.
func (v Value) Get(key string) (Value, bool) {
	if v.Kind != KindMapping {
		return Value{}, false
	}
	child, ok := v.mp[key]
	return child, ok
}

// Clone returns a deep copy. The DAG clones raw documents before rendering
// so concurrent renders never observe each other's in-place mutation.
func (v Value) Clone() Value {
	switch v.Kind {
	case KindSequence:
		out := make(Sequence, len(v.seq))
		for i, item := range v.seq {
			out[i] = item.Clone()
		}
		return Value{Kind: KindSequence, seq: out}
	case KindMapping:
		out := make(Mapping, len(v.mp))
		for k, item := range v.mp {
			out[k] = item.Clone()
		}
		return Value{Kind: KindMapping, mp: out}
	default:
		return v
	}
}

// ToDisplayString stringifies a scalar Value for interpolation. Sequences
// and mappings have no meaningful string form and return (_, false).
func (v Value) ToDisplayString() (string, bool) {
	switch v.Kind {
	case KindString:
		return v.str, true
	case KindInt:
		return fmt.Sprintf("%d", v.i), true
	case KindFloat:
		return formatFloat(v.f), true
	case KindBoolean:
		return fmt.Sprintf("%t", v.b), true
	case KindNull:
		return "null", true
	default:
		return "", false
	}
}

func formatFloat(f float64) string {
	s := fmt.Sprintf("%g", f)
	return s
}

// TypeName returns the lower-case name used in error messages
// ("string", "int", "float", "boolean", "null", "sequence", "mapping").
func (v Value) TypeName() string {
	switch v.Kind {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBoolean:
		return "boolean"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "null"
	}
}
