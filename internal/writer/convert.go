package writer

import "github.com/konflab/konf/internal/value"

// toInterface converts a value.Value into a plain Go value tree suitable
// for a generic marshaler (encoding/json, yaml.v3, BurntSushi/toml).
// nullAs substitutes for KindNull, since TOML has no null representation
// while YAML/JSON do — each format's writer passes the value its own
// encoder expects, mirroring original_source's per-format Value::Null arm.
func toInterface(v value.Value, nullAs any) any {
	switch v.Kind {
	case value.KindNull:
		return nullAs
	case value.KindString:
		s, _ := v.AsString()
		return s
	case value.KindInt:
		i, _ := v.AsInt()
		return i
	case value.KindFloat:
		f, _ := v.AsFloat()
		return f
	case value.KindBoolean:
		b, _ := v.AsBoolean()
		return b
	case value.KindSequence:
		seq, _ := v.AsSequence()
		out := make([]any, len(seq))
		for i, item := range seq {
			out[i] = toInterface(item, nullAs)
		}
		return out
	case value.KindMapping:
		m, _ := v.AsMapping()
		out := make(map[string]any, len(m))
		for k, item := range m {
			out[k] = toInterface(item, nullAs)
		}
		return out
	default:
		return nullAs
	}
}
