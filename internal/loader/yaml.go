// yaml.go loads YAML text into value.Value, translating gopkg.in/yaml.v3's
// generic decode tree the way original_source/src/loaders/yaml.rs converts
// serde_yaml::Value: scalars preserve type, mapping keys coerce to strings
// (dropping ones that can't), and int-vs-float is preserved.
package loader

import (
	"math"

	"gopkg.in/yaml.v3"

	"github.com/konflab/konf/internal/value"
)

// YAML is the default, always-registered Loader.
type YAML struct{}

func (YAML) Ext() string { return "yaml" }

func (YAML) Load(content string) (value.Value, error) {
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(content), &node); err != nil {
		return value.Value{}, err
	}
	if len(node.Content) == 0 {
		return value.NewMapping(value.Mapping{}), nil
	}
	return fromNode(node.Content[0]), nil
}

func fromNode(n *yaml.Node) value.Value {
	// Tagged scalars (!!str, custom tags, anchors/aliases already resolved
	// by yaml.v3) unwrap to their plain value, matching the Rust loader's
	// handling of serde_yaml::Value::Tagged.
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.Null()
		}
		return fromNode(n.Content[0])
	case yaml.AliasNode:
		if n.Alias != nil {
			return fromNode(n.Alias)
		}
		return value.Null()
	case yaml.ScalarNode:
		return fromScalar(n)
	case yaml.SequenceNode:
		seq := make(value.Sequence, 0, len(n.Content))
		for _, item := range n.Content {
			seq = append(seq, fromNode(item))
		}
		return value.NewSequence(seq)
	case yaml.MappingNode:
		m := make(value.Mapping, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode, valNode := n.Content[i], n.Content[i+1]
			key, ok := coerceKey(keyNode)
			if !ok {
				continue // non-coercible key: dropped, per spec.md §4.2
			}
			m[key] = fromNode(valNode)
		}
		return value.NewMapping(m)
	default:
		return value.Null()
	}
}

// coerceKey converts a mapping key node to its canonical string form.
// Numbers and bools coerce (matching serde_yaml's Number/Bool key handling
// in the Rust loader); anything else is non-coercible and dropped.
func coerceKey(n *yaml.Node) (string, bool) {
	if n.Kind != yaml.ScalarNode {
		return "", false
	}
	v := fromScalar(n)
	switch v.Kind {
	case value.KindString:
		s, _ := v.AsString()
		return s, true
	case value.KindInt, value.KindFloat, value.KindBoolean:
		s, ok := v.ToDisplayString()
		return s, ok
	default:
		return "", false
	}
}

func fromScalar(n *yaml.Node) value.Value {
	switch n.Tag {
	case "!!null":
		return value.Null()
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return value.Boolean(b)
		}
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return value.Int(i)
		}
		// unsigned integers that overflow int64 are truncated to signed,
		// a documented limitation carried from spec.md §4.2.
		var u uint64
		if err := n.Decode(&u); err == nil {
			return value.Int(int64(u))
		}
		var f float64
		if err := n.Decode(&f); err == nil {
			return value.Float(f)
		}
	case "!!float":
		var f float64
		if err := n.Decode(&f); err == nil {
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return value.Float(f)
			}
			return value.Float(f)
		}
	}
	return value.String(n.Value)
}
