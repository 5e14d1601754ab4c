package writer

import (
	"strings"

	"github.com/konflab/konf/internal/value"
)

// Properties serializes a Value as Java-style properties: nested keys
// joined by ".", sequence indices bracketed, string values
// double-quoted, null written as an empty value, grounded on
// original_source/src/writer/properties.rs's write_properties.
type Properties struct{}

func (Properties) Tag() string { return "properties" }

func (Properties) Write(v value.Value) (string, error) {
	var leaves []leaf
	flattenProperties(v, "", &leaves)
	sortLeaves(leaves)

	var sb strings.Builder
	for _, l := range leaves {
		sb.WriteString(l.prefix)
		sb.WriteByte('=')
		sb.WriteString(propertiesValue(l.value))
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

func propertiesValue(v value.Value) string {
	switch v.Kind {
	case value.KindString:
		s, _ := v.AsString()
		return `"` + s + `"`
	case value.KindNull:
		return ""
	default:
		s, _ := v.ToDisplayString()
		return s
	}
}
