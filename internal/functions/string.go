// string.go implements trim/upper/lower, grounded on
// original_source/src/functions/string.rs.
package functions

import (
	"strings"

	"github.com/konflab/konf/internal/value"
)

type trimFunc struct{}

func (trimFunc) Name() string { return "trim" }

func (f trimFunc) Execute(v value.Value, _ []Arg) (value.Value, error) {
	s, ok := v.AsString()
	if !ok {
		return value.Value{}, unsupportedType(f.Name(), v)
	}
	return value.String(strings.TrimSpace(s)), nil
}

type upperFunc struct{}

func (upperFunc) Name() string { return "upper" }

func (f upperFunc) Execute(v value.Value, _ []Arg) (value.Value, error) {
	s, ok := v.AsString()
	if !ok {
		return value.Value{}, unsupportedType(f.Name(), v)
	}
	return value.String(strings.ToUpper(s)), nil
}

type lowerFunc struct{}

func (lowerFunc) Name() string { return "lower" }

func (f lowerFunc) Execute(v value.Value, _ []Arg) (value.Value, error) {
	s, ok := v.AsString()
	if !ok {
		return value.Value{}, unsupportedType(f.Name(), v)
	}
	return value.String(strings.ToLower(s)), nil
}
