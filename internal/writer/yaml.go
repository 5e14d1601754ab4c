package writer

import (
	"gopkg.in/yaml.v3"

	"github.com/konflab/konf/internal/value"
)

// YAML serializes a Value to canonical YAML, grounded on
// original_source/src/writer/yaml.rs.
type YAML struct{}

func (YAML) Tag() string { return "yaml" }

func (YAML) Write(v value.Value) (string, error) {
	out, err := yaml.Marshal(toInterface(v, nil))
	if err != nil {
		return "", &Error{Format: "yaml", Message: err.Error()}
	}
	return string(out), nil
}
