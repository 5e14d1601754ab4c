package writer

import (
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/konflab/konf/internal/value"
)

const tomlRootKey = "root"

// TOML serializes a Value to TOML, grounded on
// original_source/src/writer/toml.rs: a top-level table is required, so a
// non-mapping root is wrapped under a synthetic "root" key; null has no
// TOML representation and becomes an empty string, matching the original
// writer's Value::Null arm.
type TOML struct{}

func (TOML) Tag() string { return "toml" }

func (TOML) Write(v value.Value) (string, error) {
	var table map[string]any
	if m, ok := v.AsMapping(); ok {
		table = toInterface(value.NewMapping(m), "").(map[string]any)
	} else {
		table = map[string]any{tomlRootKey: toInterface(v, "")}
	}

	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(table); err != nil {
		return "", &Error{Format: "toml", Message: err.Error()}
	}
	return sb.String(), nil
}
