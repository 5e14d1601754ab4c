package writer

import (
	"encoding/json"

	"github.com/konflab/konf/internal/value"
)

// JSON serializes a Value to canonical JSON, grounded on
// original_source/src/writer/json.rs. No ecosystem JSON codec in the pack
// is used for plain-tree marshaling of a dynamic map[string]any — the
// standard library's deterministic (sorted) map-key ordering already gives
// the canonical output the spec calls for, so stdlib encoding/json is used
// here without reaching for a third-party codec.
type JSON struct{}

func (JSON) Tag() string { return "json" }

func (JSON) Write(v value.Value) (string, error) {
	out, err := json.Marshal(toInterface(v, nil))
	if err != nil {
		return "", &Error{Format: "json", Message: err.Error()}
	}
	return string(out), nil
}
