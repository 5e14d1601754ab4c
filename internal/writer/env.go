package writer

import (
	"strings"

	"github.com/konflab/konf/internal/value"
)

// Env serializes a Value as shell-style environment assignments: keys
// upper-cased, string values double-quoted, nulls quoted-empty, grounded
// on original_source/src/writer/docker_env.rs's flatten_to_env (env is the
// quoted sibling of docker-env).
type Env struct{}

func (Env) Tag() string { return "env" }

func (Env) Write(v value.Value) (string, error) {
	var leaves []leaf
	flattenEnv(v, "", &leaves)
	sortLeaves(leaves)

	lines := make([]string, 0, len(leaves))
	for _, l := range leaves {
		lines = append(lines, strings.ToUpper(l.prefix)+"="+envValue(l.value))
	}
	return strings.Join(lines, "\n"), nil
}

// envValue formats the scalar as the original writer does: strings wrapped
// in quotes verbatim (no internal-quote escaping — a documented
// limitation carried from original_source), everything else via its
// canonical display form.
func envValue(v value.Value) string {
	switch v.Kind {
	case value.KindString:
		s, _ := v.AsString()
		return `"` + s + `"`
	case value.KindNull:
		return `""`
	default:
		s, _ := v.ToDisplayString()
		return s
	}
}
