package writer

import (
	"strings"

	"github.com/konflab/konf/internal/value"
)

// DockerEnv serializes a Value the same way as Env but with values
// unquoted, grounded on original_source/src/writer/docker_env.rs.
type DockerEnv struct{}

func (DockerEnv) Tag() string { return "docker-env" }

func (DockerEnv) Write(v value.Value) (string, error) {
	var leaves []leaf
	flattenEnv(v, "", &leaves)
	sortLeaves(leaves)

	lines := make([]string, 0, len(leaves))
	for _, l := range leaves {
		lines = append(lines, strings.ToUpper(l.prefix)+"="+dockerEnvValue(l.value))
	}
	return strings.Join(lines, "\n"), nil
}

func dockerEnvValue(v value.Value) string {
	if v.IsNull() {
		return ""
	}
	s, _ := v.ToDisplayString()
	return s
}
