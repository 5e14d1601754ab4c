package writer

import (
	"sort"
	"strconv"

	"github.com/konflab/konf/internal/value"
)

// leaf is one flattened (prefix, value) pair produced by walking a nested
// mapping/sequence down to its scalar values.
type leaf struct {
	prefix string
	value  value.Value
}

// flattenEnv joins nested keys and sequence indices with "_" for
// env/docker-env (properties uses flattenProperties for its "." keys and
// bracketed indices), recursing into mappings and sequences, grounded on
// original_source/src/writer/docker_env.rs's flatten_to_env /
// properties.rs's write_properties.
func flattenEnv(v value.Value, prefix string, out *[]leaf) {
	switch v.Kind {
	case value.KindMapping:
		m, _ := v.AsMapping()
		for k, item := range m {
			next := k
			if prefix != "" {
				next = prefix + "_" + k
			}
			flattenEnv(item, next, out)
		}
	case value.KindSequence:
		seq, _ := v.AsSequence()
		for i, item := range seq {
			next := prefix
			if next != "" {
				next += "_"
			}
			next += strconv.Itoa(i)
			flattenEnv(item, next, out)
		}
	default:
		*out = append(*out, leaf{prefix: prefix, value: v})
	}
}

// sortLeaves orders leaves by prefix so line-oriented writers emit a
// deterministic order despite walking a Mapping, a plain Go map with no
// source order of its own.
func sortLeaves(leaves []leaf) {
	sort.Slice(leaves, func(i, j int) bool { return leaves[i].prefix < leaves[j].prefix })
}

// flattenProperties joins nested keys with "." and sequence indices as
// "[i]" appended to the current prefix (no separator before the bracket).
func flattenProperties(v value.Value, prefix string, out *[]leaf) {
	switch v.Kind {
	case value.KindMapping:
		m, _ := v.AsMapping()
		for k, item := range m {
			next := k
			if prefix != "" {
				next = prefix + "." + k
			}
			flattenProperties(item, next, out)
		}
	case value.KindSequence:
		seq, _ := v.AsSequence()
		for i, item := range seq {
			next := prefix + "[" + strconv.Itoa(i) + "]"
			flattenProperties(item, next, out)
		}
	default:
		*out = append(*out, leaf{prefix: prefix, value: v})
	}
}
