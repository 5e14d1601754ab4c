// Package imports extracts the <!> metadata section (import table and auth
// list) from a document's raw Value, grounded on
// original_source/src/imports.rs's KonfMetadata extraction.
package imports

import (
	"path"
	"sort"
	"strings"

	"github.com/konflab/konf/internal/value"
)

const metaKey = "<!>"

// Import is one resolved import entry: the as-written path, its alias
// (defaulting to the as-written path), and the path resolved against the
// importing document's own key.
type Import struct {
	Path         string
	Alias        string
	ResolvedPath string
}

// Metadata is the parsed <!> section: the import table (aliased by Alias,
// last-write-wins on collision) and the list of tokens authorized to read
// this document.
type Metadata struct {
	Imports []Import
	Auth    []string
}

// Parse reads the <!> entry out of raw, if raw is a mapping containing one,
// resolving relative import paths against ownKey's directory. Absence of a
// <!> entry, or raw not being a mapping, yields a zero Metadata.
func Parse(raw value.Value, ownKey string) Metadata {
	m, ok := raw.AsMapping()
	if !ok {
		return Metadata{}
	}
	metaVal, ok := m[metaKey]
	if !ok {
		return Metadata{}
	}
	meta, ok := metaVal.AsMapping()
	if !ok {
		return Metadata{}
	}

	dir := path.Dir(ownKey)

	var result Metadata
	byAlias := make(map[string]int)

	if importsVal, ok := meta["import"]; ok {
		if importMap, ok := importsVal.AsMapping(); ok {
			// value.Mapping is a Go map with no source order, so "last
			// wins" on alias collision has no natural meaning here;
			// iterate import paths in sorted order so a collision
			// resolves the same way on every run.
			paths := make([]string, 0, len(importMap))
			for p := range importMap {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			for _, p := range paths {
				aliasVal := importMap[p]
				alias := p
				if s, ok := aliasVal.AsString(); ok && s != "" {
					alias = s
				}
				imp := Import{
					Path:         p,
					Alias:        alias,
					ResolvedPath: resolve(dir, p),
				}
				if idx, exists := byAlias[alias]; exists {
					result.Imports[idx] = imp // last wins, per spec.md §4.3
					continue
				}
				byAlias[alias] = len(result.Imports)
				result.Imports = append(result.Imports, imp)
			}
		}
	}

	if authVal, ok := meta["auth"]; ok {
		if seq, ok := authVal.AsSequence(); ok {
			for _, item := range seq {
				if s, ok := item.AsString(); ok {
					result.Auth = append(result.Auth, s)
				}
			}
		}
	}

	return result
}

// resolve applies standard path-segment semantics (".." pops, "." and empty
// are no-ops) against dir when p is relative ("./" or "../" prefixed); an
// absolute-looking path (no such prefix) passes through unchanged, per
// spec.md §4.3.
func resolve(dir, p string) string {
	if !strings.HasPrefix(p, "./") && !strings.HasPrefix(p, "../") {
		return p
	}
	joined := path.Join(dir, p)
	return strings.TrimPrefix(joined, "/")
}

// Strip returns raw with its top-level <!> entry removed, per spec.md §4.4's
// post-resolution stripping rule. raw is not mutated; a new Value is
// returned. Non-mapping raws pass through unchanged.
func Strip(raw value.Value) value.Value {
	m, ok := raw.AsMapping()
	if !ok {
		return raw
	}
	if _, present := m[metaKey]; !present {
		return raw
	}
	out := make(value.Mapping, len(m)-1)
	for k, v := range m {
		if k == metaKey {
			continue
		}
		out[k] = v
	}
	return value.NewMapping(out)
}
