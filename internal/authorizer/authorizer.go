// Package authorizer builds and queries the path -> allowed-tokens table
// derived from every document's <!>.auth list, grounded on spec.md §4.6.
package authorizer

import "github.com/konflab/konf/internal/imports"

// Authorizer answers whether a token may read a given document path.
// Documents with no auth list are absent from the table, so they are
// always unauthorized: gated resources are opt-in by default.
type Authorizer struct {
	paths map[string]map[string]struct{}
}

// Document is the minimal shape Build needs per document: its key and
// parsed metadata.
type Document struct {
	Key  string
	Meta imports.Metadata
}

// Build constructs an Authorizer from a snapshot's documents.
func Build(docs []Document) *Authorizer {
	a := &Authorizer{paths: make(map[string]map[string]struct{}, len(docs))}
	for _, d := range docs {
		if len(d.Meta.Auth) == 0 {
			continue
		}
		tokens, ok := a.paths[d.Key]
		if !ok {
			tokens = make(map[string]struct{}, len(d.Meta.Auth))
			a.paths[d.Key] = tokens
		}
		for _, t := range d.Meta.Auth {
			tokens[t] = struct{}{}
		}
	}
	return a
}

// Authorize reports whether token may read path.
func (a *Authorizer) Authorize(path, token string) bool {
	tokens, ok := a.paths[path]
	if !ok {
		return false
	}
	_, ok = tokens[token]
	return ok
}
