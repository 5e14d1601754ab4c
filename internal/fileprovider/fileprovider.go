// Package fileprovider abstracts storage for configuration documents behind
// a two-method capability: List and Load. Two implementations ship here:
// a local recursive directory walker and a commit-pinned git content store.
// Neither watches for changes; refresh is always an explicit caller-driven
// reload (see internal/dag).
//
// Two entries of one listing can share a Key (e.g. db.yaml and db.json
// both give "db"); internal/dag keeps the one listed last. Local lists in
// filepath.Walk's lexical order and Git in tree-walk order, so the winner
// is deterministic per provider but depends on the extensions involved.
package fileprovider

import "context"

// DirEntry identifies one document within a snapshot.
//
// Key is the slash-normalized relative path with its extension stripped —
// the document identity used everywhere else in konf (imports, the DAG map,
// the authorizer). FullPath is whatever the provider needs to re-fetch the
// same content (a filesystem path, or a tree-relative path for git mode).
type DirEntry struct {
	Key      string
	FullPath string
	Ext      string
}

// Provider lists and loads documents. Both methods may block on I/O; List is
// assumed cheap enough to call on every reload, Load is called once per
// entry per reload.
type Provider interface {
	List(ctx context.Context) ([]DirEntry, error)
	Load(ctx context.Context, fullPath string) (string, bool, error)
}
