// Package dagcache caches one DagEntry per commit, keyed by commit hash,
// adapted from internal/tenant's Cache: a singleflight-coalesced,
// lazy-loading map, here swapping a commit's DAG+Authorizer pair instead
// of a per-host Tenant, and evicting by idle time and LRU pressure the
// same way. Grounded on spec.md §4.7.
package dagcache

import (
	"github.com/konflab/konf/internal/authorizer"
	"github.com/konflab/konf/internal/dag"
)

// DagEntry aggregates everything a commit-pinned request needs: its
// rendering graph and its authorization table.
type DagEntry struct {
	DAG        *dag.DAG
	Authorizer *authorizer.Authorizer
}

type cacheEntry struct {
	dagEntry *DagEntry
	lastSeen int64 // UnixNano, atomically updated
}
