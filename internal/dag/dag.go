// Package dag implements the rendered-configuration graph: a snapshot of
// parsed documents (Konf), each lazily and memoizedly rendered by resolving
// its imports and substituting ${...} placeholders, grounded on
// original_source/src/render.rs and the once-cell concurrency contract of
// spec.md §4.5. The atomic snapshot-swap shape is adapted from
// internal/tenant/cache.go's Cache, here keyed by document key instead of
// host and swapped as a whole map instead of grown incrementally.
package dag

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/konflab/konf/internal/authorizer"
	"github.com/konflab/konf/internal/fileprovider"
	"github.com/konflab/konf/internal/imports"
	"github.com/konflab/konf/internal/loader"
	"github.com/konflab/konf/internal/metrics"
	"github.com/konflab/konf/internal/template"
	"github.com/konflab/konf/internal/value"
)

// Konf is one document's raw value plus its once-cell rendered form. once
// guarantees concurrent callers for the same key initialize exactly once
// and all observe the same result, matching spec.md §4.5's once-cell
// contract without a singleflight.Group: a sync.Once per document is
// lighter and needs no key bookkeeping at the DAG level.
type Konf struct {
	Raw value.Value

	once      sync.Once
	rendered  value.Value
	renderErr error
}

// DAG holds one atomically-swappable snapshot of documents and renders
// them on demand.
type DAG struct {
	provider fileprovider.Provider
	loader   *loader.MultiLoader
	resolver *template.Resolver
	log      *zap.Logger

	files atomic.Pointer[map[string]*Konf]
}

// New constructs a DAG by calling Reload once.
func New(ctx context.Context, provider fileprovider.Provider, ml *loader.MultiLoader, resolver *template.Resolver, log *zap.Logger) (*DAG, error) {
	d := &DAG{provider: provider, loader: ml, resolver: resolver, log: log}
	if err := d.Reload(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

// Reload enumerates the provider, parses every entry, and atomically
// publishes a fresh snapshot. Unparseable entries are logged and skipped,
// never failing the whole reload. In-flight GetRendered calls holding the
// old snapshot complete against it.
func (d *DAG) Reload(ctx context.Context) error {
	entries, err := d.provider.List(ctx)
	if err != nil {
		return fmt.Errorf("dag: list: %w", err)
	}

	fresh := make(map[string]*Konf, len(entries))
	for _, e := range entries {
		content, ok, err := d.provider.Load(ctx, e.FullPath)
		if err != nil {
			return fmt.Errorf("dag: load %s: %w", e.FullPath, err)
		}
		if !ok {
			continue
		}
		v, err := d.loader.Load(e.Ext, content)
		if err != nil {
			if d.log != nil {
				d.log.Warn("skipping unparseable document", zap.String("key", e.Key), zap.Error(err))
			}
			continue
		}
		fresh[e.Key] = &Konf{Raw: v} // last-enumerated wins on key collision
	}

	d.files.Store(&fresh)
	metrics.DagDocumentsLoaded.Set(float64(len(fresh)))
	metrics.DagReloadsTotal.Inc()
	return nil
}

// GetRaw returns the raw, pre-render value for key, for diagnostic use.
func (d *DAG) GetRaw(key string) (value.Value, bool) {
	files := d.files.Load()
	if files == nil {
		return value.Value{}, false
	}
	k, ok := (*files)[key]
	if !ok {
		return value.Value{}, false
	}
	return k.Raw.Clone(), true
}

// AuthDocuments returns every document's key and parsed <!> metadata, for
// building an Authorizer over the current snapshot.
func (d *DAG) AuthDocuments() []authorizer.Document {
	filesPtr := d.files.Load()
	if filesPtr == nil {
		return nil
	}
	files := *filesPtr
	docs := make([]authorizer.Document, 0, len(files))
	for key, k := range files {
		docs = append(docs, authorizer.Document{Key: key, Meta: imports.Parse(k.Raw, key)})
	}
	return docs
}

// GetRendered resolves key's imports and template placeholders, returning
// a clone of the cached result. All recursion within one call uses the
// snapshot captured at entry, so a concurrent Reload never changes the
// snapshot mid-call.
func (d *DAG) GetRendered(ctx context.Context, key string) (value.Value, error) {
	filesPtr := d.files.Load()
	if filesPtr == nil {
		return value.Value{}, &ConfigNotFoundError{Key: key}
	}
	files := *filesPtr

	if _, ok := files[key]; !ok {
		return value.Value{}, &ConfigNotFoundError{Key: key}
	}

	if err := checkCycle(files, key); err != nil {
		return value.Value{}, err
	}

	v, err := d.renderKey(ctx, files, key)
	if err != nil {
		return value.Value{}, err
	}
	return v.Clone(), nil
}

func (d *DAG) renderKey(ctx context.Context, files map[string]*Konf, key string) (value.Value, error) {
	k, ok := files[key]
	if !ok {
		return value.Value{}, &ConfigNotFoundError{Key: key}
	}

	k.once.Do(func() {
		k.rendered, k.renderErr = d.render(ctx, files, key, k.Raw)
		if k.renderErr == nil {
			metrics.DagRendersTotal.Inc()
		} else {
			metrics.DagRenderErrorsTotal.Inc()
		}
	})
	return k.rendered, k.renderErr
}

func (d *DAG) render(ctx context.Context, files map[string]*Konf, key string, raw value.Value) (value.Value, error) {
	cloned := raw.Clone()
	meta := imports.Parse(cloned, key)

	deps := make(map[string]value.Value, len(meta.Imports))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, imp := range meta.Imports {
		imp := imp
		if imp.ResolvedPath == key {
			return value.Value{}, &RenderFailedError{Key: key, Reason: "self-import: " + imp.Path}
		}
		g.Go(func() error {
			v, err := d.getRenderedWithin(gctx, files, imp.ResolvedPath)
			if err != nil {
				return err
			}
			mu.Lock()
			deps[imp.Alias] = v
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return value.Value{}, err
	}

	d.resolver.Resolve(&cloned, deps)
	cloned = imports.Strip(cloned)
	return cloned, nil
}

// getRenderedWithin renders a dependency against the same captured
// snapshot as the in-flight call, re-checking existence (a missing import
// target is a RenderFailed, not a ConfigNotFound surfaced to the caller of
// the top-level GetRendered).
func (d *DAG) getRenderedWithin(ctx context.Context, files map[string]*Konf, key string) (value.Value, error) {
	if _, ok := files[key]; !ok {
		return value.Value{}, &RenderFailedError{Key: key, Reason: "import not found"}
	}
	return d.renderKey(ctx, files, key)
}

// checkCycle walks the static import graph from start, using raw
// (unrendered) metadata, so a cyclic import graph is rejected before any
// once-cell is touched — touching one would deadlock two cells mutually
// awaiting each other.
func checkCycle(files map[string]*Konf, start string) error {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(files))
	var stack []string

	var dfs func(key string) error
	dfs = func(key string) error {
		switch state[key] {
		case visiting:
			i := indexOf(stack, key)
			cyclePath := append(append([]string{}, stack[i:]...), key)
			return &RenderFailedError{Key: start, Reason: "import cycle: " + strings.Join(cyclePath, " -> ")}
		case done:
			return nil
		}
		state[key] = visiting
		stack = append(stack, key)

		if k, ok := files[key]; ok {
			meta := imports.Parse(k.Raw, key)
			for _, imp := range meta.Imports {
				if err := dfs(imp.ResolvedPath); err != nil {
					return err
				}
			}
		}

		stack = stack[:len(stack)-1]
		state[key] = done
		return nil
	}

	return dfs(start)
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return 0
}
