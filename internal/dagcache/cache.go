package dagcache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/go-git/go-git/v5"

	"github.com/konflab/konf/internal/dag"
	"github.com/konflab/konf/internal/fileprovider"
	"github.com/konflab/konf/internal/loader"
	"github.com/konflab/konf/internal/metrics"
	"github.com/konflab/konf/internal/template"
)

const (
	IdleTTL       = 30 * time.Minute
	MaxEntries    = 50
	EvictInterval = 5 * time.Minute
)

// ErrUnknownCommit is returned for a commit hash absent from the known-
// commits set, rejecting the lookup before any construction work begins.
var ErrUnknownCommit = errors.New("dagcache: unknown commit")

// Cache is a concurrency-safe, lazy-loading map of commit hash to
// DagEntry, backed by one git repository.
type Cache struct {
	repo   *git.Repository
	ml     *loader.MultiLoader
	log    *zap.Logger
	sfg    singleflight.Group
	m      sync.Map // commit hash -> *cacheEntry

	commits atomic.Pointer[map[string]struct{}]

	evictTicker *time.Ticker
}

// New builds a Cache over repo and starts its background evictor. It
// populates the known-commits set immediately so Get can reject unknown
// commits before touching the repository further.
func New(repo *git.Repository, ml *loader.MultiLoader, log *zap.Logger) (*Cache, error) {
	c := &Cache{repo: repo, ml: ml, log: log}
	if err := c.RefreshCommits(); err != nil {
		return nil, err
	}
	c.evictTicker = time.NewTicker(EvictInterval)
	go c.evictLoop()
	return c, nil
}

// RefreshCommits re-walks the repository's references to rebuild the
// known-commits set, publishing it via an atomic pointer swap.
func (c *Cache) RefreshCommits() error {
	known, err := fileprovider.ListCommitHashes(c.repo)
	if err != nil {
		return fmt.Errorf("dagcache: refresh commits: %w", err)
	}
	c.commits.Store(&known)
	return nil
}

// IsKnownCommit reports whether hash is in the current known-commits set.
func (c *Cache) IsKnownCommit(hash string) bool {
	known := c.commits.Load()
	if known == nil {
		return false
	}
	_, ok := (*known)[hash]
	return ok
}

// Get looks up commitHash in the cache, constructing a DagEntry on
// demand. Concurrent misses on the same hash coalesce to one
// construction via singleflight.
func (c *Cache) Get(ctx context.Context, commitHash string) (*DagEntry, error) {
	if !fileprovider.IsValidCommitHash(commitHash) {
		return nil, ErrUnknownCommit
	}
	if !c.IsKnownCommit(commitHash) {
		return nil, ErrUnknownCommit
	}

	if v, ok := c.m.Load(commitHash); ok {
		ent := v.(*cacheEntry)
		atomic.StoreInt64(&ent.lastSeen, time.Now().UnixNano())
		return ent.dagEntry, nil
	}

	v, err, _ := c.sfg.Do(commitHash, func() (interface{}, error) {
		if v, ok := c.m.Load(commitHash); ok {
			ent := v.(*cacheEntry)
			atomic.StoreInt64(&ent.lastSeen, time.Now().UnixNano())
			return ent.dagEntry, nil
		}

		if c.log != nil {
			c.log.Info("dagentry loading", zap.String("commit", commitHash))
		}

		de, err := c.build(ctx, commitHash)
		if err != nil {
			if c.log != nil {
				c.log.Warn("dagentry load error", zap.String("commit", commitHash), zap.Error(err))
			}
			metrics.DagEntryLoadErrorsTotal.Inc()
			return nil, err
		}

		ent := &cacheEntry{dagEntry: de, lastSeen: time.Now().UnixNano()}
		c.m.Store(commitHash, ent)

		metrics.DagEntryLoadTotal.Inc()
		metrics.DagEntryCacheSize.Inc()
		return de, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*DagEntry), nil
}

func (c *Cache) build(ctx context.Context, commitHash string) (*DagEntry, error) {
	gp, err := fileprovider.NewGit(c.repo, commitHash)
	if err != nil {
		return nil, err
	}

	resolver := template.NewResolver(nil, c.log)
	d, err := dag.New(ctx, gp, c.ml, resolver, c.log)
	if err != nil {
		return nil, err
	}

	authz := buildAuthorizer(d)
	return &DagEntry{DAG: d, Authorizer: authz}, nil
}
