package template

import (
	"sync"

	"github.com/konflab/konf/internal/cache"
)

// chainCacheCapacity bounds how many distinct function-chain strings stay
// memoized; a handful of documents rarely define more than a few hundred
// distinct pipelines even across many placeholders.
const chainCacheCapacity = 2048

// chainCache memoizes parseFunctionChain results, keyed by the raw chain
// text (e.g. `trim | upper`), guarded by a mutex since internal/cache.LRU
// itself assumes single-threaded access and the resolver runs concurrently
// across many in-flight renders.
type chainCache struct {
	mu  sync.Mutex
	lru *cache.LRU
}

func newChainCache() *chainCache {
	return &chainCache{lru: cache.New(chainCacheCapacity)}
}

func (c *chainCache) get(chain string) ([]parsedCall, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.lru.Get(chain)
	if !ok {
		return nil, false
	}
	return v.([]parsedCall), true
}

func (c *chainCache) put(chain string, calls []parsedCall) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(chain, calls)
}

var globalChainCache = newChainCache()
