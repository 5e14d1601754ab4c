// evictor.go runs the eviction loop for Cache. Every EvictInterval it
// removes DagEntry instances idle longer than IdleTTL, then trims to
// MaxEntries by least-recently-used if the idle pass wasn't enough.
package dagcache

import (
	"sort"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/konflab/konf/internal/metrics"
)

func (c *Cache) evictLoop() {
	for range c.evictTicker.C {
		now := time.Now().UnixNano()
		var count int

		c.m.Range(func(key, value any) bool {
			count++
			ent := value.(*cacheEntry)
			idle := time.Duration(now-atomic.LoadInt64(&ent.lastSeen)) * time.Nanosecond
			if idle > IdleTTL {
				c.m.Delete(key)
				count--
				if c.log != nil {
					c.log.Info("dagentry evicted", zap.String("commit", key.(string)), zap.Duration("idle", idle.Truncate(time.Second)))
				}
				metrics.DagEntryEvictTotal.Inc()
				metrics.DagEntryCacheSize.Dec()
			}
			return true
		})

		if MaxEntries > 0 && count > MaxEntries {
			type kv struct {
				key string
				at  int64
			}
			var all []kv
			c.m.Range(func(key, value any) bool {
				ent := value.(*cacheEntry)
				all = append(all, kv{key: key.(string), at: ent.lastSeen})
				return true
			})
			sort.Slice(all, func(i, j int) bool { return all[i].at < all[j].at })
			for i := 0; i < count-MaxEntries; i++ {
				c.m.Delete(all[i].key)
				if c.log != nil {
					c.log.Info("dagentry evicted (LRU pressure)", zap.String("commit", all[i].key))
				}
				metrics.DagEntryEvictTotal.Inc()
				metrics.DagEntryCacheSize.Dec()
			}
		}
	}
}
