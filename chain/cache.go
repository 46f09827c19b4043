// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/mapprotocol/ori/cache"
)

type arcCache struct {
	*lru.ARCCache
	name  string
	stats cache.Stats
}

func newCache(name string, maxSize int) *arcCache {
	c, _ := lru.NewARC(maxSize)
	return &arcCache{ARCCache: c, name: name}
}

// GetOrLoad returns the value associated with the key if it exists in the cache.
// Otherwise, it calls the load function to get the value and adds it to the cache.
func (c *arcCache) GetOrLoad(key any, load func() (any, error)) (any, error) {
	if value, ok := c.Get(key); ok {
		if c.stats.Hit()%2000 == 0 {
			c.report()
		}
		return value, nil
	}
	c.stats.Miss()

	value, err := load()
	if err != nil {
		return nil, err
	}
	c.Add(key, value)
	return value, nil
}

func (c *arcCache) report() {
	if changed, hit, miss := c.stats.Stats(); changed {
		metricCacheHitMiss().SetWithLabel(hit, map[string]string{"type": c.name, "event": "hit"})
		metricCacheHitMiss().SetWithLabel(miss, map[string]string{"type": c.name, "event": "miss"})
	}
}
