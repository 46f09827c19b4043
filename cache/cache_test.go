// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache_test

import (
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/mapprotocol/ori/cache"
	"github.com/stretchr/testify/assert"
)

func TestPrioCacheAddRemove(t *testing.T) {
	c := cache.NewPrioCache[string, string](16)
	c.Set("key", "value", 100)
	assert.True(t, c.Contains("key"))
	assert.Equal(t, 1, c.Len())

	v, p, ok := c.Get("key")
	assert.Equal(t, "value", v)
	assert.Equal(t, float64(100), p)
	assert.True(t, ok)

	c.Set("key", "value2", 50)
	v, p, _ = c.Get("key")
	assert.Equal(t, "value2", v)
	assert.Equal(t, float64(50), p)

	ent := c.Remove("key")
	if assert.NotNil(t, ent) {
		assert.Equal(t, "key", ent.Key)
		assert.Equal(t, "value2", ent.Value)
	}
	assert.Equal(t, 0, c.Len())
	assert.Nil(t, c.Remove("key"))

	_, _, ok = c.Get("key")
	assert.False(t, ok)
}

func TestPrioCache(t *testing.T) {
	c := cache.NewPrioCache[int, int](5)

	type kvp struct {
		k, v int
		p    float64
	}

	var kvps []kvp
	for i := range 100 {
		e := kvp{i, rand.Int(), rand.Float64()}
		kvps = append(kvps, e)
		c.Set(e.k, e.v, e.p)
	}

	sort.Slice(kvps, func(i, j int) bool {
		return kvps[i].p > kvps[j].p
	})
	var remained []kvp
	c.ForEach(func(entry *cache.PrioEntry[int, int]) bool {
		remained = append(remained, kvp{entry.Key, entry.Value, entry.Priority})
		return true
	})
	sort.Slice(remained, func(i, j int) bool {
		return remained[i].p > remained[j].p
	})

	assert.Equal(t, kvps[:5], remained)
}

func TestRandCache(t *testing.T) {
	c := cache.NewRandCache[int, string](3)

	c.Set(1, "a")
	c.Set(2, "b")
	c.Set(3, "c")
	v, ok := c.Get(2)
	assert.True(t, ok)
	assert.Equal(t, "b", v)

	actual, set := c.SetIfAbsent(2, "x")
	assert.False(t, set)
	assert.Equal(t, "b", actual)

	c.Set(4, "d")
	assert.Equal(t, 3, c.Len())

	assert.True(t, c.Remove(4) || c.Remove(1))
	assert.Equal(t, 2, c.Len())
	assert.False(t, c.Contains(100))
}

func TestStats(t *testing.T) {
	var s cache.Stats

	changed, hit, miss := s.Stats()
	assert.False(t, changed)
	assert.Equal(t, int64(0), hit)
	assert.Equal(t, int64(0), miss)

	s.Hit()
	s.Hit()
	s.Miss()

	changed, hit, miss = s.Stats()
	assert.True(t, changed)
	assert.Equal(t, int64(2), hit)
	assert.Equal(t, int64(1), miss)

	changed, _, _ = s.Stats()
	assert.False(t, changed)
}
