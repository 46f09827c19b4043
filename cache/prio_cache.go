// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"container/heap"
	"sync"
)

// PrioEntry is an entry of PrioCache.
type PrioEntry[K comparable, V any] struct {
	Key      K
	Value    V
	Priority float64

	index int
}

// PrioCache keeps the entries of highest priority. The entry of the lowest
// priority is evicted when the length exceeds the limit.
type PrioCache[K comparable, V any] struct {
	m     map[K]*PrioEntry[K, V]
	s     prioEntries[K, V]
	limit int
	lock  sync.Mutex
}

// NewPrioCache creates a new PrioCache.
func NewPrioCache[K comparable, V any](limit int) *PrioCache[K, V] {
	if limit < 1 {
		panic("invalid limit for PrioCache")
	}
	return &PrioCache[K, V]{
		m:     make(map[K]*PrioEntry[K, V]),
		limit: limit,
	}
}

// Len returns count of entries in the cache.
func (c *PrioCache[K, V]) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return len(c.s)
}

// Set sets value and priority for the given key.
func (c *PrioCache[K, V]) Set(key K, value V, priority float64) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if ent, ok := c.m[key]; ok {
		ent.Value = value
		ent.Priority = priority
		heap.Fix(&c.s, ent.index)
		return
	}
	ent := &PrioEntry[K, V]{Key: key, Value: value, Priority: priority}
	heap.Push(&c.s, ent)
	c.m[key] = ent

	if len(c.s) > c.limit {
		lowest := heap.Pop(&c.s).(*PrioEntry[K, V])
		delete(c.m, lowest.Key)
	}
}

// Get returns value and priority of the given key.
func (c *PrioCache[K, V]) Get(key K) (v V, priority float64, ok bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if ent, ok := c.m[key]; ok {
		return ent.Value, ent.Priority, true
	}
	return v, 0, false
}

// Contains returns whether the given key is contained.
func (c *PrioCache[K, V]) Contains(key K) bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	_, ok := c.m[key]
	return ok
}

// Remove removes the entry of the given key, and returns it if found.
func (c *PrioCache[K, V]) Remove(key K) *PrioEntry[K, V] {
	c.lock.Lock()
	defer c.lock.Unlock()

	if ent, ok := c.m[key]; ok {
		heap.Remove(&c.s, ent.index)
		delete(c.m, key)
		return ent
	}
	return nil
}

// ForEach iterates entries in no particular order. Iteration stops when cb returns false.
func (c *PrioCache[K, V]) ForEach(cb func(*PrioEntry[K, V]) bool) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	for _, ent := range c.s {
		cpy := *ent
		if !cb(&cpy) {
			return false
		}
	}
	return true
}

// prioEntries is a min-heap by priority.
type prioEntries[K comparable, V any] []*PrioEntry[K, V]

func (s prioEntries[K, V]) Len() int           { return len(s) }
func (s prioEntries[K, V]) Less(i, j int) bool { return s[i].Priority < s[j].Priority }
func (s prioEntries[K, V]) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
	s[i].index = i
	s[j].index = j
}

func (s *prioEntries[K, V]) Push(x any) {
	ent := x.(*PrioEntry[K, V])
	ent.index = len(*s)
	*s = append(*s, ent)
}

func (s *prioEntries[K, V]) Pop() any {
	old := *s
	n := len(old)
	ent := old[n-1]
	old[n-1] = nil
	*s = old[:n-1]
	return ent
}
