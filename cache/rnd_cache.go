// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"math/rand/v2"
	"sync"
)

// RandCache a simple cache which randomly evicts entries when
// length exceeds limit.
type RandCache[K comparable, V any] struct {
	m     map[K]*randEntry[K, V]
	s     []*randEntry[K, V]
	limit int
	lock  sync.Mutex
}

type randEntry[K comparable, V any] struct {
	key   K
	value V
	index int
}

// NewRandCache create a new RandCache.
func NewRandCache[K comparable, V any](limit int) *RandCache[K, V] {
	if limit < 1 {
		panic("invalid limit for RandCache")
	}
	return &RandCache[K, V]{
		m:     make(map[K]*randEntry[K, V]),
		limit: limit,
	}
}

// Len returns count of entries in the cache.
func (rc *RandCache[K, V]) Len() int {
	rc.lock.Lock()
	defer rc.lock.Unlock()
	return len(rc.s)
}

// Set sets value for given key.
func (rc *RandCache[K, V]) Set(key K, value V) {
	rc.lock.Lock()
	defer rc.lock.Unlock()
	rc.set(key, value)
}

// SetIfAbsent sets value only if key is absent, and returns the value kept in the cache.
func (rc *RandCache[K, V]) SetIfAbsent(key K, value V) (actual V, set bool) {
	rc.lock.Lock()
	defer rc.lock.Unlock()

	if ent, ok := rc.m[key]; ok {
		return ent.value, false
	}
	rc.set(key, value)
	return value, true
}

func (rc *RandCache[K, V]) set(key K, value V) {
	if ent, ok := rc.m[key]; ok {
		ent.value = value
		return
	}
	ent := &randEntry[K, V]{key: key, value: value, index: len(rc.s)}
	rc.m[key] = ent
	rc.s = append(rc.s, ent)

	if len(rc.s) > rc.limit {
		rc.remove(rc.s[rand.IntN(len(rc.s))].key)
	}
}

// Get get value for the given key.
func (rc *RandCache[K, V]) Get(key K) (v V, ok bool) {
	rc.lock.Lock()
	defer rc.lock.Unlock()

	if ent, ok := rc.m[key]; ok {
		return ent.value, true
	}
	return v, false
}

// Contains returns whether the given key is contained.
func (rc *RandCache[K, V]) Contains(key K) bool {
	rc.lock.Lock()
	defer rc.lock.Unlock()
	_, ok := rc.m[key]
	return ok
}

// Remove removes key.
func (rc *RandCache[K, V]) Remove(key K) bool {
	rc.lock.Lock()
	defer rc.lock.Unlock()
	return rc.remove(key)
}

func (rc *RandCache[K, V]) remove(key K) bool {
	if ent, ok := rc.m[key]; ok {
		delete(rc.m, key)
		last := rc.s[len(rc.s)-1]
		rc.s[ent.index] = last
		last.index = ent.index
		rc.s = rc.s[:len(rc.s)-1]
		return true
	}
	return false
}
