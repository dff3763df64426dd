// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	lru "github.com/hashicorp/golang-lru"
)

// LRU is a typed LRU cache extending golang-lru, counting hits and misses.
type LRU[K comparable, V any] struct {
	cache *lru.Cache
	stats Stats
}

// NewLRU create a LRU cache instance.
// maxSize should be > 0, or an error returned.
func NewLRU[K comparable, V any](maxSize int) (*LRU[K, V], error) {
	c, err := lru.New(maxSize)
	if err != nil {
		return nil, err
	}
	return &LRU[K, V]{cache: c}, nil
}

func (l *LRU[K, V]) Get(key K) (V, bool) {
	if v, ok := l.cache.Get(key); ok {
		l.stats.Hit()
		return v.(V), true
	}
	l.stats.Miss()
	var zero V
	return zero, false
}

func (l *LRU[K, V]) Add(key K, value V) {
	l.cache.Add(key, value)
}

func (l *LRU[K, V]) Len() int {
	return l.cache.Len()
}

// GetOrLoad first try to get from cache, do load if missed. A loaded value
// is only kept when load reports it as final.
func (l *LRU[K, V]) GetOrLoad(key K, load func(K) (V, bool, error)) (V, error) {
	if v, ok := l.Get(key); ok {
		return v, nil
	}
	v, final, err := load(key)
	if err != nil {
		return v, err
	}
	if final {
		l.cache.Add(key, v)
	}
	return v, nil
}

// Stats reports the hits and misses so far, and whether the hit rate moved
// since the previous call.
func (l *LRU[K, V]) Stats() (bool, int64, int64) {
	return l.stats.Stats()
}
