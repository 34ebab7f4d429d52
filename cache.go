// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package champ

import lru "github.com/hashicorp/golang-lru/v2"

// memoizedHasher wraps a Hasher[V] with an LRU cache keyed by the value
// itself, for callers whose Hash is expensive relative to a map lookup.
// The cache key is V boxed as any; Go 1.20+ permits instantiating a
// comparable-constrained generic with an interface type argument, at the
// cost of a runtime panic if a non-comparable V (slice, map, func) is ever
// actually hashed -- acceptable here since the zero-configuration default
// hasher path never routes through this wrapper.
type memoizedHasher[V any] struct {
	inner Hasher[V]
	cache *lru.Cache[any, uint64]
}

func newMemoizedHasher[V any](inner Hasher[V], size int) Hasher[V] {
	c, err := lru.New[any, uint64](size)
	if err != nil {
		// Only returned for size <= 0, which is a caller configuration bug.
		panic(err)
	}
	return &memoizedHasher[V]{inner: inner, cache: c}
}

func (m *memoizedHasher[V]) Hash(v V) uint64 {
	if h, ok := m.cache.Get(v); ok {
		return h
	}
	h := m.inner.Hash(v)
	m.cache.Add(v, h)
	return h
}
