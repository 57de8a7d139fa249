// Package skiplist implements a generic ordered map over any cmp.Ordered
// key, backed by a probabilistic skip list. It is the sorted multi-level
// container the inverted index needs for its Token→postings and
// Location→positions maps: both require O(log n) insert/lookup and, for
// prefix search, an O(log n) seek to the start of a tail range followed by
// a linear walk while keys share a prefix.
//
// ═══════════════════════════════════════════════════════════════════════
// WHY A SKIP LIST AND NOT A SORTED SLICE OR A BTREE
// ═══════════════════════════════════════════════════════════════════════
// A sorted slice gives O(log n) lookup but O(n) insert (shifting). A
// from-scratch balanced tree needs rotations. A skip list gets the same
// expected O(log n) bounds on both insert and lookup with nothing fancier
// than a coin flip per insert and an array of forward pointers per node.
// ═══════════════════════════════════════════════════════════════════════
package skiplist

import (
	"cmp"
	"math/rand"
)

const maxHeight = 32

type node[K cmp.Ordered, V any] struct {
	key   K
	value V
	tower []*node[K, V]
}

// List is an ordered map from K to V. The zero value is not usable; call
// New. A List is NOT safe for concurrent use — callers needing concurrent
// access wrap it in their own lock (see package index).
type List[K cmp.Ordered, V any] struct {
	head   *node[K, V]
	height int
	length int
}

// New returns an empty List.
func New[K cmp.Ordered, V any]() *List[K, V] {
	return &List[K, V]{
		head:   &node[K, V]{tower: make([]*node[K, V], maxHeight)},
		height: 1,
	}
}

// Len reports the number of keys stored.
func (l *List[K, V]) Len() int { return l.length }

// search walks from the head down to level 0, recording at each level the
// last node whose key is strictly less than key (the journey). It returns
// the exact match, if any, and the journey so callers can splice a new
// node in without a second traversal.
func (l *List[K, V]) search(key K) (*node[K, V], [maxHeight]*node[K, V]) {
	var journey [maxHeight]*node[K, V]
	current := l.head
	for level := l.height - 1; level >= 0; level-- {
		for current.tower[level] != nil && current.tower[level].key < key {
			current = current.tower[level]
		}
		journey[level] = current
	}
	next := current.tower[0]
	if next != nil && next.key == key {
		return next, journey
	}
	return nil, journey
}

// Get returns the value stored at key, if any.
func (l *List[K, V]) Get(key K) (V, bool) {
	found, _ := l.search(key)
	if found == nil {
		var zero V
		return zero, false
	}
	return found.value, true
}

// GetOrInsert returns the existing value at key, or, if absent, calls
// create to build one, stores it, and returns it. This is the map
// primitive the inverted index uses to fetch-or-create a token's postings
// map and a location's position set without a separate contains check.
func (l *List[K, V]) GetOrInsert(key K, create func() V) V {
	found, journey := l.search(key)
	if found != nil {
		return found.value
	}

	height := l.randomHeight()
	n := &node[K, V]{key: key, value: create(), tower: make([]*node[K, V], height)}
	for level := 0; level < height; level++ {
		pred := journey[level]
		if pred == nil {
			pred = l.head
		}
		n.tower[level] = pred.tower[level]
		pred.tower[level] = n
	}
	if height > l.height {
		l.height = height
	}
	l.length++
	return n.value
}

// Set stores value at key unconditionally, inserting a new node if key was
// absent.
func (l *List[K, V]) Set(key K, value V) {
	found, journey := l.search(key)
	if found != nil {
		found.value = value
		return
	}
	height := l.randomHeight()
	n := &node[K, V]{key: key, value: value, tower: make([]*node[K, V], height)}
	for level := 0; level < height; level++ {
		pred := journey[level]
		if pred == nil {
			pred = l.head
		}
		n.tower[level] = pred.tower[level]
		pred.tower[level] = n
	}
	if height > l.height {
		l.height = height
	}
	l.length++
}

func (l *List[K, V]) randomHeight() int {
	height := 1
	for rand.Float64() < 0.5 && height < maxHeight {
		height++
	}
	return height
}

// All iterates every (key, value) pair in ascending key order.
func (l *List[K, V]) All() func(yield func(K, V) bool) {
	return func(yield func(K, V) bool) {
		for n := l.head.tower[0]; n != nil; n = n.tower[0] {
			if !yield(n.key, n.value) {
				return
			}
		}
	}
}

// From iterates (key, value) pairs whose key is >= from, in ascending
// order — the tail range prefix search walks, stopping early once the key
// no longer shares the queried prefix.
func (l *List[K, V]) From(from K) func(yield func(K, V) bool) {
	return func(yield func(K, V) bool) {
		current := l.head
		for level := l.height - 1; level >= 0; level-- {
			for current.tower[level] != nil && current.tower[level].key < from {
				current = current.tower[level]
			}
		}
		for n := current.tower[0]; n != nil; n = n.tower[0] {
			if !yield(n.key, n.value) {
				return
			}
		}
	}
}
