package appindex

import "sync/atomic"

// Index is a read-mostly map with atomic full-replace semantics. Readers
// always see a complete snapshot; Rebuild swaps the whole map so a scan in
// progress never exposes partial state. Set and Invalidate copy-on-write.
type Index[K comparable, V any] struct {
	p atomic.Pointer[map[K]V]
}

func NewIndex[K comparable, V any]() *Index[K, V] {
	idx := &Index[K, V]{}
	empty := map[K]V{}
	idx.p.Store(&empty)
	return idx
}

func (i *Index[K, V]) Get(key K) (V, bool) {
	m := *i.p.Load()
	v, ok := m[key]
	return v, ok
}

// Snapshot returns the current map. Callers must not mutate it.
func (i *Index[K, V]) Snapshot() map[K]V {
	return *i.p.Load()
}

// Rebuild replaces the whole map atomically.
func (i *Index[K, V]) Rebuild(m map[K]V) {
	if m == nil {
		m = map[K]V{}
	}
	i.p.Store(&m)
}

func (i *Index[K, V]) Set(key K, val V) {
	old := *i.p.Load()
	next := make(map[K]V, len(old)+1)
	for k, v := range old {
		next[k] = v
	}
	next[key] = val
	i.p.Store(&next)
}

func (i *Index[K, V]) Invalidate(key K) {
	old := *i.p.Load()
	if _, ok := old[key]; !ok {
		return
	}
	next := make(map[K]V, len(old))
	for k, v := range old {
		if k != key {
			next[k] = v
		}
	}
	i.p.Store(&next)
}

func (i *Index[K, V]) Len() int {
	return len(*i.p.Load())
}
