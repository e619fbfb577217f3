// Package registry provides a small generic, thread-safe key/value store.
//
// Entries keep the order in which their keys were first inserted; replacing
// the value of an existing key does not move it. The ordering is what lets
// callers enumerate registrations "in registration order".
package registry

import "sync"

type Registry[K comparable, V any] struct {
	mu     sync.RWMutex
	values map[K]V
	order  []K
}

func New[K comparable, V any]() *Registry[K, V] {
	return &Registry[K, V]{values: make(map[K]V)}
}

// Set inserts or replaces the value stored under key. It reports whether a
// previous value was replaced.
func (r *Registry[K, V]) Set(key K, value V) (replaced bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, replaced = r.values[key]; !replaced {
		r.order = append(r.order, key)
	}
	r.values[key] = value
	return replaced
}

// SetIfAbsent stores value only when key is missing and returns the value
// that ends up stored.
func (r *Registry[K, V]) SetIfAbsent(key K, value V) (actual V, stored bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.values[key]; ok {
		return existing, false
	}
	r.order = append(r.order, key)
	r.values[key] = value
	return value, true
}

func (r *Registry[K, V]) Get(key K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[key]
	return v, ok
}

// GetOrDefault returns the stored value or fallback when key is missing.
func (r *Registry[K, V]) GetOrDefault(key K, fallback V) V {
	if v, ok := r.Get(key); ok {
		return v
	}
	return fallback
}

func (r *Registry[K, V]) Contains(key K) bool {
	_, ok := r.Get(key)
	return ok
}

// Update atomically replaces the value under key with fn(old, present).
// Returning keep=false removes the entry.
func (r *Registry[K, V]) Update(key K, fn func(old V, present bool) (value V, keep bool)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, present := r.values[key]
	value, keep := fn(old, present)
	switch {
	case keep && !present:
		r.order = append(r.order, key)
		r.values[key] = value
	case keep:
		r.values[key] = value
	case present:
		r.deleteLocked(key)
	}
}

// Delete removes key and reports whether it was present.
func (r *Registry[K, V]) Delete(key K) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.values[key]; !ok {
		return false
	}
	r.deleteLocked(key)
	return true
}

func (r *Registry[K, V]) deleteLocked(key K) {
	delete(r.values, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *Registry[K, V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.values)
}

// Keys returns a snapshot of the keys in insertion order.
func (r *Registry[K, V]) Keys() []K {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]K, len(r.order))
	copy(out, r.order)
	return out
}

// Values returns a snapshot of the values in insertion order.
func (r *Registry[K, V]) Values() []V {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]V, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.values[k])
	}
	return out
}

// Range calls fn for every entry of a snapshot, in insertion order, until fn
// returns false. fn may safely call back into the registry.
func (r *Registry[K, V]) Range(fn func(key K, value V) bool) {
	r.mu.RLock()
	keys := make([]K, len(r.order))
	copy(keys, r.order)
	vals := make([]V, len(keys))
	for i, k := range keys {
		vals[i] = r.values[k]
	}
	r.mu.RUnlock()

	for i := range keys {
		if !fn(keys[i], vals[i]) {
			return
		}
	}
}

// Clear drops every entry.
func (r *Registry[K, V]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = make(map[K]V)
	r.order = nil
}
