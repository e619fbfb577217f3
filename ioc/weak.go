package ioc

import (
	"reflect"
	"unsafe"
	"weak"

	"github.com/SaiNageswarS/go-ioc-boot/registry"
)

// weakRef refers to a cached instance without keeping it alive. Only
// non-nil pointers to non-zero-size values can be referenced weakly; any
// other value is held in strong, which is what the cache falls back to.
type weakRef struct {
	typ    reflect.Type
	ptr    weak.Pointer[byte]
	strong any
}

func makeWeakRef(instance any) weakRef {
	v := reflect.ValueOf(instance)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Type().Elem().Size() == 0 {
		return weakRef{strong: instance}
	}
	return weakRef{typ: v.Type(), ptr: weak.Make((*byte)(v.UnsafePointer()))}
}

func (r weakRef) value() (any, bool) {
	if r.typ == nil {
		return r.strong, true
	}
	p := r.ptr.Value()
	if p == nil {
		return nil, false
	}
	return reflect.NewAt(r.typ.Elem(), unsafe.Pointer(p)).Interface(), true
}

type weakEntry struct {
	ref     weakRef
	binding *Binding
}

type weakCache struct {
	entries   *registry.Registry[ServiceKey, weakEntry]
	onReclaim func(ServiceKey)
}

// NewWeakCache returns a non-owning cache. Once nothing outside the cache
// references a singleton, the garbage collector may reclaim it and the entry
// reads as absent; the container then builds a fresh instance. onReclaim, if
// non-nil, is called whenever a dead entry is noticed and dropped.
func NewWeakCache(onReclaim func(ServiceKey)) LifetimeCache {
	return &weakCache{entries: registry.New[ServiceKey, weakEntry](), onReclaim: onReclaim}
}

func (c *weakCache) TryGetAlive(key ServiceKey) (CacheEntry, bool) {
	e, ok := c.entries.Get(key)
	if !ok {
		return CacheEntry{}, false
	}
	if inst, alive := e.ref.value(); alive {
		return CacheEntry{Instance: inst, Binding: e.binding}, true
	}
	c.dropIfDead(key)
	return CacheEntry{}, false
}

func (c *weakCache) Store(key ServiceKey, e CacheEntry) CacheEntry {
	actual := e
	reclaimed := false
	c.entries.Update(key, func(old weakEntry, present bool) (weakEntry, bool) {
		if present {
			if inst, alive := old.ref.value(); alive && old.binding == e.Binding {
				actual = CacheEntry{Instance: inst, Binding: old.binding}
				return old, true
			} else if !alive {
				reclaimed = true
			}
		}
		return weakEntry{ref: makeWeakRef(e.Instance), binding: e.Binding}, true
	})
	if reclaimed && c.onReclaim != nil {
		c.onReclaim(key)
	}
	return actual
}

// dropIfDead removes key if its instance has been collected meanwhile; a
// concurrent Store may already have replaced it with a live entry.
func (c *weakCache) dropIfDead(key ServiceKey) {
	dropped := false
	c.entries.Update(key, func(old weakEntry, present bool) (weakEntry, bool) {
		if !present {
			return old, false
		}
		if _, alive := old.ref.value(); alive {
			return old, true
		}
		dropped = true
		return old, false
	})
	if dropped && c.onReclaim != nil {
		c.onReclaim(key)
	}
}

// Prune drops every entry whose instance has been collected and returns how
// many were dropped.
func (c *weakCache) Prune() int {
	n := 0
	for _, key := range c.entries.Keys() {
		if _, ok := c.TryGetAlive(key); !ok {
			n++
		}
	}
	return n
}

func (c *weakCache) Invalidate(key ServiceKey) { c.entries.Delete(key) }
func (c *weakCache) Clear()                    { c.entries.Clear() }
func (c *weakCache) Len() int                  { return c.entries.Len() }
func (c *weakCache) Ownership() Ownership      { return NonOwning }
