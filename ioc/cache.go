package ioc

import "github.com/SaiNageswarS/go-ioc-boot/registry"

// Ownership tells whether a LifetimeCache keeps its instances alive.
type Ownership uint8

const (
	Owning Ownership = iota
	NonOwning
)

func (o Ownership) String() string {
	if o == NonOwning {
		return "non-owning"
	}
	return "owning"
}

// CacheEntry is a cached singleton together with the binding that built it.
type CacheEntry struct {
	Instance any
	Binding  *Binding
}

// LifetimeCache holds constructed singletons per ServiceKey.
type LifetimeCache interface {
	// TryGetAlive returns the entry for key if it is still alive.
	TryGetAlive(key ServiceKey) (CacheEntry, bool)
	// Store caches e unless a live entry built from the same binding is
	// already present, and returns whichever entry ends up cached. Racing
	// constructions of one singleton therefore converge on a single instance.
	Store(key ServiceKey, e CacheEntry) CacheEntry
	Invalidate(key ServiceKey)
	Clear()
	Len() int
	Ownership() Ownership
}

type strongCache struct {
	entries *registry.Registry[ServiceKey, CacheEntry]
}

// NewStrongCache returns an owning cache: entries live until invalidated.
func NewStrongCache() LifetimeCache {
	return &strongCache{entries: registry.New[ServiceKey, CacheEntry]()}
}

func (c *strongCache) TryGetAlive(key ServiceKey) (CacheEntry, bool) {
	return c.entries.Get(key)
}

func (c *strongCache) Store(key ServiceKey, e CacheEntry) CacheEntry {
	actual := e
	c.entries.Update(key, func(old CacheEntry, present bool) (CacheEntry, bool) {
		if present && old.Binding == e.Binding {
			actual = old
			return old, true
		}
		return e, true
	})
	return actual
}

func (c *strongCache) Invalidate(key ServiceKey) { c.entries.Delete(key) }
func (c *strongCache) Clear()                    { c.entries.Clear() }
func (c *strongCache) Len() int                  { return c.entries.Len() }
func (c *strongCache) Ownership() Ownership      { return Owning }
