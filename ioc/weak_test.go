package ioc

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resolveHeavyID resolves *heavy and drops the reference before returning.
//
//go:noinline
func resolveHeavyID(t *testing.T, c *Container) int64 {
	h, err := Resolve[*heavy](c)
	require.NoError(t, err)
	return h.ID
}

func collect() {
	for i := 0; i < 3; i++ {
		runtime.GC()
	}
}

func TestWeak_SingletonReclaimedWhenUnreferenced(t *testing.T) {
	c := NewWeak()
	assert.Equal(t, NonOwning, c.Ownership())

	var built counter
	require.NoError(t, RegisterConstructor[*heavy](c, built.heavyCtor(), AsSingleton()))

	assert.EqualValues(t, 1, resolveHeavyID(t, c))
	collect()
	assert.EqualValues(t, 2, resolveHeavyID(t, c))
	assert.EqualValues(t, 2, built.n.Load())
}

func TestWeak_SingletonSharedWhileReferenced(t *testing.T) {
	c := NewWeak()
	var built counter
	require.NoError(t, RegisterConstructor[*heavy](c, built.heavyCtor(), AsSingleton()))

	held := MustResolve[*heavy](c)
	collect()
	again := MustResolve[*heavy](c)

	assert.Same(t, held, again)
	assert.EqualValues(t, 1, built.n.Load())
	runtime.KeepAlive(held)
}

func TestWeak_StrongContainerKeepsSingleton(t *testing.T) {
	c := New()
	assert.Equal(t, Owning, c.Ownership())

	var built counter
	require.NoError(t, RegisterConstructor[*heavy](c, built.heavyCtor(), AsSingleton()))

	assert.EqualValues(t, 1, resolveHeavyID(t, c))
	collect()
	assert.EqualValues(t, 1, resolveHeavyID(t, c))
}

func TestWeakCache_NonPointerHeldStrongly(t *testing.T) {
	cache := NewWeakCache(nil)
	key := KeyOf[Greeter]("")
	b := &Binding{Kind: KindConcreteType, Concrete: TypeOf[frenchGreeter]()}

	cache.Store(key, CacheEntry{Instance: frenchGreeter{}, Binding: b})
	collect()

	e, ok := cache.TryGetAlive(key)
	require.True(t, ok)
	assert.Equal(t, frenchGreeter{}, e.Instance)
	assert.Same(t, b, e.Binding)
}

func TestWeakCache_ReclaimCallbackAndPrune(t *testing.T) {
	var reclaimed []ServiceKey
	cache := NewWeakCache(func(k ServiceKey) { reclaimed = append(reclaimed, k) }).(*weakCache)
	b := &Binding{Kind: KindFactory}
	live := &heavy{ID: 1}

	storeHeavy := func(key string) {
		cache.Store(KeyOf[*heavy](key), CacheEntry{Instance: &heavy{ID: 2}, Binding: b})
	}
	storeHeavy("dead")
	cache.Store(KeyOf[*heavy]("live"), CacheEntry{Instance: live, Binding: b})
	collect()

	assert.Equal(t, 1, cache.Prune())
	assert.Equal(t, []ServiceKey{KeyOf[*heavy]("dead")}, reclaimed)
	assert.Equal(t, 1, cache.Len())

	e, ok := cache.TryGetAlive(KeyOf[*heavy]("live"))
	require.True(t, ok)
	assert.Same(t, live, e.Instance)
	runtime.KeepAlive(live)
}

func TestWeakCache_StoreConvergesOnLiveEntry(t *testing.T) {
	cache := NewWeakCache(nil)
	key := KeyOf[*heavy]("")
	b := &Binding{Kind: KindFactory}
	first := &heavy{ID: 1}

	got := cache.Store(key, CacheEntry{Instance: first, Binding: b})
	assert.Same(t, first, got.Instance)

	got = cache.Store(key, CacheEntry{Instance: &heavy{ID: 2}, Binding: b})
	assert.Same(t, first, got.Instance, "a live entry from the same binding wins")

	other := &Binding{Kind: KindFactory}
	second := &heavy{ID: 3}
	got = cache.Store(key, CacheEntry{Instance: second, Binding: other})
	assert.Same(t, second, got.Instance, "a new binding replaces the entry")

	cache.Invalidate(key)
	_, ok := cache.TryGetAlive(key)
	assert.False(t, ok)
	runtime.KeepAlive(first)
	runtime.KeepAlive(second)
}

var staticHeavy = heavy{ID: 7}

func TestWeak_SingletonOutsideHeap(t *testing.T) {
	c := NewWeak()
	var calls int
	require.NoError(t, RegisterFactory(c, func(Resolver) (*heavy, error) {
		calls++
		return &staticHeavy, nil
	}, AsSingleton()))

	h, err := Resolve[*heavy](c)
	require.NoError(t, err)
	assert.Same(t, &staticHeavy, h)

	collect()
	assert.Same(t, &staticHeavy, MustResolve[*heavy](c))
	assert.Equal(t, 1, calls, "a package-level instance stays cached")
}
