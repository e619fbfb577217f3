package ioc

import (
	"testing"

	"github.com/SaiNageswarS/go-ioc-boot/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Build(t *testing.T) {
	replica := &memStore{label: "replica"}
	c, err := NewBuilder().
		Provide(&englishGreeter{Name: "builder"}).
		ProvideFuncAs(newMemStore, (*Store)(nil)).
		ProvideKeyed("replica", replica, (*Store)(nil)).
		ProvideFunc(func(s Store) *ready { return &ready{Store: s} }).
		Configure(func(c *Container) error {
			return RegisterFactory(c, func(r Resolver) (Greeter, error) {
				g, err := Resolve[*englishGreeter](r)
				return g, err
			})
		}).
		Build()
	require.NoError(t, err)

	assert.Equal(t, "hello builder", MustResolve[Greeter](c).Greet())
	assert.Same(t, MustResolve[Store](c), MustResolve[Store](c), "providers default to singleton")
	assert.Same(t, replica, MustResolve[Store](c, Keyed("replica")))

	r := MustResolve[*ready](c)
	assert.Same(t, MustResolve[Store](c), r.Store)
}

func TestBuilder_ProvideFuncTransient(t *testing.T) {
	c, err := NewBuilder().ProvideFunc(newMemStore, AsTransient()).Build()
	require.NoError(t, err)
	assert.NotSame(t, MustResolve[*memStore](c), MustResolve[*memStore](c))
}

func TestBuilder_ProvideFactory(t *testing.T) {
	var calls counter
	c, err := NewBuilder().
		ProvideFactory((*Greeter)(nil), func(Resolver) (any, error) {
			calls.n.Add(1)
			return frenchGreeter{}, nil
		}).
		ProvideFactory((*Store)(nil), func(Resolver) (any, error) { return newMemStore(), nil }, AsSingleton(), WithKey("cache")).
		Build()
	require.NoError(t, err)

	MustResolve[Greeter](c)
	MustResolve[Greeter](c)
	assert.EqualValues(t, 2, calls.n.Load())
	assert.Same(t, MustResolve[Store](c, Keyed("cache")), MustResolve[Store](c, Keyed("cache")))
}

func TestBuilder_WithOptions(t *testing.T) {
	c, err := NewBuilder().With(WithWeakSingletons()).Build()
	require.NoError(t, err)
	assert.Equal(t, NonOwning, c.Ownership())
}

func TestBuilder_BuildFailsOnBadStep(t *testing.T) {
	_, err := NewBuilder().
		ProvideFuncAs(newMemStore, (*Greeter)(nil)).
		Build()
	assert.Error(t, err)
}

func TestBuilder_MisuseIsFatal(t *testing.T) {
	cases := map[string]func(b *Builder){
		"provide nil":         func(b *Builder) { b.Provide(nil) },
		"func is not a func":  func(b *Builder) { b.ProvideFunc(42) },
		"func has no outputs": func(b *Builder) { b.ProvideFunc(func() {}) },
		"as not a func":       func(b *Builder) { b.ProvideFuncAs("x", (*Store)(nil)) },
		"nil factory":         func(b *Builder) { b.ProvideFactory((*Store)(nil), nil) },
		"not an interface":    func(b *Builder) { b.ProvideAs(newMemStore(), newMemStore()) },
		"does not implement":  func(b *Builder) { b.ProvideAs(newMemStore(), (*Greeter)(nil)) },
	}
	for name, misuse := range cases {
		t.Run(name, func(t *testing.T) {
			testutil.WithEnv("ENV", "dev", func(mock *testutil.MockLogger) {
				b := NewBuilder()
				misuse(b)
				assert.True(t, mock.IsFatalCalled)
				assert.NotEmpty(t, mock.FatalMsg)

				_, err := b.Build()
				assert.NoError(t, err, "misused steps are not recorded")
			})
		})
	}
}
