package ioc

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMetrics_CountResolutionsAndConstructions(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(WithMetrics(reg, "test"))
	require.NoError(t, RegisterConstructor[Store](c, newMemStore, AsSingleton()))
	require.NoError(t, RegisterFactory(c, func(Resolver) (Greeter, error) { return frenchGreeter{}, nil }))

	MustResolve[Store](c)
	MustResolve[Store](c)
	MustResolve[Greeter](c)
	_, _ = Resolve[Ping](c)

	assert.Equal(t, 3.0, promtest.ToFloat64(c.metrics.resolutions.WithLabelValues("ok")))
	assert.Equal(t, 1.0, promtest.ToFloat64(c.metrics.resolutions.WithLabelValues("unregistered")))
	assert.Equal(t, 1.0, promtest.ToFloat64(c.metrics.constructions.WithLabelValues("concrete")))
	assert.Equal(t, 1.0, promtest.ToFloat64(c.metrics.constructions.WithLabelValues("factory")))

	families, err := reg.Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "test_resolutions_total")
	assert.Contains(t, names, "test_constructions_total")
}

func TestMetrics_SharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	c1 := New(WithMetrics(reg, ""))
	c2 := New(WithMetrics(reg, ""))
	assert.Same(t, c1.metrics.resolutions, c2.metrics.resolutions)

	MustResolve[*Container](c1)
	MustResolve[*Container](c2)
	assert.Equal(t, 2.0, promtest.ToFloat64(c1.metrics.resolutions.WithLabelValues("ok")))
}

func TestMetrics_RegistrationConflictIsLogged(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "clash",
		Name:      "resolutions_total",
		Help:      "someone else's counter",
	}))

	core, logs := observer.New(zap.ErrorLevel)
	c := New(WithMetrics(reg, "clash"), WithLogger(zap.New(core)))

	failures := logs.FilterMessage("metrics collector not registered").All()
	require.Len(t, failures, 1)
	assert.NotPanics(t, func() { MustResolve[*Container](c) })
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *metrics
	assert.NotPanics(t, func() {
		m.resolved(nil)
		m.constructed(KindFactory)
		m.reclaimed()
	})
}
