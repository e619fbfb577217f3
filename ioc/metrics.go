package ioc

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// metrics is nil-safe: a container built without WithMetrics records nothing.
type metrics struct {
	resolutions   *prometheus.CounterVec
	constructions *prometheus.CounterVec
	reclaims      prometheus.Counter
}

func newMetrics(namespace string, reg prometheus.Registerer, log *zap.Logger) *metrics {
	if namespace == "" {
		namespace = "ioc"
	}
	m := &metrics{
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Top-level resolutions by outcome (ok or the failure reason).",
		}, []string{"outcome"}),
		constructions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "constructions_total",
			Help:      "Instances built by the container, by binding kind.",
		}, []string{"kind"}),
		reclaims: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weak_reclaims_total",
			Help:      "Weakly cached singletons found collected.",
		}),
	}
	m.resolutions = registerCollector(reg, m.resolutions, log)
	m.constructions = registerCollector(reg, m.constructions, log)
	m.reclaims = registerCollector(reg, m.reclaims, log)
	return m
}

// registerCollector returns the collector already registered under the same
// descriptor, so several containers can share one registry. Any other
// registration failure is logged and c is used unexported.
func registerCollector[C prometheus.Collector](reg prometheus.Registerer, c C, log *zap.Logger) C {
	if reg == nil {
		return c
	}
	err := reg.Register(c)
	if err == nil {
		return c
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing
		}
	}
	log.Error("metrics collector not registered", zap.Error(err))
	return c
}

func (m *metrics) resolved(err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	var re *ResolutionError
	if errors.As(err, &re) {
		outcome = re.Reason.String()
	} else if err != nil {
		outcome = "error"
	}
	m.resolutions.WithLabelValues(outcome).Inc()
}

func (m *metrics) constructed(kind Kind) {
	if m == nil {
		return
	}
	m.constructions.WithLabelValues(kind.String()).Inc()
}

func (m *metrics) reclaimed() {
	if m == nil {
		return
	}
	m.reclaims.Inc()
}
