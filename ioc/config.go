package ioc

import (
	"fmt"

	"github.com/SaiNageswarS/go-ioc-boot/config"
	"github.com/prometheus/client_golang/prometheus"
)

// FromConfig builds a container from cfg. reg is only used when
// cfg.EnableMetrics is set; nil then means prometheus.DefaultRegisterer.
// opts are applied after the configured ones.
func FromConfig(cfg config.ContainerConfig, reg prometheus.Registerer, opts ...Option) (*Container, error) {
	lifetime, err := ParseLifetime(cfg.DefaultLifetime)
	if err != nil {
		return nil, fmt.Errorf("ioc: default_lifetime: %w", err)
	}

	configured := []Option{WithDefaultLifetime(lifetime)}
	if cfg.WeakSingletons {
		configured = append(configured, WithWeakSingletons())
	}
	if cfg.EnableMetrics {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		configured = append(configured, WithMetrics(reg, cfg.MetricsNamespace))
	}
	return New(append(configured, opts...)...), nil
}
