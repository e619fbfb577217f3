package config

import (
	"errors"
	"os"

	"github.com/SaiNageswarS/go-ioc-boot/dotenv"
	"github.com/caarlos0/env/v11"
	"github.com/go-ini/ini"
)

// ContainerConfig tunes how a container is built. It lives in an INI file
// (one section per ENV) and every key can be overridden from the
// environment.
type ContainerConfig struct {
	// WeakSingletons selects the non-owning singleton cache.
	WeakSingletons bool `ini:"weak_singletons" env:"IOC_WEAK_SINGLETONS"`
	// DefaultLifetime is "transient" or "singleton".
	DefaultLifetime string `ini:"default_lifetime" env:"IOC_DEFAULT_LIFETIME"`

	EnableMetrics    bool   `ini:"enable_metrics" env:"IOC_ENABLE_METRICS"`
	MetricsNamespace string `ini:"metrics_namespace" env:"IOC_METRICS_NAMESPACE"`

	// WarmupConcurrency bounds Warmup; zero means unbounded.
	WarmupConcurrency int `ini:"warmup_concurrency" env:"IOC_WARMUP_CONCURRENCY"`
}

// LoadConfig loads the INI section named by $ENV (the default section when
// ENV is empty) from path into target, then applies .env and environment
// overrides. Keep secrets out of the INI file.
func LoadConfig[T any](path string, target *T) error {
	if target == nil {
		return errors.New("target cannot be nil")
	}

	file, err := ini.Load(path)
	if err != nil {
		return err
	}

	runMode := os.Getenv("ENV")

	// Step 1: Load from INI
	if err := file.Section(runMode).MapTo(target); err != nil {
		return err
	}

	// Step 2: Override from ENV
	if err := dotenv.LoadEnv(); err != nil {
		return err
	}
	return env.Parse(target)
}
