package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/SaiNageswarS/go-ioc-boot/config"
	"github.com/SaiNageswarS/go-ioc-boot/ioc"
	"github.com/SaiNageswarS/go-ioc-boot/logger"
	"github.com/SaiNageswarS/go-ioc-boot/messenger"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

type benchOptions struct {
	ConfigPath  string
	Workers     int
	Iterations  int
	Weak        bool
	Rate        float64
	ShowMetrics bool
}

type benchReport struct {
	Resolutions int64
	Failures    int64
	Orders      int64
	Events      int64
	Elapsed     time.Duration
}

// newBenchContainer builds the container the way an application would: from
// an INI file when one is given, with metrics on a private registry.
func newBenchContainer(opts benchOptions, reg prometheus.Registerer) (*ioc.Container, config.ContainerConfig, error) {
	var cfg config.ContainerConfig
	if opts.ConfigPath != "" {
		if err := config.LoadConfig(opts.ConfigPath, &cfg); err != nil {
			return nil, cfg, fmt.Errorf("load config: %w", err)
		}
	}
	if opts.Weak {
		cfg.WeakSingletons = true
	}
	cfg.EnableMetrics = true
	if cfg.MetricsNamespace == "" {
		cfg.MetricsNamespace = "ioc_bench"
	}

	c, err := ioc.FromConfig(cfg, reg)
	if err != nil {
		return nil, cfg, err
	}
	if err := registerDemoGraph(c); err != nil {
		return nil, cfg, err
	}
	return c, cfg, nil
}

func RunBench(ctx context.Context, out io.Writer, opts benchOptions) (benchReport, error) {
	var report benchReport
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	reg := prometheus.NewRegistry()
	c, cfg, err := newBenchContainer(opts, reg)
	if err != nil {
		return report, err
	}
	if err := c.Warmup(ctx, cfg.WarmupConcurrency); err != nil {
		return report, fmt.Errorf("warmup: %w", err)
	}

	bus, err := ioc.Resolve[messenger.Bus](c)
	if err != nil {
		return report, err
	}
	var events atomic.Int64
	token := messenger.Subscribe(bus, func(orderPlaced) { events.Add(1) })
	defer bus.Unsubscribe(token)

	limit := rate.Inf
	if opts.Rate > 0 {
		limit = rate.Limit(opts.Rate)
	}
	limiter := rate.NewLimiter(limit, opts.Workers)

	var resolutions, failures atomic.Int64
	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < opts.Workers; w++ {
		n := opts.Iterations / opts.Workers
		if w < opts.Iterations%opts.Workers {
			n++
		}
		g.Go(func() error {
			for i := 0; i < n; i++ {
				if err := limiter.Wait(ctx); err != nil {
					return err
				}
				svc, err := ioc.Resolve[*orderService](c)
				resolutions.Add(1)
				if err != nil {
					failures.Add(1)
					logger.Error("resolve failed", zap.Int("worker", w), zap.Error(err))
					continue
				}
				if err := svc.Place(int64(i)); err != nil {
					return err
				}
			}
			return nil
		})
	}
	err = g.Wait()

	report.Elapsed = time.Since(start)
	report.Resolutions = resolutions.Load()
	report.Failures = failures.Load()
	report.Events = events.Load()
	if orders, rerr := ioc.Resolve[OrderRepository](c); rerr == nil {
		report.Orders = orders.Count()
	}

	fmt.Fprintf(out, "cache: %s\n", c.Ownership())
	fmt.Fprintf(out, "resolutions: %d (failures %d) in %s\n", report.Resolutions, report.Failures, report.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(out, "orders saved: %d, events delivered: %d\n", report.Orders, report.Events)
	if opts.ShowMetrics {
		if merr := writeMetrics(out, reg); merr != nil {
			return report, merr
		}
	}
	return report, err
}

// writeMetrics prints every counter sample as `name{labels} value`.
func writeMetrics(out io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	var lines []string
	for _, f := range families {
		for _, m := range f.GetMetric() {
			var pairs []string
			for _, lp := range m.GetLabel() {
				pairs = append(pairs, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			labels := ""
			if len(pairs) > 0 {
				labels = "{" + strings.Join(pairs, ",") + "}"
			}
			lines = append(lines, fmt.Sprintf("%s%s %g", f.GetName(), labels, m.GetCounter().GetValue()))
		}
	}
	sort.Strings(lines)
	for _, l := range lines {
		fmt.Fprintln(out, l)
	}
	return nil
}
