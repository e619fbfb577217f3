package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBench_StrongCache(t *testing.T) {
	var out bytes.Buffer
	report, err := RunBench(context.Background(), &out, benchOptions{Workers: 3, Iterations: 20, ShowMetrics: true})
	require.NoError(t, err)

	assert.EqualValues(t, 20, report.Resolutions)
	assert.Zero(t, report.Failures)
	assert.EqualValues(t, 20, report.Orders)
	assert.EqualValues(t, 20, report.Events)

	assert.Contains(t, out.String(), "cache: owning")
	assert.Contains(t, out.String(), `ioc_bench_resolutions_total{outcome="ok"}`)
	assert.Contains(t, out.String(), `ioc_bench_constructions_total{kind="factory"} 20`)
}

func TestRunBench_WeakCacheFromConfig(t *testing.T) {
	t.Setenv("ENV", "")
	path := filepath.Join(t.TempDir(), "ioc.ini")
	require.NoError(t, os.WriteFile(path, []byte("weak_singletons = true\nmetrics_namespace = custom\n"), 0o644))

	var out bytes.Buffer
	report, err := RunBench(context.Background(), &out, benchOptions{ConfigPath: path, Workers: 2, Iterations: 10, ShowMetrics: true})
	require.NoError(t, err)

	assert.EqualValues(t, 10, report.Resolutions)
	assert.Zero(t, report.Failures)
	assert.Contains(t, out.String(), "cache: non-owning")
	assert.Contains(t, out.String(), "custom_resolutions_total")
}

func TestRunBench_MissingConfig(t *testing.T) {
	_, err := RunBench(context.Background(), &bytes.Buffer{}, benchOptions{ConfigPath: filepath.Join(t.TempDir(), "nope.ini")})
	assert.Error(t, err)
}

func TestRunBench_RateLimitedCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RunBench(ctx, &bytes.Buffer{}, benchOptions{Workers: 1, Iterations: 5, Rate: 1})
	assert.Error(t, err)
}

func TestCheckGraph(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, CheckGraph(&out, false))
	assert.Contains(t, out.String(), "ok   main.Notifier[audit]")
	assert.NotContains(t, out.String(), "FAIL")

	out.Reset()
	err := CheckGraph(&out, true)
	assert.ErrorContains(t, err, "2 of")
	assert.Contains(t, out.String(), "circular dependency")
}

func TestGenerateConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "deploy")
	require.NoError(t, GenerateConfig(dir, iniTemplateData{Namespace: "shop", DefaultLifetime: "singleton", WeakSingletons: true}))

	content, err := os.ReadFile(filepath.Join(dir, "ioc.ini"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "metrics_namespace = shop_dev")
	assert.Contains(t, string(content), "default_lifetime = singleton")
	assert.Contains(t, string(content), "weak_singletons = true")
}
