package main

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

// helper to execute command strings
func execute(t *testing.T, root *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	_, err := root.ExecuteC()
	return buf.String(), err
}

func TestRunInvoked(t *testing.T) {
	var got benchOptions
	runBenchFn = func(_ context.Context, _ io.Writer, opts benchOptions) (benchReport, error) {
		got = opts
		return benchReport{}, nil
	}
	defer func() { runBenchFn = RunBench }()

	_, err := execute(t, NewRoot(), "run", "-w", "8", "-n", "50", "--weak", "--rate", "100", "--metrics", "-c", "app.ini")
	assert.NoError(t, err)
	assert.Equal(t, benchOptions{
		ConfigPath:  "app.ini",
		Workers:     8,
		Iterations:  50,
		Weak:        true,
		Rate:        100,
		ShowMetrics: true,
	}, got)
}

func TestRunDefaults(t *testing.T) {
	var got benchOptions
	runBenchFn = func(_ context.Context, _ io.Writer, opts benchOptions) (benchReport, error) {
		got = opts
		return benchReport{}, nil
	}
	defer func() { runBenchFn = RunBench }()

	_, err := execute(t, NewRoot(), "run")
	assert.NoError(t, err)
	assert.Equal(t, 4, got.Workers)
	assert.Equal(t, 1000, got.Iterations)
	assert.False(t, got.Weak)
}

func TestCheckInvoked(t *testing.T) {
	var gotCycle bool
	checkGraphFn = func(_ io.Writer, withCycle bool) error {
		gotCycle = withCycle
		return nil
	}
	defer func() { checkGraphFn = CheckGraph }()

	_, err := execute(t, NewRoot(), "check", "--cycle")
	assert.NoError(t, err)
	assert.True(t, gotCycle)
}

func TestInitConfigInvoked(t *testing.T) {
	var gotFolder string
	var gotData iniTemplateData
	generateConfigFn = func(folder string, data iniTemplateData) error {
		gotFolder, gotData = folder, data
		return nil
	}
	defer func() { generateConfigFn = GenerateConfig }()

	_, err := execute(t, NewRoot(), "init-config", "deploy", "--namespace", "shop", "--lifetime", "singleton")
	assert.NoError(t, err)
	assert.Equal(t, "deploy", gotFolder)
	assert.Equal(t, iniTemplateData{Namespace: "shop", DefaultLifetime: "singleton"}, gotData)
}

func TestInitConfig_BadLifetime(t *testing.T) {
	_, err := execute(t, NewRoot(), "init-config", "--lifetime", "scoped")
	assert.Error(t, err)
}

func TestRun_ArgCountError(t *testing.T) {
	_, err := execute(t, NewRoot(), "run", "unexpected")
	assert.Error(t, err)
}
