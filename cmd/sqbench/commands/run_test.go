package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/squarelist/internal/bench"
)

var smallRunArgs = []string{
	"--start", "100",
	"--max", "100",
	"--repetitions", "10",
	"--minmax-repetitions", "10",
}

func TestRunCommand(t *testing.T) {
	color.NoColor = true

	var out, errOut bytes.Buffer
	cmd := NewRunCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--baseline", "btree,tidwall", "--format", "csv"}, smallRunArgs...))

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "squarelist")
	assert.Contains(t, out.String(), "btree")
	assert.Contains(t, out.String(), "tidwall")
	assert.Contains(t, errOut.String(), "all 21 sanity checks passed")
}

func TestRunCommand_PassesConfig(t *testing.T) {
	var seen bench.Config
	cmd := newRunCommandWithDeps(func(_ context.Context, cfg bench.Config, _ ...bench.RunnerOption) (*bench.Report, error) {
		seen = cfg
		return &bench.Report{Config: cfg}, nil
	})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--memory-limit", "8MiB", "--steps-per-decade", "2"}, smallRunArgs...))

	require.NoError(t, cmd.Execute())
	assert.Equal(t, 100, seen.Start)
	assert.Equal(t, 2, seen.StepsPerDecade)
	assert.Equal(t, int64(8<<20), seen.MemoryLimitBytes)
	assert.Equal(t, []string{bench.SquareList}, seen.Contenders)
}

func TestRunCommand_FailedChecks(t *testing.T) {
	cmd := newRunCommandWithDeps(func(_ context.Context, cfg bench.Config, _ ...bench.RunnerOption) (*bench.Report, error) {
		return &bench.Report{Config: cfg, Results: []bench.Result{{
			Size:      100,
			Contender: bench.SquareList,
			Checks:    []bench.Check{{Name: "min after cut", Detail: "min 1, want 50"}},
		}}}, nil
	})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(smallRunArgs)

	err := cmd.Execute()
	require.ErrorIs(t, err, ErrChecksFailed)
}

func TestRunCommand_ExecutorError(t *testing.T) {
	boom := errors.New("boom")
	cmd := newRunCommandWithDeps(func(context.Context, bench.Config, ...bench.RunnerOption) (*bench.Report, error) {
		return nil, boom
	})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(smallRunArgs)

	require.ErrorIs(t, cmd.Execute(), boom)
}

func TestRunCommand_InvalidFlags(t *testing.T) {
	tests := map[string][]string{
		"format":  {"--format", "html"},
		"start":   {"--start", "1"},
		"memory":  {"--memory-limit", "much"},
		"unknown": {"--baseline", "skiplist"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			cmd := newRunCommandWithDeps(func(context.Context, bench.Config, ...bench.RunnerOption) (*bench.Report, error) {
				t.Fatal("executor must not run")
				return nil, nil
			})
			cmd.SetOut(io.Discard)
			cmd.SetErr(io.Discard)
			cmd.SetArgs(args)
			assert.Error(t, cmd.Execute())
		})
	}
}

func TestRunCommand_MetricsEndpoint(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRunCommand()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--metrics-addr", "127.0.0.1:0", "--format", "markdown"}, smallRunArgs...))

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "squarelist")
}
