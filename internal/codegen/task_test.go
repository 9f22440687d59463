package codegen

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	exitCode int
	err      error

	calls int
	dir   string
	argv  []string
}

func (f *fakeRunner) Run(_ context.Context, dir string, argv []string) (int, error) {
	f.calls++
	f.dir = dir
	f.argv = append([]string(nil), argv...)
	return f.exitCode, f.err
}

func TestTask_ExecuteSuccess(t *testing.T) {
	root := t.TempDir()
	cfg := testConfig(root)
	cfg.ManifestFile = writeManifest(t, root, `{"codegenConfig": {"name": "ManifestLib", "android": {"javaPackageName": "com.manifest"}}}`)

	runner := &fakeRunner{}
	task := NewTask(cfg, runner, WithPlatform(PosixPlatform{}))
	res, err := task.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateSucceeded, res.State)
	want := []State{
		StateNotStarted,
		StateCheckingDeprecation,
		StateResolvingConfig,
		StateBuildingCommand,
		StateRunningProcess,
		StateSucceeded,
	}
	if diff := cmp.Diff(want, res.Transitions); diff != "" {
		t.Fatalf("transitions (-want +got):\n%s", diff)
	}
	assert.Equal(t, testParams, res.Parameters)
	assert.False(t, res.Deprecated)

	require.Equal(t, 1, runner.calls)
	assert.Equal(t, root, runner.dir)
	assert.Equal(t, res.CommandLine.Args, runner.argv)

	wantArgs, err := GeneratorArgs(cfg, testParams)
	require.NoError(t, err)
	if diff := cmp.Diff(wantArgs, runner.argv); diff != "" {
		t.Fatalf("argv (-want +got):\n%s", diff)
	}
}

func TestTask_GeneratorExitNonZero(t *testing.T) {
	runner := &fakeRunner{exitCode: 1}
	task := NewTask(testConfig(t.TempDir()), runner, WithPlatform(PosixPlatform{}))
	res, err := task.Execute(context.Background())

	require.ErrorIs(t, err, ErrGenerator)
	var genErr *GeneratorError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, 1, genErr.ExitCode)
	assert.Equal(t, res.CommandLine.Args, genErr.CommandLine.Args)

	assert.Equal(t, StateFailed, res.State)
	assert.Equal(t, 1, res.ExitCode)
	assert.Equal(t, StateRunningProcess, res.Transitions[len(res.Transitions)-2])
}

func TestTask_ConfigErrorStopsBeforeRunning(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.LibraryName = ""

	runner := &fakeRunner{}
	res, err := NewTask(cfg, runner).Execute(context.Background())
	require.ErrorIs(t, err, ErrConfig)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "library_name", cfgErr.Field)

	assert.Equal(t, 0, runner.calls)
	assert.Equal(t, StateFailed, res.State)
	assert.Equal(t, StateResolvingConfig, res.Transitions[len(res.Transitions)-2])
	assert.True(t, res.CommandLine.Empty())
}

func TestTask_LaunchFailure(t *testing.T) {
	launchErr := errors.New("exec: \"node\": executable file not found")
	runner := &fakeRunner{exitCode: -1, err: launchErr}
	res, err := NewTask(testConfig(t.TempDir()), runner).Execute(context.Background())

	require.ErrorIs(t, err, launchErr)
	assert.NotErrorIs(t, err, ErrGenerator)
	assert.Equal(t, StateFailed, res.State)
}

func TestTask_DeprecatedRootStillRuns(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.DeprecatedRoot = "../.."

	var lines []string
	runner := &fakeRunner{}
	res, err := NewTask(cfg, runner, WithLogger(captureLogger(&lines))).Execute(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Deprecated)
	assert.Equal(t, 1, runner.calls)
}

func TestTask_NilRunner(t *testing.T) {
	res, err := NewTask(testConfig(t.TempDir()), nil).Execute(context.Background())
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, StateFailed, res.State)
}

func TestTask_Name(t *testing.T) {
	assert.Equal(t, "generateCodegenArtifacts", NewTask(TaskConfig{}, nil).Name())
	assert.Equal(t, "custom", NewTask(TaskConfig{}, nil, WithName("custom")).Name())
}
