package codegen

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
)

// ProcessRunner runs a command to completion.
//
// A non-zero exit status is reported through exitCode with a nil error; err is
// reserved for failures to launch or wait for the process.
type ProcessRunner interface {
	Run(ctx context.Context, dir string, argv []string) (exitCode int, err error)
}

// Result describes one execution of the task.
type Result struct {
	State       State
	Transitions []State
	Deprecated  bool
	Parameters  ResolvedParameters
	CommandLine CommandLine
	ExitCode    int
}

// Task generates platform bindings from the schema artifact.
type Task struct {
	name     string
	config   TaskConfig
	runner   ProcessRunner
	platform Platform
	logger   logr.Logger
}

// Option configures a Task.
type Option func(*Task)

// WithName overrides the task name used by the orchestrator. The default is
// "generateCodegenArtifacts".
func WithName(name string) Option {
	return func(t *Task) { t.name = name }
}

// WithPlatform overrides host platform detection.
func WithPlatform(p Platform) Option {
	return func(t *Task) { t.platform = p }
}

// WithLogger sets the task logger.
func WithLogger(l logr.Logger) Option {
	return func(t *Task) { t.logger = l }
}

// NewTask creates a task that runs the generator through runner.
func NewTask(cfg TaskConfig, runner ProcessRunner, opts ...Option) *Task {
	t := &Task{
		name:     "generateCodegenArtifacts",
		config:   cfg,
		runner:   runner,
		platform: HostPlatform(),
		logger:   logr.Discard(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name returns the task name.
func (t *Task) Name() string { return t.name }

// Config returns a copy of the task configuration.
func (t *Task) Config() TaskConfig { return t.config }

// Declare reports the task's inputs and outputs to d.
func (t *Task) Declare(d Declarer) error {
	return DeclareIO(t.config, d)
}

// Execute runs the deprecation check, resolves the parameters, builds the
// command line and runs the generator, in that order. It blocks until the
// generator exits.
//
// The returned Result is non-nil even when Execute fails, and records how far
// the execution progressed.
func (t *Task) Execute(ctx context.Context) (*Result, error) {
	m := newStateMachine()
	res := &Result{State: StateNotStarted}
	log := t.logger.WithValues("task", t.name)

	finish := func(err error) (*Result, error) {
		if err != nil {
			m.fail()
		}
		res.State = m.current
		res.Transitions = m.visited()
		return res, err
	}

	if t.runner == nil {
		return finish(fmt.Errorf("task %q has no process runner", t.name))
	}

	if err := m.transition(StateCheckingDeprecation); err != nil {
		return finish(err)
	}
	res.Deprecated = CheckDeprecated(t.config, log)

	if err := m.transition(StateResolvingConfig); err != nil {
		return finish(err)
	}
	params, err := ResolveParameters(t.config)
	if err != nil {
		return finish(fmt.Errorf("resolving codegen parameters: %w", err))
	}
	res.Parameters = params
	log.V(1).Info("resolved codegen parameters", "libraryName", params.LibraryName, "javaPackageName", params.JavaPackageName)

	if err := m.transition(StateBuildingCommand); err != nil {
		return finish(err)
	}
	cl, err := BuildCommandLine(t.config, params, t.platform)
	if err != nil {
		return finish(fmt.Errorf("building generator command line: %w", err))
	}
	res.CommandLine = cl

	if err := m.transition(StateRunningProcess); err != nil {
		return finish(err)
	}
	log.Info("running code generator", "platform", cl.Platform, "command", cl.String())
	exitCode, err := t.runner.Run(ctx, t.config.ProjectDir, cl.Args)
	if err != nil {
		return finish(fmt.Errorf("running code generator: %w", err))
	}
	res.ExitCode = exitCode
	if exitCode != 0 {
		return finish(&GeneratorError{ExitCode: exitCode, CommandLine: cl})
	}

	if err := m.transition(StateSucceeded); err != nil {
		return finish(err)
	}
	log.V(1).Info("code generator finished")
	return finish(nil)
}
