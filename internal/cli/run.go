package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/go-logr/logr"
	"gopkg.in/yaml.v3"

	"codegenartifacts/internal/codegen"
	"codegenartifacts/internal/core"
)

// Result is the outcome of Execute.
type Result struct {
	ExitCode int
	Run      *core.RunResult
}

// orchestratedTask adapts codegen.Task to the orchestrator's Task contract.
type orchestratedTask struct {
	task *codegen.Task
}

func (o orchestratedTask) Name() string { return o.task.Name() }

func (o orchestratedTask) Declare(d core.Declarer) error { return o.task.Declare(d) }

func (o orchestratedTask) Execute(ctx context.Context) error {
	_, err := o.task.Execute(ctx)
	return err
}

// Environment carries the process-level collaborators of a run.
type Environment struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger logr.Logger

	// Runner overrides the subprocess runner; tests use it to avoid real processes.
	Runner codegen.ProcessRunner

	// Platform overrides host platform detection.
	Platform codegen.Platform
}

func (env Environment) newTask(inv Invocation) *codegen.Task {
	runner := env.Runner
	if runner == nil {
		runner = core.NewExecutor(env.Stdout, env.Stderr)
	}
	opts := []codegen.Option{codegen.WithLogger(env.Logger)}
	if env.Platform != nil {
		opts = append(opts, codegen.WithPlatform(env.Platform))
	}
	return codegen.NewTask(inv.Task, runner, opts...)
}

// Execute runs the codegen task through the orchestrator: it is skipped when
// its declared inputs and outputs match the last successful run.
func Execute(ctx context.Context, inv Invocation, env Environment) (Result, error) {
	task := env.newTask(inv)
	runner := core.NewRunner(core.NewFileStore(inv.StateDir), env.Logger)
	runner.Force = inv.Force

	run, err := runner.Run(ctx, orchestratedTask{task: task})
	res := Result{ExitCode: ExitCode(err), Run: run}
	printStatus(env.Stdout, task.Name(), run, err)
	return res, err
}

func printStatus(w io.Writer, name string, run *core.RunResult, err error) {
	if w == nil {
		return
	}
	switch {
	case err != nil:
		fmt.Fprintf(w, "> Task :%s %s\n", name, color.RedString("FAILED"))
	case run != nil && run.Outcome == core.OutcomeUpToDate:
		fmt.Fprintf(w, "> Task :%s %s\n", name, color.YellowString(string(core.OutcomeUpToDate)))
	default:
		fmt.Fprintf(w, "> Task :%s %s\n", name, color.GreenString("DONE"))
	}
}

// Description is the describe command's YAML document.
type Description struct {
	Task        string            `yaml:"task"`
	Fingerprint string            `yaml:"fingerprint"`
	Inputs      DescribedInputs   `yaml:"inputs"`
	Outputs     map[string]string `yaml:"outputs"`
	Resolved    *DescribedRun     `yaml:"resolved,omitempty"`
}

type DescribedInputs struct {
	Files  map[string]string `yaml:"files"`
	Values map[string]any    `yaml:"values"`
}

type DescribedRun struct {
	LibraryName     string   `yaml:"library_name"`
	JavaPackageName string   `yaml:"java_package_name"`
	Platform        string   `yaml:"platform"`
	Command         []string `yaml:"command"`
}

// Describe writes the task's declared inputs and outputs, and the command it
// would run, as YAML. It neither runs the generator nor touches the state store.
func Describe(inv Invocation, env Environment, w io.Writer) error {
	task := env.newTask(inv)
	decls := core.NewDeclarations()
	if err := task.Declare(decls); err != nil {
		return err
	}
	fp, err := core.NewFingerprinter().Compute(decls)
	if err != nil {
		return err
	}

	desc := Description{
		Task:        task.Name(),
		Fingerprint: fp.String(),
		Inputs:      DescribedInputs{Files: decls.Files, Values: decls.Values},
		Outputs:     decls.Outputs,
	}

	params, err := codegen.ResolveParameters(inv.Task)
	if err != nil {
		return err
	}
	platform := env.Platform
	if platform == nil {
		platform = codegen.HostPlatform()
	}
	cl, err := codegen.BuildCommandLine(inv.Task, params, platform)
	if err != nil {
		return err
	}
	desc.Resolved = &DescribedRun{
		LibraryName:     params.LibraryName,
		JavaPackageName: params.JavaPackageName,
		Platform:        cl.Platform,
		Command:         cl.Args,
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(desc); err != nil {
		return fmt.Errorf("encoding description: %w", err)
	}
	return enc.Close()
}
