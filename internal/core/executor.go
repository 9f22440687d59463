package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Executor runs a command as a blocking subprocess.
//
// Unlike a sandboxed runner, the subprocess inherits the environment so the
// interpreter can be found on PATH. Its output is streamed to Stdout and
// Stderr unmodified.
type Executor struct {
	// Stdout receives the process's standard output. Nil discards it.
	Stdout io.Writer

	// Stderr receives the process's standard error. Nil discards it.
	Stderr io.Writer

	// Env overrides the environment when non-nil.
	Env []string
}

// NewExecutor creates an Executor streaming to the given writers.
func NewExecutor(stdout, stderr io.Writer) *Executor {
	return &Executor{Stdout: stdout, Stderr: stderr}
}

// Run executes argv in dir and returns its exit code. An empty dir inherits
// the current working directory.
//
// A non-zero exit is returned as exitCode with a nil error. err is non-nil only
// when the process could not be started or was cancelled.
func (e *Executor) Run(ctx context.Context, dir string, argv []string) (int, error) {
	if len(argv) == 0 || argv[0] == "" {
		return -1, fmt.Errorf("empty command")
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = dir
	if e.Env != nil {
		cmd.Env = e.Env
	} else {
		cmd.Env = os.Environ()
	}
	cmd.Stdin = nil
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	configureCommand(cmd, argv)

	if err := cmd.Start(); err != nil {
		return -1, fmt.Errorf("failed to start command: %w", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	var err error
	select {
	case <-ctx.Done():
		killProcessTree(cmd)
		<-done
		return -1, fmt.Errorf("execution cancelled: %w", ctx.Err())
	case err = <-done:
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, fmt.Errorf("failed to execute command: %w", err)
	}
	return 0, nil
}
