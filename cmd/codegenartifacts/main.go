package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"codegenartifacts/internal/cli"
)

func main() {
	// Cancellation kills the generator's process tree; the task itself never
	// cancels or times out the generator.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root := cli.NewRootCommand(cli.Environment{Stdout: os.Stdout, Stderr: os.Stderr})
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		cancel()
		os.Exit(cli.ExitCode(err))
	}
}
