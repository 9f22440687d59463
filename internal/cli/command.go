package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codegenartifacts/internal/logging"
)

// Version is set at build time with -ldflags.
var Version = "dev"

// NewRootCommand builds the codegenartifacts command tree.
//
// env.Logger is replaced by a logger built from the verbosity flags unless the
// caller already supplied one.
func NewRootCommand(env Environment) *cobra.Command {
	if env.Stdout == nil {
		env.Stdout = os.Stdout
	}
	if env.Stderr == nil {
		env.Stderr = os.Stderr
	}

	root := &cobra.Command{
		Use:           "codegenartifacts",
		Short:         "Generate native bindings from a codegen schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(env.Stdout)
	root.SetErr(env.Stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return invalidInvocationf("%v", err)
	})

	root.AddCommand(newGenerateCommand(env), newDescribeCommand(env), newVersionCommand(env))
	return root
}

// prepare loads the invocation and the logger for a subcommand.
func prepare(v *viper.Viper, env Environment) (Invocation, Environment, error) {
	if cwd, err := os.Getwd(); err == nil {
		v.SetDefault(keyWorkDir, cwd)
	}
	inv, err := LoadInvocation(v)
	if err != nil {
		return Invocation{}, env, err
	}
	if env.Logger.GetSink() == nil {
		logger, err := logging.New(logging.Options{Verbosity: inv.Verbosity, JSON: inv.LogJSON, Output: env.Stderr})
		if err != nil {
			return Invocation{}, env, invalidInvocationf("%v", err)
		}
		env.Logger = logger
	}
	return inv, env, nil
}

func newGenerateCommand(env Environment) *cobra.Command {
	v := NewViper()
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run the code generator unless its outputs are up to date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, env, err := prepare(v, env)
			if err != nil {
				return err
			}
			_, err = Execute(cmd.Context(), inv, env)
			return err
		},
	}
	mustRegister(cmd, v)
	return cmd
}

func newDescribeCommand(env Environment) *cobra.Command {
	v := NewViper()
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print declared inputs, outputs and the resolved generator command as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, env, err := prepare(v, env)
			if err != nil {
				return err
			}
			return Describe(inv, env, cmd.OutOrStdout())
		},
	}
	mustRegister(cmd, v)
	return cmd
}

func newVersionCommand(env Environment) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	}
}

func mustRegister(cmd *cobra.Command, v *viper.Viper) {
	if err := RegisterFlags(cmd.Flags(), v); err != nil {
		panic(err)
	}
}
