package codegen

import "strings"

// CommandLine is the generator invocation for one execution.
type CommandLine struct {
	// Args is the argv handed to the operating system, already adapted to Platform.
	Args []string

	// Platform names the convention Args was built for.
	Platform string

	render string
}

// String renders the command line for logs.
func (c CommandLine) String() string {
	if c.render != "" {
		return c.render
	}
	return strings.Join(c.Args, " ")
}

// Empty reports whether no argv has been built.
func (c CommandLine) Empty() bool { return len(c.Args) == 0 }

// GeneratorArgs returns the logical generator argv, before platform adaptation.
//
// Argument order and flag names are part of the generator's interface:
//
//	<exe-and-args...> <generator-script> --platform <platform> --schemaPath <path>
//	    --outputDir <path> --libraryName <name> --javaPackageName <name>
func GeneratorArgs(cfg TaskConfig, params ResolvedParameters) ([]string, error) {
	if len(cfg.ExecutableAndArgs) == 0 || strings.TrimSpace(cfg.ExecutableAndArgs[0]) == "" {
		return nil, configErrorf("executable_and_args", "must name the interpreter")
	}
	script, err := cfg.GeneratorScript()
	if err != nil {
		return nil, err
	}
	schema, err := cfg.SchemaFile()
	if err != nil {
		return nil, err
	}
	outputDir, err := cfg.OutputDir()
	if err != nil {
		return nil, err
	}

	args := make([]string, 0, len(cfg.ExecutableAndArgs)+11)
	args = append(args, cfg.ExecutableAndArgs...)
	args = append(args,
		script,
		"--platform", TargetPlatform,
		"--schemaPath", schema,
		"--outputDir", outputDir,
		"--libraryName", params.LibraryName,
		"--javaPackageName", params.JavaPackageName,
	)
	return args, nil
}

// BuildCommandLine builds the platform-specific generator invocation. It is a
// pure function of its arguments.
func BuildCommandLine(cfg TaskConfig, params ResolvedParameters, platform Platform) (CommandLine, error) {
	if platform == nil {
		platform = HostPlatform()
	}
	args, err := GeneratorArgs(cfg, params)
	if err != nil {
		return CommandLine{}, err
	}
	return CommandLine{
		Args:     platform.Invocation(args),
		Platform: platform.Name(),
		render:   platform.Render(args),
	}, nil
}
