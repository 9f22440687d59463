package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codegenartifacts/internal/codegen"
)

// Process exit codes.
const (
	// ExitSuccess means the task ran or was up to date.
	ExitSuccess = 0
	// ExitTaskFailure means the code generator exited non-zero.
	ExitTaskFailure = 1
	// ExitInvalidInvocation means the flags or environment were unusable.
	ExitInvalidInvocation = 2
	// ExitConfigError means the task or config file settings were invalid.
	ExitConfigError = 3
	// ExitInternalError covers every other failure.
	ExitInternalError = 4
)

// EnvPrefix prefixes every environment variable the CLI reads.
const EnvPrefix = "CODEGEN"

// Configuration keys. Task keys match codegen.TaskConfig's mapstructure tags so
// they can be set the same way in a config file, the environment or flags.
const (
	keyConfig            = "config"
	keyWorkDir           = "workdir"
	keyStateDir          = "state_dir"
	keyRerun             = "rerun_tasks"
	keyVerbosity         = "verbosity"
	keyLogJSON           = "log_json"
	keyProjectDir        = "project_dir"
	keyFrameworkDir      = "framework_dir"
	keyCodegenDir        = "codegen_dir"
	keyGeneratedSrcDir   = "generated_src_dir"
	keyManifestFile      = "manifest_file"
	keyExecutableAndArgs = "executable_and_args"
	keyLibraryName       = "library_name"
	keyJavaPackageName   = "java_package_name"
	keyRootDir           = "root_dir"
)

const defaultStateDir = ".codegenartifacts/state"

// Invocation is the fully canonicalized description of a run.
//
// WorkDir is absolute and every relative path in Task has been resolved under
// it, so nothing downstream depends on the process working directory.
type Invocation struct {
	WorkDir   string
	StateDir  string
	Force     bool
	Verbosity int
	LogJSON   bool
	Task      codegen.TaskConfig
}

// InvocationError is a problem with how the command was invoked. ExitCode is
// the code the process exits with.
type InvocationError struct {
	ExitCode int
	Message  string
}

func (e *InvocationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func invalidInvocationf(format string, args ...any) error {
	return &InvocationError{ExitCode: ExitInvalidInvocation, Message: fmt.Sprintf(format, args...)}
}

func configInvocationf(format string, args ...any) error {
	return &InvocationError{ExitCode: ExitConfigError, Message: fmt.Sprintf(format, args...)}
}

// RegisterFlags defines the task flags on fs and binds them to v.
func RegisterFlags(fs *pflag.FlagSet, v *viper.Viper) error {
	fs.String("config", "", "Task configuration file (YAML or JSON).")
	fs.String("workdir", "", "Absolute working directory. Defaults to the current directory.")
	fs.String("state-dir", defaultStateDir, "Directory holding up-to-date records, relative to the work dir.")
	fs.Bool("rerun-tasks", false, "Run the generator even when the task is up to date.")
	fs.IntP("verbosity", "v", 0, "Log verbosity.")
	fs.Bool("log-json", false, "Emit logs as JSON lines.")
	fs.String("project-dir", "", "Project directory; base for relative paths and the generator's working directory.")
	fs.String("framework-dir", "", "Framework package root holding scripts/generate-specs-cli.js.")
	fs.String("codegen-dir", "", "Code generator package root.")
	fs.String("generated-src-dir", "", "Generated source root holding schema.json.")
	fs.String("manifest-file", "", "Project manifest that may declare a codegenConfig block.")
	fs.StringSlice("executable-and-args", []string{"node"}, "Interpreter and its arguments.")
	fs.String("library-name", "", "Library name used when the manifest does not declare one.")
	fs.String("java-package-name", "", "Java package name used when the manifest does not declare one.")
	fs.String("root-dir", "", "Deprecated and ignored.")
	_ = fs.MarkHidden("root-dir")

	for key, flag := range map[string]string{
		keyConfig:            "config",
		keyWorkDir:           "workdir",
		keyStateDir:          "state-dir",
		keyRerun:             "rerun-tasks",
		keyVerbosity:         "verbosity",
		keyLogJSON:           "log-json",
		keyProjectDir:        "project-dir",
		keyFrameworkDir:      "framework-dir",
		keyCodegenDir:        "codegen-dir",
		keyGeneratedSrcDir:   "generated-src-dir",
		keyManifestFile:      "manifest-file",
		keyExecutableAndArgs: "executable-and-args",
		keyLibraryName:       "library-name",
		keyJavaPackageName:   "java-package-name",
		keyRootDir:           "root-dir",
	} {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return fmt.Errorf("binding flag %q: %w", flag, err)
		}
	}
	return nil
}

// NewViper returns a viper instance reading CODEGEN_* environment variables.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// LoadInvocation merges defaults, the optional config file, the environment and
// flags (in increasing precedence) into a canonical Invocation.
func LoadInvocation(v *viper.Viper) (Invocation, error) {
	if path := v.GetString(keyConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Invocation{}, configInvocationf("reading config file %q: %v", path, err)
		}
	}

	workDir := strings.TrimSpace(v.GetString(keyWorkDir))
	if workDir == "" {
		return Invocation{}, invalidInvocationf("--workdir is required")
	}
	workDir = filepath.Clean(workDir)
	if !filepath.IsAbs(workDir) {
		return Invocation{}, invalidInvocationf("--workdir must be an absolute path (got %q)", workDir)
	}

	var task codegen.TaskConfig
	if err := v.Unmarshal(&task); err != nil {
		return Invocation{}, configInvocationf("decoding task configuration: %v", err)
	}

	stateDir, err := resolveUnderWorkDir(workDir, v.GetString(keyStateDir))
	if err != nil {
		return Invocation{}, err
	}

	verbosity := v.GetInt(keyVerbosity)
	if verbosity < 0 {
		return Invocation{}, invalidInvocationf("--verbosity must not be negative (got %d)", verbosity)
	}

	task, err = canonicalizeTask(workDir, task)
	if err != nil {
		return Invocation{}, err
	}

	return Invocation{
		WorkDir:   workDir,
		StateDir:  stateDir,
		Force:     v.GetBool(keyRerun),
		Verbosity: verbosity,
		LogJSON:   v.GetBool(keyLogJSON),
		Task:      task,
	}, nil
}

// canonicalizeTask resolves every configured path under workDir. Unset paths
// stay unset so the task can report them.
func canonicalizeTask(workDir string, task codegen.TaskConfig) (codegen.TaskConfig, error) {
	if strings.TrimSpace(task.ProjectDir) == "" {
		task.ProjectDir = workDir
	}
	for _, p := range []*string{
		&task.ProjectDir,
		&task.FrameworkDir,
		&task.CodegenDir,
		&task.GeneratedSrcDir,
		&task.ManifestFile,
	} {
		if strings.TrimSpace(*p) == "" {
			continue
		}
		resolved, err := resolveUnderWorkDir(workDir, *p)
		if err != nil {
			return codegen.TaskConfig{}, err
		}
		*p = resolved
	}
	return task, nil
}

func resolveUnderWorkDir(workDir, p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", invalidInvocationf("path must not be empty")
	}
	clean := filepath.Clean(p)
	if filepath.IsAbs(clean) {
		return clean, nil
	}
	// WorkDir is required to be absolute, so Join does not consult process CWD.
	return filepath.Clean(filepath.Join(workDir, clean)), nil
}

// ExitCode maps an error to a semantic exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var invErr *InvocationError
	if errors.As(err, &invErr) && invErr != nil {
		if invErr.ExitCode != 0 {
			return invErr.ExitCode
		}
		return ExitInvalidInvocation
	}
	switch {
	case errors.Is(err, codegen.ErrConfig):
		return ExitConfigError
	case errors.Is(err, codegen.ErrGenerator):
		return ExitTaskFailure
	default:
		return ExitInternalError
	}
}
