package codegen

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// TargetPlatform is the value passed to the generator's --platform flag.
	TargetPlatform = "android"

	generatorScriptPath      = "scripts/generate-specs-cli.js"
	schemaCombinerScriptPath = "lib/cli/combine/combine-js-to-schema-cli.js"
	schemaFileName           = "schema.json"
	javaOutputDirName        = "java"
	jniOutputDirName         = "jni"
)

// TaskConfig holds the task's explicit settings.
//
// It is populated before execution and must not be mutated while the task runs.
// Relative paths are resolved under ProjectDir; when ProjectDir is empty they are
// resolved against the process working directory.
type TaskConfig struct {
	// ProjectDir is the base for relative paths and the generator's working directory.
	ProjectDir string `mapstructure:"project_dir" yaml:"project_dir,omitempty"`

	// FrameworkDir is the framework package root holding the generator entry point.
	FrameworkDir string `mapstructure:"framework_dir" yaml:"framework_dir"`

	// CodegenDir is the code generator package root.
	CodegenDir string `mapstructure:"codegen_dir" yaml:"codegen_dir"`

	// GeneratedSrcDir is the output root. It also holds the schema artifact.
	GeneratedSrcDir string `mapstructure:"generated_src_dir" yaml:"generated_src_dir"`

	// ManifestFile is the project manifest that may declare a codegen block.
	ManifestFile string `mapstructure:"manifest_file" yaml:"manifest_file,omitempty"`

	// ExecutableAndArgs is the interpreter and its own arguments.
	ExecutableAndArgs []string `mapstructure:"executable_and_args" yaml:"executable_and_args"`

	// LibraryName is used when the manifest does not declare one.
	LibraryName string `mapstructure:"library_name" yaml:"library_name,omitempty"`

	// JavaPackageName is used when the manifest does not declare one.
	JavaPackageName string `mapstructure:"java_package_name" yaml:"java_package_name,omitempty"`

	// DeprecatedRoot is ignored. It is kept only so its use can be reported.
	DeprecatedRoot string `mapstructure:"root_dir" yaml:"root_dir,omitempty"`
}

// ManifestConfig is the codegen block declared in the project manifest.
// Empty fields are treated as unset.
type ManifestConfig struct {
	Name            string
	JavaPackageName string
}

// ResolvedParameters are the names the generator is invoked with.
type ResolvedParameters struct {
	LibraryName     string
	JavaPackageName string
}

// abs resolves p under ProjectDir and returns a clean absolute path.
func (c TaskConfig) abs(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", fmt.Errorf("path must not be empty")
	}
	clean := filepath.Clean(p)
	if filepath.IsAbs(clean) {
		return clean, nil
	}
	base := c.ProjectDir
	if base == "" {
		return filepath.Abs(clean)
	}
	if !filepath.IsAbs(base) {
		absBase, err := filepath.Abs(base)
		if err != nil {
			return "", err
		}
		base = absBase
	}
	return filepath.Clean(filepath.Join(base, clean)), nil
}

func (c TaskConfig) requireDir(field, dir string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", configErrorf(field, "is required")
	}
	p, err := c.abs(dir)
	if err != nil {
		return "", configErrorf(field, "%v", err)
	}
	return p, nil
}

// GeneratorScript returns the absolute path of the generator entry point.
func (c TaskConfig) GeneratorScript() (string, error) {
	dir, err := c.requireDir("framework_dir", c.FrameworkDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, filepath.FromSlash(generatorScriptPath)), nil
}

// SchemaCombinerScript returns the absolute path of the script that produced
// the schema artifact.
func (c TaskConfig) SchemaCombinerScript() (string, error) {
	dir, err := c.requireDir("codegen_dir", c.CodegenDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, filepath.FromSlash(schemaCombinerScriptPath)), nil
}

// OutputDir returns the absolute generated source root.
func (c TaskConfig) OutputDir() (string, error) {
	return c.requireDir("generated_src_dir", c.GeneratedSrcDir)
}

// SchemaFile returns the absolute path of the intermediate schema artifact.
func (c TaskConfig) SchemaFile() (string, error) {
	dir, err := c.OutputDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, schemaFileName), nil
}

// GeneratedJavaDir returns the output directory for high-level bindings.
func (c TaskConfig) GeneratedJavaDir() (string, error) {
	dir, err := c.OutputDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, javaOutputDirName), nil
}

// GeneratedJniDir returns the output directory for low-level interface glue.
func (c TaskConfig) GeneratedJniDir() (string, error) {
	dir, err := c.OutputDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, jniOutputDirName), nil
}

// ManifestPath returns the absolute manifest path, or "" when no manifest is
// configured.
func (c TaskConfig) ManifestPath() (string, error) {
	if strings.TrimSpace(c.ManifestFile) == "" {
		return "", nil
	}
	p, err := c.abs(c.ManifestFile)
	if err != nil {
		return "", configErrorf("manifest_file", "%v", err)
	}
	return p, nil
}
