package codegen

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Declarer receives the task's inputs and outputs so the build orchestrator can
// decide whether a previous result is still valid.
type Declarer interface {
	// FileInput declares a file whose content invalidates the task when changed.
	FileInput(name, path string)

	// ValueInput declares a configuration value that invalidates the task when changed.
	ValueInput(name string, value any)

	// OutputDir declares a directory whose content is produced by the task.
	OutputDir(name, path string)
}

// Names under which inputs and outputs are declared.
const (
	InputManifest             = "manifest"
	InputGeneratorScript      = "generatorScript"
	InputSchemaCombinerScript = "schemaCombinerScript"
	InputSchema               = "schema"
	InputLibraryName          = "libraryName"
	InputJavaPackageName      = "javaPackageName"
	InputExecutableAndArgs    = "executableAndArgs"
	OutputGeneratedJavaFiles  = "generatedJavaFiles"
	OutputGeneratedJniFiles   = "generatedJniFiles"
)

// DeclareIO declares the inputs and outputs of a task configured with cfg.
//
// The schema artifact is declared even though an earlier step produces it, so a
// schema change makes this task stale. The manifest is declared only when it is
// configured and present on disk.
func DeclareIO(cfg TaskConfig, d Declarer) error {
	if d == nil {
		return fmt.Errorf("nil declarer")
	}

	manifest, err := cfg.ManifestPath()
	if err != nil {
		return err
	}
	if manifest != "" {
		present, err := fileExists(manifest)
		if err != nil {
			return &ConfigError{Field: "manifest_file", Msg: fmt.Sprintf("%q", manifest), Cause: err}
		}
		if present {
			d.FileInput(InputManifest, manifest)
		}
	}

	script, err := cfg.GeneratorScript()
	if err != nil {
		return err
	}
	combiner, err := cfg.SchemaCombinerScript()
	if err != nil {
		return err
	}
	schema, err := cfg.SchemaFile()
	if err != nil {
		return err
	}
	javaDir, err := cfg.GeneratedJavaDir()
	if err != nil {
		return err
	}
	jniDir, err := cfg.GeneratedJniDir()
	if err != nil {
		return err
	}

	d.FileInput(InputGeneratorScript, script)
	d.FileInput(InputSchemaCombinerScript, combiner)
	d.FileInput(InputSchema, schema)

	d.ValueInput(InputLibraryName, cfg.LibraryName)
	d.ValueInput(InputJavaPackageName, cfg.JavaPackageName)
	exeArgs := make([]string, len(cfg.ExecutableAndArgs))
	copy(exeArgs, cfg.ExecutableAndArgs)
	d.ValueInput(InputExecutableAndArgs, exeArgs)

	d.OutputDir(OutputGeneratedJavaFiles, javaDir)
	d.OutputDir(OutputGeneratedJniFiles, jniDir)
	return nil
}

// fileExists reports whether path exists. A directory is an error, matching
// LoadManifest, which cannot read it.
func fileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() {
		return false, fmt.Errorf("is a directory")
	}
	return true, nil
}
