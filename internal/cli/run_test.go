package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"codegenartifacts/internal/codegen"
	"codegenartifacts/internal/core"
)

func init() {
	color.NoColor = true
}

// generatorStub stands in for the code generator: it writes one file into each
// output directory named by --outputDir.
type generatorStub struct {
	exitCode int
	calls    int
	argv     []string
}

func (g *generatorStub) Run(_ context.Context, _ string, argv []string) (int, error) {
	g.calls++
	g.argv = append([]string(nil), argv...)
	if g.exitCode != 0 {
		return g.exitCode, nil
	}
	var outDir string
	for i, a := range argv {
		if a == "--outputDir" && i+1 < len(argv) {
			outDir = argv[i+1]
		}
	}
	for _, sub := range []string{"java", "jni"} {
		dir := filepath.Join(outDir, sub)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return -1, err
		}
		if err := os.WriteFile(filepath.Join(dir, "Generated.txt"), []byte(sub), 0o644); err != nil {
			return -1, err
		}
	}
	return 0, nil
}

type workspace struct {
	root string
	inv  Invocation
}

func newWorkspace(t *testing.T) workspace {
	t.Helper()
	root := t.TempDir()
	writeFile := func(rel, content string) {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	writeFile("node_modules/react-native/scripts/generate-specs-cli.js", "// generator")
	writeFile("node_modules/@react-native/codegen/lib/cli/combine/combine-js-to-schema-cli.js", "// combiner")
	writeFile("build/generated/source/codegen/schema.json", `{"modules": {}}`)
	writeFile("package.json", `{"codegenConfig": {"name": "ManifestLib", "android": {"javaPackageName": "com.manifest"}}}`)
	return workspace{
		root: root,
		inv: Invocation{
			WorkDir:  root,
			StateDir: filepath.Join(root, ".codegenartifacts", "state"),
			Task: codegen.TaskConfig{
				ProjectDir:        root,
				FrameworkDir:      filepath.Join(root, "node_modules", "react-native"),
				CodegenDir:        filepath.Join(root, "node_modules", "@react-native", "codegen"),
				GeneratedSrcDir:   filepath.Join(root, "build", "generated", "source", "codegen"),
				ManifestFile:      filepath.Join(root, "package.json"),
				ExecutableAndArgs: []string{"node"},
				LibraryName:       "MyLib",
				JavaPackageName:   "com.task",
			},
		},
	}
}

func testEnvironment(stub *generatorStub) (Environment, *bytes.Buffer) {
	var stdout bytes.Buffer
	return Environment{
		Stdout:   &stdout,
		Stderr:   &bytes.Buffer{},
		Logger:   logr.Discard(),
		Runner:   stub,
		Platform: codegen.PosixPlatform{},
	}, &stdout
}

func TestExecute_UpToDateOnSecondRun(t *testing.T) {
	ws := newWorkspace(t)
	stub := &generatorStub{}
	env, stdout := testEnvironment(stub)

	res, err := Execute(context.Background(), ws.inv, env)
	require.NoError(t, err)
	assert.Equal(t, ExitSuccess, res.ExitCode)
	assert.Equal(t, core.OutcomeExecuted, res.Run.Outcome)
	assert.Equal(t, 1, stub.calls)

	res, err = Execute(context.Background(), ws.inv, env)
	require.NoError(t, err)
	assert.Equal(t, core.OutcomeUpToDate, res.Run.Outcome)
	assert.Equal(t, 1, stub.calls)

	assert.Equal(t, "> Task :generateCodegenArtifacts DONE\n> Task :generateCodegenArtifacts UP-TO-DATE\n", stdout.String())
}

func TestExecute_StaleWhenInputsChange(t *testing.T) {
	cases := map[string]func(t *testing.T, ws *workspace){
		"schema edited": func(t *testing.T, ws *workspace) {
			p := filepath.Join(ws.inv.Task.GeneratedSrcDir, "schema.json")
			require.NoError(t, os.WriteFile(p, []byte(`{"modules": {"Foo": {}}}`), 0o644))
		},
		"manifest edited": func(t *testing.T, ws *workspace) {
			require.NoError(t, os.WriteFile(ws.inv.Task.ManifestFile, []byte(`{"codegenConfig": {"name": "Other"}}`), 0o644))
		},
		"library name changed": func(t *testing.T, ws *workspace) {
			ws.inv.Task.LibraryName = "OtherLib"
		},
		"output removed": func(t *testing.T, ws *workspace) {
			require.NoError(t, os.RemoveAll(filepath.Join(ws.inv.Task.GeneratedSrcDir, "jni")))
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			ws := newWorkspace(t)
			stub := &generatorStub{}
			env, _ := testEnvironment(stub)

			_, err := Execute(context.Background(), ws.inv, env)
			require.NoError(t, err)
			mutate(t, &ws)

			res, err := Execute(context.Background(), ws.inv, env)
			require.NoError(t, err)
			assert.Equal(t, core.OutcomeExecuted, res.Run.Outcome)
			assert.Equal(t, 2, stub.calls)
		})
	}
}

func TestExecute_ForceRerun(t *testing.T) {
	ws := newWorkspace(t)
	stub := &generatorStub{}
	env, _ := testEnvironment(stub)

	_, err := Execute(context.Background(), ws.inv, env)
	require.NoError(t, err)

	ws.inv.Force = true
	res, err := Execute(context.Background(), ws.inv, env)
	require.NoError(t, err)
	assert.Equal(t, core.OutcomeExecuted, res.Run.Outcome)
	assert.Equal(t, "rerun forced", res.Run.Reason)
	assert.Equal(t, 2, stub.calls)
}

func TestExecute_GeneratorFailure(t *testing.T) {
	ws := newWorkspace(t)
	stub := &generatorStub{exitCode: 1}
	env, stdout := testEnvironment(stub)

	res, err := Execute(context.Background(), ws.inv, env)
	require.ErrorIs(t, err, codegen.ErrGenerator)
	assert.Equal(t, ExitTaskFailure, res.ExitCode)
	assert.Equal(t, core.OutcomeFailed, res.Run.Outcome)
	assert.Contains(t, stdout.String(), "FAILED")

	// A failed run is never recorded, so the next run executes again.
	stub.exitCode = 0
	res, err = Execute(context.Background(), ws.inv, env)
	require.NoError(t, err)
	assert.Equal(t, core.OutcomeExecuted, res.Run.Outcome)
	assert.Equal(t, 2, stub.calls)
}

func TestExecute_UsesManifestNames(t *testing.T) {
	ws := newWorkspace(t)
	stub := &generatorStub{}
	env, _ := testEnvironment(stub)

	_, err := Execute(context.Background(), ws.inv, env)
	require.NoError(t, err)
	joined := strings.Join(stub.argv, " ")
	assert.Contains(t, joined, "--libraryName ManifestLib")
	assert.Contains(t, joined, "--javaPackageName com.manifest")
}

func TestDescribe(t *testing.T) {
	ws := newWorkspace(t)
	stub := &generatorStub{}
	env, _ := testEnvironment(stub)

	var out bytes.Buffer
	require.NoError(t, Describe(ws.inv, env, &out))
	assert.Equal(t, 0, stub.calls)

	var desc Description
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &desc))
	assert.Equal(t, "generateCodegenArtifacts", desc.Task)
	assert.Len(t, desc.Fingerprint, 64)
	assert.Equal(t, ws.inv.Task.ManifestFile, desc.Inputs.Files[codegen.InputManifest])
	assert.Equal(t, "MyLib", desc.Inputs.Values[codegen.InputLibraryName])
	assert.Equal(t, filepath.Join(ws.inv.Task.GeneratedSrcDir, "jni"), desc.Outputs[codegen.OutputGeneratedJniFiles])
	require.NotNil(t, desc.Resolved)
	assert.Equal(t, "ManifestLib", desc.Resolved.LibraryName)
	assert.Equal(t, "com.manifest", desc.Resolved.JavaPackageName)
	assert.Equal(t, "posix", desc.Resolved.Platform)
	assert.Equal(t, "node", desc.Resolved.Command[0])

	_, err := os.Stat(ws.inv.StateDir)
	assert.True(t, os.IsNotExist(err), "describe must not touch the state store")
}

func TestRootCommand_ExitCodes(t *testing.T) {
	paths := []string{
		"--framework-dir", "node_modules/react-native",
		"--codegen-dir", "node_modules/@react-native/codegen",
		"--generated-src-dir", "build/generated/source/codegen",
	}
	withManifest := append([]string{"--manifest-file", "package.json"}, paths...)
	cases := []struct {
		name string
		args []string
		exit int
		want int
	}{
		{"success", withManifest, 0, ExitSuccess},
		{"generator failure", withManifest, 2, ExitTaskFailure},
		{"unresolved names", paths, 0, ExitConfigError},
		{"unknown flag", []string{"--bogus"}, 0, ExitInvalidInvocation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ws := newWorkspace(t)
			var stdout, stderr bytes.Buffer
			cmd := NewRootCommand(Environment{
				Stdout:   &stdout,
				Stderr:   &stderr,
				Runner:   &generatorStub{exitCode: tc.exit},
				Platform: codegen.PosixPlatform{},
			})
			cmd.SetArgs(append([]string{"generate", "--workdir", ws.root}, tc.args...))
			err := cmd.ExecuteContext(context.Background())
			assert.Equal(t, tc.want, ExitCode(err), "err: %v\nstderr: %s", err, stderr.String())
		})
	}
}

func TestRootCommand_RelativeWorkDir(t *testing.T) {
	cmd := NewRootCommand(Environment{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}, Runner: &generatorStub{}})
	cmd.SetArgs([]string{"generate", "--workdir", "rel"})
	assert.Equal(t, ExitInvalidInvocation, ExitCode(cmd.ExecuteContext(context.Background())))
}

func TestRootCommand_Version(t *testing.T) {
	var stdout bytes.Buffer
	cmd := NewRootCommand(Environment{Stdout: &stdout, Stderr: &bytes.Buffer{}})
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, Version+"\n", stdout.String())
}
