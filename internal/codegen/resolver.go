package codegen

import "strings"

// Resolve merges the manifest's codegen block over the task configuration.
//
// The manifest wins whenever it declares a value; TaskConfig is the fallback.
// Resolve performs no I/O. It fails when either name is still unset after the
// fallback.
func Resolve(cfg TaskConfig, manifest *ManifestConfig) (ResolvedParameters, error) {
	var fromManifest ManifestConfig
	if manifest != nil {
		fromManifest = *manifest
	}

	params := ResolvedParameters{
		LibraryName:     firstSet(fromManifest.Name, cfg.LibraryName),
		JavaPackageName: firstSet(fromManifest.JavaPackageName, cfg.JavaPackageName),
	}
	if params.LibraryName == "" {
		return ResolvedParameters{}, configErrorf("library_name", "is not set in the manifest codegen block or the task configuration")
	}
	if params.JavaPackageName == "" {
		return ResolvedParameters{}, configErrorf("java_package_name", "is not set in the manifest codegen block or the task configuration")
	}
	return params, nil
}

// ResolveParameters loads the manifest referenced by cfg, if any, and resolves
// the generator parameters from it.
func ResolveParameters(cfg TaskConfig) (ResolvedParameters, error) {
	path, err := cfg.ManifestPath()
	if err != nil {
		return ResolvedParameters{}, err
	}
	manifest, err := LoadManifest(path)
	if err != nil {
		return ResolvedParameters{}, err
	}
	return Resolve(cfg, manifest)
}

func firstSet(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
