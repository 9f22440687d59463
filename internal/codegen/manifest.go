package codegen

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/tidwall/gjson"
)

const (
	manifestBlockPath      = "codegenConfig"
	manifestNameKey        = "name"
	manifestJavaPackageKey = "android.javaPackageName"
)

// LoadManifest reads the codegen block from the manifest at path.
//
// It returns nil without error when path is empty, when the file does not exist,
// or when the manifest has no codegen block. A manifest that exists but cannot be
// parsed is a configuration error.
func LoadManifest(path string) (*ManifestConfig, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &ConfigError{Field: "manifest_file", Msg: fmt.Sprintf("%q unreadable", path), Cause: err}
	}
	return parseManifest(path, data)
}

func parseManifest(path string, data []byte) (*ManifestConfig, error) {
	if !gjson.ValidBytes(data) {
		return nil, configErrorf("manifest_file", "%q is not valid JSON", path)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, configErrorf("manifest_file", "%q must contain a JSON object", path)
	}

	block := root.Get(manifestBlockPath)
	if !block.Exists() || block.Type == gjson.Null {
		return nil, nil
	}
	if !block.IsObject() {
		return nil, configErrorf("manifest_file", "%q: %s must be an object", path, manifestBlockPath)
	}

	name, err := optionalString(block, manifestNameKey)
	if err != nil {
		return nil, configErrorf("manifest_file", "%q: %v", path, err)
	}
	pkg, err := optionalString(block, manifestJavaPackageKey)
	if err != nil {
		return nil, configErrorf("manifest_file", "%q: %v", path, err)
	}
	return &ManifestConfig{Name: name, JavaPackageName: pkg}, nil
}

// optionalString returns the string at key, "" when absent or null, and an error
// for any other JSON type.
func optionalString(obj gjson.Result, key string) (string, error) {
	v := obj.Get(key)
	switch {
	case !v.Exists(), v.Type == gjson.Null:
		return "", nil
	case v.Type == gjson.String:
		return v.String(), nil
	default:
		return "", fmt.Errorf("%s.%s must be a string, got %s", manifestBlockPath, key, v.Type)
	}
}
