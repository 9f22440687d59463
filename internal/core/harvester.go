package core

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// OutputDigest hashes the content of the given output directories.
//
// Files are visited in sorted order and identified by their path relative to
// the declared directory. A directory that does not exist digests as absent, so
// deleting generated output makes the task stale.
func OutputDigest(dirs []string) (string, error) {
	w := fieldWriter{h: sha256.New()}
	w.uint(uint64(len(dirs)))
	for _, dir := range dirs {
		w.str(dir)
		files, err := collectFiles(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				w.uint(0)
				continue
			}
			return "", fmt.Errorf("collecting files from %q: %w", dir, err)
		}
		w.uint(1)
		w.uint(uint64(len(files)))
		for _, rel := range files {
			content, err := os.ReadFile(filepath.Join(dir, rel))
			if err != nil {
				return "", fmt.Errorf("reading output %q: %w", rel, err)
			}
			w.str(filepath.ToSlash(rel))
			w.field(content)
		}
	}
	return hex.EncodeToString(w.h.Sum(nil)), nil
}

// collectFiles returns all regular files below dir, relative to dir and sorted.
func collectFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("declared output %q is not a directory", dir)
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Do not rely on filesystem ordering.
	sort.Strings(files)
	return files, nil
}
