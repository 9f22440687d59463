package core

import (
	"fmt"
	"sort"
)

// Declarer receives a task's inputs and outputs.
type Declarer interface {
	FileInput(name, path string)
	ValueInput(name string, value any)
	OutputDir(name, path string)
}

// Declarations records what a task declared.
//
// Names must be unique across all three kinds; a duplicate is reported by Err
// rather than silently overwriting the first declaration.
type Declarations struct {
	Files   map[string]string
	Values  map[string]any
	Outputs map[string]string

	seen map[string]struct{}
	errs []error
}

// NewDeclarations returns an empty recorder.
func NewDeclarations() *Declarations {
	return &Declarations{
		Files:   make(map[string]string),
		Values:  make(map[string]any),
		Outputs: make(map[string]string),
		seen:    make(map[string]struct{}),
	}
}

func (d *Declarations) claim(name string) bool {
	if name == "" {
		d.errs = append(d.errs, fmt.Errorf("declaration with empty name"))
		return false
	}
	if _, dup := d.seen[name]; dup {
		d.errs = append(d.errs, fmt.Errorf("duplicate declaration %q", name))
		return false
	}
	d.seen[name] = struct{}{}
	return true
}

func (d *Declarations) FileInput(name, path string) {
	if d.claim(name) {
		d.Files[name] = path
	}
}

func (d *Declarations) ValueInput(name string, value any) {
	if d.claim(name) {
		d.Values[name] = value
	}
}

func (d *Declarations) OutputDir(name, path string) {
	if d.claim(name) {
		d.Outputs[name] = path
	}
}

// Err returns the first declaration error, if any.
func (d *Declarations) Err() error {
	if len(d.errs) == 0 {
		return nil
	}
	return d.errs[0]
}

// OutputPaths returns the declared output directories ordered by name.
func (d *Declarations) OutputPaths() []string {
	names := sortedKeys(d.Outputs)
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, d.Outputs[n])
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
