package core

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"hash"
	"io/fs"
	"os"
)

// Fingerprint identifies the declared inputs and outputs of one task run.
//
// Any change to a declared file's content, a declared value, or the set of
// declared outputs produces a different Fingerprint.
type Fingerprint string

// String returns the hex form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }

// Fingerprinter computes fingerprints from declarations.
type Fingerprinter struct{}

// NewFingerprinter creates a new Fingerprinter.
func NewFingerprinter() *Fingerprinter {
	return &Fingerprinter{}
}

// fieldWriter writes length-prefixed fields so that adjacent fields cannot
// be confused with each other.
type fieldWriter struct {
	h hash.Hash
}

func (w fieldWriter) uint(n uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], n)
	w.h.Write(buf[:])
}

func (w fieldWriter) field(data []byte) {
	w.uint(uint64(len(data)))
	w.h.Write(data)
}

func (w fieldWriter) str(s string) { w.field([]byte(s)) }

// Compute hashes the declarations in a fixed order:
//  1. Values, sorted by name, JSON-encoded
//  2. File inputs, sorted by name: path, then content or an absent marker
//  3. Output directories, sorted by name
//
// A declared file that does not exist is hashed as absent rather than
// rejected; the task itself reports missing inputs.
func (f *Fingerprinter) Compute(d *Declarations) (Fingerprint, error) {
	if d == nil {
		return "", fmt.Errorf("nil declarations")
	}
	if err := d.Err(); err != nil {
		return "", err
	}

	w := fieldWriter{h: sha256.New()}

	names := sortedKeys(d.Values)
	w.uint(uint64(len(names)))
	for _, name := range names {
		encoded, err := json.Marshal(d.Values[name])
		if err != nil {
			return "", fmt.Errorf("encoding value input %q: %w", name, err)
		}
		w.str(name)
		w.field(encoded)
	}

	names = sortedKeys(d.Files)
	w.uint(uint64(len(names)))
	for _, name := range names {
		path := d.Files[name]
		w.str(name)
		w.str(path)
		content, err := os.ReadFile(path)
		switch {
		case err == nil:
			w.uint(1)
			w.field(content)
		case errors.Is(err, fs.ErrNotExist):
			w.uint(0)
		default:
			return "", fmt.Errorf("reading file input %q: %w", name, err)
		}
	}

	names = sortedKeys(d.Outputs)
	w.uint(uint64(len(names)))
	for _, name := range names {
		w.str(name)
		w.str(d.Outputs[name])
	}

	return Fingerprint(hex.EncodeToString(w.h.Sum(nil))), nil
}
