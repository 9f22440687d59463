package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"
)

// Record is what the orchestrator remembers about a task's last successful run.
type Record struct {
	// Task is the task name the record belongs to.
	Task string `json:"task"`

	// Fingerprint covers the declared inputs and outputs at execution time.
	Fingerprint Fingerprint `json:"fingerprint"`

	// OutputDigest covers the content of the declared outputs after the run.
	OutputDigest string `json:"output_digest"`
}

// StateStore persists records between orchestrator runs.
type StateStore interface {
	// Get returns the record for task, or nil if none exists.
	Get(task string) (*Record, error)

	// Put stores a record, replacing any previous one.
	Put(rec *Record) error

	// Invalidate removes the record for task. Removing a missing record is not an error.
	Invalidate(task string) error
}

var taskNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

func validTaskName(task string) error {
	if !taskNamePattern.MatchString(task) {
		return fmt.Errorf("invalid task name %q", task)
	}
	return nil
}

// FileStore implements StateStore using one JSON file per task.
//
// Structure:
//
//	{Dir}/
//	  {task}.json
type FileStore struct {
	Dir string
}

// NewFileStore creates a filesystem-backed store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

func (s *FileStore) path(task string) string {
	return filepath.Join(s.Dir, task+".json")
}

// Get returns the stored record. A corrupt record reads as missing, which
// only costs a rerun.
func (s *FileStore) Get(task string) (*Record, error) {
	if err := validTaskName(task); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(task))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading state record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, nil
	}
	if rec.Task != task {
		return nil, nil
	}
	return &rec, nil
}

// Put writes the record atomically.
func (s *FileStore) Put(rec *Record) error {
	if rec == nil {
		return fmt.Errorf("state record is nil")
	}
	if err := validTaskName(rec.Task); err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling state record: %w", err)
	}
	if err := writeFileAtomic(s.path(rec.Task), data, 0644); err != nil {
		return fmt.Errorf("writing state record: %w", err)
	}
	return nil
}

// Invalidate removes the record for task.
func (s *FileStore) Invalidate(task string) error {
	if err := validTaskName(task); err != nil {
		return err
	}
	if err := os.Remove(s.path(task)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing state record: %w", err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	tmp, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	_ = tmp.Sync() // best-effort durability
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// MemoryStore implements StateStore in memory.
// Useful for testing and short-lived processes.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (s *MemoryStore) Get(task string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[task]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *MemoryStore) Put(rec *Record) error {
	if rec == nil {
		return fmt.Errorf("state record is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.Task] = *rec
	return nil
}

func (s *MemoryStore) Invalidate(task string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, task)
	return nil
}
