package core

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
)

// Task is the contract a task honours with the orchestrator.
type Task interface {
	// Name identifies the task's state record.
	Name() string

	// Declare reports inputs and outputs. It must not have side effects.
	Declare(d Declarer) error

	// Execute performs the task and blocks until it finishes.
	Execute(ctx context.Context) error
}

// Outcome is how the runner handled a task.
type Outcome string

const (
	OutcomeExecuted Outcome = "EXECUTED"
	OutcomeUpToDate Outcome = "UP-TO-DATE"
	OutcomeFailed   Outcome = "FAILED"
)

// RunResult describes one Run call.
type RunResult struct {
	Task        string
	Outcome     Outcome
	Fingerprint Fingerprint

	// Reason explains why the task executed.
	Reason string
}

// Runner decides whether a task is stale and executes it when it is.
//
// The execution flow:
//  1. Collect declarations and compute the fingerprint
//  2. Compare with the stored record and the current output digest
//  3. If both match: UP-TO-DATE, the task does not run
//  4. Otherwise invalidate the record, execute, and record only on success
type Runner struct {
	Store         StateStore
	Fingerprinter *Fingerprinter
	Logger        logr.Logger

	// Force executes the task even when it is up to date.
	Force bool
}

// NewRunner creates a Runner backed by store.
func NewRunner(store StateStore, logger logr.Logger) *Runner {
	return &Runner{
		Store:         store,
		Fingerprinter: NewFingerprinter(),
		Logger:        logger,
	}
}

// Run executes task unless its last successful result is still valid.
//
// The returned RunResult is non-nil whenever declarations could be collected,
// including when the task itself failed.
func (r *Runner) Run(ctx context.Context, task Task) (*RunResult, error) {
	if task == nil {
		return nil, fmt.Errorf("task is nil")
	}
	if r.Store == nil {
		return nil, fmt.Errorf("runner has no state store")
	}
	name := task.Name()
	log := r.Logger.WithValues("task", name)

	decls := NewDeclarations()
	if err := task.Declare(decls); err != nil {
		return nil, fmt.Errorf("declaring inputs and outputs of %q: %w", name, err)
	}
	fp, err := r.Fingerprinter.Compute(decls)
	if err != nil {
		return nil, fmt.Errorf("fingerprinting %q: %w", name, err)
	}
	res := &RunResult{Task: name, Fingerprint: fp}

	reason, err := r.staleReason(name, fp, decls)
	if err != nil {
		return nil, err
	}
	if reason == "" {
		res.Outcome = OutcomeUpToDate
		log.Info("task is up to date", "fingerprint", fp)
		return res, nil
	}
	res.Reason = reason
	log.V(1).Info("task is stale", "reason", reason)

	// Drop the old record first so an interrupted or failed run is never
	// mistaken for a valid one.
	if err := r.Store.Invalidate(name); err != nil {
		return nil, err
	}

	if err := task.Execute(ctx); err != nil {
		res.Outcome = OutcomeFailed
		return res, err
	}

	digest, err := OutputDigest(decls.OutputPaths())
	if err != nil {
		return nil, fmt.Errorf("digesting outputs of %q: %w", name, err)
	}
	if err := r.Store.Put(&Record{Task: name, Fingerprint: fp, OutputDigest: digest}); err != nil {
		return nil, err
	}
	res.Outcome = OutcomeExecuted
	return res, nil
}

// staleReason returns "" when the stored record is still valid.
func (r *Runner) staleReason(name string, fp Fingerprint, decls *Declarations) (string, error) {
	if r.Force {
		return "rerun forced", nil
	}
	rec, err := r.Store.Get(name)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "no previous successful run", nil
	}
	if rec.Fingerprint != fp {
		return "inputs changed", nil
	}
	digest, err := OutputDigest(decls.OutputPaths())
	if err != nil {
		return "", fmt.Errorf("digesting outputs of %q: %w", name, err)
	}
	if digest != rec.OutputDigest {
		return "outputs changed", nil
	}
	return "", nil
}
