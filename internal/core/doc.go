// Package core is the build-orchestrator side of the task contract.
//
// A task declares its file inputs, value inputs and output directories. The
// orchestrator fingerprints those declarations, compares them with the record
// left by the last successful run, and executes the task only when something
// changed.
//
// # Design Principles
//
//  1. The fingerprint depends only on declared inputs; undeclared state never
//     affects staleness.
//  2. Every component is sorted before hashing, so declaration order is irrelevant.
//  3. A record is written only after a successful run. A failed run leaves no
//     record, so its outputs are never treated as valid.
package core
