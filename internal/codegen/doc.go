// Package codegen implements the build task that turns a previously generated
// interface schema into platform-native bindings by invoking the external
// code generator.
//
// A single execution runs four steps strictly in order:
//
//  1. Deprecation check: warn (never fail) when the retired root setting is used.
//  2. Parameter resolution: merge the manifest's codegen block over TaskConfig.
//  3. Command line construction: build the generator argv for the host shell.
//  4. Process execution: run the generator and surface its exit status.
//
// The task does not decide whether it needs to run. It exposes its inputs and
// outputs through Declare so that the surrounding build orchestrator can make
// that decision.
package codegen
