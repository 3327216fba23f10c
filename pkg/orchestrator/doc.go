// Package orchestrator wires the declaration source -> schema -> form -> render
// tree -> renderer pipeline behind a single entry point, with dependency
// injection friendly defaults for callers that only want rendered output.
package orchestrator
