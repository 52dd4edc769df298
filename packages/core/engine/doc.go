// Package engine is the story execution core. It walks a parsed story's
// structure, tracks success/failure state across steps, continues in
// report-but-skip mode after a failure, recursively resolves given stories,
// expands scenarios parameterised by examples tables, and reconciles the
// configured failure strategy with pending-step discovery.
//
// The engine is synchronous per story-execution call chain and introduces no
// internal concurrency. All per-run mutable state lives in the RunContext
// chain, so a single Runner can execute many independent stories
// concurrently from separate goroutines.
package engine
