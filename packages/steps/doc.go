// Package steps matches story step texts to implementations. A Registry
// holds candidate step definitions and lifecycle hooks; a Collector turns a
// scenario's step texts into executable steps for the engine, substituting
// <name> parameters from examples rows and emitting pending steps for texts
// with no matching definition.
package steps
