// Package output implements the engine's Reporter contract: a colorized
// console reporter, JSON and JUnit XML report writers, a buffering Delayed
// wrapper flushed once per story run, a fan-out Multi reporter, and a
// Summary aggregator for exit codes and notifications.
package output
