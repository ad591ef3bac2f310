// Package scheduler runs named tasks on independent fixed intervals.
//
// This package is internal to agentboard and replaces free-running page
// timers with an owned object: a [Scheduler] is started when the dashboard
// mounts and stopped when it is torn down, so no timer outlives its view.
//
// Every task runs once immediately on start, then on each tick of its own
// interval. Runs may overlap: a tick starts a new run even when the previous
// run of the same task has not finished. In-flight runs are never cancelled;
// [Scheduler.Stop] stops the timers without waiting for them, and
// [Scheduler.Wait] waits for them with a caller-chosen bound.
package scheduler
