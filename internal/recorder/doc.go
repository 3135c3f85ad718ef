// Package recorder supervises external capture processes for time-boxed
// recording sessions.
//
// A Session spans possibly many Attempts: the Supervisor launches the capture
// tool with the session's current remaining budget, observes the exit, and
// asks the Policy whether to relaunch immediately (a stable attempt that died
// is a transient restart), back off (a fast failure indicates a flapping
// source), or give up (the residual budget is below the floor). Fast-failure
// counters live in RetryState keyed by channel name only, so flapping
// escalates across sessions. Every live process is tracked in the Registry so
// shutdown can signal all of them exactly once.
package recorder
