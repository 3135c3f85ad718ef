// Package scheduler turns the durable programme queue into running recording
// sessions. It is deliberately stateless across restarts: the queue file is
// the source of truth, and the in-memory launched set only guards against
// double launches within one process lifetime.
package scheduler
