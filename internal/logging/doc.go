// Package logging assembles the structured slog loggers used across telerec.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes typed attribute helpers plus the canonical field keys
// so the supervisor, scheduler, and CLI tag log lines identically. A no-op
// logger is provided for tests and wiring code that cannot fail.
package logging
