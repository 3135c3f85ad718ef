package recorder

import (
	"context"
	"time"
)

// Journal receives session and attempt lifecycle events for durable history.
// Implementations must tolerate concurrent sessions; errors are logged by the
// supervisor, never allowed to affect the recording itself.
type Journal interface {
	SessionStarted(ctx context.Context, sess *Session) error
	AttemptFinished(ctx context.Context, sess *Session, attempt int, elapsed time.Duration, exitOK bool, decision Decision) error
	SessionFinished(ctx context.Context, sess *Session, outcome string) error
}

// Session outcomes recorded in the journal.
const (
	OutcomeCompleted     = "completed"
	OutcomeNotConfigured = "not_configured"
	OutcomeLaunchFailed  = "launch_failed"
	OutcomeShutdown      = "shutdown"
)

type nopJournal struct{}

func (nopJournal) SessionStarted(context.Context, *Session) error { return nil }

func (nopJournal) AttemptFinished(context.Context, *Session, int, time.Duration, bool, Decision) error {
	return nil
}

func (nopJournal) SessionFinished(context.Context, *Session, string) error { return nil }
