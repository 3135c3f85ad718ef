package recorder

import (
	"context"
	"log/slog"
	"path/filepath"
	"syscall"
	"time"

	"telerec/internal/fileutil"
	"telerec/internal/logging"
)

// Resolver maps a (subscription, channel) pair to a stream URL.
type Resolver interface {
	Resolve(subscription, channel string) (string, error)
}

// SupervisorOptions wires the supervisor's collaborators. Registry and Retry
// are injected so the daemon shares one instance across sessions and tests
// supply isolated ones.
type SupervisorOptions struct {
	RecordingsDir string
	Policy        Policy
	Resolver      Resolver
	Runner        Runner
	Registry      *Registry
	Retry         *RetryState
	Journal       Journal
	Logger        *slog.Logger
}

// Supervisor owns the lifecycle of one recording session at a time per Run
// call: it launches the external capture tool, measures elapsed wall time
// itself, classifies every exit, and retries within the session's remaining
// budget.
type Supervisor struct {
	recordingsDir string
	policy        Policy
	resolver      Resolver
	runner        Runner
	registry      *Registry
	retry         *RetryState
	journal       Journal
	logger        *slog.Logger
}

// NewSupervisor constructs a supervisor. Missing optional collaborators fall
// back to isolated defaults.
func NewSupervisor(opts SupervisorOptions) *Supervisor {
	registry := opts.Registry
	if registry == nil {
		registry = NewRegistry()
	}
	retry := opts.Retry
	if retry == nil {
		retry = NewRetryState()
	}
	journal := opts.Journal
	if journal == nil {
		journal = nopJournal{}
	}
	return &Supervisor{
		recordingsDir: opts.RecordingsDir,
		policy:        opts.Policy,
		resolver:      opts.Resolver,
		runner:        opts.Runner,
		registry:      registry,
		retry:         retry,
		journal:       journal,
		logger:        logging.NewComponentLogger(opts.Logger, "supervisor"),
	}
}

// Run drives a session to its terminal state. It blocks for the life of the
// session and is meant to be launched on its own goroutine by the scheduler.
// The returned error classifies why a session ended early; a session that ran
// its course returns nil.
func (s *Supervisor) Run(ctx context.Context, sess *Session) error {
	logger := s.logger.With(
		logging.String(logging.FieldSessionID, sess.ID),
		logging.String(logging.FieldChannel, sess.Channel),
		logging.String(logging.FieldSubscription, sess.Subscription),
	)

	url, err := s.resolver.Resolve(sess.Subscription, sess.Channel)
	if err != nil {
		sess.setState(StateDone)
		logger.Error("channel is not configured; abandoning session", logging.Error(err))
		s.recordFinish(ctx, logger, sess, OutcomeNotConfigured)
		return Wrap(ErrConfiguration, "resolve channel", sess.Channel, err)
	}

	if err := fileutil.EnsureDir(s.recordingsDir); err != nil {
		sess.setState(StateDone)
		logger.Error("cannot create recordings directory", logging.Error(err))
		s.recordFinish(ctx, logger, sess, OutcomeLaunchFailed)
		return Wrap(ErrLaunch, "ensure recordings directory", s.recordingsDir, err)
	}

	if err := s.journal.SessionStarted(ctx, sess); err != nil {
		logger.Warn("journal rejected session start", logging.Error(err))
	}

	for {
		remaining := sess.Remaining(time.Now())
		// The give-up floor only gates retries; it is applied after an
		// attempt exits. A session launches as long as any time is left.
		if remaining <= 0 {
			logger.Info("session complete", logging.Duration(logging.FieldRemaining, remaining))
			sess.setState(StateDone)
			s.recordFinish(ctx, logger, sess, OutcomeCompleted)
			return nil
		}

		if s.registry.Closed() {
			sess.setState(StateDone)
			logger.Info("shutdown in progress; session not relaunched")
			s.recordFinish(ctx, logger, sess, OutcomeShutdown)
			return ctx.Err()
		}

		name := fileutil.UniqueName(s.recordingsDir, fileutil.SanitizeFileName(sess.OutputName))
		outputPath := filepath.Join(s.recordingsDir, name)

		attempt := sess.nextAttempt()
		sess.setState(StateAttempting)
		logger.Info("launching capture",
			logging.Int(logging.FieldAttempt, attempt),
			logging.Duration(logging.FieldRemaining, remaining),
			logging.String(logging.FieldOutput, outputPath),
		)

		handle, err := s.runner.Start(ctx, AttemptSpec{URL: url, OutputPath: outputPath, Duration: remaining})
		if err != nil {
			sess.setState(StateDone)
			logger.Error("capture tool could not be launched", logging.Error(err))
			s.recordFinish(ctx, logger, sess, OutcomeLaunchFailed)
			return Wrap(ErrLaunch, "start capture", sess.Channel, err)
		}

		if !s.registry.Register(sess.ID, handle) {
			// Shutdown began between launch and registration; do not leave
			// an untracked process behind.
			_ = handle.Signal(syscall.SIGINT)
			sess.setState(StateDone)
			logger.Info("shutdown in progress; capture stopped")
			s.recordFinish(ctx, logger, sess, OutcomeShutdown)
			return ctx.Err()
		}

		started := time.Now()
		waitErr := handle.Wait()
		s.registry.Unregister(sess.ID)
		elapsed := time.Since(started)
		exitOK := waitErr == nil

		if exitOK {
			logger.Info("capture exited cleanly",
				logging.Int(logging.FieldAttempt, attempt),
				logging.Duration(logging.FieldElapsed, elapsed),
			)
		} else {
			logger.Warn("capture exited with failure",
				logging.Int(logging.FieldAttempt, attempt),
				logging.Int(logging.FieldExitCode, exitStatus(waitErr)),
				logging.Duration(logging.FieldElapsed, elapsed),
				logging.Error(waitErr),
			)
		}

		fails := s.retry.Count(sess.Channel)
		decision := s.policy.Decide(sess.Remaining(time.Now()), elapsed, fails)
		s.retry.SetCount(sess.Channel, decision.FastFailures)
		if err := s.journal.AttemptFinished(ctx, sess, attempt, elapsed, exitOK, decision); err != nil {
			logger.Warn("journal rejected attempt record", logging.Error(err))
		}

		switch decision.Action {
		case GiveUp:
			logger.Info("recording finished for channel")
			sess.setState(StateDone)
			s.recordFinish(ctx, logger, sess, OutcomeCompleted)
			return nil

		case RetryNow:
			logger.Warn("capture ended prematurely after a stable run; relaunching",
				logging.Duration(logging.FieldElapsed, elapsed),
			)

		case RetryAfterDelay:
			logger.Warn("fast failure detected; backing off",
				logging.Duration(logging.FieldElapsed, elapsed),
				logging.Duration(logging.FieldDelay, decision.Delay),
				logging.Int("consecutive_failures", decision.FastFailures),
			)
			sess.setState(StateWaitingRetry)
			select {
			case <-ctx.Done():
				sess.setState(StateDone)
				s.recordFinish(ctx, logger, sess, OutcomeShutdown)
				return ctx.Err()
			case <-time.After(decision.Delay):
			}
		}
	}
}

func (s *Supervisor) recordFinish(ctx context.Context, logger *slog.Logger, sess *Session, outcome string) {
	if err := s.journal.SessionFinished(ctx, sess, outcome); err != nil {
		logger.Warn("journal rejected session finish", logging.Error(err))
	}
}
