package recorder

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// State tracks where a recording session sits in its lifecycle.
type State string

const (
	// StateWaiting means the session exists but no attempt has launched yet.
	StateWaiting State = "waiting"
	// StateAttempting means a capture process is live.
	StateAttempting State = "attempting"
	// StateWaitingRetry means the session sits out a backoff delay. Nothing
	// is signalable in this state; the prior process handle is gone.
	StateWaitingRetry State = "waiting_retry"
	// StateDone is terminal, reached through give-up, configuration error,
	// launch failure, or shutdown.
	StateDone State = "done"
)

// Session is the logical, possibly multi-attempt effort to capture one
// programme entry for its full requested duration. The remaining budget is
// always recomputed from the deadline, never decremented, so retries do not
// accumulate drift.
type Session struct {
	ID           string
	Subscription string
	Channel      string
	OutputName   string
	Start        time.Time
	Deadline     time.Time

	mu       sync.Mutex
	state    State
	attempts int
}

// NewSession creates a session in the waiting state with a fresh identifier.
func NewSession(subscription, channel, outputName string, start, deadline time.Time) *Session {
	return &Session{
		ID:           uuid.NewString(),
		Subscription: subscription,
		Channel:      channel,
		OutputName:   outputName,
		Start:        start,
		Deadline:     deadline,
		state:        StateWaiting,
	}
}

// Remaining returns the budget left before the deadline.
func (s *Session) Remaining(now time.Time) time.Duration {
	return s.Deadline.Sub(now)
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Attempts returns how many capture processes this session has launched.
func (s *Session) Attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Session) nextAttempt() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts++
	return s.attempts
}
