package recorder

import "time"

// Action is the policy verdict after an attempt exits.
type Action int

const (
	// GiveUp ends the session: it either ran its course or the residual
	// time is not worth another attempt.
	GiveUp Action = iota
	// RetryNow relaunches immediately with a fresh remaining-time budget.
	RetryNow
	// RetryAfterDelay relaunches after a backoff delay.
	RetryAfterDelay
)

func (a Action) String() string {
	switch a {
	case GiveUp:
		return "give_up"
	case RetryNow:
		return "retry_now"
	case RetryAfterDelay:
		return "retry_after_delay"
	default:
		return "unknown"
	}
}

// Decision carries the verdict plus the fast-failure counter value the channel
// should hold afterwards.
type Decision struct {
	Action       Action
	Delay        time.Duration
	FastFailures int
}

// Policy holds the retry parameters. All fields must be set; config supplies
// the defaults (30s floor, 10s stability, [0 2 5 10 30 60]s delays).
type Policy struct {
	// GiveUpFloor is the remaining-time budget below which a session is
	// considered complete rather than worth another attempt.
	GiveUpFloor time.Duration
	// StabilityThreshold separates fast failures from attempts that were
	// healthy for a while before dying.
	StabilityThreshold time.Duration
	// Delays is the backoff table indexed by consecutive fast failures,
	// clamped at the last entry.
	Delays []time.Duration
}

// Decide maps an attempt outcome to the next action. A long-lived attempt that
// still died is treated as a transient restart and retried immediately; a fast
// failure indicates a flapping upstream source and escalates the backoff.
func (p Policy) Decide(remaining, elapsed time.Duration, fastFailures int) Decision {
	if remaining <= p.GiveUpFloor {
		return Decision{Action: GiveUp, FastFailures: fastFailures}
	}

	if elapsed > p.StabilityThreshold {
		return Decision{Action: RetryNow, FastFailures: 0}
	}

	idx := fastFailures
	if max := len(p.Delays) - 1; idx > max {
		idx = max
	}
	if idx < 0 {
		idx = 0
	}
	var delay time.Duration
	if len(p.Delays) > 0 {
		delay = p.Delays[idx]
	}
	return Decision{Action: RetryAfterDelay, Delay: delay, FastFailures: fastFailures + 1}
}

// PolicyFromSeconds builds a Policy from whole-second config values.
func PolicyFromSeconds(giveUpFloor, stability int, delays []int) Policy {
	table := make([]time.Duration, 0, len(delays))
	for _, d := range delays {
		table = append(table, time.Duration(d)*time.Second)
	}
	return Policy{
		GiveUpFloor:        time.Duration(giveUpFloor) * time.Second,
		StabilityThreshold: time.Duration(stability) * time.Second,
		Delays:             table,
	}
}
