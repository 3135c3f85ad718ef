package recorder

import (
	"testing"
	"time"
)

func defaultTestPolicy() Policy {
	return PolicyFromSeconds(30, 10, []int{0, 2, 5, 10, 30, 60})
}

func TestDecideStableRunResetsCounter(t *testing.T) {
	p := defaultTestPolicy()

	d := p.Decide(2*time.Hour, 15*time.Second, 2)
	if d.Action != RetryNow {
		t.Fatalf("action = %s, want retry_now", d.Action)
	}
	if d.FastFailures != 0 {
		t.Fatalf("fast failures = %d, want 0", d.FastFailures)
	}
}

func TestDecideFastFailureEscalates(t *testing.T) {
	p := defaultTestPolicy()

	d := p.Decide(2*time.Hour, 3*time.Second, 2)
	if d.Action != RetryAfterDelay {
		t.Fatalf("action = %s, want retry_after_delay", d.Action)
	}
	if d.Delay != 5*time.Second {
		t.Fatalf("delay = %s, want 5s", d.Delay)
	}
	if d.FastFailures != 3 {
		t.Fatalf("fast failures = %d, want 3", d.FastFailures)
	}
}

func TestDecideDelayClampsAtLastEntry(t *testing.T) {
	p := defaultTestPolicy()

	d := p.Decide(2*time.Hour, 3*time.Second, 99)
	if d.Action != RetryAfterDelay {
		t.Fatalf("action = %s, want retry_after_delay", d.Action)
	}
	if d.Delay != 60*time.Second {
		t.Fatalf("delay = %s, want 60s", d.Delay)
	}
	if d.FastFailures != 100 {
		t.Fatalf("fast failures = %d, want 100", d.FastFailures)
	}
}

func TestDecideBackoffTable(t *testing.T) {
	p := defaultTestPolicy()
	want := []time.Duration{0, 2 * time.Second, 5 * time.Second, 10 * time.Second, 30 * time.Second, 60 * time.Second}

	for fails, delay := range want {
		d := p.Decide(time.Hour, time.Second, fails)
		if d.Action != RetryAfterDelay {
			t.Fatalf("fails=%d: action = %s, want retry_after_delay", fails, d.Action)
		}
		if d.Delay != delay {
			t.Fatalf("fails=%d: delay = %s, want %s", fails, d.Delay, delay)
		}
		if d.FastFailures != fails+1 {
			t.Fatalf("fails=%d: fast failures = %d, want %d", fails, d.FastFailures, fails+1)
		}
	}
}

func TestDecideGiveUpAtFloor(t *testing.T) {
	p := defaultTestPolicy()

	for _, remaining := range []time.Duration{30 * time.Second, 29 * time.Second, 0, -time.Minute} {
		d := p.Decide(remaining, time.Hour, 4)
		if d.Action != GiveUp {
			t.Fatalf("remaining=%s: action = %s, want give_up", remaining, d.Action)
		}
		if d.FastFailures != 4 {
			t.Fatalf("remaining=%s: fast failures = %d, want unchanged 4", remaining, d.FastFailures)
		}
	}

	d := p.Decide(31*time.Second, time.Hour, 0)
	if d.Action != RetryNow {
		t.Fatalf("remaining just above floor: action = %s, want retry_now", d.Action)
	}
}

func TestDecideEmptyDelayTable(t *testing.T) {
	p := Policy{GiveUpFloor: 30 * time.Second, StabilityThreshold: 10 * time.Second}

	d := p.Decide(time.Hour, time.Second, 5)
	if d.Action != RetryAfterDelay {
		t.Fatalf("action = %s, want retry_after_delay", d.Action)
	}
	if d.Delay != 0 {
		t.Fatalf("delay = %s, want 0", d.Delay)
	}
}

func TestRetryStateZeroClears(t *testing.T) {
	rs := NewRetryState()
	rs.SetCount("tf1", 3)
	if got := rs.Count("tf1"); got != 3 {
		t.Fatalf("count = %d, want 3", got)
	}
	rs.SetCount("tf1", 0)
	if got := rs.Count("tf1"); got != 0 {
		t.Fatalf("count after reset = %d, want 0", got)
	}
	if got := rs.Count("unknown"); got != 0 {
		t.Fatalf("count for unknown channel = %d, want 0", got)
	}
}
