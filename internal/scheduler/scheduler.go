package scheduler

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"telerec/internal/logging"
	"telerec/internal/programs"
)

// Launcher starts the recording session for a due programme entry. Launch is
// called on its own goroutine and may block for the life of the session.
type Launcher interface {
	Launch(ctx context.Context, entry programs.Entry)
}

// Options configures the scheduling loop.
type Options struct {
	Store        *programs.Store
	Launcher     Launcher
	PollInterval time.Duration
	// DefaultSubscription fills in entries that do not name one.
	DefaultSubscription string
	Logger              *slog.Logger
}

// Loop polls the programme queue, prunes entries whose window has passed, and
// launches each due entry exactly once per process lifetime. The queue file is
// re-read on every poll, so entries appended by another process are picked up
// without coordination.
type Loop struct {
	store               *programs.Store
	launcher            Launcher
	pollInterval        time.Duration
	defaultSubscription string
	logger              *slog.Logger

	mu       sync.Mutex
	launched map[string]struct{}

	wg sync.WaitGroup
}

// New creates a scheduling loop.
func New(opts Options) *Loop {
	interval := opts.PollInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Loop{
		store:               opts.Store,
		launcher:            opts.Launcher,
		pollInterval:        interval,
		defaultSubscription: opts.DefaultSubscription,
		logger:              logging.NewComponentLogger(opts.Logger, "scheduler"),
		launched:            make(map[string]struct{}),
	}
}

// Run polls until the context is canceled. The first poll happens immediately
// so programmes already in their window start without waiting an interval.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info("scheduler started",
		logging.Duration("poll_interval", l.pollInterval),
		logging.String("queue", l.store.Path()),
	)
	for {
		l.Tick(ctx, time.Now())
		select {
		case <-ctx.Done():
			l.logger.Info("scheduler stopping")
			return ctx.Err()
		case <-time.After(l.pollInterval):
		}
	}
}

// Wait blocks until every launched session goroutine has returned.
func (l *Loop) Wait() {
	l.wg.Wait()
}

// Tick performs one poll cycle: prune, launch, persist.
func (l *Loop) Tick(ctx context.Context, now time.Time) {
	entries, err := l.store.Load()
	if err != nil {
		l.logger.Error("programme queue unreadable; skipping cycle", logging.Error(err))
		return
	}

	kept := make([]programs.Entry, 0, len(entries))
	pruned := 0
	for _, entry := range entries {
		if entry.Expired(now) {
			l.logger.Info("removing finished programme",
				logging.String(logging.FieldChannel, entry.Channel),
				logging.String(logging.FieldOutput, entry.OutputName),
				logging.Time("end", entry.End.Time),
			)
			l.forget(entry.Key())
			pruned++
			continue
		}
		kept = append(kept, entry)

		if entry.Due(now) && l.markLaunched(entry.Key()) {
			launch := entry
			if strings.TrimSpace(launch.Subscription) == "" {
				launch.Subscription = l.defaultSubscription
			}
			l.logger.Info("programme due; starting session",
				logging.String(logging.FieldChannel, launch.Channel),
				logging.String(logging.FieldSubscription, launch.Subscription),
				logging.String(logging.FieldOutput, launch.OutputName),
				logging.Time("end", launch.End.Time),
			)
			l.wg.Add(1)
			go func() {
				defer l.wg.Done()
				l.launcher.Launch(ctx, launch)
			}()
		}
	}

	if pruned == 0 {
		return
	}
	if err := l.store.Save(kept); err != nil {
		l.logger.Error("programme queue not saved after pruning", logging.Error(err))
	}
}

// markLaunched records the key and reports whether this call claimed it.
func (l *Loop) markLaunched(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, seen := l.launched[key]; seen {
		return false
	}
	l.launched[key] = struct{}{}
	return true
}

func (l *Loop) forget(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.launched, key)
}
