package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"

	"telerec/internal/channels"
	"telerec/internal/config"
	"telerec/internal/journal"
	"telerec/internal/logging"
	"telerec/internal/programs"
	"telerec/internal/recorder"
	"telerec/internal/scheduler"
)

// Daemon wires the programme store, channel directory, scheduler, and capture
// supervisor together and enforces single-instance execution.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *programs.Store
	history  *journal.Store
	registry *recorder.Registry
	loop     *scheduler.Loop

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	loopErr chan error
}

// Status represents daemon runtime information.
type Status struct {
	Running        bool
	ActiveCaptures int
	QueuePath      string
	HistoryPath    string
	LockFilePath   string
}

// New constructs a daemon with initialized dependencies. It validates the
// channel directory and the recordings directory up front so misconfiguration
// surfaces at startup rather than at the first due programme.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("daemon requires a configuration")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	if err := unix.Access(cfg.Paths.RecordingsDir, unix.W_OK); err != nil {
		return nil, fmt.Errorf("recordings directory %s is not writable: %w", cfg.Paths.RecordingsDir, err)
	}

	directory, err := channels.LoadFile(cfg.Paths.ChannelsFile)
	if err != nil {
		return nil, fmt.Errorf("load channel directory: %w", err)
	}

	history, err := journal.Open(filepath.Join(cfg.Paths.LogDir, "history.db"))
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}

	store := programs.NewStore(cfg.ProgramsFile())
	registry := recorder.NewRegistry()

	supervisor := recorder.NewSupervisor(recorder.SupervisorOptions{
		RecordingsDir: cfg.Paths.RecordingsDir,
		Policy: recorder.PolicyFromSeconds(
			cfg.Capture.GiveUpFloorSeconds,
			cfg.Capture.StabilityThresholdSeconds,
			cfg.Capture.RetryDelaysSeconds,
		),
		Resolver: directory,
		Runner:   recorder.NewCaptureRunner(cfg.Capture.Binary),
		Registry: registry,
		Retry:    recorder.NewRetryState(),
		Journal:  history,
		Logger:   logger,
	})

	loop := scheduler.New(scheduler.Options{
		Store:               store,
		Launcher:            &sessionLauncher{supervisor: supervisor},
		PollInterval:        time.Duration(cfg.Scheduler.PollIntervalSeconds) * time.Second,
		DefaultSubscription: cfg.Scheduler.PrincipalSubscription,
		Logger:              logger,
	})

	lockPath := filepath.Join(cfg.Paths.LogDir, "telerecd.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    store,
		history:  history,
		registry: registry,
		loop:     loop,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// sessionLauncher bridges due programme entries into supervised sessions.
type sessionLauncher struct {
	supervisor *recorder.Supervisor
}

func (l *sessionLauncher) Launch(ctx context.Context, entry programs.Entry) {
	sess := recorder.NewSession(entry.Subscription, entry.Channel, entry.OutputName, entry.Start.Time, entry.End.Time)
	_ = l.supervisor.Run(ctx, sess)
}

// Start acquires the daemon lock and launches the scheduling loop.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another telerec daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	d.loopErr = make(chan error, 1)
	go func() {
		d.loopErr <- d.loop.Run(d.ctx)
	}()

	d.running.Store(true)
	d.logger.Info("daemon started",
		logging.String("lock", d.lockPath),
		logging.String("queue", d.store.Path()),
	)
	return nil
}

// stopGracePeriod bounds how long Stop waits for signaled capture processes
// to exit before abandoning them.
const stopGracePeriod = 10 * time.Second

// Stop halts scheduling, signals every live capture process, waits up to the
// grace period for the session goroutines to drain, and releases the lock.
// Calling it again is a no-op.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	<-d.loopErr
	d.registry.Close(syscall.SIGINT)
	if !awaitWithin(d.loop.Wait, stopGracePeriod) {
		d.logger.Warn("capture processes still running after the grace period; abandoning them",
			logging.Duration("grace_period", stopGracePeriod),
		)
	}

	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("daemon lock not released", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("daemon stopped")
}

// awaitWithin runs wait and reports whether it returned before the timeout.
// A timed-out wait leaks its goroutine, which is acceptable on the way out of
// the process.
func awaitWithin(wait func(), timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Close stops the daemon and releases its resources.
func (d *Daemon) Close() error {
	d.Stop()
	if d.history != nil {
		return d.history.Close()
	}
	return nil
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	return Status{
		Running:        d.running.Load(),
		ActiveCaptures: d.registry.Len(),
		QueuePath:      d.store.Path(),
		HistoryPath:    d.history.Path(),
		LockFilePath:   d.lockPath,
	}
}
