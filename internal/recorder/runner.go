package recorder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// AttemptSpec describes one external capture invocation.
type AttemptSpec struct {
	URL        string
	OutputPath string
	// Duration is the requested wall-clock run time, truncated to whole
	// seconds on the command line.
	Duration time.Duration
}

// Handle exposes the two operations the supervisor and the shutdown
// coordinator need from a running attempt. The supervisor owns the handle for
// signaling purposes only; once shutdown begins the process is on its own.
type Handle interface {
	// Wait blocks until the process exits. A nil error means exit code 0.
	Wait() error
	// Signal forwards a termination signal to the process.
	Signal(sig os.Signal) error
}

// Runner launches capture attempts. The production implementation spawns
// ffmpeg; tests inject scripted fakes.
type Runner interface {
	Start(ctx context.Context, spec AttemptSpec) (Handle, error)
}

// CaptureRunner spawns the external capture tool in stream-copy mode.
type CaptureRunner struct {
	binary string
}

// NewCaptureRunner returns a runner for the given capture binary.
func NewCaptureRunner(binary string) *CaptureRunner {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &CaptureRunner{binary: binary}
}

// Start launches `<binary> -i URL -t <seconds> -c copy <output>` in its own
// session so the parent's exit does not take the capture down with it. The
// returned handle still allows explicit signaling through the registry.
func (r *CaptureRunner) Start(ctx context.Context, spec AttemptSpec) (Handle, error) {
	seconds := int(spec.Duration / time.Second)
	if seconds <= 0 {
		return nil, fmt.Errorf("requested duration %s is below one second", spec.Duration)
	}

	args := []string{"-i", spec.URL, "-t", strconv.Itoa(seconds), "-c", "copy", spec.OutputPath}
	cmd := exec.Command(r.binary, args...) //nolint:gosec
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", r.binary, err)
	}
	_ = ctx // the process is deliberately detached; shutdown signals it via the registry

	return &processHandle{cmd: cmd}, nil
}

// exitStatus extracts the process exit code from a Wait error. A nil error is
// code 0; errors that carry no exit code report -1.
func exitStatus(err error) int {
	if err == nil {
		return 0
	}
	var exit *exec.ExitError
	if errors.As(err, &exit) {
		return exit.ExitCode()
	}
	return -1
}

type processHandle struct {
	cmd *exec.Cmd
}

func (h *processHandle) Wait() error {
	return h.cmd.Wait()
}

// Signal targets the process group created by Setsid so the capture tool and
// any children it forked receive the signal together.
func (h *processHandle) Signal(sig os.Signal) error {
	if h.cmd.Process == nil {
		return nil
	}
	s, ok := sig.(syscall.Signal)
	if !ok {
		return h.cmd.Process.Signal(sig)
	}
	return unix.Kill(-h.cmd.Process.Pid, s)
}
