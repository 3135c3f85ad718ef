package recorder

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"
)

func TestExitStatus(t *testing.T) {
	if got := exitStatus(nil); got != 0 {
		t.Fatalf("exitStatus(nil) = %d, want 0", got)
	}
	if got := exitStatus(errors.New("broken pipe")); got != -1 {
		t.Fatalf("exitStatus for a non-exit error = %d, want -1", got)
	}

	err := exec.Command("sh", "-c", "exit 3").Run()
	if err == nil {
		t.Fatal("expected a failing command")
	}
	if got := exitStatus(err); got != 3 {
		t.Fatalf("exitStatus = %d, want 3", got)
	}
}

func TestCaptureRunnerRejectsSubSecondDuration(t *testing.T) {
	runner := NewCaptureRunner("ffmpeg")
	_, err := runner.Start(context.Background(), AttemptSpec{
		URL:        "http://example.test/tf1.m3u8",
		OutputPath: "out.ts",
		Duration:   500 * time.Millisecond,
	})
	if err == nil {
		t.Fatal("expected an error for a sub-second duration")
	}
}

func TestNewCaptureRunnerDefaultsBinary(t *testing.T) {
	if got := NewCaptureRunner("  ").binary; got != "ffmpeg" {
		t.Fatalf("binary = %q, want ffmpeg", got)
	}
}
