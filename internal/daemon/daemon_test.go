package daemon

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"telerec/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()

	channelsPath := filepath.Join(root, "chaines.json")
	doc := `[{"abonnement": "vip", "chaines": {"tf1": "http://stream.test/tf1"}}]`
	if err := os.WriteFile(channelsPath, []byte(doc), 0o644); err != nil {
		t.Fatalf("write channel directory: %v", err)
	}

	cfg := config.Default()
	cfg.Paths.RecordingsDir = filepath.Join(root, "recordings")
	cfg.Paths.ProgramsDir = filepath.Join(root, "programs")
	cfg.Paths.ChannelsFile = channelsPath
	cfg.Paths.LogDir = filepath.Join(root, "logs")
	return &cfg
}

func TestStartStopLifecycle(t *testing.T) {
	d, err := New(testConfig(t), nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer d.Close()

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !d.Status().Running {
		t.Fatal("status not running after start")
	}
	if err := d.Start(context.Background()); err == nil {
		t.Fatal("second start accepted while running")
	}

	d.Stop()
	if d.Status().Running {
		t.Fatal("status running after stop")
	}
	d.Stop()
}

func TestSecondInstanceRefused(t *testing.T) {
	cfg := testConfig(t)

	first, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("new first: %v", err)
	}
	defer first.Close()
	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("start first: %v", err)
	}

	second, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("new second: %v", err)
	}
	defer second.Close()
	if err := second.Start(context.Background()); err == nil {
		t.Fatal("second instance acquired the lock")
	}

	first.Stop()
	if err := second.Start(context.Background()); err != nil {
		t.Fatalf("start after lock release: %v", err)
	}
	second.Stop()
}

func TestAwaitWithinBoundsAStuckWait(t *testing.T) {
	if !awaitWithin(func() {}, time.Second) {
		t.Fatal("immediate return reported as timed out")
	}

	block := make(chan struct{})
	defer close(block)
	if awaitWithin(func() { <-block }, 20*time.Millisecond) {
		t.Fatal("stuck wait reported as finished")
	}
}

func TestNewRejectsMissingChannelDirectory(t *testing.T) {
	cfg := testConfig(t)
	cfg.Paths.ChannelsFile = filepath.Join(t.TempDir(), "absent.json")

	if _, err := New(cfg, nil); err == nil {
		t.Fatal("daemon constructed without a channel directory")
	}
}
