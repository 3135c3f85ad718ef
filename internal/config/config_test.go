package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Fatal("expected missing config file")
	}
	if cfg.Capture.Binary != "ffmpeg" {
		t.Fatalf("unexpected capture binary %q", cfg.Capture.Binary)
	}
	if cfg.Scheduler.PollIntervalSeconds != 30 {
		t.Fatalf("unexpected poll interval %d", cfg.Scheduler.PollIntervalSeconds)
	}
	if got := cfg.Capture.RetryDelaysSeconds; len(got) != 6 || got[5] != 60 {
		t.Fatalf("unexpected retry delays %v", got)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "telerec.toml")
	content := `
[paths]
recordings_dir = "` + dir + `/out"
programs_dir = "` + dir + `/programs"

[scheduler]
poll_interval_seconds = 10

[capture]
giveup_floor_seconds = 80
retry_delays_seconds = [1, 3]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %s, got %s (exists=%v)", path, resolved, exists)
	}
	if cfg.Scheduler.PollIntervalSeconds != 10 {
		t.Fatalf("unexpected poll interval %d", cfg.Scheduler.PollIntervalSeconds)
	}
	if cfg.Capture.GiveUpFloorSeconds != 80 {
		t.Fatalf("unexpected giveup floor %d", cfg.Capture.GiveUpFloorSeconds)
	}
	if len(cfg.Capture.RetryDelaysSeconds) != 2 {
		t.Fatalf("unexpected retry delays %v", cfg.Capture.RetryDelaysSeconds)
	}
	if cfg.ProgramsFile() != filepath.Join(dir, "programs", "programmes.json") {
		t.Fatalf("unexpected programs file %s", cfg.ProgramsFile())
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "telerec.toml")
	content := `
[scheduler]
poll_interval_seconds = 0
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, _, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "poll_interval_seconds") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestLoadRejectsUnknownLogFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "telerec.toml")
	if err := os.WriteFile(path, []byte("[logging]\nformat = \"xml\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected log format error")
	}
}

func TestExpandPathTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := ExpandPath("~/recordings")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(home, "recordings") {
		t.Fatalf("unexpected expansion %q", got)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[capture]") {
		t.Fatal("sample config missing capture section")
	}
}
