package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestUniqueNameFreeNameUnchanged(t *testing.T) {
	dir := t.TempDir()
	if got := UniqueName(dir, "show.ts"); got != "show.ts" {
		t.Fatalf("got %q, want show.ts", got)
	}
}

func TestUniqueNameProbesInOrder(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "show.ts"))
	touch(t, filepath.Join(dir, "show-1.ts"))

	if got := UniqueName(dir, "show.ts"); got != "show-2.ts" {
		t.Fatalf("got %q, want show-2.ts", got)
	}
}

func TestUniqueNameWithoutExtension(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "dump"))

	if got := UniqueName(dir, "dump"); got != "dump-1" {
		t.Fatalf("got %q, want dump-1", got)
	}
}

func TestSanitizeFileName(t *testing.T) {
	if got := SanitizeFileName(`a/b:c*d?.ts`); got != "a-b-c-d.ts" {
		t.Fatalf("got %q", got)
	}
	if got := SanitizeFileName("  "); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestSanitizeGroupName(t *testing.T) {
	cases := map[string]string{
		"|FR| Cinéma & Séries": "FR_Cin_ma_S_ries",
		"Sports":               "Sports",
		"***":                  "",
	}
	for in, want := range cases {
		if got := SanitizeGroupName(in); got != want {
			t.Fatalf("SanitizeGroupName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := EnsureDir(dir); err != nil {
		t.Fatal(err)
	}
	// Idempotent.
	if err := EnsureDir(dir); err != nil {
		t.Fatal(err)
	}
	if err := EnsureDir(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
