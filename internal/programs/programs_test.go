package programs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func stamp(t *testing.T, value string) StampUTC {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatal(err)
	}
	return StampUTC{parsed}
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "programmes.json"))
	entries, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty list, got %d entries", len(entries))
	}
}

func TestLoadCorruptFileReportsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "programmes.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	entries, err := store(path).Load()
	if err == nil {
		t.Fatal("expected parse error")
	}
	if len(entries) != 0 {
		t.Fatal("corrupt file must yield empty list")
	}
}

func store(path string) *Store { return NewStore(path) }

func TestSaveLoadRoundTrip(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "programmes.json"))
	entry := Entry{
		Subscription: "vip",
		Channel:      "TF1",
		Start:        stamp(t, "2026-08-30T20:00:00Z"),
		End:          stamp(t, "2026-08-30T21:30:00Z"),
		OutputName:   "film.ts",
	}
	if err := s.Save([]Entry{entry}); err != nil {
		t.Fatal(err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(loaded))
	}
	if loaded[0].Key() != entry.Key() {
		t.Fatalf("key mismatch: %s vs %s", loaded[0].Key(), entry.Key())
	}
	if loaded[0].Subscription != "vip" || loaded[0].OutputName != "film.ts" {
		t.Fatalf("unexpected entry %+v", loaded[0])
	}
}

func TestSaveWritesValidDocumentShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "programmes.json")
	s := NewStore(path)
	if err := s.Save(nil); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if _, ok := doc["programmes"]; !ok {
		t.Fatal("document missing programmes key")
	}
}

func TestLoadToleratesZonelessTimestamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "programmes.json")
	content := `{"programmes": [{"date_debut": "2026-08-30T20:00:00", "date_fin": "2026-08-30 21:00:00", "chaine": "M6", "nom_fichier": "doc.ts"}]}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := NewStore(path).Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if !entries[0].End.After(entries[0].Start.Time) {
		t.Fatal("timestamps parsed out of order")
	}
}

func TestEntryValidate(t *testing.T) {
	good := Entry{
		Channel:    "Arte",
		Start:      stamp(t, "2026-08-30T20:00:00Z"),
		End:        stamp(t, "2026-08-30T21:00:00Z"),
		OutputName: "arte.ts",
	}
	if err := good.Validate(); err != nil {
		t.Fatal(err)
	}

	inverted := good
	inverted.Start, inverted.End = inverted.End, inverted.Start
	if err := inverted.Validate(); err == nil {
		t.Fatal("expected error for end before start")
	}

	noChannel := good
	noChannel.Channel = " "
	if err := noChannel.Validate(); err == nil {
		t.Fatal("expected error for missing channel")
	}
}

func TestEntryDueAndExpired(t *testing.T) {
	now := time.Date(2026, 8, 30, 20, 30, 0, 0, time.UTC)
	entry := Entry{
		Channel:    "W9",
		Start:      StampUTC{now.Add(-30 * time.Minute)},
		End:        StampUTC{now.Add(30 * time.Minute)},
		OutputName: "x.ts",
	}
	if !entry.Due(now) {
		t.Fatal("entry should be due")
	}
	if entry.Expired(now) {
		t.Fatal("entry should not be expired")
	}
	if !entry.Expired(now.Add(time.Hour)) {
		t.Fatal("entry should be expired after end")
	}
	if entry.Due(now.Add(time.Hour)) {
		t.Fatal("expired entry must not be due")
	}
}

func TestAppendAndRemove(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "programmes.json"))
	entry := Entry{
		Channel:    "France 2",
		Start:      stamp(t, "2026-08-30T20:00:00Z"),
		End:        stamp(t, "2026-08-30T21:00:00Z"),
		OutputName: "jt.ts",
	}
	if err := s.Append(entry); err != nil {
		t.Fatal(err)
	}

	removed, err := s.Remove(entry.Key())
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removal, got %d", removed)
	}

	left, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 0 {
		t.Fatalf("expected empty store, got %d entries", len(left))
	}
}
