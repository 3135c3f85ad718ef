package programs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/google/renameio/v2"
)

// Entry is one planned recording in the programme queue.
type Entry struct {
	Subscription string   `json:"abonnement,omitempty"`
	Start        StampUTC `json:"date_debut"`
	End          StampUTC `json:"date_fin"`
	Channel      string   `json:"chaine"`
	OutputName   string   `json:"nom_fichier"`
}

// document is the on-disk shape of the queue file.
type document struct {
	Programmes []Entry `json:"programmes"`
}

// StampUTC is a timestamp that tolerates the zone-less ISO strings legacy
// queue files contain while always writing RFC 3339.
type StampUTC struct {
	time.Time
}

func (s StampUTC) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.UTC().Format(time.RFC3339))
}

func (s *StampUTC) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := parseStamp(raw)
	if err != nil {
		return err
	}
	s.Time = parsed
	return nil
}

func parseStamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", raw, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04:05", raw, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", raw)
}

// Key returns the dedup identity of the entry: no two entries sharing this
// tuple may be launched twice in one process lifetime.
func (e Entry) Key() string {
	return e.Channel + "|" + e.Start.UTC().Format(time.RFC3339) + "|" + e.End.UTC().Format(time.RFC3339)
}

// Validate checks invariants that must hold at creation time.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.Channel) == "" {
		return errors.New("channel is required")
	}
	if strings.TrimSpace(e.OutputName) == "" {
		return errors.New("output file name is required")
	}
	if e.Start.IsZero() || e.End.IsZero() {
		return errors.New("start and end times are required")
	}
	if !e.End.After(e.Start.Time) {
		return errors.New("end time must be after start time")
	}
	return nil
}

// Expired reports whether the entry's window has fully passed.
func (e Entry) Expired(now time.Time) bool {
	return !e.End.After(now)
}

// Due reports whether the entry should be recording at the given instant.
func (e Entry) Due(now time.Time) bool {
	return !e.Start.After(now) && e.End.After(now)
}

// Store owns the durable programme queue file. The scheduler loop is the only
// writer; other processes appending entries are tolerated because each poll
// re-reads the whole document.
type Store struct {
	path string
}

// NewStore returns a store backed by the JSON document at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the location of the queue file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the full programme list. A missing file yields an empty list and
// no error; a corrupt or unreadable file yields an empty list and the error so
// the caller can report it without stopping the loop.
func (s *Store) Load() ([]Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read programme file: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse programme file: %w", err)
	}
	return doc.Programmes, nil
}

// Save atomically replaces the queue file with the given list. A concurrent
// reader sees either the previous document or the new one, never a torn write.
func (s *Store) Save(entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(document{Programmes: entries}, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal programme file: %w", err)
	}

	pending, err := renameio.NewPendingFile(s.path)
	if err != nil {
		return fmt.Errorf("stage programme file: %w", err)
	}
	defer pending.Cleanup() //nolint:errcheck

	if _, err := pending.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write programme file: %w", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replace programme file: %w", err)
	}
	return nil
}

// Append adds a validated entry to the stored list.
func (s *Store) Append(entry Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	entries, err := s.Load()
	if err != nil {
		return err
	}
	return s.Save(append(entries, entry))
}

// Remove deletes every entry matching the dedup key and reports how many were
// dropped.
func (s *Store) Remove(key string) (int, error) {
	entries, err := s.Load()
	if err != nil {
		return 0, err
	}
	kept := entries[:0]
	removed := 0
	for _, entry := range entries {
		if entry.Key() == key {
			removed++
			continue
		}
		kept = append(kept, entry)
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, s.Save(kept)
}
