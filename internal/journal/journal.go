package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"telerec/internal/recorder"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped on incompatible schema changes; an old database must
// be deleted by hand before the daemon will start again.
const schemaVersion = 1

// ErrSchemaMismatch indicates the history database was written by a different
// release.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Store keeps a durable history of recording sessions and their attempts in
// SQLite. It implements recorder.Journal.
type Store struct {
	db   *sql.DB
	path string
}

// Open connects to the history database at path, creating it and its schema on
// first use.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to rebuild)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// SessionStarted records a new session row.
func (s *Store) SessionStarted(ctx context.Context, sess *recorder.Session) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO sessions (id, subscription, channel, output_name, start_at, deadline, started_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sess.ID,
		sess.Subscription,
		sess.Channel,
		sess.OutputName,
		sess.Start.UTC().Format(time.RFC3339Nano),
		sess.Deadline.UTC().Format(time.RFC3339Nano),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// AttemptFinished appends one attempt outcome to the session's history.
func (s *Store) AttemptFinished(ctx context.Context, sess *recorder.Session, attempt int, elapsed time.Duration, exitOK bool, decision recorder.Decision) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO attempts (session_id, attempt, elapsed_ms, exit_ok, action, delay_ms, fast_failures, recorded_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID,
		attempt,
		elapsed.Milliseconds(),
		boolToInt(exitOK),
		decision.Action.String(),
		decision.Delay.Milliseconds(),
		decision.FastFailures,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

// SessionFinished stamps the terminal outcome on the session row.
func (s *Store) SessionFinished(ctx context.Context, sess *recorder.Session, outcome string) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE sessions SET outcome = ?, finished_at = ? WHERE id = ?`,
		outcome,
		time.Now().UTC().Format(time.RFC3339Nano),
		sess.ID,
	)
	if err != nil {
		return fmt.Errorf("finish session: %w", err)
	}
	return nil
}

// SessionRecord is one row of recording history.
type SessionRecord struct {
	ID           string
	Subscription string
	Channel      string
	OutputName   string
	Start        time.Time
	Deadline     time.Time
	StartedAt    time.Time
	Outcome      string
	FinishedAt   *time.Time
	Attempts     int
}

// Recent returns the most recently started sessions, newest first, with their
// attempt counts.
func (s *Store) Recent(ctx context.Context, limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT s.id, s.subscription, s.channel, s.output_name, s.start_at, s.deadline,
                s.started_at, s.outcome, s.finished_at,
                (SELECT COUNT(1) FROM attempts a WHERE a.session_id = s.id)
         FROM sessions s ORDER BY s.started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		var (
			rec         SessionRecord
			startRaw    string
			deadlineRaw string
			startedRaw  string
			outcome     sql.NullString
			finishedRaw sql.NullString
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.Subscription,
			&rec.Channel,
			&rec.OutputName,
			&startRaw,
			&deadlineRaw,
			&startedRaw,
			&outcome,
			&finishedRaw,
			&rec.Attempts,
		); err != nil {
			return nil, err
		}
		rec.Start = parseTimeString(startRaw)
		rec.Deadline = parseTimeString(deadlineRaw)
		rec.StartedAt = parseTimeString(startedRaw)
		rec.Outcome = outcome.String
		if finishedRaw.Valid {
			t := parseTimeString(finishedRaw.String)
			rec.FinishedAt = &t
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// AttemptRecord is one launch of the capture tool within a session.
type AttemptRecord struct {
	Attempt      int
	Elapsed      time.Duration
	ExitOK       bool
	Action       string
	Delay        time.Duration
	FastFailures int
	RecordedAt   time.Time
}

// Attempts lists a session's attempts in launch order.
func (s *Store) Attempts(ctx context.Context, sessionID string) ([]AttemptRecord, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT attempt, elapsed_ms, exit_ok, action, delay_ms, fast_failures, recorded_at
         FROM attempts WHERE session_id = ? ORDER BY attempt`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var records []AttemptRecord
	for rows.Next() {
		var (
			rec         AttemptRecord
			elapsedMs   int64
			exitOK      int
			delayMs     int64
			recordedRaw string
		)
		if err := rows.Scan(&rec.Attempt, &elapsedMs, &exitOK, &rec.Action, &delayMs, &rec.FastFailures, &recordedRaw); err != nil {
			return nil, err
		}
		rec.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		rec.ExitOK = exitOK != 0
		rec.Delay = time.Duration(delayMs) * time.Millisecond
		rec.RecordedAt = parseTimeString(recordedRaw)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
