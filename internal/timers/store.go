// Package timers persists the dashboard's countdown timers in SQLite. A
// timer is a label and a duration; starting it stamps started_at, stopping
// clears it. Remaining time is the dashboard's arithmetic, not ours.
package timers

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrTimerNotFound is returned for operations on an unknown timer id.
var ErrTimerNotFound = errors.New("timer not found")

// Timer is one countdown timer.
type Timer struct {
	ID              string     `json:"id"`
	Label           string     `json:"label"`
	DurationSeconds int64      `json:"duration_seconds"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	Running         bool       `json:"running"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Store wraps the SQLite connection.
type Store struct {
	conn *sql.DB
}

// Open opens (or creates) the database and runs migrations.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open timers database: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate timers database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS timers (
		id TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		duration_seconds INTEGER NOT NULL,
		started_at INTEGER,
		created_at INTEGER NOT NULL
	);
	`
	if _, err := s.conn.Exec(query); err != nil {
		return fmt.Errorf("create timers table: %w", err)
	}
	return nil
}

// List returns all timers in creation order.
func (s *Store) List() ([]Timer, error) {
	rows, err := s.conn.Query(`SELECT id, label, duration_seconds, started_at, created_at FROM timers ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var timers []Timer
	for rows.Next() {
		t, err := scanTimer(rows)
		if err != nil {
			return nil, err
		}
		timers = append(timers, t)
	}
	return timers, rows.Err()
}

// Add inserts a new stopped timer and returns it.
func (s *Store) Add(label string, durationSeconds int64) (Timer, error) {
	t := Timer{
		ID:              uuid.NewString(),
		Label:           label,
		DurationSeconds: durationSeconds,
		CreatedAt:       time.Now().UTC(),
	}
	_, err := s.conn.Exec(
		`INSERT INTO timers (id, label, duration_seconds, started_at, created_at) VALUES (?, ?, ?, NULL, ?)`,
		t.ID, t.Label, t.DurationSeconds, t.CreatedAt.Unix(),
	)
	if err != nil {
		return Timer{}, err
	}
	return t, nil
}

// Start stamps the timer's start time. Starting a running timer restarts it.
func (s *Store) Start(id string) (Timer, error) {
	return s.setStarted(id, time.Now().UTC())
}

// Stop clears the timer's start time.
func (s *Store) Stop(id string) (Timer, error) {
	res, err := s.conn.Exec(`UPDATE timers SET started_at = NULL WHERE id = ?`, id)
	if err != nil {
		return Timer{}, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return Timer{}, err
	} else if n == 0 {
		return Timer{}, ErrTimerNotFound
	}
	return s.get(id)
}

// Delete removes a timer.
func (s *Store) Delete(id string) error {
	res, err := s.conn.Exec(`DELETE FROM timers WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrTimerNotFound
	}
	return nil
}

func (s *Store) setStarted(id string, at time.Time) (Timer, error) {
	res, err := s.conn.Exec(`UPDATE timers SET started_at = ? WHERE id = ?`, at.Unix(), id)
	if err != nil {
		return Timer{}, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return Timer{}, err
	} else if n == 0 {
		return Timer{}, ErrTimerNotFound
	}
	return s.get(id)
}

func (s *Store) get(id string) (Timer, error) {
	row := s.conn.QueryRow(`SELECT id, label, duration_seconds, started_at, created_at FROM timers WHERE id = ?`, id)
	t, err := scanTimer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Timer{}, ErrTimerNotFound
	}
	return t, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTimer(row rowScanner) (Timer, error) {
	var t Timer
	var started sql.NullInt64
	var created int64
	if err := row.Scan(&t.ID, &t.Label, &t.DurationSeconds, &started, &created); err != nil {
		return Timer{}, err
	}
	t.CreatedAt = time.Unix(created, 0).UTC()
	if started.Valid {
		at := time.Unix(started.Int64, 0).UTC()
		t.StartedAt = &at
		t.Running = true
	}
	return t, nil
}
