// Package music persists the dashboard's playback queue in SQLite: an
// ordered track list plus a single player row (current index, playing
// flag). It only tracks queue state; actual audio output is the display
// node's concern.
package music

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrTrackNotFound is returned for operations on an unknown track id.
var ErrTrackNotFound = errors.New("track not found")

// ErrEmptyQueue is returned for playback operations on an empty queue.
var ErrEmptyQueue = errors.New("queue is empty")

// Track is one queued song.
type Track struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// QueueState is the full player view.
type QueueState struct {
	Queue        []Track `json:"queue"`
	CurrentIndex int     `json:"current_index"`
	IsPlaying    bool    `json:"is_playing"`
}

// Store wraps the SQLite connection.
type Store struct {
	conn *sql.DB
}

// Open opens (or creates) the database and runs migrations.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open music database: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate music database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS tracks (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		artist TEXT NOT NULL,
		position INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS player (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		current_index INTEGER NOT NULL DEFAULT 0,
		is_playing INTEGER NOT NULL DEFAULT 0
	);

	INSERT OR IGNORE INTO player (id, current_index, is_playing) VALUES (1, 0, 0);
	`
	if _, err := s.conn.Exec(query); err != nil {
		return fmt.Errorf("create music tables: %w", err)
	}
	return nil
}

// State returns the queue in order plus the player position.
func (s *Store) State() (QueueState, error) {
	rows, err := s.conn.Query(`SELECT id, title, artist FROM tracks ORDER BY position, id`)
	if err != nil {
		return QueueState{}, err
	}
	defer rows.Close()

	state := QueueState{Queue: []Track{}}
	for rows.Next() {
		var t Track
		if err := rows.Scan(&t.ID, &t.Title, &t.Artist); err != nil {
			return QueueState{}, err
		}
		state.Queue = append(state.Queue, t)
	}
	if err := rows.Err(); err != nil {
		return QueueState{}, err
	}

	var playing int
	err = s.conn.QueryRow(`SELECT current_index, is_playing FROM player WHERE id = 1`).
		Scan(&state.CurrentIndex, &playing)
	if err != nil {
		return QueueState{}, err
	}
	state.IsPlaying = playing != 0

	// Clamp a dangling index (tracks removed since it was set).
	if state.CurrentIndex >= len(state.Queue) {
		state.CurrentIndex = 0
	}
	return state, nil
}

// Add appends a track to the end of the queue.
func (s *Store) Add(title, artist string) (Track, error) {
	t := Track{ID: uuid.NewString(), Title: title, Artist: artist}
	_, err := s.conn.Exec(
		`INSERT INTO tracks (id, title, artist, position)
		 VALUES (?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM tracks))`,
		t.ID, t.Title, t.Artist,
	)
	if err != nil {
		return Track{}, err
	}
	return t, nil
}

// Remove deletes a track from the queue.
func (s *Store) Remove(id string) error {
	res, err := s.conn.Exec(`DELETE FROM tracks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrTrackNotFound
	}
	return nil
}

// Play sets the playing flag.
func (s *Store) Play() (QueueState, error) {
	return s.setPlaying(true)
}

// Pause clears the playing flag.
func (s *Store) Pause() (QueueState, error) {
	return s.setPlaying(false)
}

// PlayIndex jumps to a queue position and starts playing.
func (s *Store) PlayIndex(index int) (QueueState, error) {
	state, err := s.State()
	if err != nil {
		return QueueState{}, err
	}
	if index < 0 || index >= len(state.Queue) {
		return QueueState{}, fmt.Errorf("index %d out of range", index)
	}
	_, err = s.conn.Exec(`UPDATE player SET current_index = ?, is_playing = 1 WHERE id = 1`, index)
	if err != nil {
		return QueueState{}, err
	}
	return s.State()
}

// Next advances to the following track, wrapping at the end of the queue.
func (s *Store) Next() (QueueState, error) {
	return s.step(1)
}

// Previous steps back one track, wrapping to the end of the queue.
func (s *Store) Previous() (QueueState, error) {
	return s.step(-1)
}

func (s *Store) step(delta int) (QueueState, error) {
	state, err := s.State()
	if err != nil {
		return QueueState{}, err
	}
	if len(state.Queue) == 0 {
		return QueueState{}, ErrEmptyQueue
	}

	next := (state.CurrentIndex + delta + len(state.Queue)) % len(state.Queue)
	_, err = s.conn.Exec(`UPDATE player SET current_index = ? WHERE id = 1`, next)
	if err != nil {
		return QueueState{}, err
	}
	return s.State()
}

func (s *Store) setPlaying(playing bool) (QueueState, error) {
	val := 0
	if playing {
		val = 1
	}
	if _, err := s.conn.Exec(`UPDATE player SET is_playing = ? WHERE id = 1`, val); err != nil {
		return QueueState{}, err
	}
	return s.State()
}
