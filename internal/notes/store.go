// Package notes persists the dashboard's quick notes in SQLite. Like the
// to-do list, it is a standalone store with no ties to the sensor
// aggregation engine.
package notes

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNoteNotFound is returned for operations on an unknown note id.
var ErrNoteNotFound = errors.New("note not found")

// Note is one saved note.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Store wraps the SQLite connection.
type Store struct {
	conn *sql.DB
}

// Open opens (or creates) the database and runs migrations.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open notes database: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate notes database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS notes (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	`
	if _, err := s.conn.Exec(query); err != nil {
		return fmt.Errorf("create notes table: %w", err)
	}
	return nil
}

// List returns all notes, newest first.
func (s *Store) List() ([]Note, error) {
	rows, err := s.conn.Query(`SELECT id, title, content, created_at FROM notes ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// Add inserts a new note and returns it.
func (s *Store) Add(title, content string) (Note, error) {
	n := Note{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.conn.Exec(
		`INSERT INTO notes (id, title, content, created_at) VALUES (?, ?, ?, ?)`,
		n.ID, n.Title, n.Content, n.CreatedAt.Unix(),
	)
	if err != nil {
		return Note{}, err
	}
	return n, nil
}

// Get returns one note by id.
func (s *Store) Get(id string) (Note, error) {
	row := s.conn.QueryRow(`SELECT id, title, content, created_at FROM notes WHERE id = ?`, id)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Note{}, ErrNoteNotFound
	}
	return n, err
}

// Delete removes a note.
func (s *Store) Delete(id string) error {
	res, err := s.conn.Exec(`DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrNoteNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (Note, error) {
	var n Note
	var created int64
	if err := row.Scan(&n.ID, &n.Title, &n.Content, &created); err != nil {
		return Note{}, err
	}
	n.CreatedAt = time.Unix(created, 0).UTC()
	return n, nil
}
