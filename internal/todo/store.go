// Package todo is the dashboard's task list, persisted in SQLite. It is a
// standalone CRUD store and shares nothing with the sensor aggregation
// engine.
package todo

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrTaskNotFound is returned for operations on an unknown task id.
var ErrTaskNotFound = errors.New("task not found")

// Task is one to-do item.
type Task struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Done      bool      `json:"done"`
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
		return nil, fmt.Errorf("open todo database: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate todo database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		text TEXT NOT NULL,
		done INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);
	`
	if _, err := s.conn.Exec(query); err != nil {
		return fmt.Errorf("create tasks table: %w", err)
	}
	return nil
}

// List returns all tasks, newest first.
func (s *Store) List() ([]Task, error) {
	rows, err := s.conn.Query(`SELECT id, text, done, created_at FROM tasks ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var t Task
		var done int
		var created int64
		if err := rows.Scan(&t.ID, &t.Text, &done, &created); err != nil {
			return nil, err
		}
		t.Done = done != 0
		t.CreatedAt = time.Unix(created, 0).UTC()
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Add inserts a new task and returns it.
func (s *Store) Add(text string) (Task, error) {
	t := Task{
		ID:        uuid.NewString(),
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.conn.Exec(
		`INSERT INTO tasks (id, text, done, created_at) VALUES (?, ?, 0, ?)`,
		t.ID, t.Text, t.CreatedAt.Unix(),
	)
	if err != nil {
		return Task{}, err
	}
	return t, nil
}

// Toggle flips a task's done flag and returns the updated task.
func (s *Store) Toggle(id string) (Task, error) {
	res, err := s.conn.Exec(`UPDATE tasks SET done = 1 - done WHERE id = ?`, id)
	if err != nil {
		return Task{}, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return Task{}, err
	} else if n == 0 {
		return Task{}, ErrTaskNotFound
	}

	var t Task
	var done int
	var created int64
	err = s.conn.QueryRow(`SELECT id, text, done, created_at FROM tasks WHERE id = ?`, id).
		Scan(&t.ID, &t.Text, &done, &created)
	if err != nil {
		return Task{}, err
	}
	t.Done = done != 0
	t.CreatedAt = time.Unix(created, 0).UTC()
	return t, nil
}

// Delete removes a task.
func (s *Store) Delete(id string) error {
	res, err := s.conn.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrTaskNotFound
	}
	return nil
}
