package music

import (
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "music.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddKeepsQueueOrder(t *testing.T) {
	s := openTestStore(t)

	s.Add("Track One", "Artist A")
	s.Add("Track Two", "Artist B")
	s.Add("Track Three", "Artist C")

	state, err := s.State()
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if len(state.Queue) != 3 {
		t.Fatalf("queue length = %d", len(state.Queue))
	}
	if state.Queue[0].Title != "Track One" || state.Queue[2].Title != "Track Three" {
		t.Fatalf("queue out of order: %+v", state.Queue)
	}
	if state.IsPlaying || state.CurrentIndex != 0 {
		t.Fatalf("fresh player state = %+v", state)
	}
}

func TestPlayPause(t *testing.T) {
	s := openTestStore(t)
	s.Add("Song", "Artist")

	state, err := s.Play()
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if !state.IsPlaying {
		t.Fatal("not playing after play")
	}

	state, err = s.Pause()
	if err != nil {
		t.Fatalf("pause: %v", err)
	}
	if state.IsPlaying {
		t.Fatal("still playing after pause")
	}
}

func TestNextPreviousWrap(t *testing.T) {
	s := openTestStore(t)
	s.Add("One", "A")
	s.Add("Two", "B")

	state, err := s.Next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if state.CurrentIndex != 1 {
		t.Fatalf("index = %d, want 1", state.CurrentIndex)
	}

	state, _ = s.Next()
	if state.CurrentIndex != 0 {
		t.Fatalf("next did not wrap: index = %d", state.CurrentIndex)
	}

	state, _ = s.Previous()
	if state.CurrentIndex != 1 {
		t.Fatalf("previous did not wrap: index = %d", state.CurrentIndex)
	}
}

func TestNextOnEmptyQueue(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Next(); !errors.Is(err, ErrEmptyQueue) {
		t.Fatalf("got %v, want ErrEmptyQueue", err)
	}
}

func TestPlayIndex(t *testing.T) {
	s := openTestStore(t)
	s.Add("One", "A")
	s.Add("Two", "B")

	state, err := s.PlayIndex(1)
	if err != nil {
		t.Fatalf("play index: %v", err)
	}
	if state.CurrentIndex != 1 || !state.IsPlaying {
		t.Fatalf("state = %+v", state)
	}

	if _, err := s.PlayIndex(5); err == nil {
		t.Fatal("out-of-range index accepted")
	}
}

func TestRemoveClampsIndex(t *testing.T) {
	s := openTestStore(t)
	one, _ := s.Add("One", "A")
	two, _ := s.Add("Two", "B")

	if _, err := s.PlayIndex(1); err != nil {
		t.Fatal(err)
	}
	if err := s.Remove(two.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	state, _ := s.State()
	if state.CurrentIndex != 0 {
		t.Fatalf("index not clamped: %d", state.CurrentIndex)
	}

	if err := s.Remove(one.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Remove(one.ID); !errors.Is(err, ErrTrackNotFound) {
		t.Fatalf("second remove: %v", err)
	}
}
