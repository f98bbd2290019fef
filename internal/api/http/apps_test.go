package httpapi

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/sharkmet/HomeHUB/internal/music"
	"github.com/sharkmet/HomeHUB/internal/notes"
	"github.com/sharkmet/HomeHUB/internal/timers"
)

func newNotesApp(t *testing.T) *fiber.App {
	t.Helper()

	store, err := notes.Open(filepath.Join(t.TempDir(), "notes.db"))
	if err != nil {
		t.Fatalf("open notes store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	app := fiber.New()
	RegisterNotesRoutes(app, store)
	return app
}

func newTimerApp(t *testing.T) *fiber.App {
	t.Helper()

	store, err := timers.Open(filepath.Join(t.TempDir(), "timers.db"))
	if err != nil {
		t.Fatalf("open timers store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	app := fiber.New()
	RegisterTimerRoutes(app, store)
	return app
}

func newMusicApp(t *testing.T) *fiber.App {
	t.Helper()

	store, err := music.Open(filepath.Join(t.TempDir(), "music.db"))
	if err != nil {
		t.Fatalf("open music store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	app := fiber.New()
	RegisterMusicRoutes(app, store)
	return app
}

func TestNotesCRUD(t *testing.T) {
	app := newNotesApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/notes/",
		`{"title": "groceries", "content": "milk, eggs"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status %d", resp.StatusCode)
	}
	var created notes.Note
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if created.ID == "" || created.Title != "groceries" {
		t.Fatalf("created note = %+v", created)
	}

	resp = doJSON(t, app, http.MethodGet, "/api/notes/"+created.ID, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status %d", resp.StatusCode)
	}
	var got notes.Note
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Content != "milk, eggs" {
		t.Fatalf("fetched note = %+v", got)
	}

	resp = doJSON(t, app, http.MethodGet, "/api/notes/", "")
	var list []notes.Note
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("list = %+v", list)
	}

	resp = doJSON(t, app, http.MethodDelete, "/api/notes/"+created.ID, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status %d", resp.StatusCode)
	}
	resp = doJSON(t, app, http.MethodGet, "/api/notes/"+created.ID, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete status %d, want 404", resp.StatusCode)
	}
}

func TestNoteCreateRequiresTitle(t *testing.T) {
	app := newNotesApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/notes/", `{"content": "orphan"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", resp.StatusCode)
	}
}

func TestTimerLifecycle(t *testing.T) {
	app := newTimerApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/timers/",
		`{"label": "tea", "duration_seconds": 180}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status %d", resp.StatusCode)
	}
	var created timers.Timer
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if created.Running {
		t.Fatal("new timer should be stopped")
	}

	resp = doJSON(t, app, http.MethodPost, "/api/timers/"+created.ID+"/start", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start status %d", resp.StatusCode)
	}
	var started timers.Timer
	if err := json.NewDecoder(resp.Body).Decode(&started); err != nil {
		t.Fatal(err)
	}
	if !started.Running || started.StartedAt == nil {
		t.Fatalf("timer not running: %+v", started)
	}

	resp = doJSON(t, app, http.MethodPost, "/api/timers/"+created.ID+"/stop", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stop status %d", resp.StatusCode)
	}

	resp = doJSON(t, app, http.MethodDelete, "/api/timers/"+created.ID, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status %d", resp.StatusCode)
	}
	resp = doJSON(t, app, http.MethodPost, "/api/timers/"+created.ID+"/start", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("start after delete status %d, want 404", resp.StatusCode)
	}
}

func TestTimerCreateRejectsZeroDuration(t *testing.T) {
	app := newTimerApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/timers/",
		`{"label": "bad", "duration_seconds": 0}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", resp.StatusCode)
	}
}

func TestMusicQueueFlow(t *testing.T) {
	app := newMusicApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/music/tracks",
		`{"title": "So What", "artist": "Miles Davis"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("queue status %d", resp.StatusCode)
	}
	doJSON(t, app, http.MethodPost, "/api/music/tracks",
		`{"title": "Blue in Green", "artist": "Miles Davis"}`)

	resp = doJSON(t, app, http.MethodPost, "/api/music/play", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("play status %d", resp.StatusCode)
	}
	var state music.QueueState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatal(err)
	}
	if !state.IsPlaying || len(state.Queue) != 2 {
		t.Fatalf("state after play = %+v", state)
	}

	resp = doJSON(t, app, http.MethodPost, "/api/music/next", "")
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatal(err)
	}
	if state.CurrentIndex != 1 {
		t.Fatalf("index after next = %d", state.CurrentIndex)
	}

	resp = doJSON(t, app, http.MethodPost, "/api/music/pause", "")
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatal(err)
	}
	if state.IsPlaying {
		t.Fatal("still playing after pause")
	}

	resp = doJSON(t, app, http.MethodDelete, "/api/music/tracks/"+state.Queue[0].ID, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("remove status %d", resp.StatusCode)
	}
}

func TestMusicNextOnEmptyQueue(t *testing.T) {
	app := newMusicApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/music/next", "")
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status %d, want 409", resp.StatusCode)
	}
}

func TestMusicPlayIndexValidation(t *testing.T) {
	app := newMusicApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/music/play/abc", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("non-numeric index status %d, want 400", resp.StatusCode)
	}
	resp = doJSON(t, app, http.MethodPost, "/api/music/play/3", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("out-of-range index status %d, want 400", resp.StatusCode)
	}
}
