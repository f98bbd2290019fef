package httpapi

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/sharkmet/HomeHUB/internal/todo"
)

func newTodoApp(t *testing.T) *fiber.App {
	t.Helper()

	store, err := todo.Open(filepath.Join(t.TempDir(), "todo.db"))
	if err != nil {
		t.Fatalf("open todo store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	app := fiber.New()
	RegisterTodoRoutes(app, store)
	return app
}

func TestTodoCRUD(t *testing.T) {
	app := newTodoApp(t)

	// Create.
	resp := doJSON(t, app, http.MethodPost, "/api/todos/", `{"text": "water the plants"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status %d", resp.StatusCode)
	}
	var created todo.Task
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if created.ID == "" || created.Done {
		t.Fatalf("created task = %+v", created)
	}

	// List.
	resp = doJSON(t, app, http.MethodGet, "/api/todos/", "")
	var tasks []todo.Task
	if err := json.NewDecoder(resp.Body).Decode(&tasks); err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 || tasks[0].Text != "water the plants" {
		t.Fatalf("list = %+v", tasks)
	}

	// Toggle.
	resp = doJSON(t, app, http.MethodPost, "/api/todos/"+created.ID+"/toggle", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("toggle status %d", resp.StatusCode)
	}
	var toggled todo.Task
	if err := json.NewDecoder(resp.Body).Decode(&toggled); err != nil {
		t.Fatal(err)
	}
	if !toggled.Done {
		t.Fatal("task not marked done")
	}

	// Delete.
	resp = doJSON(t, app, http.MethodDelete, "/api/todos/"+created.ID, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status %d", resp.StatusCode)
	}

	resp = doJSON(t, app, http.MethodDelete, "/api/todos/"+created.ID, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second delete status %d, want 404", resp.StatusCode)
	}
}

func TestTodoCreateRequiresText(t *testing.T) {
	app := newTodoApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/todos/", `{}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", resp.StatusCode)
	}
}
