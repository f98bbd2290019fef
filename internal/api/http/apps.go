package httpapi

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/sharkmet/HomeHUB/internal/music"
	"github.com/sharkmet/HomeHUB/internal/notes"
	"github.com/sharkmet/HomeHUB/internal/timers"
)

// noteRequest is the body for creating a note.
type noteRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// timerRequest is the body for creating a timer.
type timerRequest struct {
	Label           string `json:"label" validate:"required"`
	DurationSeconds int64  `json:"duration_seconds" validate:"required,gt=0"`
}

// trackRequest is the body for queueing a track.
type trackRequest struct {
	Title  string `json:"title" validate:"required"`
	Artist string `json:"artist" validate:"required"`
}

// RegisterNotesRoutes wires the quick-notes CRUD endpoints.
func RegisterNotesRoutes(app *fiber.App, store *notes.Store) {
	api := app.Group("/api/notes")

	api.Get("/", func(c *fiber.Ctx) error {
		list, err := store.List()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to list notes")
		}
		if list == nil {
			list = []notes.Note{}
		}
		return c.JSON(list)
	})

	api.Post("/", func(c *fiber.Ctx) error {
		var req noteRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid note body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		note, err := store.Add(req.Title, req.Content)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to create note")
		}
		return c.Status(fiber.StatusCreated).JSON(note)
	})

	api.Get("/:id", func(c *fiber.Ctx) error {
		note, err := store.Get(c.Params("id"))
		if err != nil {
			if errors.Is(err, notes.ErrNoteNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "note not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read note")
		}
		return c.JSON(note)
	})

	api.Delete("/:id", func(c *fiber.Ctx) error {
		if err := store.Delete(c.Params("id")); err != nil {
			if errors.Is(err, notes.ErrNoteNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "note not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to delete note")
		}
		return c.JSON(fiber.Map{"status": "success"})
	})
}

// RegisterTimerRoutes wires the countdown-timer endpoints.
func RegisterTimerRoutes(app *fiber.App, store *timers.Store) {
	api := app.Group("/api/timers")

	api.Get("/", func(c *fiber.Ctx) error {
		list, err := store.List()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to list timers")
		}
		if list == nil {
			list = []timers.Timer{}
		}
		return c.JSON(list)
	})

	api.Post("/", func(c *fiber.Ctx) error {
		var req timerRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid timer body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		timer, err := store.Add(req.Label, req.DurationSeconds)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to create timer")
		}
		return c.Status(fiber.StatusCreated).JSON(timer)
	})

	api.Post("/:id/start", func(c *fiber.Ctx) error {
		timer, err := store.Start(c.Params("id"))
		if err != nil {
			if errors.Is(err, timers.ErrTimerNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "timer not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to start timer")
		}
		return c.JSON(timer)
	})

	api.Post("/:id/stop", func(c *fiber.Ctx) error {
		timer, err := store.Stop(c.Params("id"))
		if err != nil {
			if errors.Is(err, timers.ErrTimerNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "timer not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to stop timer")
		}
		return c.JSON(timer)
	})

	api.Delete("/:id", func(c *fiber.Ctx) error {
		if err := store.Delete(c.Params("id")); err != nil {
			if errors.Is(err, timers.ErrTimerNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "timer not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to delete timer")
		}
		return c.JSON(fiber.Map{"status": "success"})
	})
}

// RegisterMusicRoutes wires the playback-queue endpoints.
func RegisterMusicRoutes(app *fiber.App, store *music.Store) {
	api := app.Group("/api/music")

	api.Get("/", func(c *fiber.Ctx) error {
		state, err := store.State()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read player state")
		}
		return c.JSON(state)
	})

	api.Post("/tracks", func(c *fiber.Ctx) error {
		var req trackRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid track body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		track, err := store.Add(req.Title, req.Artist)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to queue track")
		}
		return c.Status(fiber.StatusCreated).JSON(track)
	})

	api.Delete("/tracks/:id", func(c *fiber.Ctx) error {
		if err := store.Remove(c.Params("id")); err != nil {
			if errors.Is(err, music.ErrTrackNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "track not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to remove track")
		}
		return c.JSON(fiber.Map{"status": "success"})
	})

	api.Post("/play", func(c *fiber.Ctx) error {
		state, err := store.Play()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to update player")
		}
		return c.JSON(state)
	})

	api.Post("/play/:index", func(c *fiber.Ctx) error {
		index, err := strconv.Atoi(c.Params("index"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "index must be a number")
		}
		state, err := store.PlayIndex(index)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(state)
	})

	api.Post("/pause", func(c *fiber.Ctx) error {
		state, err := store.Pause()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to update player")
		}
		return c.JSON(state)
	})

	api.Post("/next", func(c *fiber.Ctx) error {
		state, err := store.Next()
		if err != nil {
			if errors.Is(err, music.ErrEmptyQueue) {
				return fiber.NewError(fiber.StatusConflict, "queue is empty")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to update player")
		}
		return c.JSON(state)
	})

	api.Post("/previous", func(c *fiber.Ctx) error {
		state, err := store.Previous()
		if err != nil {
			if errors.Is(err, music.ErrEmptyQueue) {
				return fiber.NewError(fiber.StatusConflict, "queue is empty")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to update player")
		}
		return c.JSON(state)
	})
}
