package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/sharkmet/HomeHUB/internal/todo"
)

// todoRequest is the body for creating a task.
type todoRequest struct {
	Text string `json:"text" validate:"required"`
}

// RegisterTodoRoutes wires the task-list CRUD endpoints. The to-do store is
// independent of the sensor aggregation engine.
func RegisterTodoRoutes(app *fiber.App, store *todo.Store) {
	api := app.Group("/api/todos")

	api.Get("/", func(c *fiber.Ctx) error {
		tasks, err := store.List()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to list tasks")
		}
		if tasks == nil {
			tasks = []todo.Task{}
		}
		return c.JSON(tasks)
	})

	api.Post("/", func(c *fiber.Ctx) error {
		var req todoRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid task body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		task, err := store.Add(req.Text)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to create task")
		}
		return c.Status(fiber.StatusCreated).JSON(task)
	})

	api.Post("/:id/toggle", func(c *fiber.Ctx) error {
		task, err := store.Toggle(c.Params("id"))
		if err != nil {
			if errors.Is(err, todo.ErrTaskNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "task not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to update task")
		}
		return c.JSON(task)
	})

	api.Delete("/:id", func(c *fiber.Ctx) error {
		if err := store.Delete(c.Params("id")); err != nil {
			if errors.Is(err, todo.ErrTaskNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "task not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to delete task")
		}
		return c.JSON(fiber.Map{"status": "success"})
	})
}
