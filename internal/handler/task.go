package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/1xev3/edev-backend/internal/queue"
	"github.com/1xev3/edev-backend/internal/repository"
)

// TaskPublisher pushes a completion event to the message queue.  It is a
// function type so tests can swap in a recorder.
type TaskPublisher func(ctx context.Context, event queue.TaskCompletedEvent) error

// TaskHandler serves the owner-scoped task endpoints nested under sections.
type TaskHandler struct {
	Tasks   TaskStore
	Publish TaskPublisher // optional; nil disables completion events
}

func NewTaskHandler(tasks TaskStore, publish TaskPublisher) *TaskHandler {
	return &TaskHandler{Tasks: tasks, Publish: publish}
}

type taskCreateReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// taskUpdateReq uses pointer fields so that only keys actually present in
// the JSON payload are applied.  An explicit false or "" is honored; an
// omitted field leaves the stored value alone.
type taskUpdateReq struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Completed   *bool      `json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
}

// Create handles POST /sections/:id/tasks.  It fails with 404 when the
// section is absent or belongs to someone else, and no task is created.
func (h *TaskHandler) Create(c echo.Context) error {
	owner, err := ownerFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	sectionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req taskCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == "" {
		req.Name = "Task"
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tasks.Create(ctx, sectionID, owner, req.Name, req.Description)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "section not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create task failed"})
	}
	return c.JSON(http.StatusCreated, t)
}

// List handles GET /sections/:id/tasks.
func (h *TaskHandler) List(c echo.Context) error {
	owner, err := ownerFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	sectionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	skip, limit := pagination(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tasks, err := h.Tasks.ListBySection(ctx, sectionID, owner, skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, tasks)
}

// Get handles GET /sections/:id/tasks/:task_id.
func (h *TaskHandler) Get(c echo.Context) error {
	owner, err := ownerFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	sectionID, taskID, err := taskIDs(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tasks.GetByIDAndOwner(ctx, sectionID, taskID, owner)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "task not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, t)
}

// Update handles PUT /sections/:id/tasks/:task_id with partial-update
// semantics.  When the update completes the task, a task.completed event is
// published; publish failures are logged and never fail the request.
func (h *TaskHandler) Update(c echo.Context) error {
	owner, err := ownerFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	sectionID, taskID, err := taskIDs(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req taskUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, completedNow, err := h.Tasks.Update(ctx, sectionID, taskID, owner, repository.TaskUpdate{
		Name:        req.Name,
		Description: req.Description,
		Completed:   req.Completed,
		CompletedAt: req.CompletedAt,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "task not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	if completedNow && h.Publish != nil && t.CompletedAt != nil {
		if err := h.Publish(ctx, queue.TaskCompletedEvent{
			TaskID:      t.ID,
			SectionID:   t.SectionID,
			Owner:       t.Owner,
			Name:        t.Name,
			CompletedAt: *t.CompletedAt,
		}); err != nil {
			c.Logger().Warnf("task %d: publish completion event failed: %v", t.ID, err)
		}
	}
	return c.JSON(http.StatusOK, t)
}

// Delete handles DELETE /sections/:id/tasks/:task_id.
func (h *TaskHandler) Delete(c echo.Context) error {
	owner, err := ownerFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	sectionID, taskID, err := taskIDs(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tasks.Delete(ctx, sectionID, taskID, owner); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "task not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "task deleted"})
}

func taskIDs(c echo.Context) (sectionID, taskID uint64, err error) {
	sectionID, err = strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, 0, err
	}
	taskID, err = strconv.ParseUint(c.Param("task_id"), 10, 64)
	if err != nil {
		return 0, 0, err
	}
	return sectionID, taskID, nil
}
