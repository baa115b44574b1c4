package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/taskdeck/todo-webapp/internal/api/metrics"
	"github.com/taskdeck/todo-webapp/internal/api/session"
	"github.com/taskdeck/todo-webapp/internal/core/domain"
	"github.com/taskdeck/todo-webapp/internal/core/ports"
)

// TaskHandler serves the task list and its mutations. All routes except the
// static /todo page sit behind the RequireUser middleware, so the identity is
// always present here.
type TaskHandler struct {
	taskService ports.TaskService
}

func NewTaskHandler(taskService ports.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

type taskForm struct {
	Task string `form:"task"`
}

type indexPage struct {
	Username string
	Tasks    []domain.Task
	Error    string
	Success  string
}

// Index handles GET /, the task list.
func (h *TaskHandler) Index(c echo.Context) error {
	st := session.FromContext(c)
	uid, _ := st.UserID()

	tasks, err := h.taskService.List(c.Request().Context(), uid)
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "index.html", indexPage{
		Username: st.Username(),
		Tasks:    tasks,
		Error:    st.TakeError(),
		Success:  st.TakeSuccess(),
	})
}

// TodoPage handles GET /todo, a static secondary view.
func (h *TaskHandler) TodoPage(c echo.Context) error {
	return c.Render(http.StatusOK, "todo.html", nil)
}

// Add handles POST /add_task.
func (h *TaskHandler) Add(c echo.Context) error {
	st := session.FromContext(c)
	uid, _ := st.UserID()

	var form taskForm
	if err := c.Bind(&form); err != nil {
		st.SetError("Invalid form submission")
		return c.Redirect(http.StatusSeeOther, "/")
	}

	if _, err := h.taskService.Add(c.Request().Context(), uid, form.Task); err != nil {
		if errors.Is(err, domain.ErrEmptyTask) {
			st.SetError("Task cannot be empty")
			return c.Redirect(http.StatusSeeOther, "/")
		}
		return err
	}

	metrics.TasksCreatedTotal.Inc()
	return c.Redirect(http.StatusSeeOther, "/")
}

// Toggle handles POST /toggle_task/:id. A foreign or unknown ID is a silent
// no-op, so nothing about other users' tasks leaks through this route.
func (h *TaskHandler) Toggle(c echo.Context) error {
	uid, _ := session.FromContext(c).UserID()

	taskID, err := taskIDParam(c)
	if err != nil {
		return err
	}

	if err := h.taskService.Toggle(c.Request().Context(), taskID, uid); err != nil {
		return err
	}

	metrics.TasksToggledTotal.Inc()
	return c.Redirect(http.StatusSeeOther, "/")
}

// Delete handles POST /delete_task/:id, with the same no-op semantics as
// Toggle.
func (h *TaskHandler) Delete(c echo.Context) error {
	uid, _ := session.FromContext(c).UserID()

	taskID, err := taskIDParam(c)
	if err != nil {
		return err
	}

	if err := h.taskService.Delete(c.Request().Context(), taskID, uid); err != nil {
		return err
	}

	metrics.TasksDeletedTotal.Inc()
	return c.Redirect(http.StatusSeeOther, "/")
}

// taskIDParam parses the :id path segment. A non-integer segment behaves like
// an unroutable path.
func taskIDParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	return id, nil
}
