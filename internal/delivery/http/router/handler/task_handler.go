package handler

import (
	"net/http"

	"taskhub/internal/delivery/http/response"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/domain/entity"
	"taskhub/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// TaskHandler serves the caller's own tasks. Every route sits behind the auth middleware.
type TaskHandler struct {
	uc usecase.TaskUsecase
}

type TaskHandlerParams struct {
	fx.In

	TaskUsecase usecase.TaskUsecase
}

func NewTaskHandler(params TaskHandlerParams) *TaskHandler {
	return &TaskHandler{uc: params.TaskUsecase}
}

// List handles GET /api/tasks.
func (h *TaskHandler) List(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	var query TaskQuery
	if err := c.Bind(&query); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("query parameters are malformed")
	}
	filter, err := query.toFilter()
	if err != nil {
		return err
	}

	tasks, err := h.uc.List(c.Request().Context(), userID, filter)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newTaskResponses(tasks), "")
}

// Stats handles GET /api/tasks/stats.
func (h *TaskHandler) Stats(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	stats, err := h.uc.Stats(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newStatsResponse(stats), "")
}

// Get handles GET /api/tasks/:id.
func (h *TaskHandler) Get(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	taskID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	task, err := h.uc.Get(c.Request().Context(), userID, taskID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newTaskResponse(task), "")
}

// Create handles POST /api/tasks.
func (h *TaskHandler) Create(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	var req CreateTaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	task, err := h.uc.Create(c.Request().Context(), userID, req.toInput())
	if err != nil {
		return errors.WithStack(err)
	}

	c.Response().Header().Set(echo.HeaderLocation, "/api/tasks/"+task.ID.String())

	return response.Success(c, http.StatusCreated, newTaskResponse(task), "Task created successfully")
}

// Update handles PUT /api/tasks/:id.
func (h *TaskHandler) Update(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	taskID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateTaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	task, err := h.uc.Update(c.Request().Context(), userID, taskID, req.toInput())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newTaskResponse(task), "Task updated successfully")
}

// UpdateStatus handles PATCH /api/tasks/:id/status.
func (h *TaskHandler) UpdateStatus(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	taskID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	task, err := h.uc.UpdateStatus(c.Request().Context(), userID, taskID, entity.TaskStatus(req.Status))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newTaskResponse(task), "Task status updated successfully")
}

// Delete handles DELETE /api/tasks/:id.
func (h *TaskHandler) Delete(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	taskID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Request().Context(), userID, taskID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Task deleted successfully")
}
