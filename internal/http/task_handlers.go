package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"task-marketplace.com/task-marketplace/internal/constants"
	dto "task-marketplace.com/task-marketplace/internal/data_models"
	apperrors "task-marketplace.com/task-marketplace/internal/errors"
	"task-marketplace.com/task-marketplace/internal/http/validators"
	"task-marketplace.com/task-marketplace/internal/services"
)

func (h *Handler) CreateTask(c echo.Context) error {
	var req dto.CreateTaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	fields, err := validators.ValidateCreateTaskRequest(&req)
	if err != nil {
		return err
	}

	a, err := actor(c)
	if err != nil {
		return err
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), a.ID, fields)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, dto.NewTaskResponse(task))
}

func (h *Handler) ListTasks(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	filter, err := taskFilterFromQuery(c)
	if err != nil {
		return err
	}

	page, err := h.taskService.ListTasks(c.Request().Context(), a, filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.NewTaskListResponse(page))
}

func (h *Handler) GetTask(c echo.Context) error {
	id, err := pathID(c, apperrors.ErrTaskIDRequired)
	if err != nil {
		return err
	}
	a, err := actor(c)
	if err != nil {
		return err
	}

	task, err := h.taskService.GetTask(c.Request().Context(), id, a)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.NewTaskResponse(task))
}

func (h *Handler) UpdateTask(c echo.Context) error {
	id, err := pathID(c, apperrors.ErrTaskIDRequired)
	if err != nil {
		return err
	}

	var req dto.UpdateTaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	patch, err := validators.ValidateUpdateTaskRequest(&req)
	if err != nil {
		return err
	}

	a, err := actor(c)
	if err != nil {
		return err
	}

	task, err := h.taskService.UpdateTask(c.Request().Context(), id, a.ID, patch)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.NewTaskResponse(task))
}

func (h *Handler) DeleteTask(c echo.Context) error {
	id, err := pathID(c, apperrors.ErrTaskIDRequired)
	if err != nil {
		return err
	}
	a, err := actor(c)
	if err != nil {
		return err
	}

	if err := h.taskService.DeleteTask(c.Request().Context(), id, a.ID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func taskFilterFromQuery(c echo.Context) (services.TaskFilter, error) {
	var (
		filter           services.TaskFilter
		status, category string
		minRate, maxRate string
	)

	err := echo.QueryParamsBinder(c).
		Int("page", &filter.Page).
		Int("limit", &filter.Limit).
		String("status", &status).
		String("category", &category).
		String("search", &filter.Search).
		String("min_rate", &minRate).
		String("max_rate", &maxRate).
		Bool("assigned", &filter.AssignedToMe).
		BindError()
	if err != nil {
		return services.TaskFilter{}, apperrors.Validation("invalid query parameters")
	}

	if status != "" {
		s, err := constants.ParseTaskStatus(status)
		if err != nil {
			return services.TaskFilter{}, apperrors.Validation(fmt.Sprintf("unknown task status %q", status))
		}
		filter.Status = &s
	}
	filter.Category = constants.Category(category)

	if filter.MinRate, err = parseRate("min_rate", minRate); err != nil {
		return services.TaskFilter{}, err
	}
	if filter.MaxRate, err = parseRate("max_rate", maxRate); err != nil {
		return services.TaskFilter{}, err
	}

	return filter, nil
}

func parseRate(name, raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, apperrors.Validation(name + " must be a number")
	}
	return &rate, nil
}
