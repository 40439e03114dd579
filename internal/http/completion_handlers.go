package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "task-marketplace.com/task-marketplace/internal/data_models"
	apperrors "task-marketplace.com/task-marketplace/internal/errors"
	"task-marketplace.com/task-marketplace/internal/http/validators"
)

func (h *Handler) SubmitProgress(c echo.Context) error {
	id, err := pathID(c, apperrors.ErrTaskIDRequired)
	if err != nil {
		return err
	}

	var req dto.ProgressRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	description, err := validators.ValidateProgressRequest(&req)
	if err != nil {
		return err
	}

	a, err := actor(c)
	if err != nil {
		return err
	}

	entry, err := h.completionService.SubmitProgress(c.Request().Context(), id, a.ID, description)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, dto.NewProgressResponse(entry))
}

func (h *Handler) ListProgress(c echo.Context) error {
	id, err := pathID(c, apperrors.ErrTaskIDRequired)
	if err != nil {
		return err
	}
	a, err := actor(c)
	if err != nil {
		return err
	}

	entries, err := h.completionService.ListProgress(c.Request().Context(), id, a)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.NewProgressListResponse(entries))
}

func (h *Handler) SubmitForApproval(c echo.Context) error {
	id, err := pathID(c, apperrors.ErrTaskIDRequired)
	if err != nil {
		return err
	}
	a, err := actor(c)
	if err != nil {
		return err
	}

	task, err := h.completionService.SubmitForApproval(c.Request().Context(), id, a.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.NewTaskResponse(task))
}

func (h *Handler) ApproveCompletion(c echo.Context) error {
	return h.decideCompletion(c, true)
}

func (h *Handler) RejectCompletion(c echo.Context) error {
	return h.decideCompletion(c, false)
}

func (h *Handler) decideCompletion(c echo.Context, approved bool) error {
	id, err := pathID(c, apperrors.ErrTaskIDRequired)
	if err != nil {
		return err
	}

	var req dto.CompletionRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	description, err := validators.ValidateCompletionRequest(&req)
	if err != nil {
		return err
	}

	a, err := actor(c)
	if err != nil {
		return err
	}

	decision, err := h.completionService.DecideCompletion(c.Request().Context(), id, a.ID, approved, description)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.NewDecisionResponse(decision))
}

func (h *Handler) ListFeedback(c echo.Context) error {
	id, err := pathID(c, apperrors.ErrTaskIDRequired)
	if err != nil {
		return err
	}
	a, err := actor(c)
	if err != nil {
		return err
	}

	entries, err := h.completionService.ListFeedback(c.Request().Context(), id, a)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.NewFeedbackListResponse(entries))
}
