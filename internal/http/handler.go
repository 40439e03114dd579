package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "task-marketplace.com/task-marketplace/internal/errors"
	middleware "task-marketplace.com/task-marketplace/internal/http/middlewares"
	"task-marketplace.com/task-marketplace/internal/identity"
	"task-marketplace.com/task-marketplace/internal/services"
)

type Handler struct {
	taskService       *services.TaskService
	offerService      *services.OfferService
	completionService *services.CompletionService
}

func NewHandler(
	taskService *services.TaskService,
	offerService *services.OfferService,
	completionService *services.CompletionService,
) *Handler {
	return &Handler{
		taskService:       taskService,
		offerService:      offerService,
		completionService: completionService,
	}
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// bind decodes the JSON body into req.
func bind(c echo.Context, req interface{}) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, req); err != nil {
		return apperrors.ErrInvalidJSON
	}
	return nil
}

func actor(c echo.Context) (identity.Actor, error) {
	a, ok := middleware.ActorFrom(c)
	if !ok {
		return identity.Actor{}, apperrors.ErrUnauthorized
	}
	return a, nil
}

func pathID(c echo.Context, missing *apperrors.Exception) (string, error) {
	id := c.Param("id")
	if id == "" {
		return "", missing
	}
	return id, nil
}
