package http

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	dto "task-marketplace.com/task-marketplace/internal/data_models"
	apperrors "task-marketplace.com/task-marketplace/internal/errors"
	"task-marketplace.com/task-marketplace/internal/logging"
)

// ErrorHandler renders every error as {"code", "message"}. Exceptions keep
// their status; unknown errors are logged and hidden behind a 500.
func ErrorHandler(fallback *log.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := renderError(err)
		if status == http.StatusInternalServerError {
			logging.FromContext(c.Request().Context(), fallback).Printf("internal error: %v", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			logging.FromContext(c.Request().Context(), fallback).Printf("failed to write error response: %v", err)
		}
	}
}

func renderError(err error) (int, dto.ErrorResponse) {
	var appErr *apperrors.Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode, dto.ErrorResponse{Code: appErr.Code, Message: appErr.Message}
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, dto.ErrorResponse{
			Code:    codeForStatus(httpErr.Code),
			Message: fmt.Sprint(httpErr.Message),
		}
	}

	return http.StatusInternalServerError, dto.ErrorResponse{
		Code:    apperrors.Code(err),
		Message: "internal server error",
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusNotFound:
		return "ROUTE_NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusBadRequest:
		return apperrors.ErrValidation.Code
	default:
		return "HTTP_ERROR"
	}
}
