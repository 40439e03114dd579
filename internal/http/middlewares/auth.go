package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"task-marketplace.com/task-marketplace/internal/constants"
	apperrors "task-marketplace.com/task-marketplace/internal/errors"
	"task-marketplace.com/task-marketplace/internal/identity"
	"task-marketplace.com/task-marketplace/internal/logging"
)

const actorKey = "actor"

// Authenticate resolves the bearer token through directory and stores the
// actor on the echo context.
func Authenticate(directory identity.Directory) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || strings.TrimSpace(token) == "" {
				return apperrors.ErrUnauthorized
			}

			ctx := c.Request().Context()
			actor, err := directory.Resolve(ctx, strings.TrimSpace(token))
			if err != nil {
				logging.FromContext(ctx, logging.Discard()).Printf("rejected credential: %v", err)
				return apperrors.ErrUnauthorized
			}

			c.Set(actorKey, actor)
			return next(c)
		}
	}
}

// RequireRole lets only actors of kind through. It must run after
// Authenticate.
func RequireRole(kind constants.ActorKind) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := ActorFrom(c)
			if !ok {
				return apperrors.ErrUnauthorized
			}
			if actor.Kind != kind {
				return apperrors.ErrForbiddenRole
			}
			return next(c)
		}
	}
}

func ActorFrom(c echo.Context) (identity.Actor, bool) {
	actor, ok := c.Get(actorKey).(identity.Actor)
	return actor, ok
}
