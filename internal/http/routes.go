package http

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"task-marketplace.com/task-marketplace/internal/constants"
	middleware "task-marketplace.com/task-marketplace/internal/http/middlewares"
	"task-marketplace.com/task-marketplace/internal/identity"
)

func Register(e *echo.Echo, h *Handler, directory identity.Directory, rateLimitPerMinute int, logger *log.Logger) {
	e.HTTPErrorHandler = ErrorHandler(logger)
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(logger))

	e.GET("/health", h.Health)

	authenticated := []echo.MiddlewareFunc{
		middleware.Authenticate(directory),
		middleware.RateLimiter(rateLimitPerMinute, time.Minute),
	}
	requester := middleware.RequireRole(constants.ActorRequester)
	provider := middleware.RequireRole(constants.ActorProvider)

	tasks := e.Group("/tasks", authenticated...)
	tasks.POST("", h.CreateTask, requester)
	tasks.GET("", h.ListTasks)
	tasks.GET("/:id", h.GetTask)
	tasks.PATCH("/:id", h.UpdateTask, requester)
	tasks.DELETE("/:id", h.DeleteTask, requester)
	tasks.POST("/:id/progress", h.SubmitProgress, provider)
	tasks.GET("/:id/progress", h.ListProgress)
	tasks.POST("/:id/complete", h.SubmitForApproval, provider)
	tasks.POST("/:id/accept", h.ApproveCompletion, requester)
	tasks.POST("/:id/reject", h.RejectCompletion, requester)
	tasks.GET("/:id/feedback", h.ListFeedback)

	offers := e.Group("/offers", authenticated...)
	offers.POST("", h.CreateOffer, provider)
	offers.GET("", h.ListOffers)
	offers.GET("/status/:status", h.ListOffersByStatus)
	offers.GET("/:id", h.GetOffer)
	offers.PATCH("/:id", h.UpdateOffer, provider)
	offers.DELETE("/:id", h.WithdrawOffer, provider)
	offers.PATCH("/:id/respond", h.RespondToOffer, requester)
}
