package http

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	middleware "farm-task-service.com/farm-task-service/internal/http/middlewares"
)

func Register(e *echo.Echo, h *Handler, rateLimitPerMinute int, jwtSecret string, log logrus.FieldLogger) {
	e.HideBanner = true
	e.HTTPErrorHandler = ErrorHandler(log)

	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.Recover())

	e.GET("/health", h.Health)

	api := e.Group("", middleware.JWTAuth(jwtSecret), middleware.RateLimiter(rateLimitPerMinute, time.Minute))

	api.POST("/tasks", h.CreateTask)
	api.GET("/tasks/:id", h.GetTask)
	api.GET("/tasks/:id/assignee", h.GetTaskAssignee)
	api.GET("/tasks/:id/type", h.GetTaskType)
	api.GET("/tasks/:id/status", h.GetTaskStatus)
	api.PATCH("/tasks/:id/assignee", h.AssignTask)
	api.PATCH("/tasks/assignee", h.AssignTasks)
	api.POST("/tasks/due-this-week", h.GetUnassignedTasksDueThisWeek)
	api.POST("/tasks/available", h.GetAvailableTasksOnDate)
	api.POST("/tasks/due-today", h.HasTasksDueToday)
	api.POST("/tasks/:id/claim", h.ClaimTask)
	api.PATCH("/tasks/:id/complete", h.CompleteTask)
	api.PATCH("/tasks/:id/abandon", h.AbandonTask)
	api.DELETE("/tasks/:id", h.DeleteTask)

	api.GET("/locations/:location_id/tasks", h.ListLocationTasks)
	api.GET("/notifications", h.ListNotifications)
}
