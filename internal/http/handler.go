package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"

	"farm-task-service.com/farm-task-service/internal/constants"
	dto "farm-task-service.com/farm-task-service/internal/data_models"
	apperrors "farm-task-service.com/farm-task-service/internal/errors"
	middleware "farm-task-service.com/farm-task-service/internal/http/middlewares"
	"farm-task-service.com/farm-task-service/internal/http/validators"
	model "farm-task-service.com/farm-task-service/internal/models"
	repository "farm-task-service.com/farm-task-service/internal/repositories"
	"farm-task-service.com/farm-task-service/internal/services"
)

type Handler struct {
	taskService   *services.TaskService
	notifications *repository.NotificationRepository
}

func NewHandler(taskService *services.TaskService, notifications *repository.NotificationRepository) *Handler {
	return &Handler{
		taskService:   taskService,
		notifications: notifications,
	}
}

func actorOf(c echo.Context) (model.Actor, error) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return model.Actor{}, apperrors.ErrUnauthorized
	}
	return actor, nil
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func (h *Handler) CreateTask(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}

	var req dto.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidJSON
	}
	if err := validators.ValidateCreateTaskRequest(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()

	detail, err := h.taskService.DecodeTaskDetail(ctx, req.TaskTypeID, req.Detail)
	if err != nil {
		return err
	}

	dueDate, _ := validators.ParseDate("due_date", req.DueDate)
	task := &model.Task{
		TaskTypeID:         req.TaskTypeID,
		DueDate:            dueDate,
		Notes:              req.Notes,
		OwnerUserID:        req.OwnerUserID,
		AssigneeUserID:     req.AssigneeUserID,
		Duration:           req.Duration,
		WageAtMoment:       req.WageAtMoment,
		OverrideHourlyWage: req.OverrideHourlyWage,
		Happiness:          req.Happiness,
		Detail:             detail,
		ManagementPlanIDs:  req.ManagementPlanIDs,
		LocationIDs:        req.LocationIDs,
	}
	if task.OwnerUserID == "" {
		task.OwnerUserID = actor.UserID
	}
	if len(req.Coordinates) > 0 && string(req.Coordinates) != "null" {
		coordinates := datatypes.JSON(req.Coordinates)
		task.Coordinates = &coordinates
	}

	created, err := h.taskService.CreateTask(ctx, task, actor)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetTask(c echo.Context) error {
	id, err := validators.ParseTaskID(c.Param("id"))
	if err != nil {
		return err
	}

	task, err := h.taskService.GetTask(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) GetTaskAssignee(c echo.Context) error {
	id, err := validators.ParseTaskID(c.Param("id"))
	if err != nil {
		return err
	}

	assignee, err := h.taskService.GetTaskAssignee(c.Request().Context(), id, c.QueryParam("farm_id"))
	if err != nil {
		return err
	}
	if assignee == nil {
		return c.NoContent(http.StatusNoContent)
	}

	return c.JSON(http.StatusOK, assignee)
}

func (h *Handler) GetTaskType(c echo.Context) error {
	id, err := validators.ParseTaskID(c.Param("id"))
	if err != nil {
		return err
	}

	taskType, err := h.taskService.GetTaskType(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if taskType == nil {
		return apperrors.ErrTaskNotFound
	}

	return c.JSON(http.StatusOK, taskType)
}

func (h *Handler) GetTaskStatus(c echo.Context) error {
	id, err := validators.ParseTaskID(c.Param("id"))
	if err != nil {
		return err
	}

	st, err := h.taskService.GetTaskStatus(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if st == nil {
		return apperrors.ErrTaskNotFound
	}

	return c.JSON(http.StatusOK, st)
}

func (h *Handler) AssignTask(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	id, err := validators.ParseTaskID(c.Param("id"))
	if err != nil {
		return err
	}

	var req dto.AssignTaskRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidJSON
	}

	task, err := h.taskService.AssignTask(c.Request().Context(), id, req.AssigneeUserID, actor)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) AssignTasks(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}

	var req dto.AssignTasksRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidJSON
	}
	if err := validators.ValidateTaskIDs(req.TaskIDs); err != nil {
		return err
	}

	updated, err := h.taskService.AssignTasks(c.Request().Context(), req.TaskIDs, req.AssigneeUserID, actor)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.AssignTasksResponse{Updated: updated})
}

func (h *Handler) GetUnassignedTasksDueThisWeek(c echo.Context) error {
	var req dto.DueThisWeekRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidJSON
	}
	if err := validators.ValidateTaskIDs(req.TaskIDs); err != nil {
		return err
	}

	tasks, err := h.taskService.GetUnassignedTasksDueThisWeek(c.Request().Context(), req.TaskIDs, req.UTCOffsetSeconds)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"count": len(tasks),
		"tasks": tasks,
	})
}

func (h *Handler) GetAvailableTasksOnDate(c echo.Context) error {
	var req dto.AvailableTasksRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidJSON
	}
	if err := validators.ValidateTaskIDs(req.TaskIDs); err != nil {
		return err
	}
	date, err := validators.ParseDate("date", req.Date)
	if err != nil {
		return err
	}

	tasks, err := h.taskService.GetAvailableTasksOnDate(c.Request().Context(), req.TaskIDs, date)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"count": len(tasks),
		"tasks": tasks,
	})
}

func (h *Handler) HasTasksDueToday(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}

	var req dto.DueTodayRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidJSON
	}
	if err := validators.ValidateTaskIDs(req.TaskIDs); err != nil {
		return err
	}
	if req.UserID == "" {
		req.UserID = actor.UserID
	}

	due, err := h.taskService.HasTasksDueTodayForUser(c.Request().Context(), req.UserID, req.TaskIDs)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.DueTodayResponse{UserID: req.UserID, HasTasksDueToday: due})
}

func (h *Handler) ClaimTask(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	id, err := validators.ParseTaskID(c.Param("id"))
	if err != nil {
		return err
	}

	task, err := h.taskService.ClaimTask(c.Request().Context(), id, actor)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) CompleteTask(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	id, err := validators.ParseTaskID(c.Param("id"))
	if err != nil {
		return err
	}

	var req dto.CompleteTaskRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidJSON
	}
	completeDate, err := validators.ParseOptionalDate("complete_date", req.CompleteDate)
	if err != nil {
		return err
	}

	task, err := h.taskService.CompleteTask(c.Request().Context(), id, repository.CompletionInput{
		CompleteDate:    completeDate,
		CompletionNotes: req.CompletionNotes,
		Happiness:       req.Happiness,
		Duration:        req.Duration,
	}, actor)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) AbandonTask(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	id, err := validators.ParseTaskID(c.Param("id"))
	if err != nil {
		return err
	}

	var req dto.AbandonTaskRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidJSON
	}
	abandonDate, err := validators.ParseOptionalDate("abandon_date", req.AbandonDate)
	if err != nil {
		return err
	}

	task, err := h.taskService.AbandonTask(c.Request().Context(), id, repository.AbandonmentInput{
		AbandonDate:            abandonDate,
		Reason:                 constants.AbandonmentReason(req.AbandonmentReason),
		OtherAbandonmentReason: req.OtherAbandonmentReason,
		AbandonmentNotes:       req.AbandonmentNotes,
	}, actor)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) DeleteTask(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	id, err := validators.ParseTaskID(c.Param("id"))
	if err != nil {
		return err
	}

	if err := h.taskService.DeleteTask(c.Request().Context(), id, actor); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListLocationTasks(c echo.Context) error {
	locationID := c.Param("location_id")
	if locationID == "" {
		return apperrors.Invalid("location id is required")
	}

	tasks, err := h.taskService.ListLocationTasks(c.Request().Context(), locationID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tasks)
}

func (h *Handler) ListNotifications(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}

	notifications, err := h.notifications.ListForUser(c.Request().Context(), actor.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"count":         len(notifications),
		"notifications": notifications,
	})
}
