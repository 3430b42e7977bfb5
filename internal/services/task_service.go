package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"farm-task-service.com/farm-task-service/internal/constants"
	apperrors "farm-task-service.com/farm-task-service/internal/errors"
	model "farm-task-service.com/farm-task-service/internal/models"
	"farm-task-service.com/farm-task-service/internal/queue"
	repository "farm-task-service.com/farm-task-service/internal/repositories"
	"farm-task-service.com/farm-task-service/internal/status"
)

const maxNotesLength = 10000

type TaskService struct {
	repo   *repository.TaskRepository
	locker queue.ClaimLocker
	log    logrus.FieldLogger
	now    func() time.Time
}

func NewTaskService(repo *repository.TaskRepository, locker queue.ClaimLocker, log logrus.FieldLogger) *TaskService {
	return &TaskService{
		repo:   repo,
		locker: locker,
		log:    log,
		now:    time.Now,
	}
}

// TaskStatus is a status row together with the status derived from it.
type TaskStatus struct {
	model.TaskStatusRow
	Status constants.TaskStatus `json:"status"`
}

// TaskCard is a task as listed on a location page.
type TaskCard struct {
	model.Task
	Status constants.TaskStatus `json:"status"`
}

// LocationTasks groups the active tasks of one location by due date.
type LocationTasks struct {
	Count int                   `json:"count"`
	Tasks map[string][]TaskCard `json:"tasks"`
}

func (s *TaskService) GetTask(ctx context.Context, taskID int) (*model.Task, error) {
	return s.repo.FindByID(ctx, taskID)
}

func (s *TaskService) GetTaskAssignee(ctx context.Context, taskID int, farmID string) (*model.TaskAssignee, error) {
	return s.repo.GetTaskAssignee(ctx, taskID, farmID)
}

func (s *TaskService) GetTaskType(ctx context.Context, taskID int) (*model.TaskType, error) {
	return s.repo.GetTaskType(ctx, taskID)
}

// GetTaskStatus returns nil when the task does not exist.
func (s *TaskService) GetTaskStatus(ctx context.Context, taskID int) (*TaskStatus, error) {
	row, err := s.repo.GetTaskStatus(ctx, taskID)
	if err != nil || row == nil {
		return nil, err
	}

	return &TaskStatus{
		TaskStatusRow: *row,
		Status:        s.derive(row.TaskID, row.CompleteDate, row.AbandonDate, row.DueDate),
	}, nil
}

func (s *TaskService) derive(taskID int, completeDate, abandonDate *time.Time, dueDate time.Time) constants.TaskStatus {
	st, integrity := status.Derive(completeDate, abandonDate, dueDate, s.now())
	if integrity == status.BothTerminalDates {
		s.log.WithField("task_id", taskID).
			Warn("task has both complete_date and abandon_date set, treating it as completed")
	}
	return st
}

func (s *TaskService) AssignTask(ctx context.Context, taskID int, assigneeUserID *string, actor model.Actor) (*model.Task, error) {
	task, err := s.repo.AssignTask(ctx, taskID, assigneeUserID, actor)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"task_id":  taskID,
		"assignee": stringOrEmpty(assigneeUserID),
		"actor":    actor.UserID,
	}).Info("task assigned")
	return task, nil
}

func (s *TaskService) AssignTasks(ctx context.Context, taskIDs []int, assigneeUserID *string, actor model.Actor) (int64, error) {
	affected, err := s.repo.AssignTasks(ctx, taskIDs, assigneeUserID, actor)
	if err != nil {
		return 0, err
	}

	s.log.WithFields(logrus.Fields{
		"requested": len(taskIDs),
		"updated":   affected,
		"actor":     actor.UserID,
	}).Info("tasks assigned")
	return affected, nil
}

func (s *TaskService) GetUnassignedTasksDueThisWeek(ctx context.Context, taskIDs []int, utcOffsetSeconds int) ([]model.Task, error) {
	return s.repo.GetUnassignedTasksDueThisWeek(ctx, taskIDs, utcOffsetSeconds)
}

func (s *TaskService) HasTasksDueTodayForUser(ctx context.Context, userID string, taskIDs []int) (bool, error) {
	return s.repo.HasTasksDueTodayForUser(ctx, userID, taskIDs)
}

func (s *TaskService) GetAvailableTasksOnDate(ctx context.Context, taskIDs []int, date time.Time) ([]model.Task, error) {
	return s.repo.GetAvailableTasksOnDate(ctx, taskIDs, date)
}

// ClaimTask assigns an available task to the acting user. Concurrent
// claims on the same task fail fast with ErrClaimInProgress.
func (s *TaskService) ClaimTask(ctx context.Context, taskID int, actor model.Actor) (*model.Task, error) {
	token := uuid.NewString()

	if err := s.locker.Acquire(ctx, taskID, token); err != nil {
		if errors.Is(err, queue.ErrLockHeld) {
			return nil, apperrors.ErrClaimInProgress
		}
		return nil, err
	}
	defer func() {
		if err := s.locker.Release(context.WithoutCancel(ctx), taskID, token); err != nil {
			s.log.WithError(err).WithField("task_id", taskID).Warn("failed to release claim lock")
		}
	}()

	task, err := s.repo.ClaimTask(ctx, taskID, actor)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"task_id": taskID, "actor": actor.UserID}).Info("task claimed")
	return task, nil
}

// DecodeTaskDetail decodes a raw detail payload into the variant owned by
// the given task type.
func (s *TaskService) DecodeTaskDetail(ctx context.Context, taskTypeID int, raw json.RawMessage) (model.Detail, error) {
	taskType, err := s.repo.FindTaskType(ctx, taskTypeID)
	if err != nil {
		return nil, err
	}

	detail, err := model.DecodeDetail(taskType.Kind(), raw)
	if err != nil {
		return nil, apperrors.Invalid(err.Error())
	}
	return detail, nil
}

func (s *TaskService) CreateTask(ctx context.Context, task *model.Task, actor model.Actor) (*model.Task, error) {
	if err := validateNotes("notes", task.Notes); err != nil {
		return nil, err
	}
	if err := validateHappiness(task.Happiness); err != nil {
		return nil, err
	}

	created, err := s.repo.CreateTask(ctx, task, actor)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"task_id":      created.ID,
		"task_type_id": created.TaskTypeID,
		"actor":        actor.UserID,
	}).Info("task created")
	return created, nil
}

func (s *TaskService) CompleteTask(ctx context.Context, taskID int, in repository.CompletionInput, actor model.Actor) (*model.Task, error) {
	if err := validateNotes("completion_notes", in.CompletionNotes); err != nil {
		return nil, err
	}
	if err := validateHappiness(in.Happiness); err != nil {
		return nil, err
	}
	if in.Duration != nil && *in.Duration < 0 {
		return nil, apperrors.Invalid("duration must not be negative")
	}
	if in.CompleteDate.IsZero() {
		in.CompleteDate = s.now()
	}

	return s.repo.CompleteTask(ctx, taskID, in, actor)
}

func (s *TaskService) AbandonTask(ctx context.Context, taskID int, in repository.AbandonmentInput, actor model.Actor) (*model.Task, error) {
	if !in.Reason.Valid() {
		return nil, apperrors.Invalid("abandonment_reason is not a known reason")
	}
	if in.Reason == constants.AbandonOther && (in.OtherAbandonmentReason == nil || *in.OtherAbandonmentReason == "") {
		return nil, apperrors.Invalid("other_abandonment_reason is required when abandonment_reason is OTHER")
	}
	if err := validateNotes("abandonment_notes", in.AbandonmentNotes); err != nil {
		return nil, err
	}
	if in.AbandonDate.IsZero() {
		in.AbandonDate = s.now()
	}

	return s.repo.AbandonTask(ctx, taskID, in, actor)
}

func (s *TaskService) DeleteTask(ctx context.Context, taskID int, actor model.Actor) error {
	if err := s.repo.DeleteTask(ctx, taskID, actor); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{"task_id": taskID, "actor": actor.UserID}).Info("task deleted")
	return nil
}

// ListLocationTasks returns the planned and late tasks of a location keyed
// by due date (YYYY-MM-DD, UTC).
func (s *TaskService) ListLocationTasks(ctx context.Context, locationID string) (*LocationTasks, error) {
	tasks, err := s.repo.ListOpenTasksForLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}

	result := &LocationTasks{Tasks: map[string][]TaskCard{}}
	for _, task := range tasks {
		st := s.derive(task.ID, task.CompleteDate, task.AbandonDate, task.DueDate)
		if !st.IsActive() {
			continue
		}

		day := task.DueDate.UTC().Format(time.DateOnly)
		result.Tasks[day] = append(result.Tasks[day], TaskCard{Task: task, Status: st})
		result.Count++
	}

	return result, nil
}

func validateNotes(field string, notes *string) error {
	if notes != nil && utf8.RuneCountInString(*notes) > maxNotesLength {
		return apperrors.Invalid(field + " must be at most 10000 characters")
	}
	return nil
}

func validateHappiness(happiness *int) error {
	if happiness != nil && (*happiness < 0 || *happiness > 5) {
		return apperrors.Invalid("happiness must be between 0 and 5")
	}
	return nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
