package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"farm-task-service.com/farm-task-service/internal/constants"
	apperrors "farm-task-service.com/farm-task-service/internal/errors"
	model "farm-task-service.com/farm-task-service/internal/models"
)

type TaskRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db, now: time.Now}
}

// WithClock replaces the time source used for "now" in date queries.
func (r *TaskRepository) WithClock(now func() time.Time) *TaskRepository {
	r.now = now
	return r
}

type CompletionInput struct {
	CompleteDate    time.Time
	CompletionNotes *string
	Happiness       *int
	Duration        *float64
}

type AbandonmentInput struct {
	AbandonDate            time.Time
	Reason                 constants.AbandonmentReason
	OtherAbandonmentReason *string
	AbandonmentNotes       *string
}

func notDeleted(db *gorm.DB) *gorm.DB {
	return db.Where("task.deleted = ?", false)
}

// open selects tasks nobody has picked up or closed yet.
func open(db *gorm.DB) *gorm.DB {
	return db.Where("task.assignee_user_id IS NULL AND task.complete_date IS NULL AND task.abandon_date IS NULL")
}

// GetTaskAssignee returns the assignee of a task with their role in farmID.
// When farmID is empty the membership with the lowest farm id is used.
// A nil result means the task is unassigned, deleted or has no membership.
func (r *TaskRepository) GetTaskAssignee(ctx context.Context, taskID int, farmID string) (*model.TaskAssignee, error) {
	var assignee model.TaskAssignee

	query := r.db.WithContext(ctx).Table("task").
		Select("users.user_id AS assignee_user_id, role.role_id AS assignee_role_id, task.wage_at_moment, task.override_hourly_wage").
		Joins("JOIN users ON task.assignee_user_id = users.user_id").
		Joins(`JOIN "userFarm" uf ON users.user_id = uf.user_id`).
		Joins("JOIN role ON role.role_id = uf.role_id").
		Where("task.task_id = ?", taskID).
		Scopes(notDeleted)

	if farmID != "" {
		query = query.Where("uf.farm_id = ?", farmID)
	}

	res := query.Order("uf.farm_id").Limit(1).Scan(&assignee)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	return &assignee, nil
}

func (r *TaskRepository) GetTaskType(ctx context.Context, taskID int) (*model.TaskType, error) {
	var taskType model.TaskType

	res := r.db.WithContext(ctx).Table("task").
		Select("task_type.*").
		Joins("JOIN task_type ON task.task_type_id = task_type.task_type_id").
		Where("task.task_id = ?", taskID).
		Scopes(notDeleted).
		Limit(1).
		Scan(&taskType)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	return &taskType, nil
}

// FindTaskType looks a live task type up by its own id.
func (r *TaskRepository) FindTaskType(ctx context.Context, taskTypeID int) (*model.TaskType, error) {
	var taskType model.TaskType

	err := r.db.WithContext(ctx).
		Where("task_type_id = ? AND deleted = ?", taskTypeID, false).
		First(&taskType).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskTypeNotFound
		}
		return nil, err
	}

	return &taskType, nil
}

// GetUnassignedTasksDueThisWeek returns the open tasks among taskIDs due
// within the seven days following today, where today is taken in the
// caller's UTC offset.
func (r *TaskRepository) GetUnassignedTasksDueThisWeek(ctx context.Context, taskIDs []int, utcOffsetSeconds int) ([]model.Task, error) {
	tasks := []model.Task{}
	if len(taskIDs) == 0 {
		return tasks, nil
	}

	from, to := weekWindow(r.now(), utcOffsetSeconds)

	err := r.db.WithContext(ctx).
		Where("task.task_id IN ?", taskIDs).
		Scopes(notDeleted, open).
		Where("task.due_date >= ? AND task.due_date < ?", from, to).
		Order("task.due_date, task.task_id").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// GetTaskStatus returns the stored fields a status is derived from. The
// task type join is optional.
func (r *TaskRepository) GetTaskStatus(ctx context.Context, taskID int) (*model.TaskStatusRow, error) {
	var row model.TaskStatusRow

	res := r.db.WithContext(ctx).Table("task").
		Select("task.task_id, task.due_date, task.complete_date, task.abandon_date, task.assignee_user_id, task_type.task_translation_key").
		Joins("LEFT OUTER JOIN task_type ON task.task_type_id = task_type.task_type_id").
		Where("task.task_id = ?", taskID).
		Scopes(notDeleted).
		Limit(1).
		Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	return &row, nil
}

// AssignTask sets the assignee of one task and returns the updated row.
// A nil assignee unassigns the task.
func (r *TaskRepository) AssignTask(ctx context.Context, taskID int, assigneeUserID *string, actor model.Actor) (*model.Task, error) {
	return r.assign(ctx, taskID, assigneeUserID, actor, model.AuditAssign, nil)
}

// ClaimTask assigns an open task to the acting user. It fails with
// ErrTaskUnavailable when the task is assigned, closed or missing.
func (r *TaskRepository) ClaimTask(ctx context.Context, taskID int, actor model.Actor) (*model.Task, error) {
	assignee := actor.UserID
	return r.assign(ctx, taskID, &assignee, actor, model.AuditClaim, open)
}

func (r *TaskRepository) assign(
	ctx context.Context,
	taskID int,
	assigneeUserID *string,
	actor model.Actor,
	action string,
	guard func(*gorm.DB) *gorm.DB,
) (*model.Task, error) {
	var task model.Task

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&model.Task{}).Where("task.task_id = ?", taskID).Scopes(notDeleted)
		if guard != nil {
			query = query.Scopes(guard)
		}

		res := query.Updates(map[string]interface{}{
			"assignee_user_id":   assigneeUserID,
			"updated_by_user_id": actor.UserID,
			"updated_at":         r.now().UTC(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if guard != nil {
				return apperrors.ErrTaskUnavailable
			}
			return apperrors.ErrTaskNotFound
		}

		if err := writeAudit(tx, r.now(), action, []int{taskID}, actor, map[string]interface{}{
			"assignee_user_id": assigneeUserID,
		}); err != nil {
			return err
		}

		return tx.First(&task, "task_id = ?", taskID).Error
	})
	if err != nil {
		return nil, err
	}

	return &task, nil
}

// AssignTasks sets the same assignee on every task in taskIDs with a single
// statement. Unknown ids are skipped; the number of updated rows is returned.
func (r *TaskRepository) AssignTasks(ctx context.Context, taskIDs []int, assigneeUserID *string, actor model.Actor) (int64, error) {
	if len(taskIDs) == 0 {
		return 0, nil
	}

	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Task{}).
			Where("task.task_id IN ?", taskIDs).
			Scopes(notDeleted).
			Updates(map[string]interface{}{
				"assignee_user_id":   assigneeUserID,
				"updated_by_user_id": actor.UserID,
				"updated_at":         r.now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected

		return writeAudit(tx, r.now(), model.AuditBulkAssign, taskIDs, actor, map[string]interface{}{
			"assignee_user_id": assigneeUserID,
			"rows_affected":    affected,
		})
	})
	if err != nil {
		return 0, err
	}

	return affected, nil
}

// HasTasksDueTodayForUser reports whether any of taskIDs is assigned to
// userID and due on the current UTC calendar date.
func (r *TaskRepository) HasTasksDueTodayForUser(ctx context.Context, userID string, taskIDs []int) (bool, error) {
	if len(taskIDs) == 0 {
		return false, nil
	}

	from, to := dayWindow(r.now())

	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("task.task_id IN ?", taskIDs).
		Scopes(notDeleted).
		Where("task.assignee_user_id = ?", userID).
		Where("task.due_date >= ? AND task.due_date < ?", from, to).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// GetAvailableTasksOnDate returns the open tasks among taskIDs due on the
// calendar date of date. TaskType is nil for tasks whose type row is gone.
func (r *TaskRepository) GetAvailableTasksOnDate(ctx context.Context, taskIDs []int, date time.Time) ([]model.Task, error) {
	tasks := []model.Task{}
	if len(taskIDs) == 0 {
		return tasks, nil
	}

	from, to := dayWindow(date)

	err := r.db.WithContext(ctx).
		Preload("TaskType").
		Where("task.task_id IN ?", taskIDs).
		Where("task.due_date >= ? AND task.due_date < ?", from, to).
		Scopes(notDeleted, open).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// FindByID loads a task with its type, detail and links.
func (r *TaskRepository) FindByID(ctx context.Context, taskID int) (*model.Task, error) {
	var task model.Task

	err := r.db.WithContext(ctx).
		Preload("TaskType").
		Scopes(notDeleted).
		First(&task, "task.task_id = ?", taskID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}

	if err := r.loadRelations(ctx, r.db, &task); err != nil {
		return nil, err
	}

	return &task, nil
}

func (r *TaskRepository) loadRelations(ctx context.Context, db *gorm.DB, task *model.Task) error {
	db = db.WithContext(ctx)

	if task.TaskType != nil {
		if detail := model.NewDetail(task.TaskType.Kind()); detail != nil {
			err := db.First(detail, "task_id = ?", task.ID).Error
			switch {
			case err == nil:
				task.Detail = detail
			case !errors.Is(err, gorm.ErrRecordNotFound):
				return err
			}
		}
	}

	task.ManagementPlanIDs = []int{}
	if err := db.Model(&model.ManagementTask{}).
		Where("task_id = ?", task.ID).
		Order("planting_management_plan_id").
		Pluck("planting_management_plan_id", &task.ManagementPlanIDs).Error; err != nil {
		return err
	}

	task.LocationIDs = []string{}
	return db.Model(&model.LocationTask{}).
		Where("task_id = ?", task.ID).
		Order("location_id").
		Pluck("location_id", &task.LocationIDs).Error
}

// CreateTask stores a task, its detail row and its links in one
// transaction. The detail must match the kind of the task type; a typed
// task created without one gets an empty detail row.
func (r *TaskRepository) CreateTask(ctx context.Context, task *model.Task, actor model.Actor) (*model.Task, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taskType model.TaskType
		if err := tx.Where("task_type_id = ? AND deleted = ?", task.TaskTypeID, false).
			First(&taskType).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrTaskTypeNotFound
			}
			return err
		}

		kind := taskType.Kind()
		switch {
		case kind.HasDetail() && task.Detail == nil:
			task.Detail = model.NewDetail(kind)
		case kind.HasDetail() && task.Detail.Kind() != kind:
			return apperrors.Invalid("task detail does not match task type " + taskType.TaskTranslationKey)
		case !kind.HasDetail() && task.Detail != nil:
			return apperrors.Invalid("task type " + taskType.TaskTranslationKey + " takes no detail")
		}

		task.ID = 0
		task.DueDate = task.DueDate.UTC()
		task.CreatedByUserID = actor.UserID
		task.UpdatedByUserID = actor.UserID
		task.TaskType = nil

		if err := tx.Omit(clause.Associations).Create(task).Error; err != nil {
			return err
		}

		if task.Detail != nil {
			task.Detail.SetTaskID(task.ID)
			if err := tx.Create(task.Detail).Error; err != nil {
				return err
			}
		}

		for _, planID := range task.ManagementPlanIDs {
			link := model.ManagementTask{TaskID: task.ID, PlantingManagementPlanID: planID}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		for _, locationID := range task.LocationIDs {
			link := model.LocationTask{TaskID: task.ID, LocationID: locationID}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}

		task.TaskType = &taskType

		return writeAudit(tx, r.now(), model.AuditCreate, []int{task.ID}, actor, map[string]interface{}{
			"task_type_id": task.TaskTypeID,
			"due_date":     task.DueDate,
		})
	})
	if err != nil {
		return nil, err
	}

	return task, nil
}

// CompleteTask closes an open task as completed.
func (r *TaskRepository) CompleteTask(ctx context.Context, taskID int, in CompletionInput, actor model.Actor) (*model.Task, error) {
	return r.close(ctx, taskID, actor, model.AuditComplete, map[string]interface{}{
		"complete_date":      in.CompleteDate.UTC(),
		"completion_notes":   in.CompletionNotes,
		"happiness":          in.Happiness,
		"duration":           in.Duration,
		"updated_by_user_id": actor.UserID,
		"updated_at":         r.now().UTC(),
	})
}

// AbandonTask closes an open task as abandoned.
func (r *TaskRepository) AbandonTask(ctx context.Context, taskID int, in AbandonmentInput, actor model.Actor) (*model.Task, error) {
	return r.close(ctx, taskID, actor, model.AuditAbandon, map[string]interface{}{
		"abandon_date":             in.AbandonDate.UTC(),
		"abandonment_reason":       in.Reason,
		"other_abandonment_reason": in.OtherAbandonmentReason,
		"abandonment_notes":        in.AbandonmentNotes,
		"updated_by_user_id":       actor.UserID,
		"updated_at":               r.now().UTC(),
	})
}

func (r *TaskRepository) close(
	ctx context.Context,
	taskID int,
	actor model.Actor,
	action string,
	fields map[string]interface{},
) (*model.Task, error) {
	var task model.Task

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(notDeleted).First(&task, "task.task_id = ?", taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrTaskNotFound
			}
			return err
		}
		if task.CompleteDate != nil || task.AbandonDate != nil {
			return apperrors.ErrTaskClosed
		}

		res := tx.Model(&model.Task{}).
			Where("task.task_id = ? AND task.complete_date IS NULL AND task.abandon_date IS NULL", taskID).
			Updates(fields)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrTaskClosed
		}

		payload := make(map[string]interface{}, len(fields))
		for k, v := range fields {
			if k != "updated_by_user_id" && k != "updated_at" {
				payload[k] = v
			}
		}
		if err := writeAudit(tx, r.now(), action, []int{taskID}, actor, payload); err != nil {
			return err
		}

		return tx.First(&task, "task_id = ?", taskID).Error
	})
	if err != nil {
		return nil, err
	}

	return &task, nil
}

// DeleteTask soft-deletes a task.
func (r *TaskRepository) DeleteTask(ctx context.Context, taskID int, actor model.Actor) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Task{}).
			Where("task.task_id = ?", taskID).
			Scopes(notDeleted).
			Updates(map[string]interface{}{
				"deleted":            true,
				"updated_by_user_id": actor.UserID,
				"updated_at":         r.now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrTaskNotFound
		}

		return writeAudit(tx, r.now(), model.AuditDelete, []int{taskID}, actor, map[string]interface{}{})
	})
}

// ListOpenTasksForLocation returns the tasks linked to a location that are
// neither completed nor abandoned, ordered by due date.
func (r *TaskRepository) ListOpenTasksForLocation(ctx context.Context, locationID string) ([]model.Task, error) {
	tasks := []model.Task{}

	err := r.db.WithContext(ctx).
		Joins("JOIN location_tasks lt ON lt.task_id = task.task_id").
		Where("lt.location_id = ?", locationID).
		Where("task.complete_date IS NULL AND task.abandon_date IS NULL").
		Scopes(notDeleted).
		Preload("TaskType").
		Order("task.due_date, task.task_id").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// TaskIDsForFarm returns the ids of live tasks linked to any location of farmID.
func (r *TaskRepository) TaskIDsForFarm(ctx context.Context, farmID string) ([]int, error) {
	ids := []int{}

	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Distinct("task.task_id").
		Joins("JOIN location_tasks lt ON lt.task_id = task.task_id").
		Joins("JOIN location ON location.location_id = lt.location_id").
		Where("location.farm_id = ?", farmID).
		Scopes(notDeleted).
		Order("task.task_id").
		Pluck("task.task_id", &ids).Error
	if err != nil {
		return nil, err
	}

	return ids, nil
}
