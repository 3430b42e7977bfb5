package validators

import (
	dto "farm-task-service.com/farm-task-service/internal/data_models"
	apperrors "farm-task-service.com/farm-task-service/internal/errors"
)

func ValidateCreateTaskRequest(r *dto.CreateTaskRequest) error {
	if r.TaskTypeID <= 0 {
		return apperrors.Invalid("task_type_id is required")
	}
	if r.DueDate == "" {
		return apperrors.Invalid("due_date is required")
	}
	if _, err := ParseDate("due_date", r.DueDate); err != nil {
		return err
	}
	if r.Duration != nil && *r.Duration < 0 {
		return apperrors.Invalid("duration must not be negative")
	}
	if r.WageAtMoment != nil && *r.WageAtMoment < 0 {
		return apperrors.Invalid("wage_at_moment must not be negative")
	}
	for _, id := range r.ManagementPlanIDs {
		if id <= 0 {
			return apperrors.Invalid("management_plan_ids must be positive")
		}
	}
	for _, id := range r.LocationIDs {
		if id == "" {
			return apperrors.Invalid("location_ids must not contain empty ids")
		}
	}
	return nil
}
