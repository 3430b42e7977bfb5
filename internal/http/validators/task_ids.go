package validators

import (
	"strconv"
	"time"

	apperrors "farm-task-service.com/farm-task-service/internal/errors"
)

const maxTaskIDs = 1000

// ParseTaskID parses a path id. Non-numeric and non-positive ids are rejected.
func ParseTaskID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, apperrors.ErrTaskIDInvalid
	}
	return id, nil
}

func ValidateTaskIDs(ids []int) error {
	if len(ids) > maxTaskIDs {
		return apperrors.Invalid("task_ids must hold at most 1000 ids")
	}
	for _, id := range ids {
		if id <= 0 {
			return apperrors.Invalid("task_ids must be positive")
		}
	}
	return nil
}

// ParseDate accepts a calendar date (YYYY-MM-DD, taken as UTC midnight) or
// an RFC 3339 timestamp.
func ParseDate(field, raw string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, apperrors.Invalid(field + " must be YYYY-MM-DD or RFC 3339")
	}
	return t, nil
}

// ParseOptionalDate returns the zero time for an empty value.
func ParseOptionalDate(field, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return ParseDate(field, raw)
}
