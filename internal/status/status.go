// Package status derives the logical state of a task from its stored dates.
package status

import (
	"time"

	"farm-task-service.com/farm-task-service/internal/constants"
)

// Integrity flags stored date combinations that should not occur.
type Integrity int

const (
	Consistent Integrity = iota
	// BothTerminalDates means complete_date and abandon_date are both set.
	BothTerminalDates
)

// Derive is the single place a task status is computed. A completed task
// wins over an abandoned one when both dates are present; the second
// return value tells the caller so it can be reported.
func Derive(completeDate, abandonDate *time.Time, dueDate, now time.Time) (constants.TaskStatus, Integrity) {
	switch {
	case completeDate != nil && abandonDate != nil:
		return constants.StatusCompleted, BothTerminalDates
	case completeDate != nil:
		return constants.StatusCompleted, Consistent
	case abandonDate != nil:
		return constants.StatusAbandoned, Consistent
	case dueDate.Before(now):
		return constants.StatusLate, Consistent
	default:
		return constants.StatusPlanned, Consistent
	}
}

// Of derives the status of a task at now, dropping the integrity flag.
func Of(completeDate, abandonDate *time.Time, dueDate, now time.Time) constants.TaskStatus {
	s, _ := Derive(completeDate, abandonDate, dueDate, now)
	return s
}
