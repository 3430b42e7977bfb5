package constants

type TaskStatus string

const (
	StatusPlanned   TaskStatus = "planned"
	StatusLate      TaskStatus = "late"
	StatusCompleted TaskStatus = "completed"
	StatusAbandoned TaskStatus = "abandoned"
)

// IsActive reports whether work on a task with this status is still expected.
func (s TaskStatus) IsActive() bool {
	return s == StatusPlanned || s == StatusLate
}
