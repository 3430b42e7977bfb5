package dto

import "encoding/json"

// CreateTaskRequest is the body of POST /tasks. Detail is decoded against
// the kind of the referenced task type.
type CreateTaskRequest struct {
	TaskTypeID         int             `json:"task_type_id"`
	DueDate            string          `json:"due_date"`
	Notes              *string         `json:"notes"`
	OwnerUserID        string          `json:"owner_user_id"`
	AssigneeUserID     *string         `json:"assignee_user_id"`
	Coordinates        json.RawMessage `json:"coordinates"`
	Duration           *float64        `json:"duration"`
	WageAtMoment       *float64        `json:"wage_at_moment"`
	OverrideHourlyWage bool            `json:"override_hourly_wage"`
	Happiness          *int            `json:"happiness"`
	ManagementPlanIDs  []int           `json:"management_plan_ids"`
	LocationIDs        []string        `json:"location_ids"`
	Detail             json.RawMessage `json:"detail"`
}

// AssignTaskRequest sets or clears (null) the assignee of one task.
type AssignTaskRequest struct {
	AssigneeUserID *string `json:"assignee_user_id"`
}

type AssignTasksRequest struct {
	TaskIDs        []int   `json:"task_ids"`
	AssigneeUserID *string `json:"assignee_user_id"`
}

type DueThisWeekRequest struct {
	TaskIDs          []int `json:"task_ids"`
	UTCOffsetSeconds int   `json:"utc_offset_seconds"`
}

type AvailableTasksRequest struct {
	TaskIDs []int  `json:"task_ids"`
	Date    string `json:"date"`
}

// DueTodayRequest checks the acting user when UserID is empty.
type DueTodayRequest struct {
	UserID  string `json:"user_id"`
	TaskIDs []int  `json:"task_ids"`
}

type CompleteTaskRequest struct {
	CompleteDate    string   `json:"complete_date"`
	CompletionNotes *string  `json:"completion_notes"`
	Happiness       *int     `json:"happiness"`
	Duration        *float64 `json:"duration"`
}

type AbandonTaskRequest struct {
	AbandonDate            string  `json:"abandon_date"`
	AbandonmentReason      string  `json:"abandonment_reason"`
	OtherAbandonmentReason *string `json:"other_abandonment_reason"`
	AbandonmentNotes       *string `json:"abandonment_notes"`
}

type AssignTasksResponse struct {
	Updated int64 `json:"updated"`
}

type DueTodayResponse struct {
	UserID           string `json:"user_id"`
	HasTasksDueToday bool   `json:"has_tasks_due_today"`
}
