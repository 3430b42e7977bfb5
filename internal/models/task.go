package model

import (
	"time"

	"gorm.io/datatypes"

	"farm-task-service.com/farm-task-service/internal/constants"
)

type Task struct {
	ID                     int                          `gorm:"column:task_id;primaryKey;autoIncrement" json:"task_id"`
	TaskTypeID             int                          `gorm:"not null;index" json:"task_type_id"`
	DueDate                time.Time                    `gorm:"not null;index" json:"due_date"`
	Notes                  *string                      `gorm:"type:text" json:"notes"`
	CompletionNotes        *string                      `gorm:"type:text" json:"completion_notes"`
	OwnerUserID            string                       `gorm:"size:36" json:"owner_user_id"`
	AssigneeUserID         *string                      `gorm:"size:36;index" json:"assignee_user_id"`
	Coordinates            *datatypes.JSON              `json:"coordinates,omitempty"`
	Duration               *float64                     `json:"duration"`
	WageAtMoment           *float64                     `json:"wage_at_moment"`
	OverrideHourlyWage     bool                         `gorm:"not null;default:false" json:"override_hourly_wage"`
	Happiness              *int                         `json:"happiness"`
	CompleteDate           *time.Time                   `json:"complete_date"`
	AbandonDate            *time.Time                   `json:"abandon_date"`
	LateTime               *time.Time                   `json:"late_time"`
	ForReviewTime          *time.Time                   `json:"for_review_time"`
	AbandonmentReason      *constants.AbandonmentReason `gorm:"type:varchar(32)" json:"abandonment_reason"`
	OtherAbandonmentReason *string                      `json:"other_abandonment_reason"`
	AbandonmentNotes       *string                      `gorm:"type:text" json:"abandonment_notes"`
	Deleted                bool                         `gorm:"not null;default:false;index" json:"deleted"`
	CreatedByUserID        string                       `gorm:"size:36" json:"created_by_user_id"`
	UpdatedByUserID        string                       `gorm:"size:36" json:"updated_by_user_id"`
	CreatedAt              time.Time                    `json:"created_at"`
	UpdatedAt              time.Time                    `json:"updated_at"`

	TaskType *TaskType `json:"task_type,omitempty"`

	// Loaded explicitly from the detail table and join tables.
	Detail            Detail   `gorm:"-" json:"detail,omitempty"`
	ManagementPlanIDs []int    `gorm:"-" json:"management_plan_ids,omitempty"`
	LocationIDs       []string `gorm:"-" json:"location_ids,omitempty"`
}

func (Task) TableName() string { return "task" }

type TaskType struct {
	ID                 int     `gorm:"column:task_type_id;primaryKey;autoIncrement" json:"task_type_id"`
	TaskName           string  `gorm:"not null" json:"task_name"`
	TaskTranslationKey string  `gorm:"not null" json:"task_translation_key"`
	FarmID             *string `gorm:"size:36" json:"farm_id"`
	Deleted            bool    `gorm:"not null;default:false" json:"deleted"`
}

func (TaskType) TableName() string { return "task_type" }

func (t TaskType) Kind() constants.TaskKind {
	return constants.KindFromTranslationKey(t.TaskTranslationKey)
}

// TaskAssignee is the assignee context of a task within one farm membership.
type TaskAssignee struct {
	AssigneeUserID     string   `json:"assignee_user_id"`
	AssigneeRoleID     int      `json:"assignee_role_id"`
	WageAtMoment       *float64 `json:"wage_at_moment"`
	OverrideHourlyWage bool     `json:"override_hourly_wage"`
}

// TaskStatusRow carries the stored fields status is derived from.
type TaskStatusRow struct {
	TaskID             int        `json:"task_id"`
	DueDate            time.Time  `json:"due_date"`
	CompleteDate       *time.Time `json:"complete_date"`
	AbandonDate        *time.Time `json:"abandon_date"`
	AssigneeUserID     *string    `json:"assignee_user_id"`
	TaskTranslationKey *string    `json:"task_translation_key"`
}
