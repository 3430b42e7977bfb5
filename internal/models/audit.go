package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	AuditAssign     = "assign"
	AuditBulkAssign = "bulk_assign"
	AuditClaim      = "claim"
	AuditCreate     = "create"
	AuditComplete   = "complete"
	AuditAbandon    = "abandon"
	AuditDelete     = "delete"
)

type TaskAudit struct {
	ID          string            `gorm:"column:audit_id;primaryKey;size:36" json:"audit_id"`
	Action      string            `gorm:"size:32;not null;index" json:"action"`
	TaskIDs     datatypes.JSON    `gorm:"not null" json:"task_ids"`
	ActorUserID string            `gorm:"size:36;index" json:"actor_user_id"`
	Payload     datatypes.JSONMap `json:"payload,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

func (TaskAudit) TableName() string { return "task_audit" }

type Notification struct {
	ID        string    `gorm:"column:notification_id;primaryKey;size:36" json:"notification_id"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_notification_once" json:"user_id"`
	FarmID    string    `gorm:"size:36;not null;uniqueIndex:idx_notification_once" json:"farm_id"`
	Kind      string    `gorm:"size:32;not null;uniqueIndex:idx_notification_once" json:"kind"`
	Day       string    `gorm:"size:10;not null;uniqueIndex:idx_notification_once" json:"day"`
	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string { return "notification" }

const NotificationDailyTasksDue = "daily_tasks_due"
