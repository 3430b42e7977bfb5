package repository

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	model "farm-task-service.com/farm-task-service/internal/models"
)

// writeAudit records who performed a write on which tasks. It runs inside
// the write's transaction so the record and the change commit together.
func writeAudit(tx *gorm.DB, at time.Time, action string, taskIDs []int, actor model.Actor, payload map[string]interface{}) error {
	ids, err := json.Marshal(taskIDs)
	if err != nil {
		return err
	}

	audit := model.TaskAudit{
		ID:          uuid.NewString(),
		Action:      action,
		TaskIDs:     datatypes.JSON(ids),
		ActorUserID: actor.UserID,
		Payload:     datatypes.JSONMap(payload),
		CreatedAt:   at.UTC(),
	}

	return tx.Create(&audit).Error
}
