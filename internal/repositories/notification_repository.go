package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	model "farm-task-service.com/farm-task-service/internal/models"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// CreateOnce stores a notification unless one with the same user, farm,
// kind and day exists. It reports whether a row was written.
func (r *NotificationRepository) CreateOnce(ctx context.Context, userID, farmID, kind string, day time.Time) (bool, error) {
	n := model.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		FarmID:    farmID,
		Kind:      kind,
		Day:       day.UTC().Format(time.DateOnly),
		CreatedAt: time.Now().UTC(),
	}

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&n)
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

func (r *NotificationRepository) ListForUser(ctx context.Context, userID string) ([]model.Notification, error) {
	var notifications []model.Notification

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("day desc, farm_id").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}

	return notifications, nil
}
