package repository

import (
	"context"

	"gorm.io/gorm"

	model "farm-task-service.com/farm-task-service/internal/models"
)

type FarmRepository struct {
	db *gorm.DB
}

func NewFarmRepository(db *gorm.DB) *FarmRepository {
	return &FarmRepository{db: db}
}

// ListActiveMemberships returns every active user-farm membership ordered
// by farm and user.
func (r *FarmRepository) ListActiveMemberships(ctx context.Context) ([]model.UserFarm, error) {
	var memberships []model.UserFarm

	err := r.db.WithContext(ctx).
		Where("status = ?", "Active").
		Order("farm_id, user_id").
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}

	return memberships, nil
}
