package config

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	model "farm-task-service.com/farm-task-service/internal/models"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

func NewDatabaseClient(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("db open failed: %w", err)
	}
	return db, nil
}

// newGormLogger sends slow queries and failures through the application
// logger. Missing rows are expected lookups, not errors.
func newGormLogger() logger.Interface {
	return logger.New(Logger, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

func Migrate(db *gorm.DB) error {
	models := []interface{}{
		&model.TaskType{},
		&model.Task{},
		&model.User{},
		&model.Role{},
		&model.UserFarm{},
		&model.Location{},
		&model.PlantingManagementPlan{},
		&model.ManagementTask{},
		&model.LocationTask{},
		&model.TaskAudit{},
		&model.Notification{},
	}
	models = append(models, model.DetailModels()...)

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

var defaultTaskTypes = []model.TaskType{
	{ID: 1, TaskName: "Soil amendment", TaskTranslationKey: "SOIL_AMENDMENT_TASK"},
	{ID: 2, TaskName: "Pest control", TaskTranslationKey: "PEST_CONTROL_TASK"},
	{ID: 3, TaskName: "Irrigation", TaskTranslationKey: "IRRIGATION_TASK"},
	{ID: 4, TaskName: "Scouting", TaskTranslationKey: "SCOUTING_TASK"},
	{ID: 5, TaskName: "Soil sample", TaskTranslationKey: "SOIL_TASK"},
	{ID: 6, TaskName: "Field work", TaskTranslationKey: "FIELD_WORK_TASK"},
	{ID: 7, TaskName: "Harvest", TaskTranslationKey: "HARVEST_TASK"},
	{ID: 8, TaskName: "Cleaning", TaskTranslationKey: "CLEANING_TASK"},
	{ID: 9, TaskName: "Planting", TaskTranslationKey: "PLANT_TASK"},
	{ID: 10, TaskName: "Transplant", TaskTranslationKey: "TRANSPLANT_TASK"},
}

var defaultRoles = []model.Role{
	{ID: 1, Role: "Owner"},
	{ID: 2, Role: "Manager"},
	{ID: 3, Role: "Worker"},
	{ID: 5, Role: "Extension Officer"},
}

// Seed inserts the default task types and roles, leaving existing rows alone.
func Seed(db *gorm.DB) error {
	taskTypes := append([]model.TaskType(nil), defaultTaskTypes...)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&taskTypes).Error; err != nil {
		return fmt.Errorf("seed task types: %w", err)
	}
	roles := append([]model.Role(nil), defaultRoles...)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&roles).Error; err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}
	return nil
}
