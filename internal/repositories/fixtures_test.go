package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	config "farm-task-service.com/farm-task-service/internal/configs"
	model "farm-task-service.com/farm-task-service/internal/models"
)

const (
	harvestTypeID    = 7
	irrigationTypeID = 3
	workerRoleID     = 3
	managerRoleID    = 2
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := config.NewDatabaseClient(config.DriverSQLite, dsn)
	require.NoError(t, err, "failed to connect database")
	require.NoError(t, config.Migrate(db))
	require.NoError(t, config.Seed(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func createUser(t *testing.T, db *gorm.DB, farmID string, roleID int) string {
	t.Helper()

	user := model.User{ID: uuid.NewString(), FirstName: "Test", LastName: "Worker"}
	require.NoError(t, db.Create(&user).Error)
	if farmID != "" {
		addMembership(t, db, user.ID, farmID, roleID)
	}
	return user.ID
}

func addMembership(t *testing.T, db *gorm.DB, userID, farmID string, roleID int) {
	t.Helper()
	require.NoError(t, db.Create(&model.UserFarm{UserID: userID, FarmID: farmID, RoleID: roleID, Status: "Active"}).Error)
}

func createLocation(t *testing.T, db *gorm.DB, farmID string) string {
	t.Helper()

	location := model.Location{ID: uuid.NewString(), FarmID: farmID, Name: "Field"}
	require.NoError(t, db.Create(&location).Error)
	return location.ID
}

// insertTask writes a task row directly so tests can set any field.
func insertTask(t *testing.T, db *gorm.DB, due time.Time, mutate ...func(*model.Task)) *model.Task {
	t.Helper()

	task := &model.Task{
		TaskTypeID:  harvestTypeID,
		DueDate:     due.UTC(),
		OwnerUserID: "owner",
	}
	for _, m := range mutate {
		m(task)
	}
	require.NoError(t, db.Omit("TaskType").Create(task).Error)
	return task
}

func linkLocation(t *testing.T, db *gorm.DB, taskID int, locationID string) {
	t.Helper()
	require.NoError(t, db.Create(&model.LocationTask{TaskID: taskID, LocationID: locationID}).Error)
}

func assignedTo(userID string) func(*model.Task) {
	return func(task *model.Task) { task.AssigneeUserID = &userID }
}

func completedAt(at time.Time) func(*model.Task) {
	return func(task *model.Task) { task.CompleteDate = &at }
}

func abandonedAt(at time.Time) func(*model.Task) {
	return func(task *model.Task) { task.AbandonDate = &at }
}

func deleted(task *model.Task) { task.Deleted = true }

func ptr[T any](v T) *T { return &v }

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func taskIDs(tasks []model.Task) []int {
	ids := make([]int, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}
	return ids
}

func countAudits(t *testing.T, db *gorm.DB, action string) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&model.TaskAudit{}).Where("action = ?", action).Count(&count).Error)
	return count
}
