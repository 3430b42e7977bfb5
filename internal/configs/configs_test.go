package config

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	model "farm-task-service.com/farm-task-service/internal/models"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:8080", cfg.AppURL)
		assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
		assert.False(t, cfg.RedisEnabled)
		assert.Equal(t, 10, cfg.ClaimLockTTLSeconds)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("APP_PORT", "9000")
		t.Setenv("DATABASE_DRIVER", "Postgres")
		t.Setenv("REDIS_ENABLED", "true")
		t.Setenv("REMINDER_WORKERS", "2")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:9000", cfg.AppURL)
		assert.Equal(t, DriverPostgres, cfg.DatabaseDriver)
		assert.True(t, cfg.RedisEnabled)
		assert.Equal(t, 2, cfg.ReminderWorkers)
	})

	t.Run("reports every invalid value", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		t.Setenv("RATE_LIMIT_PER_MINUTE", "lots")
		t.Setenv("DATABASE_DRIVER", "mysql")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "RATE_LIMIT_PER_MINUTE")
		assert.Contains(t, err.Error(), "DATABASE_DRIVER")
		assert.Contains(t, err.Error(), "JWT_SECRET")
	})
}

func TestLoadDatabaseNeedsNoSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_DRIVER", "POSTGRES")
	t.Setenv("DATABASE_DSN", "host=db user=farm")

	driver, dsn := LoadDatabase()
	assert.Equal(t, DriverPostgres, driver)
	assert.Equal(t, "host=db user=farm", dsn)
}

func TestMigrateAndSeed(t *testing.T) {
	db, err := NewDatabaseClient(DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	require.NoError(t, Seed(db))
	require.NoError(t, Seed(db))

	var count int64
	require.NoError(t, db.Model(&model.TaskType{}).Count(&count).Error)
	assert.EqualValues(t, len(defaultTaskTypes), count)

	require.NoError(t, db.Model(&model.Role{}).Count(&count).Error)
	assert.EqualValues(t, len(defaultRoles), count)
}

func TestDatabaseLogsSkipMissingRows(t *testing.T) {
	var buf bytes.Buffer
	out := Logger.Out
	Logger.SetOutput(&buf)
	t.Cleanup(func() { Logger.SetOutput(out) })

	db, err := NewDatabaseClient(DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	var taskType model.TaskType
	err = db.First(&taskType, "task_type_id = ?", 4040).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NotContains(t, buf.String(), "record not found")

	require.Error(t, db.Exec("SELECT * FROM no_such_table").Error)
	assert.Contains(t, buf.String(), "no_such_table")
}

func TestNewDatabaseClientRejectsUnknownDriver(t *testing.T) {
	_, err := NewDatabaseClient("oracle", "dsn")
	assert.Error(t, err)
}
