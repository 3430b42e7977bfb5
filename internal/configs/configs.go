package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	AppURL                  string
	DatabaseDriver          string
	DatabaseDSN             string
	RateLimit               int
	RedisEnabled            bool
	RedisAddr               string
	ClaimLockTTLSeconds     int
	JWTSecret               string
	ReminderWorkers         int
	ReminderQueueSize       int
	ReminderIntervalSeconds int
	ShutdownTimeoutSeconds  int
	LogLevel                string
}

func Load() (Config, error) {
	appHost := getEnv("APP_HOST", "127.0.0.1")
	appPort := getEnv("APP_PORT", "8080")
	redisHost := getEnv("REDIS_HOST", "127.0.0.1")
	redisPort := getEnv("REDIS_PORT", "6379")

	driver, dsn := LoadDatabase()

	var errs []string
	cfg := Config{
		AppURL:                  fmt.Sprintf("%s:%s", appHost, appPort),
		DatabaseDriver:          driver,
		DatabaseDSN:             dsn,
		RateLimit:               getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120, &errs),
		RedisEnabled:            getEnvAsBool("REDIS_ENABLED", false, &errs),
		RedisAddr:               fmt.Sprintf("%s:%s", redisHost, redisPort),
		ClaimLockTTLSeconds:     getEnvAsInt("CLAIM_LOCK_TTL_SECONDS", 10, &errs),
		JWTSecret:               os.Getenv("JWT_SECRET"),
		ReminderWorkers:         getEnvAsInt("REMINDER_WORKERS", 4, &errs),
		ReminderQueueSize:       getEnvAsInt("REMINDER_QUEUE_SIZE", 100, &errs),
		ReminderIntervalSeconds: getEnvAsInt("REMINDER_INTERVAL_SECONDS", 3600, &errs),
		ShutdownTimeoutSeconds:  getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 20, &errs),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
	}

	errs = append(errs, validate(cfg)...)
	if len(errs) > 0 {
		return cfg, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

// LoadDatabase reads only the database settings. The migrate command uses
// it so it runs without the server secrets.
func LoadDatabase() (driver, dsn string) {
	return strings.ToLower(getEnv("DATABASE_DRIVER", DriverSQLite)), getEnv("DATABASE_DSN", "farm_tasks.db")
}

func validate(cfg Config) []string {
	var errs []string
	if cfg.DatabaseDriver != DriverSQLite && cfg.DatabaseDriver != DriverPostgres {
		errs = append(errs, "DATABASE_DRIVER must be sqlite or postgres")
	}
	if cfg.DatabaseDSN == "" {
		errs = append(errs, "DATABASE_DSN must not be empty")
	}
	if cfg.RateLimit <= 0 {
		errs = append(errs, "RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
	if cfg.ClaimLockTTLSeconds <= 0 {
		errs = append(errs, "CLAIM_LOCK_TTL_SECONDS must be greater than 0")
	}
	if cfg.JWTSecret == "" {
		errs = append(errs, "JWT_SECRET must not be empty")
	}
	if cfg.ReminderWorkers <= 0 {
		errs = append(errs, "REMINDER_WORKERS must be greater than 0")
	}
	if cfg.ReminderQueueSize <= 0 {
		errs = append(errs, "REMINDER_QUEUE_SIZE must be greater than 0")
	}
	if cfg.ReminderIntervalSeconds <= 0 {
		errs = append(errs, "REMINDER_INTERVAL_SECONDS must be greater than 0")
	}
	return errs
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int, errs *[]string) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			*errs = append(*errs, fmt.Sprintf("invalid integer value for %s", key))
			return defaultVal
		}
		return i
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool, errs *[]string) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			*errs = append(*errs, fmt.Sprintf("invalid boolean value for %s", key))
			return defaultVal
		}
		return b
	}
	return defaultVal
}
