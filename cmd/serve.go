package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	config "farm-task-service.com/farm-task-service/internal/configs"
	httpapi "farm-task-service.com/farm-task-service/internal/http"
	"farm-task-service.com/farm-task-service/internal/queue"
	repository "farm-task-service.com/farm-task-service/internal/repositories"
	"farm-task-service.com/farm-task-service/internal/services"
)

const claimKeyPrefix = "task_claim"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the farm task HTTP API and the daily reminder worker pool",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		config.InitLogger(cfg.LogLevel)
		log := config.Logger

		database, err := config.NewDatabaseClient(cfg.DatabaseDriver, cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		if sqlDB, err := database.DB(); err == nil {
			defer sqlDB.Close()
		}
		if err := config.Migrate(database); err != nil {
			return err
		}
		if err := config.Seed(database); err != nil {
			return err
		}

		lockTTL := time.Duration(cfg.ClaimLockTTLSeconds) * time.Second
		var locker queue.ClaimLocker
		if cfg.RedisEnabled {
			redisClient, err := config.NewRedisClient(cfg.RedisAddr)
			if err != nil {
				return err
			}
			defer redisClient.Close()
			locker = queue.NewRedisClaimLocker(redisClient, claimKeyPrefix, lockTTL)
			log.WithField("addr", cfg.RedisAddr).Info("claim locks held in redis")
		} else {
			locker = queue.NewLocalClaimLocker(lockTTL)
			log.Info("claim locks held in process")
		}

		taskRepo := repository.NewTaskRepository(database)
		notificationRepo := repository.NewNotificationRepository(database)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		reminders := services.NewReminderService(
			taskRepo,
			repository.NewFarmRepository(database),
			notificationRepo,
			cfg.ReminderWorkers,
			cfg.ReminderQueueSize,
			time.Duration(cfg.ReminderIntervalSeconds)*time.Second,
			log,
		)

		taskService := services.NewTaskService(taskRepo, locker, log)

		e := echo.New()
		handler := httpapi.NewHandler(taskService, notificationRepo)
		httpapi.Register(e, handler, cfg.RateLimit, cfg.JWTSecret, log)

		go func() {
			log.Infof("HTTP server listening on %s", cfg.AppURL)
			if err := e.Start(cfg.AppURL); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("server stopped")
				stop()
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second,
		)
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("HTTP server shutdown")
		}
		reminders.Shutdown(shutdownCtx)

		log.Info("HTTP server and reminder pool shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
