package cmd

import (
	"os"

	"github.com/spf13/cobra"

	config "farm-task-service.com/farm-task-service/internal/configs"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the schema and seed default task types and roles",
	RunE: func(cmd *cobra.Command, args []string) error {
		level := os.Getenv("LOG_LEVEL")
		if level == "" {
			level = "info"
		}
		config.InitLogger(level)

		driver, dsn := config.LoadDatabase()
		db, err := config.NewDatabaseClient(driver, dsn)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		if err := config.Migrate(db); err != nil {
			return err
		}
		if err := config.Seed(db); err != nil {
			return err
		}

		config.Logger.WithField("driver", driver).Info("schema migrated and seeded")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
