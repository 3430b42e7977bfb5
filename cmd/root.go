package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	config "farm-task-service.com/farm-task-service/internal/configs"
)

var rootCmd = &cobra.Command{
	Use:           "farm-tasks",
	Short:         "Farm task service",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err != nil {
			config.Logger.Debug(".env file not found, using environment variables")
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		config.Logger.WithError(err).Error("command failed")
		os.Exit(1)
	}
}
