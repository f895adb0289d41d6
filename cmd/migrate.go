package main

import (
	"github.com/spf13/cobra"

	"github.com/yungbote/studynotes-backend/internal/app"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update database tables and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := newApp(cmd.Context(), func(cfg *app.Config) {
			cfg.Database.AutoMigrate = true
		})
		if err != nil {
			return err
		}
		defer application.Close()

		application.Log.Info("Migrations applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
