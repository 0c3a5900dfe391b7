package cmd

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/solatis/valkeeper/internal/core/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage report store schema migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(cmd, func(database *sqlx.DB) error {
			if err := db.MigrateUp(cmd.Context(), database); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show applied and pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(cmd, func(database *sqlx.DB) error {
			statuses, err := db.MigrateStatus(cmd.Context(), database)
			if err != nil {
				return err
			}
			return renderMigrations(cmd.OutOrStdout(), statuses, time.Now())
		})
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateStatusCmd)
}

// withDatabase opens the configured store database for the duration of fn.
func withDatabase(cmd *cobra.Command, fn func(*sqlx.DB) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	url, err := storeURL(cfg)
	if err != nil {
		return err
	}
	database, err := db.Open(cmd.Context(), url)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()
	return fn(database)
}
