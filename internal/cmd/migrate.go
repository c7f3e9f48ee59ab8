package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"merchandising-engine/internal/config"
	"merchandising-engine/internal/platform/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the merchandising tables if they do not exist",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewConnection(cmd.Context(), cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := postgres.Migrate(cmd.Context(), db); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Schema applied to %s\n", cfg.Database.DBName)
	return nil
}
