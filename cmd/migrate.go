package cmd

import (
	"fmt"

	"github.com/crazycusti/ticket-desk/internal/application"
	"github.com/crazycusti/ticket-desk/internal/logger"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the ticket database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Create the data file or apply pending migrations to it",
	RunE:  runMigrateUp,
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	engine, _, err := application.NewStore(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	defer engine.Close()
	// Loading already migrated the in-memory copy; write it back so the file carries it.
	if err := engine.Persist(cmd.Context()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	logger.Sugar.Infof("migrate up: ok (%s)", engine.Path())
	return nil
}
