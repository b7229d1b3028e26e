package cmd

import (
	"fmt"

	"github.com/crazycusti/ticket-desk/internal/config"
	"github.com/crazycusti/ticket-desk/internal/logger"
	"github.com/spf13/cobra"
)

var dataFile string

var rootCmd = &cobra.Command{
	Use:          "ticket-desk",
	Short:        "Ticket desk: customers file tickets, operators work them off",
	RunE:         runAPI,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataFile, "data-file", "", "ticket database snapshot file (overrides DATA_FILE)")
	rootCmd.AddCommand(apiCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(listCmd)
}

// loadConfig reads env and flags, validates, and sets up logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if dataFile != "" {
		cfg.DataFile = dataFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := logger.Init(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile, Env: cfg.AppEnv}); err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return cfg, nil
}
