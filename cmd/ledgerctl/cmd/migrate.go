package cmd

import (
	"fmt"
	"log/slog"

	"github.com/SscSPs/shop_finance_ledger/internal/platform/config"
	"github.com/SscSPs/shop_finance_ledger/pkg/database"
	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			result, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath)
			if err != nil {
				return err
			}
			return reportMigration(cmd, result)
		},
	}

	var steps int
	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			result, err := database.RollbackMigrations(cfg.DatabaseURL, cfg.MigrationsPath, steps)
			if err != nil {
				return err
			}
			return reportMigration(cmd, result)
		},
	}
	downCmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	migrateCmd.AddCommand(upCmd, downCmd)
	return migrateCmd
}

func reportMigration(cmd *cobra.Command, result database.MigrationResult) error {
	if result.Dirty {
		return fmt.Errorf("database is dirty at version %d", result.Version)
	}
	slog.Info("Migration finished", slog.Uint64("version", uint64(result.Version)), slog.Bool("changed", result.Changed))
	if !result.Changed {
		fmt.Fprintf(cmd.OutOrStdout(), "No change, schema at version %d\n", result.Version)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Schema now at version %d\n", result.Version)
	return nil
}
