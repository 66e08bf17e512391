// Package cmd provides the ledgerctl commands.
package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/SscSPs/shop_finance_ledger/internal/core/ports/services"
	coreservices "github.com/SscSPs/shop_finance_ledger/internal/core/services"
	"github.com/SscSPs/shop_finance_ledger/internal/platform/config"
	"github.com/SscSPs/shop_finance_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/shop_finance_ledger/pkg/database"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

// cliActor is recorded as the actor of CLI-initiated changes unless --actor is given.
const cliActor = "ledgerctl"

type rootOptions struct {
	debug bool
	actor string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Administer the shop finance ledger",
		Long: `ledgerctl runs database migrations, seeds charts of accounts and
reconciles cached account balances against the journal.

Example:
  ledgerctl migrate up
  ledgerctl seed-chart --tenant shop-42
  ledgerctl reconcile --tenant shop-42 --apply`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logLevel := slog.LevelInfo
			if opts.debug {
				logLevel = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
		},
	}

	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&opts.actor, "actor", cliActor, "actor recorded in the audit log")

	rootCmd.AddCommand(newMigrateCommand())
	rootCmd.AddCommand(newSeedChartCommand(opts))
	rootCmd.AddCommand(newReconcileCommand(opts))

	return rootCmd
}

// ledgerRuntime is what commands that touch ledger data need.
type ledgerRuntime struct {
	cfg      *config.Config
	pool     *pgxpool.Pool
	services *services.ServiceContainer
}

func (r *ledgerRuntime) Close() {
	database.ClosePgxPool(r.pool)
}

func openLedger(ctx context.Context) (*ledgerRuntime, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
	if err != nil {
		return nil, err
	}
	repos := pgsql.NewRepositoryProvider(pool)
	return &ledgerRuntime{
		cfg:      cfg,
		pool:     pool,
		services: coreservices.NewServiceContainer(cfg, repos, nil),
	}, nil
}
