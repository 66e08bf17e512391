package cmd

import (
	"fmt"
	"log/slog"

	"github.com/SscSPs/shop_finance_ledger/internal/chart"
	"github.com/spf13/cobra"
)

func newSeedChartCommand(root *rootOptions) *cobra.Command {
	var (
		file     string
		tenantID string
	)
	cmd := &cobra.Command{
		Use:   "seed-chart",
		Short: "Create the accounts of a chart that do not exist yet",
		Long: `Seed a chart of accounts. Without --file the built-in retail chart is used.
Without --tenant the accounts are created as shared accounts visible to every shop.
Accounts whose code already resolves are left untouched, so the command can be re-run.

Example:
  ledgerctl seed-chart
  ledgerctl seed-chart --tenant shop-42 --file chart.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadChart(file)
			if err != nil {
				return err
			}

			rt, err := openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			res, err := c.Seed(cmd.Context(), rt.services.Account, tenantID, root.actor)
			if err != nil {
				return err
			}

			slog.Info("Chart seeded", slog.Int("created", len(res.Created)), slog.Int("skipped", len(res.Skipped)))
			fmt.Fprintf(cmd.OutOrStdout(), "Created %d accounts, %d already present\n", len(res.Created), len(res.Skipped))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "chart YAML file (default: built-in retail chart)")
	cmd.Flags().StringVar(&tenantID, "tenant", "", "shop owner to seed for (default: shared accounts)")
	return cmd
}

func loadChart(file string) (*chart.Chart, error) {
	if file == "" {
		return chart.Default()
	}
	return chart.Load(file)
}
