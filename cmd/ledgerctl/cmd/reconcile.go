package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newReconcileCommand(root *rootOptions) *cobra.Command {
	var (
		tenantID string
		apply    bool
	)
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Compare cached account balances with posted journal lines",
		Long: `Recompute every account balance visible to a shop from its posted lines and
list the accounts whose cached balance drifted. With --apply the shop's own
drifted accounts are rewritten; shared accounts are only reported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			res, err := rt.services.Account.ReconcileBalances(cmd.Context(), tenantID, apply, root.actor)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Checked %d accounts, %d drifted\n", res.Checked, len(res.Drifts))
			if len(res.Drifts) == 0 {
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tNAME\tCACHED\tCOMPUTED\tDRIFT\tAPPLIED")
			for _, d := range res.Drifts {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\n", d.Code, d.Name, d.Cached.StringFixed(2), d.Computed.StringFixed(2), d.Drift.StringFixed(2), d.Applied)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&tenantID, "tenant", "", "shop owner whose accounts are reconciled (required)")
	cmd.Flags().BoolVar(&apply, "apply", false, "rewrite drifted balances")
	_ = cmd.MarkFlagRequired("tenant")
	return cmd
}
