package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jcfinanceiro/jcfinanceiro/internal/dateutil"
	"github.com/jcfinanceiro/jcfinanceiro/internal/money"
)

func newReconcileCommand(open func() (*app, error)) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "reconcile <terminal-id>",
		Short: "Match a terminal's expected settlements against imported deposits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := parseRange(from, to)
			if err != nil {
				return err
			}
			a, err := open()
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.terminals.Reconcile(context.Background(), args[0], start, end)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Conciliados\t%d\n", len(res.Matched))
			fmt.Fprintf(w, "Divergentes\t%d\n", len(res.Divergent))
			fmt.Fprintf(w, "Não recebidos\t%d\n", len(res.Missing))
			fmt.Fprintf(w, "Depósitos sem venda\t%d\n", len(res.Unexpected))
			fmt.Fprintf(w, "Esperado\t%s\n", money.FormatBRL(res.TotalExpected))
			fmt.Fprintf(w, "Depositado\t%s\n", money.FormatBRL(res.TotalDeposited))
			fmt.Fprintf(w, "Diferença\t%s\n", money.FormatBRL(res.Difference))
			for _, m := range res.Divergent {
				fmt.Fprintf(w, "  divergência\t%s\t%s\n", m.Deposit.Date.Format(dateutil.LayoutBR), money.FormatBRL(m.Difference))
			}
			for _, s := range res.Missing {
				fmt.Fprintf(w, "  não recebido\t%s\t%s\n", s.Date.Format(dateutil.LayoutBR), money.FormatBRL(s.Net))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first day (default start of this month)")
	cmd.Flags().StringVar(&to, "to", "", "last day (default today)")

	return cmd
}

// parseRange reads --from/--to, defaulting to the current month so far.
func parseRange(from, to string) (start, end time.Time, err error) {
	today := dateutil.Today()
	start, end = dateutil.StartOfMonth(today), today
	if from != "" {
		if start, err = dateutil.Parse(from); err != nil {
			return start, end, fmt.Errorf("--from: %w", err)
		}
	}
	if to != "" {
		if end, err = dateutil.Parse(to); err != nil {
			return start, end, fmt.Errorf("--to: %w", err)
		}
	}
	return start, end, nil
}
