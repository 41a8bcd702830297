package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jcfinanceiro/jcfinanceiro/internal/money"
	"github.com/jcfinanceiro/jcfinanceiro/internal/report"
)

func newReportCommand(open func() (*app, error)) *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Financial reports",
	}
	reportCmd.AddCommand(newReportDRECommand(open), newReportCashFlowCommand(open))
	return reportCmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newReportDRECommand(open func() (*app, error)) *cobra.Command {
	var from, to, basis string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "dre",
		Short: "Income statement (DRE) for a period",
		Args:  cobra.NoArgs,
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

			dre, err := a.reports.DRE(context.Background(), report.Period{From: start, To: end}, report.Basis(basis))
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), dre)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
			for _, l := range dre.Lines {
				label := "  " + l.Label
				if l.Kind == report.LineSubtotal {
					label = "= " + l.Label
				}
				fmt.Fprintf(w, "%s\t%s\t\n", label, money.FormatBRL(l.Total))
			}
			fmt.Fprintf(w, "Margem bruta\t%s%%\t\n", dre.GrossMargin.StringFixed(2))
			fmt.Fprintf(w, "Margem líquida\t%s%%\t\n", dre.NetMargin.StringFixed(2))
			if !dre.Unclassified.IsZero() {
				fmt.Fprintf(w, "Sem grupo DRE\t%s\t\n", money.FormatBRL(dre.Unclassified))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first day (default start of this month)")
	cmd.Flags().StringVar(&to, "to", "", "last day (default today)")
	cmd.Flags().StringVar(&basis, "basis", string(report.BasisCompetence), "competence or cash")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}

func newReportCashFlowCommand(open func() (*app, error)) *cobra.Command {
	var from, to, account, granularity string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "cashflow",
		Short: "Realized and projected cash flow",
		Args:  cobra.NoArgs,
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

			cf, err := a.reports.CashFlow(context.Background(), account, start, end, report.Granularity(granularity))
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), cf)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintf(w, "Período\tEntradas\tSaídas\tSaldo\tSaldo projetado\t\n")
			fmt.Fprintf(w, "Saldo inicial\t\t\t%s\t\t\n", money.FormatBRL(cf.OpeningBalance))
			for _, r := range cf.Rows {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n", r.Key, money.FormatBRL(r.Inflow), money.FormatBRL(r.Outflow),
					money.FormatBRL(r.Balance), money.FormatBRL(r.ProjectedBalance))
			}
			fmt.Fprintf(w, "Total\t%s\t%s\t%s\t%s\t\n", money.FormatBRL(cf.TotalInflow), money.FormatBRL(cf.TotalOutflow),
				money.FormatBRL(cf.ClosingBalance), money.FormatBRL(cf.ProjectedClosing))
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first day (default start of this month)")
	cmd.Flags().StringVar(&to, "to", "", "last day (default today)")
	cmd.Flags().StringVar(&account, "account", "", "bank account id (default all accounts)")
	cmd.Flags().StringVar(&granularity, "granularity", string(report.Daily), "day or month")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}
