package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jcfinanceiro/jcfinanceiro/internal/dateutil"
	"github.com/jcfinanceiro/jcfinanceiro/internal/id"
	"github.com/jcfinanceiro/jcfinanceiro/internal/installments"
	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
	"github.com/jcfinanceiro/jcfinanceiro/internal/money"
)

func newInstallmentsCommand() *cobra.Command {
	instCmd := &cobra.Command{
		Use:   "installments",
		Short: "Batch installment tools",
	}
	instCmd.AddCommand(newInstallmentsPreviewCommand())
	return instCmd
}

func newInstallmentsPreviewCommand() *cobra.Command {
	var total, firstDue, description, kind string
	var count int

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show the installments a batch would generate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := money.ParseBRL(total)
			if err != nil {
				return fmt.Errorf("--total: %w", err)
			}
			first := dateutil.Today()
			if firstDue != "" {
				if first, err = dateutil.Parse(firstDue); err != nil {
					return fmt.Errorf("--first-due: %w", err)
				}
			}
			plan := installments.Plan{
				Kind:        model.EntryKind(kind),
				Description: description,
				Total:       amount,
				Count:       count,
				FirstDue:    first,
			}
			insts := installments.Generate(plan)
			if errs := installments.Validate(plan, insts, dateutil.Today()); len(errs) > 0 {
				return errs
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(w, "Parcela\tVencimento\tValor\t")
			for _, inst := range insts {
				fmt.Fprintf(w, "%s\t%s\t%s\t\n", id.InstallmentLabel(inst.Number, len(insts)),
					inst.DueDate.Format(dateutil.LayoutBR), money.FormatBRL(inst.Amount))
			}
			fmt.Fprintf(w, "Total\t\t%s\t\n", money.FormatBRL(installments.Sum(insts)))
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&total, "total", "", "total amount, e.g. \"1.500,00\" (required)")
	_ = cmd.MarkFlagRequired("total")
	cmd.Flags().IntVar(&count, "count", 2, "number of installments")
	cmd.Flags().StringVar(&firstDue, "first-due", "", "first due date (default today)")
	cmd.Flags().StringVar(&description, "description", "Parcelamento", "entry description")
	cmd.Flags().StringVar(&kind, "kind", string(model.EntryPayable), "payable or receivable")

	return cmd
}
