package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jcfinanceiro/jcfinanceiro/internal/document"
)

func newDocCommand() *cobra.Command {
	docCmd := &cobra.Command{
		Use:   "doc",
		Short: "CPF/CNPJ utilities",
	}
	docCmd.AddCommand(&cobra.Command{
		Use:   "check <cpf-or-cnpj>...",
		Short: "Validate and format CPF/CNPJ numbers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			invalid := 0
			for _, arg := range args {
				digits, typ, err := document.Normalize(arg)
				if err != nil {
					invalid++
					fmt.Fprintf(out, "%s\tinvalid: %v\n", arg, err)
					continue
				}
				fmt.Fprintf(out, "%s\t%s\t%s\n", arg, typ, document.Format(digits))
			}
			if invalid > 0 {
				return fmt.Errorf("%d of %d documents invalid", invalid, len(args))
			}
			return nil
		},
	})
	return docCmd
}
