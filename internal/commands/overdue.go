package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newOverdueCommand(open func() (*app, error)) *cobra.Command {
	overdueCmd := &cobra.Command{
		Use:   "overdue",
		Short: "Overdue entries",
	}
	overdueCmd.AddCommand(&cobra.Command{
		Use:   "refresh",
		Short: "Mark pending entries past their due date (plus grace days) as overdue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.entries.RefreshOverdue(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d entries marked overdue\n", n)
			return nil
		},
	})
	return overdueCmd
}
