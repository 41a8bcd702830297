package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jcfinanceiro/jcfinanceiro/internal/auth"
)

func newUserCommand(open func() (*app, error)) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage API users",
	}
	userCmd.AddCommand(newUserAddCommand(open))
	return userCmd
}

func newUserAddCommand(open func() (*app, error)) *cobra.Command {
	var name, password, role string

	cmd := &cobra.Command{
		Use:   "add <email>",
		Short: "Register a user (the first one becomes admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.Close()

			svc, err := a.authService()
			if err != nil {
				return err
			}
			u, err := svc.Register(context.Background(), args[0], name, password, role)
			if err != nil {
				return err
			}
			if err := a.audit.Record("cli", "create", "user", u.ID, u.Email); err != nil {
				a.logger.Sugar().Warnf("audit log: %v", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s user %s (%s)\n", u.Role, u.Email, u.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&password, "password", "", "password: 8+ characters with upper, lower and digit (required)")
	_ = cmd.MarkFlagRequired("password")
	cmd.Flags().StringVar(&role, "role", auth.RoleUser, "role: admin or user")

	return cmd
}
