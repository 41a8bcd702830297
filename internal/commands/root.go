package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jcfinanceiro/jcfinanceiro/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "jcfinanceiro",
		Short:   "Contas a pagar e receber, caixa e DRE para pequenas empresas",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./jcfinanceiro.yaml or ~/.jcfinanceiro/jcfinanceiro.yaml)")

	open := func() (*app, error) { return openApp(configPath) }

	rootCmd.AddCommand(
		newInitCommand(),
		newServeCommand(open),
		newUserCommand(open),
		newDocCommand(),
		newInstallmentsCommand(),
		newImportCommand(open),
		newReconcileCommand(open),
		newReportCommand(open),
		newOverdueCommand(open),
	)

	return rootCmd
}
