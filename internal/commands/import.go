package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jcfinanceiro/jcfinanceiro/internal/importer"
)

func newImportCommand(open func() (*app, error)) *cobra.Command {
	var accountID string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import the statement files waiting in <data dir>/import",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.Close()
			return runImport(cmd, a, accountID)
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "bank account id the statements belong to (required)")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func runImport(cmd *cobra.Command, a *app, accountID string) error {
	files, err := importer.Scan(a.cfg.Data.Dir, importer.DefaultRegistry())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(files) == 0 {
		fmt.Fprintln(out, "No statement files to import.")
		return nil
	}

	ctx := context.Background()
	for _, fi := range files {
		res, err := importFile(ctx, a, accountID, fi)
		if err != nil {
			return fmt.Errorf("%s: %w", fi.Name, err)
		}
		if err := importer.MarkProcessed(a.cfg.Data.Dir, fi.Name); err != nil {
			return err
		}
		details := fmt.Sprintf("%s: %d importadas, %d duplicadas", fi.Name, res.Imported, res.Duplicates)
		if err := a.audit.Record("cli", "import", "statement", accountID, details); err != nil {
			a.logger.Warn("audit log write failed", zap.Error(err))
		}
		fmt.Fprintf(out, "%s: %d imported, %d duplicates\n", fi.Name, res.Imported, res.Duplicates)
	}
	return nil
}

func importFile(ctx context.Context, a *app, accountID string, fi importer.FileInfo) (importer.Result, error) {
	f, err := os.Open(fi.Path)
	if err != nil {
		return importer.Result{}, fmt.Errorf("opening statement: %w", err)
	}
	defer f.Close()
	return a.importer.Import(ctx, accountID, fi.Format, f)
}
