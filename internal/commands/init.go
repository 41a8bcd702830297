package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jcfinanceiro/jcfinanceiro/internal/banking"
	"github.com/jcfinanceiro/jcfinanceiro/internal/categories"
	"github.com/jcfinanceiro/jcfinanceiro/internal/config"
	"github.com/jcfinanceiro/jcfinanceiro/internal/store"
)

func newInitCommand() *cobra.Command {
	var name string
	var document string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a config file, data directories and a seeded database",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd, absDir, name, document)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "company name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&document, "document", "", "company CNPJ or CPF")

	return cmd
}

func runInit(cmd *cobra.Command, dir, name, document string) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	cfg := config.Default(name)
	cfg.Company.Document = document
	if err := cfg.Validate(); err != nil {
		return err
	}

	resolved := *cfg
	resolved.Resolve(dir)
	for _, d := range []string{
		filepath.Join(resolved.Data.Dir, "import", "processed"),
		filepath.Join(resolved.Data.Dir, "logs"),
	} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	db, err := store.Open(resolved.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	banks, err := banking.NewService(db, zap.NewNop()).SeedBanks(ctx)
	if err != nil {
		return fmt.Errorf("seeding banks: %w", err)
	}
	cats, err := categories.NewService(db, zap.NewNop()).Seed(ctx, categories.DefaultChart())
	if err != nil {
		return fmt.Errorf("seeding categories: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s at %s (%d banks, %d categories)\n", name, dir, banks, cats)
	return nil
}
