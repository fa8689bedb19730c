package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kakeibo-dev/kakeibo/internal/accounts"
	"github.com/kakeibo-dev/kakeibo/internal/clock"
	"github.com/kakeibo-dev/kakeibo/internal/config"
	"github.com/kakeibo-dev/kakeibo/internal/ledger"
	"github.com/kakeibo-dev/kakeibo/internal/logging"
	"github.com/kakeibo-dev/kakeibo/internal/model"
	"github.com/kakeibo-dev/kakeibo/internal/store"
)

func newInitCommand() *cobra.Command {
	var backend, accountsFile string
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new book with the default accounts",
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

			return runInit(cmd, absDir, backend, accountsFile, force)
		},
	}

	cmd.Flags().StringVar(&backend, "backend", config.BackendFile, "storage backend (file or sqlite)")
	cmd.Flags().StringVar(&accountsFile, "accounts", "", "seed the chart from an accounts CSV instead of the defaults")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")

	return cmd
}

func runInit(cmd *cobra.Command, dir, backend, accountsFile string, force bool) error {
	var chart []model.Account
	if accountsFile != "" {
		f, err := os.Open(accountsFile)
		if err != nil {
			return fmt.Errorf("opening accounts: %w", err)
		}
		chart, err = accounts.ReadAccounts(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("reading %s: %w", accountsFile, err)
		}
		if len(chart) == 0 {
			return fmt.Errorf("%s has no accounts", accountsFile)
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	cfgPath := filepath.Join(dir, config.DefaultPath)
	if _, err := os.Stat(cfgPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgPath)
	}

	cfg := config.Default()
	cfg.Storage.Backend = backend
	if backend == config.BackendSQLite {
		cfg.Storage.Path = "kakeibo.db"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	storage := cfg.Storage
	storage.Path = filepath.Join(dir, storage.Path)
	repo, err := store.Open(storage, logging.NewSilent())
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer repo.Close()

	// Saving once writes the seeded book.
	var count int
	if err := repo.Update(func(b *model.Book) error {
		if accountsFile != "" {
			if err := ledger.SeedAccounts(b, chart, clock.Today(clock.Real{})); err != nil {
				return err
			}
		}
		count = len(b.Accounts)
		return nil
	}); err != nil {
		return fmt.Errorf("writing book: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized kakeibo book at %s (%d accounts)\n", storage.Path, count)
	return nil
}
