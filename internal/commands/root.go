package commands

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kakeibo-dev/kakeibo/internal/buildinfo"
	"github.com/kakeibo-dev/kakeibo/internal/clock"
	"github.com/kakeibo-dev/kakeibo/internal/config"
	"github.com/kakeibo-dev/kakeibo/internal/day"
	"github.com/kakeibo-dev/kakeibo/internal/logging"
	"github.com/kakeibo-dev/kakeibo/internal/service"
	"github.com/kakeibo-dev/kakeibo/internal/store"
)

// rootOptions holds the persistent flags every command shares.
type rootOptions struct {
	configPath string
	today      string
}

// env is what a command needs to run against the book.
type env struct {
	cfg    *config.Config
	svc    *service.Service
	logger *logging.Logger
	out    io.Writer
	money  moneyFormatter
	close  func()
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:     "kakeibo",
		Short:   "Personal ledger with cash-flow projection",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath, "config file")
	rootCmd.PersistentFlags().StringVar(&opts.today, "today", "", "pin today's date (YYYY-MM-DD)")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newAccountCommand(opts))
	rootCmd.AddCommand(newTxCommand(opts))
	rootCmd.AddCommand(newFixedCommand(opts))
	rootCmd.AddCommand(newIncomeCommand(opts))
	rootCmd.AddCommand(newSummaryCommand(opts))
	rootCmd.AddCommand(newBalanceSheetCommand(opts))
	rootCmd.AddCommand(newCashflowCommand(opts))
	rootCmd.AddCommand(newCalendarCommand(opts))
	rootCmd.AddCommand(newPLCommand(opts))
	rootCmd.AddCommand(newCheckCommand(opts))
	rootCmd.AddCommand(newExportCommand(opts))
	rootCmd.AddCommand(newImportCommand(opts))
	rootCmd.AddCommand(newServeCommand(opts))

	return rootCmd
}

// open loads the config, opens the store and builds the service. Relative
// storage paths are resolved against the config file's directory.
func (o *rootOptions) open(cmd *cobra.Command) (*env, error) {
	cfg, err := config.LoadOrDefault(o.configPath)
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(cfg.Storage.Path) {
		cfg.Storage.Path = filepath.Join(filepath.Dir(o.configPath), cfg.Storage.Path)
	}

	var clk clock.Clock = clock.Real{}
	if o.today != "" {
		d, err := day.Parse(o.today)
		if err != nil {
			return nil, fmt.Errorf("--today: %w", err)
		}
		clk = clock.At(d)
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())
	repo, err := store.Open(cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return &env{
		cfg:    cfg,
		svc:    service.New(repo, clk, logger),
		logger: logger,
		out:    cmd.OutOrStdout(),
		money:  moneyFormatter{currency: cfg.Display.Currency},
		close:  func() { repo.Close() },
	}, nil
}

// run opens the environment, calls fn and closes it again.
func (o *rootOptions) run(cmd *cobra.Command, fn func(e *env) error) error {
	e, err := o.open(cmd)
	if err != nil {
		return err
	}
	defer e.close()
	return fn(e)
}
