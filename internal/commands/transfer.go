package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kakeibo-dev/kakeibo/internal/importer"
	"github.com/kakeibo-dev/kakeibo/internal/service"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write accounts or transactions as CSV to stdout",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "accounts",
		Short: "Export accounts as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(e *env) error {
				return e.svc.ExportAccounts(e.out)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "transactions",
		Short: "Export the transaction log as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(e *env) error {
				return e.svc.ExportTransactions(e.out)
			})
		},
	})

	return cmd
}

func newImportCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import records from CSV",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "transactions <file>",
		Short: "Post every row of a transactions CSV, or none on error",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			return opts.run(cmd, func(e *env) error {
				created, err := e.svc.ImportTransactions(f)
				if err != nil {
					return err
				}
				fmt.Fprintf(e.out, "Imported %d transactions from %s\n", len(created), args[0])
				return nil
			})
		},
	})
	cmd.AddCommand(newImportStatementCommand(opts))
	cmd.AddCommand(newImportInboxCommand(opts))

	return cmd
}

// statementFlags select how a statement is read and where it is recorded.
type statementFlags struct {
	format  string
	account int
}

func (f *statementFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.format, "format", "bank", "statement format (bank or card)")
	cmd.Flags().IntVar(&f.account, "account", 0, "account ID the statement belongs to")
	_ = cmd.MarkFlagRequired("account")
}

func newImportStatementCommand(opts *rootOptions) *cobra.Command {
	var f statementFlags

	cmd := &cobra.Command{
		Use:   "statement <file>",
		Short: "Record every line of a bank or card statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(e *env) error {
				return importStatement(e, args[0], f)
			})
		},
	}

	f.register(cmd)
	return cmd
}

func newImportInboxCommand(opts *rootOptions) *cobra.Command {
	var f statementFlags

	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "Import every statement waiting in the book's import/ directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := filepath.Dir(opts.configPath)
			files, err := importer.Scan(root)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No statements in %s\n", filepath.Join(root, importer.InboxDir))
				return nil
			}
			return opts.run(cmd, func(e *env) error {
				for _, file := range files {
					if err := importStatement(e, file.Path, f); err != nil {
						return err
					}
					if err := importer.MarkProcessed(root, file.Name); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	f.register(cmd)
	return cmd
}

func importStatement(e *env, path string, f statementFlags) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	var res service.StatementImport
	if res, err = e.svc.ImportStatement(file, f.format, f.account); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	fmt.Fprintf(e.out, "Imported %d transactions from %s\n", len(res.Created), filepath.Base(path))
	for _, l := range res.Skipped {
		fmt.Fprintf(e.out, "  skipped %s %s %s: record refunds on a liability by hand\n",
			l.Date, l.Description, l.Amount.String())
	}
	return nil
}

// statementFlags select how a statement is read and where it is recorded.
type statementFlags struct {
	format  string
	account int
}

func (f *statementFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.format, "format", "bank", "statement format (bank or card)")
	cmd.Flags().IntVar(&f.account, "account", 0, "account ID the statement belongs to")
	_ = cmd.MarkFlagRequired("account")
}

func newImportStatementCommand(opts *rootOptions) *cobra.Command {
	var f statementFlags

	cmd := &cobra.Command{
		Use:   "statement <file>",
		Short: "Record every line of a bank or card statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(e *env) error {
				return importStatement(e, args[0], f)
			})
		},
	}

	f.register(cmd)
	return cmd
}

func newImportInboxCommand(opts *rootOptions) *cobra.Command {
	var f statementFlags

	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "Import every statement waiting in the book's import/ directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := filepath.Dir(opts.configPath)
			files, err := importer.Scan(root)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No statements in %s\n", filepath.Join(root, importer.InboxDir))
				return nil
			}
			return opts.run(cmd, func(e *env) error {
				for _, file := range files {
					if err := importStatement(e, file.Path, f); err != nil {
						return err
					}
					if err := importer.MarkProcessed(root, file.Name); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	f.register(cmd)
	return cmd
}

func importStatement(e *env, path string, f statementFlags) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	var res service.StatementImport
	if res, err = e.svc.ImportStatement(file, f.format, f.account); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	fmt.Fprintf(e.out, "Imported %d transactions from %s\n", len(res.Created), filepath.Base(path))
	for _, l := range res.Skipped {
		fmt.Fprintf(e.out, "  skipped %s %s %s: record refunds on a liability by hand\n",
			l.Date, l.Description, l.Amount.String())
	}
	return nil
}
