package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kakeibo-dev/kakeibo/internal/day"
	"github.com/kakeibo-dev/kakeibo/internal/id"
	"github.com/kakeibo-dev/kakeibo/internal/ledger"
	"github.com/kakeibo-dev/kakeibo/internal/model"
	"github.com/kakeibo-dev/kakeibo/internal/service"
)

func newTxCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transaction"},
		Short:   "Record and manage transactions",
	}
	cmd.AddCommand(newTxListCommand(opts))
	cmd.AddCommand(newTxAddCommand(opts))
	cmd.AddCommand(newTxEditCommand(opts))
	cmd.AddCommand(newTxDeleteCommand(opts))
	return cmd
}

// txFlags are the transaction fields settable from the command line.
type txFlags struct {
	kind     string
	date     string
	amount   string
	account  int
	from     int
	to       int
	category string
	tags     string
	schedule string
	memo     string
}

func (f *txFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.kind, "kind", string(model.KindExpense), "expense, income, transfer or cc_detail")
	cmd.Flags().StringVar(&f.date, "date", "", "transaction date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&f.amount, "amount", "", "amount, e.g. 1200 or 1,200")
	cmd.Flags().IntVar(&f.account, "account", 0, "account ID for expense, income and cc_detail")
	cmd.Flags().IntVar(&f.from, "from", 0, "source account ID for a transfer")
	cmd.Flags().IntVar(&f.to, "to", 0, "destination account ID for a transfer")
	cmd.Flags().StringVar(&f.category, "category", "", "category")
	cmd.Flags().StringVar(&f.tags, "tags", "", "comma-separated tags")
	cmd.Flags().StringVar(&f.schedule, "schedule", "", "schedule label")
	cmd.Flags().StringVar(&f.memo, "memo", "", "memo")
}

func splitTags(s string) []string {
	tags := []string{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func newTxListCommand(opts *rootOptions) *cobra.Command {
	var month string
	var account int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter service.TransactionFilter
			if month != "" {
				m, err := day.ParseMonth(month)
				if err != nil {
					return fmt.Errorf("--month: %w", err)
				}
				filter.Month = &m
			}
			filter.AccountID = account

			return opts.run(cmd, func(e *env) error {
				txs, err := e.svc.Transactions(filter)
				if err != nil {
					return err
				}
				b, err := e.svc.Book()
				if err != nil {
					return err
				}
				tw := newTable(e.out)
				fmt.Fprintln(tw, "ID\tDATE\tKIND\tAMOUNT\tACCOUNT\tCATEGORY\tTAGS\tMEMO")
				for _, tx := range txs {
					acct := b.AccountName(tx.AccountID)
					if tx.Kind == model.KindTransfer {
						acct = b.AccountName(tx.FromAccountID) + " → " + b.AccountName(tx.ToAccountID)
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
						id.Format(tx.ID), tx.Date, tx.Kind, e.money.format(tx.Amount), acct,
						tx.Category, strings.Join(tx.Tags, ","), tx.Memo)
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "only this month (YYYY-MM)")
	cmd.Flags().IntVar(&account, "account", 0, "only transactions touching this account ID")

	return cmd
}

func newTxAddCommand(opts *rootOptions) *cobra.Command {
	var f txFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := ledger.ParseAmount(f.amount)
			if err != nil {
				return err
			}
			tx := model.Transaction{
				Kind:          model.Kind(f.kind),
				Amount:        amount,
				AccountID:     f.account,
				FromAccountID: f.from,
				ToAccountID:   f.to,
				Category:      f.category,
				Tags:          splitTags(f.tags),
				Schedule:      f.schedule,
				Memo:          f.memo,
			}
			if f.date != "" {
				if tx.Date, err = day.Parse(f.date); err != nil {
					return fmt.Errorf("--date: %w", err)
				}
			}

			return opts.run(cmd, func(e *env) error {
				if tx.Date.IsZero() {
					tx.Date = e.svc.Today()
				}
				created, err := e.svc.CreateTransaction(tx)
				if err != nil {
					return err
				}
				fmt.Fprintf(e.out, "Recorded %s %s %s on %s\n",
					id.Format(created.ID), created.Kind, e.money.format(created.Amount), created.Date)
				return nil
			})
		},
	}

	f.register(cmd)
	return cmd
}

func newTxEditCommand(opts *rootOptions) *cobra.Command {
	var f txFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a recorded transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			txID, err := id.Parse(args[0])
			if err != nil {
				return err
			}
			upd, err := f.update(cmd)
			if err != nil {
				return err
			}
			return opts.run(cmd, func(e *env) error {
				updated, err := e.svc.UpdateTransaction(txID, upd)
				if err != nil {
					return err
				}
				fmt.Fprintf(e.out, "Updated %s %s %s on %s\n",
					id.Format(updated.ID), updated.Kind, e.money.format(updated.Amount), updated.Date)
				return nil
			})
		},
	}

	f.register(cmd)
	return cmd
}

// update builds a TransactionUpdate from the flags the user actually set.
func (f *txFlags) update(cmd *cobra.Command) (ledger.TransactionUpdate, error) {
	var upd ledger.TransactionUpdate
	changed := cmd.Flags().Changed

	if changed("kind") {
		k := model.Kind(f.kind)
		upd.Kind = &k
	}
	if changed("date") {
		d, err := day.Parse(f.date)
		if err != nil {
			return upd, fmt.Errorf("--date: %w", err)
		}
		upd.Date = &d
	}
	if changed("amount") {
		n, err := ledger.ParseAmount(f.amount)
		if err != nil {
			return upd, err
		}
		upd.Amount = &n
	}
	if changed("account") {
		upd.AccountID = &f.account
	}
	if changed("from") {
		upd.FromAccountID = &f.from
	}
	if changed("to") {
		upd.ToAccountID = &f.to
	}
	if changed("category") {
		upd.Category = &f.category
	}
	if changed("tags") {
		tags := splitTags(f.tags)
		upd.Tags = &tags
	}
	if changed("schedule") {
		upd.Schedule = &f.schedule
	}
	if changed("memo") {
		upd.Memo = &f.memo
	}
	return upd, nil
}

func newTxDeleteCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction and reverse its effect",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			txID, err := id.Parse(args[0])
			if err != nil {
				return err
			}
			return opts.run(cmd, func(e *env) error {
				removed, err := e.svc.DeleteTransaction(txID)
				if err != nil {
					return err
				}
				fmt.Fprintf(e.out, "Deleted %s %s %s\n", id.Format(removed.ID), removed.Kind, e.money.format(removed.Amount))
				return nil
			})
		},
	}
}
