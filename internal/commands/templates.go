package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kakeibo-dev/kakeibo/internal/id"
	"github.com/kakeibo-dev/kakeibo/internal/ledger"
	"github.com/kakeibo-dev/kakeibo/internal/model"
)

func newFixedCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fixed",
		Short: "Manage monthly fixed costs",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List fixed costs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(e *env) error {
				costs, err := e.svc.FixedCosts()
				if err != nil {
					return err
				}
				b, err := e.svc.Book()
				if err != nil {
					return err
				}
				tw := newTable(e.out)
				fmt.Fprintln(tw, "ID\tNAME\tAMOUNT\tDAY\tACCOUNT\tCATEGORY\tTAGS")
				for _, fc := range costs {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
						id.Format(fc.ID), fc.Name, e.money.format(fc.Amount), fc.Day,
						b.AccountName(fc.AccountID), fc.Category, strings.Join(fc.Tags, ","))
				}
				return tw.Flush()
			})
		},
	})

	var amount, payDay, category, tags string
	var account int
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a fixed cost",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fc := model.FixedCost{Name: args[0], AccountID: account, Category: category, Tags: splitTags(tags)}
			var err error
			if fc.Amount, err = ledger.ParseAmount(amount); err != nil {
				return err
			}
			if fc.Day, err = ledger.ParseDay(payDay); err != nil {
				return err
			}
			return opts.run(cmd, func(e *env) error {
				created, err := e.svc.AddFixedCost(fc)
				if err != nil {
					return err
				}
				fmt.Fprintf(e.out, "Added fixed cost %s %s %s on day %d\n",
					id.Format(created.ID), created.Name, e.money.format(created.Amount), created.Day)
				return nil
			})
		},
	}
	add.Flags().StringVar(&amount, "amount", "", "monthly amount")
	add.Flags().StringVar(&payDay, "day", "", "day of month (1-31)")
	add.Flags().IntVar(&account, "account", 0, "account ID it is paid from")
	add.Flags().StringVar(&category, "category", "", "category")
	add.Flags().StringVar(&tags, "tags", "", "comma-separated tags")
	cmd.AddCommand(add)

	cmd.AddCommand(newTemplateDeleteCommand(opts, "fixed cost", func(e *env, n int) error {
		return e.svc.DeleteFixedCost(n)
	}))

	return cmd
}

func newIncomeCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "income",
		Short: "Manage the monthly income schedule",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List scheduled income",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(e *env) error {
				schedule, err := e.svc.IncomeSchedule()
				if err != nil {
					return err
				}
				b, err := e.svc.Book()
				if err != nil {
					return err
				}
				tw := newTable(e.out)
				fmt.Fprintln(tw, "ID\tNAME\tAMOUNT\tDAY\tACCOUNT")
				for _, inc := range schedule {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
						id.Format(inc.ID), inc.Name, e.money.format(inc.Amount), inc.Day, b.AccountName(inc.AccountID))
				}
				return tw.Flush()
			})
		},
	})

	var amount, payDay string
	var account int
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add scheduled income",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inc := model.IncomeSchedule{Name: args[0], AccountID: account}
			var err error
			if inc.Amount, err = ledger.ParseAmount(amount); err != nil {
				return err
			}
			if inc.Day, err = ledger.ParseDay(payDay); err != nil {
				return err
			}
			return opts.run(cmd, func(e *env) error {
				created, err := e.svc.AddIncome(inc)
				if err != nil {
					return err
				}
				fmt.Fprintf(e.out, "Added income %s %s %s on day %d\n",
					id.Format(created.ID), created.Name, e.money.format(created.Amount), created.Day)
				return nil
			})
		},
	}
	add.Flags().StringVar(&amount, "amount", "", "monthly amount")
	add.Flags().StringVar(&payDay, "day", "", "day of month (1-31)")
	add.Flags().IntVar(&account, "account", 0, "account ID it arrives in")
	cmd.AddCommand(add)

	cmd.AddCommand(newTemplateDeleteCommand(opts, "income", func(e *env, n int) error {
		return e.svc.DeleteIncome(n)
	}))

	return cmd
}

func newTemplateDeleteCommand(opts *rootOptions, what string, del func(e *env, n int) error) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a " + what,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := id.Parse(args[0])
			if err != nil {
				return err
			}
			return opts.run(cmd, func(e *env) error {
				if err := del(e, n); err != nil {
					return err
				}
				fmt.Fprintf(e.out, "Deleted %s %s\n", what, id.Format(n))
				return nil
			})
		},
	}
}
