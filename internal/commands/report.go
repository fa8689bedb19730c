package commands

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kakeibo-dev/kakeibo/internal/cashflow"
	"github.com/kakeibo-dev/kakeibo/internal/day"
	"github.com/kakeibo-dev/kakeibo/internal/model"
	"github.com/kakeibo-dev/kakeibo/internal/position"
)

func newSummaryCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show money in hand and what is spendable this month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(e *env) error {
				s, err := e.svc.Summary()
				if err != nil {
					return err
				}
				tw := newTable(e.out)
				fmt.Fprintf(tw, "Today\t%s\n", s.Today)
				fmt.Fprintf(tw, "Hand\t%s\n", e.money.format(s.Hand))
				fmt.Fprintf(tw, "Pending income\t%s\n", e.money.format(s.PendingIncome))
				for _, c := range s.Cards {
					fmt.Fprintf(tw, "  %s (day %d)\t%s\n", c.Name, c.PayDay, e.money.format(c.Balance))
				}
				fmt.Fprintf(tw, "Cards\t%s\n", e.money.format(s.CardTotal))
				fmt.Fprintf(tw, "Other liabilities\t%s\n", e.money.format(s.OtherLiabilities))
				fmt.Fprintf(tw, "Usable\t%s\n", e.money.format(s.UsableNet))
				fmt.Fprintf(tw, "Remaining fixed costs\t%s\n", e.money.format(s.RemainingFixed))
				fmt.Fprintf(tw, "Remaining income\t%s\n", e.money.format(s.RemainingIncome))
				fmt.Fprintf(tw, "Spendable\t%s\n", e.money.format(s.Spendable))
				fmt.Fprintf(tw, "Month income\t%s\n", e.money.format(s.MonthIncome))
				fmt.Fprintf(tw, "Month expenses\t%s\n", e.money.format(s.MonthExpenses))
				fmt.Fprintf(tw, "Net worth\t%s\n", e.money.format(s.NetWorth))
				return tw.Flush()
			})
		},
	}
}

func newBalanceSheetCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "bs",
		Short: "Show the balance sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(e *env) error {
				bs, err := e.svc.BalanceSheet()
				if err != nil {
					return err
				}
				tw := newTable(e.out)
				for _, sec := range []struct {
					title string
					position.Section
				}{
					{"Current assets", bs.CurrentAssets},
					{"Long-term assets", bs.LongAssets},
					{"Current liabilities", bs.CurrentLiabilities},
					{"Long-term liabilities", bs.LongLiabilities},
				} {
					fmt.Fprintf(tw, "%s\t%s\n", sec.title, e.money.format(sec.Total))
					for _, l := range sec.Lines {
						fmt.Fprintf(tw, "  %s\t%s\n", l.Name, e.money.format(l.Balance))
					}
				}
				fmt.Fprintf(tw, "Total assets\t%s\n", e.money.format(bs.TotalAssets))
				fmt.Fprintf(tw, "Total liabilities\t%s\n", e.money.format(bs.TotalLiabilities))
				fmt.Fprintf(tw, "Net worth\t%s\n", e.money.format(bs.NetWorth))
				return tw.Flush()
			})
		},
	}
}

func newCashflowCommand(opts *rootOptions) *cobra.Command {
	var months int

	cmd := &cobra.Command{
		Use:   "cashflow",
		Short: "Project money in hand over the coming months",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(e *env) error {
				p, err := e.svc.ProjectCashflow(months)
				if err != nil {
					return err
				}
				fmt.Fprintf(e.out, "Hand on %s: %s\n", p.Today, e.money.format(p.Hand))
				for _, m := range p.Months {
					fmt.Fprintf(e.out, "\n%s  start %s  end %s  (in %s, out %s)\n", m.Month,
						e.money.format(m.StartBalance), e.money.format(m.EndBalance),
						e.money.format(m.TotalIncome), e.money.format(m.TotalExpense))
					tw := newTable(e.out)
					for _, ev := range m.Events {
						running := e.money.format(ev.Running)
						if ev.CC {
							running = "(card)"
						}
						fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n",
							ev.Date, ev.Name, ev.Account, e.money.signed(ev.Amount), running)
					}
					if err := tw.Flush(); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&months, "months", cashflow.DefaultHorizon, "number of months to project")
	return cmd
}

func newCalendarCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "calendar [YYYY-MM]",
		Short: "Show daily balances for a month",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(e *env) error {
				month, err := monthArg(e, args)
				if err != nil {
					return err
				}
				cal, err := e.svc.ReplayCalendar(month)
				if err != nil {
					return err
				}
				fmt.Fprintf(e.out, "%s  start %s  end %s\n", cal.Month,
					e.money.format(cal.StartBalance), e.money.format(cal.EndBalance))
				tw := newTable(e.out)
				for _, d := range cal.Days {
					if len(d.Entries) == 0 && !d.IsToday {
						continue
					}
					marker := " "
					if d.IsToday {
						marker = "*"
					}
					balance := ""
					if d.Balance != nil {
						balance = e.money.format(*d.Balance)
					}
					fmt.Fprintf(tw, "%s %s %s\t\t\t%s\n", marker, d.Date, d.Date.Weekday().String()[:3], balance)
					for _, en := range d.Entries {
						fmt.Fprintf(tw, "\t%s\t%s\t\n", en.Name, e.money.signed(en.Amount))
					}
				}
				return tw.Flush()
			})
		},
	}
}

func newPLCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pl [YYYY-MM]",
		Short: "Show the monthly profit and loss",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(e *env) error {
				month, err := monthArg(e, args)
				if err != nil {
					return err
				}
				r, err := e.svc.MonthlyPL(month)
				if err != nil {
					return err
				}
				tw := newTable(e.out)
				fmt.Fprintf(tw, "Income\t%s\t\n", e.money.format(r.TotalIncome))
				for _, cat := range sortedByAmount(r.IncomeByCategory) {
					fmt.Fprintf(tw, "  %s\t%s\t\n", cat, e.money.format(r.IncomeByCategory[cat]))
				}
				fmt.Fprintf(tw, "Expense\t%s\t\n", e.money.format(r.TotalExpense))
				for _, sh := range r.ExpenseShares {
					fmt.Fprintf(tw, "  %s\t%s\t%s%%\n", sh.Category, e.money.format(sh.Amount), sh.Percent.StringFixed(1))
				}
				if r.UnsortedCCSpend > 0 {
					fmt.Fprintf(tw, "  (%s %s)\t%s\t\n", model.CategoryMisc, model.LeafUnsortedCC, e.money.format(r.UnsortedCCSpend))
				}
				fmt.Fprintf(tw, "Net\t%s\t\n", e.money.signed(r.Net))
				return tw.Flush()
			})
		},
	}
}

func newCheckCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Replay the log and compare against stored balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(e *env) error {
				mismatches, err := e.svc.Verify()
				if err != nil {
					return err
				}
				if len(mismatches) == 0 {
					fmt.Fprintln(e.out, "All balances match the transaction log")
					return nil
				}
				tw := newTable(e.out)
				fmt.Fprintln(tw, "ACCOUNT\tSTORED\tREPLAYED")
				for _, m := range mismatches {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Name, e.money.format(m.Cached), e.money.format(m.Replayed))
				}
				if err := tw.Flush(); err != nil {
					return err
				}
				return fmt.Errorf("%d account balance(s) differ from the transaction log", len(mismatches))
			})
		},
	}
}

// monthArg parses an optional YYYY-MM argument, defaulting to this month.
func monthArg(e *env, args []string) (day.Month, error) {
	if len(args) == 0 {
		return e.svc.Today().MonthOf(), nil
	}
	return day.ParseMonth(args[0])
}

func sortedByAmount(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		if c := cmp.Compare(m[b], m[a]); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return keys
}
