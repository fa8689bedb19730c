package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kakeibo-dev/kakeibo/internal/id"
	"github.com/kakeibo-dev/kakeibo/internal/model"
)

func newAccountCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage accounts",
	}
	cmd.AddCommand(newAccountListCommand(opts))
	cmd.AddCommand(newAccountAddCommand(opts))
	cmd.AddCommand(newAccountSetBalanceCommand(opts))
	cmd.AddCommand(newAccountDeleteCommand(opts))
	return cmd
}

func newAccountListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts and balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(e *env) error {
				accts, err := e.svc.Accounts()
				if err != nil {
					return err
				}
				tw := newTable(e.out)
				fmt.Fprintln(tw, "ID\tNAME\tTYPE\tCLASS\tBALANCE\tPAY DAY\tPAY FROM")
				for _, a := range accts {
					payDay, payFrom := "", ""
					if a.IsRevolving() {
						payDay = strconv.Itoa(a.PayDay)
					}
					if a.PayFromAccountID != 0 {
						payFrom = id.Format(a.PayFromAccountID)
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
						id.Format(a.ID), a.Name, a.Type, a.Class, e.money.format(a.Balance), payDay, payFrom)
				}
				return tw.Flush()
			})
		},
	}
}

func newAccountAddCommand(opts *rootOptions) *cobra.Command {
	var acctType, class, balance string
	var payDay, payFrom int

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opening, err := parseBalance(balance)
			if err != nil {
				return err
			}
			acct := model.Account{
				Name:             args[0],
				Type:             model.AccountType(acctType),
				Class:            model.AccountClass(class),
				Balance:          opening,
				PayDay:           payDay,
				PayFromAccountID: payFrom,
			}
			return opts.run(cmd, func(e *env) error {
				created, adj, err := e.svc.AddAccount(acct)
				if err != nil {
					return err
				}
				fmt.Fprintf(e.out, "Added account %s %s\n", id.Format(created.ID), created.Name)
				if adj != nil {
					fmt.Fprintf(e.out, "Opening balance %s booked as %s\n", e.money.format(created.Balance), id.Format(adj.ID))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&acctType, "type", string(model.AccountTypeAsset), "asset or liability")
	cmd.Flags().StringVar(&class, "class", string(model.ClassCurrent), "current or long")
	cmd.Flags().StringVar(&balance, "balance", "0", "opening balance")
	cmd.Flags().IntVar(&payDay, "pay-day", 0, "billing day for a card (1-31)")
	cmd.Flags().IntVar(&payFrom, "pay-from", 0, "asset account a card is paid from")

	return cmd
}

func newAccountSetBalanceCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-balance <id> <balance>",
		Short: "Adjust an account to a known balance",
		Long: `Adjust an account to a known balance by recording an income or expense
for the difference.

A liability balance can only be raised this way. To lower one, record the
payment as a transfer from the paying account:

  kakeibo tx add --kind transfer --from <asset id> --to <liability id> --amount <amount>`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountID, err := id.Parse(args[0])
			if err != nil {
				return err
			}
			bal, err := parseBalance(args[1])
			if err != nil {
				return err
			}
			return opts.run(cmd, func(e *env) error {
				adj, err := e.svc.AdjustAccountBalance(accountID, bal)
				if err != nil {
					return err
				}
				if adj == nil {
					fmt.Fprintln(e.out, "Balance unchanged")
					return nil
				}
				fmt.Fprintf(e.out, "Recorded %s %s %s\n", id.Format(adj.ID), adj.Kind, e.money.format(adj.Amount))
				return nil
			})
		},
	}
}

func newAccountDeleteCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account nothing references",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountID, err := id.Parse(args[0])
			if err != nil {
				return err
			}
			return opts.run(cmd, func(e *env) error {
				if err := e.svc.DeleteAccount(accountID); err != nil {
					return err
				}
				fmt.Fprintf(e.out, "Deleted account %s\n", id.Format(accountID))
				return nil
			})
		},
	}
}

// parseBalance parses a possibly negative whole balance such as "-1,200".
func parseBalance(s string) (int64, error) {
	raw := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	raw = strings.Replace(raw, "¥", "", 1)
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &model.ValidationError{Field: "balance", Reason: "not a whole number: " + strconv.Quote(s)}
	}
	return n, nil
}
