package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leonschreuder/gnucsh/internal/ledger"
	"github.com/leonschreuder/gnucsh/internal/model"
)

func listAccounts(cmd *cobra.Command, l *ledger.Ledger, filter string) error {
	accounts, err := l.FindAccounts(cmd.Context(), filter)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if filter == "" {
		fmt.Fprintln(out, "### All Accounts ###")
	} else {
		fmt.Fprintf(out, "### Listing Accounts matching '%s' ###\n", filter)
	}
	for _, a := range accounts {
		fmt.Fprintln(out, a.FullName)
	}
	return nil
}

func listEntries(cmd *cobra.Command, l *ledger.Ledger, opts *rootOptions, account model.Account) error {
	entries, err := l.FindEntries(cmd.Context(), account, opts.filter)
	if err != nil {
		return err
	}

	filter := opts.filter
	if filter == "" {
		filter = "None"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "###  Account:'%s'  filter:'%s'  ###\n", account.Name, filter)
	printEntries(cmd, opts, entries)
	return nil
}

func printEntries(cmd *cobra.Command, opts *rootOptions, entries []model.Entry) {
	layout := opts.cfg.Layout()
	for _, e := range entries {
		fmt.Fprintln(cmd.OutOrStdout(), e.Format(layout))
	}
}
