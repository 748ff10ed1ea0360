package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leonschreuder/gnucsh/internal/ledger"
	"github.com/leonschreuder/gnucsh/internal/model"
)

func changeTransfer(cmd *cobra.Command, l *ledger.Ledger, opts *rootOptions, account model.Account) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "## Account:"+account.Name)
	target, err := l.Account(ctx, opts.transfer)
	if err != nil {
		return err
	}

	entries, err := l.FindEntries(ctx, account, opts.filter)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "no entries found")
		return nil
	}
	printEntries(cmd, opts, entries)

	if !confirm(cmd, opts.yes, fmt.Sprintf("Are you sure you want to change the Transfer account of the above entries to %s?", target.FullName)) {
		fmt.Fprintln(out, "Canceling.")
		return nil
	}

	n, err := l.ChangeTransfer(ctx, entries, target)
	if err != nil {
		return fmt.Errorf("changed %d of %d entries: %w", n, len(entries), err)
	}
	fmt.Fprintf(out, "changed %d entries\n", n)
	return nil
}
