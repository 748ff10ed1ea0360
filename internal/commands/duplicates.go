package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leonschreuder/gnucsh/internal/ledger"
	"github.com/leonschreuder/gnucsh/internal/model"
)

func unifyDuplicates(cmd *cobra.Command, l *ledger.Ledger, opts *rootOptions, main model.Account) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	other, err := l.Account(ctx, opts.duplicates)
	if err != nil {
		return err
	}

	pairs, err := l.FindDuplicates(ctx, main, other)
	if err != nil {
		return err
	}
	if len(pairs) == 0 {
		fmt.Fprintln(out, "no duplicates found")
		return nil
	}

	layout := opts.cfg.Layout()
	for _, p := range pairs {
		fmt.Fprintln(out, "----------")
		fmt.Fprintln(out, "+ main: "+p.Main.Format(layout))
		fmt.Fprintln(out, "- other:"+p.Other.Format(layout))
	}

	if !confirm(cmd, opts.yes, fmt.Sprintf("Are you sure you want to link the main entries to the '%s' and remove the 'other' entries?", other.FullName)) {
		return nil
	}

	res, err := l.Reconcile(ctx, pairs, other)
	if err != nil {
		return fmt.Errorf("merged %d of %d duplicates: %w", res.Merged, len(pairs), err)
	}
	fmt.Fprintf(out, "merged %d duplicates\n", res.Merged)
	return nil
}
