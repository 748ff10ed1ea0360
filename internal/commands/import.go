package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leonschreuder/gnucsh/internal/importer"
	"github.com/leonschreuder/gnucsh/internal/ledger"
	"github.com/leonschreuder/gnucsh/internal/model"
)

func importEntries(cmd *cobra.Command, l *ledger.Ledger, opts *rootOptions, account model.Account) error {
	out := cmd.OutOrStdout()

	rows, err := importer.ParseFile(opts.importFile, importer.Options{
		Delimiter:  opts.cfg.Delimiter(),
		DateFormat: opts.cfg.Import.DateFormat,
	})
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(out, "no entries to import")
		return nil
	}

	fmt.Fprintln(out, "## Account:"+account.Name)
	layout := opts.cfg.Layout()
	for _, r := range rows {
		fmt.Fprintln(out, staged(r).Format(layout))
	}

	if !confirm(cmd, opts.yes, fmt.Sprintf("Import the above %d entries into %s?", len(rows), account.FullName)) {
		fmt.Fprintln(out, "Canceling.")
		return nil
	}

	n, err := l.Import(cmd.Context(), account, rows)
	if err != nil {
		return fmt.Errorf("imported %d of %d entries: %w", n, len(rows), err)
	}
	fmt.Fprintf(out, "imported %d entries\n", n)
	return nil
}

// staged renders an import row the way the entry will be listed.
func staged(r model.ImportRow) model.Entry {
	places := max(-r.Amount.Exponent(), 2)
	return model.Entry{
		Date:        r.Date,
		Description: r.Description,
		This:        model.Leg{Amount: r.Amount, Places: places},
		Other:       model.Leg{AccountName: r.Transfer},
	}
}
