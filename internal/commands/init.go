package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/leonschreuder/gnucsh/internal/gnucash"
	"github.com/leonschreuder/gnucsh/internal/ledger"
	"github.com/leonschreuder/gnucsh/internal/model"
)

func newInitCommand(global *globalOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init <book>",
		Short: "Create a new book with the configured default accounts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, global, args[0], force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing book")

	return cmd
}

func runInit(cmd *cobra.Command, global *globalOptions, path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", path, err)
	}

	ctx := cmd.Context()
	opts := gnucash.DefaultCreateOptions()
	opts.Currency = global.cfg.Book.Currency

	l, err := ledger.Create(ctx, path, opts)
	if err != nil {
		return fmt.Errorf("creating book: %w", err)
	}
	defer l.Close()

	root, err := l.Root(ctx)
	if err != nil {
		return err
	}
	for _, a := range global.cfg.Book.DefaultAccounts {
		if _, err := l.CreateAccount(ctx, root, a.Name, model.AccountType(a.Type)); err != nil {
			return fmt.Errorf("creating account %s: %w", a.Name, err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created book %s with %d accounts\n", path, len(global.cfg.Book.DefaultAccounts))
	return nil
}
