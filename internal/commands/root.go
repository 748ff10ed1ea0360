package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leonschreuder/gnucsh/internal/buildinfo"
	"github.com/leonschreuder/gnucsh/internal/config"
	"github.com/leonschreuder/gnucsh/internal/gnucash"
	"github.com/leonschreuder/gnucsh/internal/ledger"
	"github.com/leonschreuder/gnucsh/internal/logging"
)

// globalOptions are shared by every command.
type globalOptions struct {
	configPath string
	debug      bool
	cfg        *config.Config
}

type rootOptions struct {
	*globalOptions
	transfer   string
	duplicates string
	importFile string
	filter     string
	yes        bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	global := &globalOptions{}
	opts := &rootOptions{globalOptions: global}

	rootCmd := &cobra.Command{
		Use:   "gnucsh <book> [account]",
		Short: "Convenience commands for a GnuCash SQLite book",
		Long: `Without an account, lists all account names of the book.
With an account, lists its entries, or with one of --transfer, --duplicates
or --import changes them after asking for confirmation.`,
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		Args:         cobra.RangeArgs(1, 2),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return global.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, opts, args)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&global.configPath, "config", "", "config file (default $GNUCSH_CONFIG or $XDG_CONFIG_HOME/gnucsh/config.yaml)")
	pf.BoolVar(&global.debug, "debug", false, "log at debug level")

	f := rootCmd.Flags()
	f.StringVarP(&opts.transfer, "transfer", "t", "", "change the transfer account of the listed entries to this account")
	f.StringVarP(&opts.duplicates, "duplicates", "d", "", "find entries duplicated in this account (same date and description) and merge them")
	f.StringVarP(&opts.importFile, "import", "i", "", "import entries from a delimited file")
	f.StringVarP(&opts.filter, "filter", "f", "", "regular expression filter for account names or entry descriptions")
	f.BoolVarP(&opts.yes, "yes", "y", false, "do not ask for confirmation")
	rootCmd.MarkFlagsMutuallyExclusive("transfer", "duplicates", "import")

	rootCmd.AddCommand(newInitCommand(global))

	return rootCmd
}

func (g *globalOptions) setup(cmd *cobra.Command) error {
	if err := config.LoadEnv(); err != nil {
		return err
	}
	logging.Setup(cmd.ErrOrStderr(), logging.Level(g.debug))

	cfg, err := config.Resolve(g.configPath)
	if err != nil {
		return err
	}
	g.cfg = cfg
	return nil
}

func runRoot(cmd *cobra.Command, opts *rootOptions, args []string) error {
	ctx := cmd.Context()
	l, err := openLedger(ctx, args[0])
	if err != nil {
		return err
	}
	defer l.Close()

	if len(args) == 1 {
		for flag, value := range map[string]string{"transfer": opts.transfer, "duplicates": opts.duplicates, "import": opts.importFile} {
			if value != "" {
				return fmt.Errorf("--%s needs an account argument", flag)
			}
		}
		return listAccounts(cmd, l, opts.filter)
	}

	account, err := l.Account(ctx, args[1])
	if err != nil {
		return err
	}

	switch {
	case opts.transfer != "":
		return changeTransfer(cmd, l, opts, account)
	case opts.duplicates != "":
		return unifyDuplicates(cmd, l, opts, account)
	case opts.importFile != "":
		return importEntries(cmd, l, opts, account)
	default:
		return listEntries(cmd, l, opts, account)
	}
}

func openLedger(ctx context.Context, path string) (*ledger.Ledger, error) {
	l, err := ledger.Open(ctx, path)
	if errors.Is(err, gnucash.ErrBookNotFound) {
		return nil, fmt.Errorf("Provided path to GnuCash db was not found: %s", path)
	}
	return l, err
}
