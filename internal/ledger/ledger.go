// Package ledger is the convenience layer over a GnuCash book: account
// lookup by name, normalized entries, transfer-account rewriting, duplicate
// detection and CSV import.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/leonschreuder/gnucsh/internal/gnucash"
	"github.com/leonschreuder/gnucsh/internal/model"
)

var (
	// ErrAccountNotFound is returned when no account matches a name.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAmbiguousAccount is returned when a short name matches several accounts.
	ErrAmbiguousAccount = errors.New("ambiguous account name")
	// ErrInvalidFilter is returned for filters that are not valid regular expressions.
	ErrInvalidFilter = errors.New("invalid filter")
)

// Store is the subset of a GnuCash book the ledger works on.
type Store interface {
	Root(ctx context.Context) (model.Account, error)
	Accounts(ctx context.Context) ([]model.Account, error)
	CreateAccount(ctx context.Context, parent model.Account, name string, accountType model.AccountType) (model.Account, error)
	Commodity(ctx context.Context, guid string) (gnucash.Commodity, error)
	Transaction(ctx context.Context, guid string) (model.Transaction, error)
	TransactionSplits(ctx context.Context, txGUID string) ([]model.Split, error)
	AccountSplits(ctx context.Context, accountGUID string) ([]model.Split, error)
	AddTransaction(ctx context.Context, t model.Transaction, splits []model.Split) (model.Transaction, error)
	SetSplitAccount(ctx context.Context, splitGUID, accountGUID string) error
	DeleteTransaction(ctx context.Context, guid string) error
	Close() error
}

var _ Store = (*gnucash.Book)(nil)

// Ledger wraps one open book for the duration of a command.
type Ledger struct {
	store Store
	now   func() time.Time
}

// New wraps an open store.
func New(store Store) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// Open opens an existing book file.
func Open(ctx context.Context, path string) (*Ledger, error) {
	book, err := gnucash.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	return New(book), nil
}

// Create creates a new book file, replacing any existing one.
func Create(ctx context.Context, path string, opts gnucash.CreateOptions) (*Ledger, error) {
	book, err := gnucash.Create(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	return New(book), nil
}

// Close releases the underlying book.
func (l *Ledger) Close() error {
	return l.store.Close()
}

// Root returns the book's root account.
func (l *Ledger) Root(ctx context.Context) (model.Account, error) {
	return l.store.Root(ctx)
}

// Accounts returns every account below the root in book order.
func (l *Ledger) Accounts(ctx context.Context) ([]model.Account, error) {
	return l.store.Accounts(ctx)
}

// FindAccounts returns the accounts whose full name matches pattern.
// An empty pattern matches all accounts.
func (l *Ledger) FindAccounts(ctx context.Context, pattern string) ([]model.Account, error) {
	re, err := compileFilter(pattern)
	if err != nil {
		return nil, err
	}
	accounts, err := l.store.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	if re == nil {
		return accounts, nil
	}

	var found []model.Account
	for _, a := range accounts {
		if re.MatchString(a.FullName) {
			found = append(found, a)
		}
	}
	return found, nil
}

// Account finds an account by name. Names containing ':' (or '/') are
// matched against full names, anything else against the short name.
func (l *Ledger) Account(ctx context.Context, name string) (model.Account, error) {
	accounts, err := l.store.Accounts(ctx)
	if err != nil {
		return model.Account{}, err
	}

	for _, a := range accounts {
		if a.FullName == name {
			return a, nil
		}
	}

	if strings.Contains(name, "/") {
		normalized := strings.ReplaceAll(name, "/", model.FullNameSeparator)
		for _, a := range accounts {
			if a.FullName == normalized {
				return a, nil
			}
		}
	}

	if !strings.Contains(name, model.FullNameSeparator) {
		var matches []model.Account
		for _, a := range accounts {
			if a.Name == name {
				matches = append(matches, a)
			}
		}
		switch len(matches) {
		case 1:
			return matches[0], nil
		case 0:
		default:
			names := make([]string, len(matches))
			for i, m := range matches {
				names[i] = m.FullName
			}
			return model.Account{}, fmt.Errorf("%w: %q matches %s", ErrAmbiguousAccount, name, strings.Join(names, ", "))
		}
	}

	return model.Account{}, fmt.Errorf("%w: %q", ErrAccountNotFound, name)
}

// CreateAccount adds a child account below parent.
func (l *Ledger) CreateAccount(ctx context.Context, parent model.Account, name string, accountType model.AccountType) (model.Account, error) {
	if name == "" {
		return model.Account{}, errors.New("account name is empty")
	}
	if strings.Contains(name, model.FullNameSeparator) {
		return model.Account{}, fmt.Errorf("account name %q contains %q", name, model.FullNameSeparator)
	}
	if !accountType.Valid() {
		return model.Account{}, fmt.Errorf("unknown account type %q", accountType)
	}
	return l.store.CreateAccount(ctx, parent, name, model.AccountType(strings.ToUpper(string(accountType))))
}

// accountNames maps account GUIDs to full names.
func (l *Ledger) accountNames(ctx context.Context) (map[string]string, error) {
	accounts, err := l.store.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(accounts))
	for _, a := range accounts {
		names[a.GUID] = a.FullName
	}
	return names, nil
}

func compileFilter(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidFilter, pattern, err)
	}
	return re, nil
}
