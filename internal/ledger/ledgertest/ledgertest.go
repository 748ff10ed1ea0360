// Package ledgertest builds small books for tests.
package ledgertest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/leonschreuder/gnucsh/internal/gnucash"
	"github.com/leonschreuder/gnucsh/internal/ledger"
	"github.com/leonschreuder/gnucsh/internal/model"
)

// Date is the post date of every fixture entry.
var Date = time.Date(2024, 12, 9, 0, 0, 0, 0, time.UTC)

// NewBook writes a book with three top-level accounts and returns its path:
//
//	Expenses (EXPENSE)         Groceries 4.00, Pharmacy 15.00 against Savings
//	Savings (BANK)             Opening Savings Balance 100.00 against Opening Balance
//	Opening Balance (EQUITY)
func NewBook(t testing.TB) string {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "example.gnucash")

	l, err := ledger.Create(ctx, path, gnucash.DefaultCreateOptions())
	require.NoError(t, err)
	defer l.Close()

	root, err := l.Root(ctx)
	require.NoError(t, err)
	expenses := mustAccount(t, l, root, "Expenses", model.AccountTypeExpense)
	savings := mustAccount(t, l, root, "Savings", model.AccountTypeBank)
	opening := mustAccount(t, l, root, "Opening Balance", model.AccountTypeEquity)

	AddEntry(t, l, expenses, "4", "Groceries", savings)
	AddEntry(t, l, savings, "100", "Opening Savings Balance", opening)
	AddEntry(t, l, expenses, "15", "Pharmacy", savings)

	return path
}

// NewBookWithDuplicates extends NewBook with an Imbalance-EUR account and
// "some description" recorded once from Expenses (10) and once from
// Savings (-10), both against Imbalance-EUR.
func NewBookWithDuplicates(t testing.TB) string {
	t.Helper()
	ctx := context.Background()
	path := NewBook(t)

	l, err := ledger.Open(ctx, path)
	require.NoError(t, err)
	defer l.Close()

	expenses := MustFind(t, l, "Expenses")
	savings := MustFind(t, l, "Savings")
	root, err := l.Root(ctx)
	require.NoError(t, err)
	imbalance := mustAccount(t, l, root, "Imbalance-EUR", model.AccountTypeBank)

	AddEntry(t, l, expenses, "10", "some description", imbalance)
	AddEntry(t, l, savings, "-10", "some description", imbalance)

	return path
}

// AddEntry records amount on account against transfer on Date.
func AddEntry(t testing.TB, l *ledger.Ledger, account model.Account, amount, description string, transfer model.Account) {
	t.Helper()
	_, err := l.AddEntry(context.Background(), account, decimal.RequireFromString(amount), description, transfer, Date)
	require.NoError(t, err)
}

// MustFind looks up an account by name.
func MustFind(t testing.TB, l *ledger.Ledger, name string) model.Account {
	t.Helper()
	acct, err := l.Account(context.Background(), name)
	require.NoError(t, err)
	return acct
}

func mustAccount(t testing.TB, l *ledger.Ledger, parent model.Account, name string, accountType model.AccountType) model.Account {
	t.Helper()
	acct, err := l.CreateAccount(context.Background(), parent, name, accountType)
	require.NoError(t, err)
	return acct
}
