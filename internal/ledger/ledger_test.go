package ledger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonschreuder/gnucsh/internal/gnucash"
	"github.com/leonschreuder/gnucsh/internal/ledger"
	"github.com/leonschreuder/gnucsh/internal/ledger/ledgertest"
	"github.com/leonschreuder/gnucsh/internal/model"
)

func openLedger(t *testing.T, path string) *ledger.Ledger {
	t.Helper()
	l, err := ledger.Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func fullNames(accounts []model.Account) []string {
	names := make([]string, len(accounts))
	for i, a := range accounts {
		names[i] = a.FullName
	}
	return names
}

func TestAccounts_BookOrder(t *testing.T) {
	l := openLedger(t, ledgertest.NewBook(t))

	accounts, err := l.Accounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Expenses", "Savings", "Opening Balance"}, fullNames(accounts))
}

func TestFindAccounts(t *testing.T) {
	ctx := context.Background()
	l := openLedger(t, ledgertest.NewBook(t))

	found, err := l.FindAccounts(ctx, "pen")
	require.NoError(t, err)
	assert.Equal(t, []string{"Expenses", "Opening Balance"}, fullNames(found))

	all, err := l.FindAccounts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = l.FindAccounts(ctx, "(")
	assert.ErrorIs(t, err, ledger.ErrInvalidFilter)
}

func TestAccount_Lookup(t *testing.T) {
	ctx := context.Background()
	l := openLedger(t, ledgertest.NewBook(t))

	expenses := ledgertest.MustFind(t, l, "Expenses")
	savings := ledgertest.MustFind(t, l, "Savings")
	food, err := l.CreateAccount(ctx, expenses, "Food", model.AccountTypeExpense)
	require.NoError(t, err)
	_, err = l.CreateAccount(ctx, savings, "Food", model.AccountTypeBank)
	require.NoError(t, err)
	bakery, err := l.CreateAccount(ctx, food, "Bakery", model.AccountTypeExpense)
	require.NoError(t, err)

	t.Run("short name", func(t *testing.T) {
		got, err := l.Account(ctx, "Bakery")
		require.NoError(t, err)
		assert.Equal(t, bakery.GUID, got.GUID)
		assert.Equal(t, "Expenses:Food:Bakery", got.FullName)
	})

	t.Run("full name", func(t *testing.T) {
		got, err := l.Account(ctx, "Expenses:Food")
		require.NoError(t, err)
		assert.Equal(t, food.GUID, got.GUID)
	})

	t.Run("slash separated", func(t *testing.T) {
		got, err := l.Account(ctx, "Expenses/Food/Bakery")
		require.NoError(t, err)
		assert.Equal(t, bakery.GUID, got.GUID)
	})

	t.Run("ambiguous short name", func(t *testing.T) {
		_, err := l.Account(ctx, "Food")
		require.Error(t, err)
		assert.ErrorIs(t, err, ledger.ErrAmbiguousAccount)
		assert.Contains(t, err.Error(), "Expenses:Food")
		assert.Contains(t, err.Error(), "Savings:Food")
	})

	t.Run("not found", func(t *testing.T) {
		_, err := l.Account(ctx, "Travel")
		assert.ErrorIs(t, err, ledger.ErrAccountNotFound)

		_, err = l.Account(ctx, "Savings:Bakery")
		assert.ErrorIs(t, err, ledger.ErrAccountNotFound)
	})
}

func TestCreateAccount_Validation(t *testing.T) {
	ctx := context.Background()
	l := openLedger(t, ledgertest.NewBook(t))
	root, err := l.Root(ctx)
	require.NoError(t, err)

	_, err = l.CreateAccount(ctx, root, "", model.AccountTypeBank)
	assert.Error(t, err)

	_, err = l.CreateAccount(ctx, root, "A:B", model.AccountTypeBank)
	assert.Error(t, err)

	_, err = l.CreateAccount(ctx, root, "Travel", model.AccountType("holiday"))
	assert.Error(t, err)

	acct, err := l.CreateAccount(ctx, root, "Travel", model.AccountType("expense"))
	require.NoError(t, err)
	assert.Equal(t, model.AccountTypeExpense, acct.Type)
}

func TestOpen_MissingBook(t *testing.T) {
	_, err := ledger.Open(context.Background(), t.TempDir()+"/missing.gnucash")
	assert.ErrorIs(t, err, gnucash.ErrBookNotFound)
}
