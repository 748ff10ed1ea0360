package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonschreuder/gnucsh/internal/ledger"
	"github.com/leonschreuder/gnucsh/internal/ledger/ledgertest"
	"github.com/leonschreuder/gnucsh/internal/model"
)

func entry(date time.Time, description, this, other string) model.Entry {
	return model.Entry{
		TxGUID:      description + this,
		Date:        date,
		Description: description,
		This:        model.Leg{AccountGUID: this},
		Other:       model.Leg{AccountGUID: other},
	}
}

func TestMatchDuplicates(t *testing.T) {
	day := ledgertest.Date
	next := day.AddDate(0, 0, 1)

	tests := []struct {
		name  string
		main  []model.Entry
		other []model.Entry
		want  int
	}{
		{
			name:  "both against imbalance",
			main:  []model.Entry{entry(day, "rent", "checking", "imbalance")},
			other: []model.Entry{entry(day, "rent", "savings", "imbalance")},
			want:  1,
		},
		{
			name:  "different date",
			main:  []model.Entry{entry(day, "rent", "checking", "imbalance")},
			other: []model.Entry{entry(next, "rent", "savings", "imbalance")},
			want:  0,
		},
		{
			name:  "different description",
			main:  []model.Entry{entry(day, "rent", "checking", "imbalance")},
			other: []model.Entry{entry(day, "Rent", "savings", "imbalance")},
			want:  0,
		},
		{
			name:  "main already points at other",
			main:  []model.Entry{entry(day, "rent", "checking", "savings")},
			other: []model.Entry{entry(day, "rent", "savings", "imbalance")},
			want:  0,
		},
		{
			name:  "other already points at main",
			main:  []model.Entry{entry(day, "rent", "checking", "imbalance")},
			other: []model.Entry{entry(day, "rent", "savings", "checking")},
			want:  0,
		},
		{
			name: "one main entry matches twice",
			main: []model.Entry{entry(day, "rent", "checking", "imbalance")},
			other: []model.Entry{
				entry(day, "rent", "savings", "imbalance"),
				entry(day, "rent", "savings", "cash"),
			},
			want: 2,
		},
		{
			name:  "nothing to compare",
			main:  nil,
			other: []model.Entry{entry(day, "rent", "savings", "imbalance")},
			want:  0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, ledger.MatchDuplicates(tt.main, tt.other), tt.want)
		})
	}
}

func TestMatchDuplicates_MainMajorOrder(t *testing.T) {
	day := ledgertest.Date
	main := []model.Entry{
		entry(day, "a", "checking", "imbalance"),
		entry(day, "b", "checking", "imbalance"),
	}
	other := []model.Entry{
		entry(day, "b", "savings", "imbalance"),
		entry(day, "a", "savings", "imbalance"),
	}

	pairs := ledger.MatchDuplicates(main, other)
	require.Len(t, pairs, 2)
	assert.Equal(t, "a", pairs[0].Main.Description)
	assert.Equal(t, "b", pairs[1].Main.Description)
}

func TestFindDuplicates(t *testing.T) {
	l := openLedger(t, ledgertest.NewBookWithDuplicates(t))

	pairs, err := l.FindDuplicates(context.Background(),
		ledgertest.MustFind(t, l, "Expenses"), ledgertest.MustFind(t, l, "Savings"))
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "some description", pairs[0].Main.Description)
	assert.Equal(t, "10.00", pairs[0].Main.Value())
	assert.Equal(t, "-10.00", pairs[0].Other.Value())
}

func TestReconcile(t *testing.T) {
	ctx := context.Background()
	l := openLedger(t, ledgertest.NewBookWithDuplicates(t))
	expenses := ledgertest.MustFind(t, l, "Expenses")
	savings := ledgertest.MustFind(t, l, "Savings")

	pairs, err := l.FindDuplicates(ctx, expenses, savings)
	require.NoError(t, err)

	res, err := l.Reconcile(ctx, pairs, savings)
	require.NoError(t, err)
	assert.Equal(t, ledger.ReconcileResult{Merged: 1}, res)

	mainSide, err := l.FindEntries(ctx, expenses, "some description")
	require.NoError(t, err)
	require.Len(t, mainSide, 1)
	assert.Equal(t, "Savings", mainSide[0].Transfer())
	assert.Equal(t, "10.00", mainSide[0].Value())

	otherSide, err := l.FindEntries(ctx, savings, "some description")
	require.NoError(t, err)
	require.Len(t, otherSide, 1)
	assert.Equal(t, "Expenses", otherSide[0].Transfer())

	imbalance, err := l.Entries(ctx, ledgertest.MustFind(t, l, "Imbalance-EUR"))
	require.NoError(t, err)
	assert.Empty(t, imbalance)

	again, err := l.FindDuplicates(ctx, expenses, savings)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestReconcile_OtherAlreadyRemoved(t *testing.T) {
	ctx := context.Background()
	l := openLedger(t, ledgertest.NewBookWithDuplicates(t))
	expenses := ledgertest.MustFind(t, l, "Expenses")
	savings := ledgertest.MustFind(t, l, "Savings")

	pairs, err := l.FindDuplicates(ctx, expenses, savings)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	require.NoError(t, l.RemoveEntry(ctx, pairs[0].Other))

	res, err := l.Reconcile(ctx, pairs, savings)
	require.NoError(t, err)
	assert.Equal(t, ledger.ReconcileResult{Skipped: 1}, res)

	mainSide, err := l.FindEntries(ctx, expenses, "some description")
	require.NoError(t, err)
	require.Len(t, mainSide, 1)
	assert.Equal(t, "Savings", mainSide[0].Transfer())
}
