package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leonschreuder/gnucsh/internal/gnucash"
	"github.com/leonschreuder/gnucsh/internal/model"
)

// Pair is a suspected duplicate: the same transfer recorded once from the
// main account and once from the other account.
type Pair struct {
	Main  model.Entry
	Other model.Entry
}

// MatchDuplicates compares every main entry with every other entry and
// returns the pairs with equal date and description, except those that
// already link the two accounts to each other. Pairs come in main-major
// order; a main entry may appear in several pairs.
func MatchDuplicates(main, other []model.Entry) []Pair {
	var pairs []Pair
	for _, m := range main {
		for _, o := range other {
			if !m.Date.Equal(o.Date) || m.Description != o.Description {
				continue
			}
			if m.Other.AccountGUID == o.This.AccountGUID || o.Other.AccountGUID == m.This.AccountGUID {
				continue
			}
			pairs = append(pairs, Pair{Main: m, Other: o})
		}
	}
	return pairs
}

// FindDuplicates loads the entries of both accounts and matches them.
func (l *Ledger) FindDuplicates(ctx context.Context, main, other model.Account) ([]Pair, error) {
	mainEntries, err := l.Entries(ctx, main)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", main.FullName, err)
	}
	otherEntries, err := l.Entries(ctx, other)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", other.FullName, err)
	}
	return MatchDuplicates(mainEntries, otherEntries), nil
}

// ReconcileResult counts what Reconcile did.
type ReconcileResult struct {
	Merged  int
	Skipped int // other entry already removed by an earlier pair
}

// Reconcile merges each pair: the main entry's transfer is pointed at other,
// then the other entry's transaction is deleted. It stops at the first
// failure; pairs already merged stay merged.
func (l *Ledger) Reconcile(ctx context.Context, pairs []Pair, other model.Account) (ReconcileResult, error) {
	var res ReconcileResult
	for _, p := range pairs {
		if err := l.SetTransfer(ctx, p.Main, other); err != nil {
			return res, err
		}
		if err := l.RemoveEntry(ctx, p.Other); err != nil {
			if errors.Is(err, gnucash.ErrTransactionNotFound) {
				slog.Debug("duplicate already removed", "date", p.Other.Date.Format(model.DateFormat), "description", p.Other.Description)
				res.Skipped++
				continue
			}
			return res, err
		}
		res.Merged++
	}
	slog.Info("reconciled duplicates", "merged", res.Merged, "skipped", res.Skipped, "account", other.FullName)
	return res, nil
}
