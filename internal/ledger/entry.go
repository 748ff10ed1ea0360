package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/leonschreuder/gnucsh/internal/model"
)

// ErrIntegrity marks transactions this tool cannot represent as an entry.
var ErrIntegrity = errors.New("data integrity error")

// IntegrityError reports a transaction that does not have exactly two legs.
type IntegrityError struct {
	Date        time.Time
	Description string
	Legs        int
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("expected 2 legs, got %d: %s  %s", e.Legs, e.Date.Format(model.DateFormat), e.Description)
}

func (e *IntegrityError) Unwrap() error {
	return ErrIntegrity
}

// NormalizeEntry builds the entry for tx as seen from viewed. names maps
// account GUIDs to full names.
//
// When the first leg posts to viewed the entry is a deposit and the first
// leg is This; otherwise the second leg is This and it is a withdrawal.
func NormalizeEntry(tx model.Transaction, splits []model.Split, viewed model.Account, names map[string]string) (model.Entry, error) {
	if len(splits) != 2 {
		return model.Entry{}, &IntegrityError{Date: tx.PostDate, Description: tx.Description, Legs: len(splits)}
	}

	first := leg(splits[0], names)
	second := leg(splits[1], names)

	e := model.Entry{
		TxGUID:      tx.GUID,
		Date:        tx.PostDate,
		Description: tx.Description,
	}
	if first.AccountName == viewed.FullName {
		e.This, e.Other, e.Kind = first, second, model.Deposit
	} else {
		e.This, e.Other, e.Kind = second, first, model.Withdrawal
	}
	return e, nil
}

func leg(s model.Split, names map[string]string) model.Leg {
	return model.Leg{
		SplitGUID:   s.GUID,
		AccountGUID: s.AccountGUID,
		AccountName: names[s.AccountGUID],
		Amount:      s.Value,
		Places:      s.Places,
	}
}

// Entries returns the entries of account in the order they were recorded.
// They are read fresh from the book on every call.
func (l *Ledger) Entries(ctx context.Context, account model.Account) ([]model.Entry, error) {
	names, err := l.accountNames(ctx)
	if err != nil {
		return nil, err
	}

	splits, err := l.store.AccountSplits(ctx, account.GUID)
	if err != nil {
		return nil, err
	}

	entries := make([]model.Entry, 0, len(splits))
	for _, s := range splits {
		tx, err := l.store.Transaction(ctx, s.TxGUID)
		if err != nil {
			return nil, err
		}
		legs, err := l.store.TransactionSplits(ctx, s.TxGUID)
		if err != nil {
			return nil, err
		}
		e, err := NormalizeEntry(tx, legs, account, names)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// FindEntries returns the entries of account whose description matches
// pattern. An empty pattern returns all entries.
func (l *Ledger) FindEntries(ctx context.Context, account model.Account, pattern string) ([]model.Entry, error) {
	re, err := compileFilter(pattern)
	if err != nil {
		return nil, err
	}
	entries, err := l.Entries(ctx, account)
	if err != nil {
		return nil, err
	}
	if re == nil {
		return entries, nil
	}

	var found []model.Entry
	for _, e := range entries {
		if re.MatchString(e.Description) {
			found = append(found, e)
		}
	}
	return found, nil
}

// AddEntry records amount on account against transfer, which receives the
// negated amount. A zero date means today.
func (l *Ledger) AddEntry(ctx context.Context, account model.Account, amount decimal.Decimal, description string, transfer model.Account, date time.Time) (model.Transaction, error) {
	if date.IsZero() {
		now := l.now()
		date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	currency, err := l.currency(ctx, account)
	if err != nil {
		return model.Transaction{}, err
	}

	tx, err := l.store.AddTransaction(ctx, model.Transaction{
		CurrencyGUID: currency,
		PostDate:     date,
		Description:  description,
	}, []model.Split{
		{AccountGUID: account.GUID, Value: amount},
		{AccountGUID: transfer.GUID, Value: amount.Neg()},
	})
	if err != nil {
		return model.Transaction{}, fmt.Errorf("adding entry %q: %w", description, err)
	}
	return tx, nil
}

// RemoveEntry deletes the whole transaction behind e.
func (l *Ledger) RemoveEntry(ctx context.Context, e model.Entry) error {
	if err := l.store.DeleteTransaction(ctx, e.TxGUID); err != nil {
		return fmt.Errorf("removing entry %s %q: %w", e.Date.Format(model.DateFormat), e.Description, err)
	}
	slog.Debug("removed entry", "date", e.Date.Format(model.DateFormat), "description", e.Description)
	return nil
}

// currency returns the commodity of account, falling back to the root's.
func (l *Ledger) currency(ctx context.Context, account model.Account) (string, error) {
	if account.CommodityGUID != "" {
		return account.CommodityGUID, nil
	}
	root, err := l.store.Root(ctx)
	if err != nil {
		return "", err
	}
	return root.CommodityGUID, nil
}
