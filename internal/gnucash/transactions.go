package gnucash

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/leonschreuder/gnucsh/internal/model"
)

// GnuCash stores date-only post dates at 10:59 UTC.
const postDateTime = " 10:59:00"

const timestampLayout = "2006-01-02 15:04:05"

// Transaction returns a transaction by GUID.
func (b *Book) Transaction(ctx context.Context, guid string) (model.Transaction, error) {
	var t model.Transaction
	var postDate, enterDate, desc sql.NullString
	err := b.db.QueryRowContext(ctx,
		"SELECT guid, currency_guid, post_date, enter_date, description FROM transactions WHERE guid = ?", guid,
	).Scan(&t.GUID, &t.CurrencyGUID, &postDate, &enterDate, &desc)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Transaction{}, fmt.Errorf("%w: %s", ErrTransactionNotFound, guid)
	}
	if err != nil {
		return model.Transaction{}, fmt.Errorf("reading transaction: %w", err)
	}

	if t.PostDate, err = parseDate(postDate.String); err != nil {
		return model.Transaction{}, fmt.Errorf("transaction %s: post_date: %w", guid, err)
	}
	if t.EnterDate, err = parseTimestamp(enterDate.String); err != nil {
		return model.Transaction{}, fmt.Errorf("transaction %s: enter_date: %w", guid, err)
	}
	t.Description = desc.String
	return t, nil
}

// TransactionSplits returns the splits of a transaction in insertion order.
func (b *Book) TransactionSplits(ctx context.Context, txGUID string) ([]model.Split, error) {
	return b.querySplits(ctx, "tx_guid", txGUID)
}

// AccountSplits returns the splits posted to an account in insertion order.
func (b *Book) AccountSplits(ctx context.Context, accountGUID string) ([]model.Split, error) {
	return b.querySplits(ctx, "account_guid", accountGUID)
}

func (b *Book) querySplits(ctx context.Context, column, value string) ([]model.Split, error) {
	// column is one of two constants above, never user input.
	rows, err := b.db.QueryContext(ctx,
		`SELECT guid, tx_guid, account_guid, memo, value_num, value_denom
		 FROM splits WHERE `+column+` = ? ORDER BY rowid`, value,
	)
	if err != nil {
		return nil, fmt.Errorf("querying splits: %w", err)
	}
	defer rows.Close()

	var splits []model.Split
	for rows.Next() {
		var s model.Split
		var num, denom int64
		if err := rows.Scan(&s.GUID, &s.TxGUID, &s.AccountGUID, &s.Memo, &num, &denom); err != nil {
			return nil, fmt.Errorf("scanning split: %w", err)
		}
		s.Value, s.Places = fromRational(num, denom)
		splits = append(splits, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating splits: %w", err)
	}
	return splits, nil
}

// AddTransaction writes a transaction and its splits in one database
// transaction. GUIDs are assigned here; the stored transaction is returned.
// Split values are scaled to the currency's fraction.
func (b *Book) AddTransaction(ctx context.Context, t model.Transaction, splits []model.Split) (model.Transaction, error) {
	currency, err := b.Commodity(ctx, t.CurrencyGUID)
	if err != nil {
		return model.Transaction{}, err
	}

	nums := make([]int64, len(splits))
	for i, s := range splits {
		if nums[i], err = toRational(s.Value, currency.Fraction); err != nil {
			return model.Transaction{}, err
		}
	}

	t.GUID = newGUID()
	if t.EnterDate.IsZero() {
		t.EnterDate = time.Now().UTC()
	}

	err = b.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO transactions (guid, currency_guid, num, post_date, enter_date, description)
			 VALUES (?, ?, '', ?, ?, ?)`,
			t.GUID, t.CurrencyGUID, t.PostDate.Format(model.DateFormat)+postDateTime, t.EnterDate.UTC().Format(timestampLayout), t.Description,
		); err != nil {
			return fmt.Errorf("inserting transaction: %w", err)
		}

		for i, s := range splits {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO splits (guid, tx_guid, account_guid, memo, action, reconcile_state, reconcile_date,
				                     value_num, value_denom, quantity_num, quantity_denom, lot_guid)
				 VALUES (?, ?, ?, ?, '', 'n', NULL, ?, ?, ?, ?, NULL)`,
				newGUID(), t.GUID, s.AccountGUID, s.Memo, nums[i], currency.Fraction, nums[i], currency.Fraction,
			); err != nil {
				return fmt.Errorf("inserting split %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return model.Transaction{}, err
	}

	slog.Debug("added transaction", "guid", t.GUID, "description", t.Description, "splits", len(splits))
	return t, nil
}

// SetSplitAccount moves a split to another account.
func (b *Book) SetSplitAccount(ctx context.Context, splitGUID, accountGUID string) error {
	res, err := b.db.ExecContext(ctx, "UPDATE splits SET account_guid = ? WHERE guid = ?", accountGUID, splitGUID)
	if err != nil {
		return fmt.Errorf("updating split: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating split: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrSplitNotFound, splitGUID)
	}
	slog.Debug("moved split", "split", splitGUID, "account", accountGUID)
	return nil
}

// DeleteTransaction removes a transaction together with all its splits.
func (b *Book) DeleteTransaction(ctx context.Context, guid string) error {
	err := b.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM splits WHERE tx_guid = ?", guid); err != nil {
			return fmt.Errorf("deleting splits: %w", err)
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM transactions WHERE guid = ?", guid)
		if err != nil {
			return fmt.Errorf("deleting transaction: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("deleting transaction: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("%w: %s", ErrTransactionNotFound, guid)
		}
		return nil
	})
	if err != nil {
		return err
	}
	slog.Debug("deleted transaction", "guid", guid)
	return nil
}

// parseDate accepts both "2024-12-09 10:59:00" and the compact
// "20241209105900" written by GnuCash 2.x.
func parseDate(s string) (time.Time, error) {
	if len(s) >= len(model.DateFormat) && s[4] == '-' {
		return time.Parse(model.DateFormat, s[:len(model.DateFormat)])
	}
	if len(s) >= 8 {
		return time.Parse("20060102", s[:8])
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// parseTimestamp returns the zero time for values it cannot read; the enter
// date is informational only.
func parseTimestamp(s string) (time.Time, error) {
	if ts, err := time.Parse(timestampLayout, s); err == nil {
		return ts, nil
	}
	return time.Time{}, nil
}
