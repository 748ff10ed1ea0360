package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/leonschreuder/gnucsh/internal/model"
)

// Import records one entry per row on account. All transfer accounts are
// resolved before the first write, so an unknown name leaves the book
// untouched. Once writing starts each row is committed on its own.
func (l *Ledger) Import(ctx context.Context, account model.Account, rows []model.ImportRow) (int, error) {
	transfers := make(map[string]model.Account)
	for i, row := range rows {
		if _, ok := transfers[row.Transfer]; ok {
			continue
		}
		acct, err := l.Account(ctx, row.Transfer)
		if err != nil {
			return 0, fmt.Errorf("row %d: transfer account: %w", i+1, err)
		}
		transfers[row.Transfer] = acct
	}

	if len(rows) > 0 {
		if err := l.checkPrecision(ctx, account, rows); err != nil {
			return 0, err
		}
	}

	for i, row := range rows {
		if _, err := l.AddEntry(ctx, account, row.Amount, row.Description, transfers[row.Transfer], row.Date); err != nil {
			return i, fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	slog.Info("imported entries", "entries", len(rows), "account", account.FullName)
	return len(rows), nil
}

func (l *Ledger) checkPrecision(ctx context.Context, account model.Account, rows []model.ImportRow) error {
	guid, err := l.currency(ctx, account)
	if err != nil {
		return err
	}
	c, err := l.store.Commodity(ctx, guid)
	if err != nil {
		return err
	}

	fraction := decimal.NewFromInt(c.Fraction)
	for i, row := range rows {
		if !row.Amount.Mul(fraction).IsInteger() {
			return fmt.Errorf("row %d: amount %s has more decimals than %s allows", i+1, row.Amount, c.Mnemonic)
		}
	}
	return nil
}
