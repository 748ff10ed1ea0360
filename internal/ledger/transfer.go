package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leonschreuder/gnucsh/internal/model"
)

// SetTransfer moves the counter-leg of e to account. The viewed leg and the
// amount stay as they are.
func (l *Ledger) SetTransfer(ctx context.Context, e model.Entry, account model.Account) error {
	if err := l.store.SetSplitAccount(ctx, e.Other.SplitGUID, account.GUID); err != nil {
		return fmt.Errorf("setting transfer of %s %q to %s: %w",
			e.Date.Format(model.DateFormat), e.Description, account.FullName, err)
	}
	return nil
}

// ChangeTransfer calls SetTransfer for each entry in order and returns how
// many were changed. It stops at the first failure; entries already changed
// stay changed.
func (l *Ledger) ChangeTransfer(ctx context.Context, entries []model.Entry, account model.Account) (int, error) {
	for i, e := range entries {
		if err := l.SetTransfer(ctx, e, account); err != nil {
			return i, err
		}
	}
	slog.Info("changed transfer account", "entries", len(entries), "account", account.FullName)
	return len(entries), nil
}
