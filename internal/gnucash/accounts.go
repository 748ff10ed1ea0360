package gnucash

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leonschreuder/gnucsh/internal/model"
)

// Commodity is a row in the commodities table.
type Commodity struct {
	GUID      string
	Namespace string
	Mnemonic  string
	Fraction  int64
}

// Root returns the book's root account.
func (b *Book) Root(ctx context.Context) (model.Account, error) {
	all, err := b.allAccounts(ctx)
	if err != nil {
		return model.Account{}, err
	}
	for _, a := range all {
		if a.GUID == b.rootGUID {
			return a, nil
		}
	}
	return model.Account{}, fmt.Errorf("%w: root %s", ErrAccountNotFound, b.rootGUID)
}

// Accounts returns every account below the book root in insertion order.
// The root itself and scheduled-transaction templates are left out.
func (b *Book) Accounts(ctx context.Context) ([]model.Account, error) {
	all, err := b.allAccounts(ctx)
	if err != nil {
		return nil, err
	}

	byGUID := make(map[string]*model.Account, len(all))
	for i := range all {
		byGUID[all[i].GUID] = &all[i]
	}

	var accounts []model.Account
	for _, a := range all {
		if a.IsRoot() || !b.underRoot(a, byGUID) {
			continue
		}
		a.FullName = fullName(a, byGUID, b.rootGUID)
		accounts = append(accounts, a)
	}
	return accounts, nil
}

// CreateAccount adds a child of parent in the parent's commodity.
func (b *Book) CreateAccount(ctx context.Context, parent model.Account, name string, accountType model.AccountType) (model.Account, error) {
	scu := int64(100)
	if parent.CommodityGUID != "" {
		c, err := b.Commodity(ctx, parent.CommodityGUID)
		if err != nil {
			return model.Account{}, err
		}
		scu = c.Fraction
	}

	acct := model.Account{
		GUID:          newGUID(),
		Name:          name,
		Type:          accountType,
		ParentGUID:    parent.GUID,
		CommodityGUID: parent.CommodityGUID,
	}
	acct.FullName = name
	if parent.FullName != "" {
		acct.FullName = parent.FullName + model.FullNameSeparator + name
	}

	_, err := b.db.ExecContext(ctx,
		`INSERT INTO accounts (guid, name, account_type, commodity_guid, commodity_scu, non_std_scu, parent_guid, code, description, hidden, placeholder)
		 VALUES (?, ?, ?, NULLIF(?, ''), ?, 0, ?, '', '', 0, 0)`,
		acct.GUID, acct.Name, string(acct.Type), acct.CommodityGUID, scu, acct.ParentGUID,
	)
	if err != nil {
		return model.Account{}, fmt.Errorf("inserting account %s: %w", acct.FullName, err)
	}

	slog.Debug("created account", "name", acct.FullName, "type", acct.Type)
	return acct, nil
}

// Commodity returns a commodity by GUID.
func (b *Book) Commodity(ctx context.Context, guid string) (Commodity, error) {
	var c Commodity
	err := b.db.QueryRowContext(ctx,
		"SELECT guid, namespace, mnemonic, fraction FROM commodities WHERE guid = ?", guid,
	).Scan(&c.GUID, &c.Namespace, &c.Mnemonic, &c.Fraction)
	if errors.Is(err, sql.ErrNoRows) {
		return Commodity{}, fmt.Errorf("commodity %s not found", guid)
	}
	if err != nil {
		return Commodity{}, fmt.Errorf("reading commodity: %w", err)
	}
	return c, nil
}

func (b *Book) allAccounts(ctx context.Context) ([]model.Account, error) {
	rows, err := b.db.QueryContext(ctx,
		`SELECT guid, name, account_type, COALESCE(commodity_guid, ''), COALESCE(parent_guid, ''), COALESCE(description, '')
		 FROM accounts ORDER BY rowid`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		var a model.Account
		var accountType string
		if err := rows.Scan(&a.GUID, &a.Name, &accountType, &a.CommodityGUID, &a.ParentGUID, &a.Description); err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		a.Type = model.AccountType(accountType)
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating accounts: %w", err)
	}
	return accounts, nil
}

func (b *Book) underRoot(a model.Account, byGUID map[string]*model.Account) bool {
	seen := make(map[string]bool)
	for cur := a.ParentGUID; cur != ""; {
		if cur == b.rootGUID {
			return true
		}
		if seen[cur] {
			return false
		}
		seen[cur] = true
		parent, ok := byGUID[cur]
		if !ok {
			return false
		}
		cur = parent.ParentGUID
	}
	return false
}

// fullName joins the names from the first level below root down to a.
func fullName(a model.Account, byGUID map[string]*model.Account, rootGUID string) string {
	name := a.Name
	for cur := a.ParentGUID; cur != "" && cur != rootGUID; {
		parent, ok := byGUID[cur]
		if !ok {
			break
		}
		name = parent.Name + model.FullNameSeparator + name
		cur = parent.ParentGUID
	}
	return name
}
