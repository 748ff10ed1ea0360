package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row in the transactions table.
type Transaction struct {
	GUID         string
	CurrencyGUID string
	PostDate     time.Time
	EnterDate    time.Time
	Description  string
}

// Split is a row in the splits table: one leg of a transaction.
type Split struct {
	GUID        string
	TxGUID      string
	AccountGUID string
	Memo        string
	Value       decimal.Decimal
	Places      int32 // decimal places implied by value_denom
}

// ImportRow is one parsed line of an import file.
type ImportRow struct {
	Date        time.Time
	Description string
	Transfer    string          // transfer account name
	Amount      decimal.Decimal // signed, from the viewed account's perspective
}
