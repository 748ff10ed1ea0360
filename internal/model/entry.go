package model

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// DateFormat is the layout used for post dates in listings and imports.
const DateFormat = "2006-01-02"

// EntryKind classifies an entry from the viewed account's perspective.
type EntryKind int

const (
	Deposit EntryKind = iota + 1
	Withdrawal
)

func (k EntryKind) String() string {
	switch k {
	case Deposit:
		return "deposit"
	case Withdrawal:
		return "withdrawal"
	default:
		return "unknown"
	}
}

// Leg is one split of an entry together with the account it posts to.
type Leg struct {
	SplitGUID   string
	AccountGUID string
	AccountName string // full name
	Amount      decimal.Decimal
	Places      int32 // decimal places of the commodity fraction
}

// Text renders the signed amount with the commodity's decimal places.
func (l Leg) Text() string {
	return l.Amount.StringFixed(l.Places)
}

// Entry is a two-legged transaction seen from one account. This is the leg
// posted to the viewed account and Other the counter-leg.
//
// Other refers to a split owned by the book. Changing it goes through the
// ledger; an Entry is never updated in place.
type Entry struct {
	TxGUID      string
	Date        time.Time
	Description string
	This        Leg
	Other       Leg
	Kind        EntryKind
}

// Amount returns the signed amount posted to the viewed account.
func (e Entry) Amount() decimal.Decimal {
	return e.This.Amount
}

// Value returns Amount as decimal text, e.g. "-0.90".
func (e Entry) Value() string {
	return e.This.Text()
}

// Transfer returns the full name of the counter-account.
func (e Entry) Transfer() string {
	return e.Other.AccountName
}

// Layout holds the column widths used to render an entry.
type Layout struct {
	DateWidth        int
	AmountWidth      int
	DescriptionWidth int
}

// DefaultLayout matches the widths GnuCash users of this tool are used to.
var DefaultLayout = Layout{DateWidth: 11, AmountWidth: 8, DescriptionWidth: 135}

// Format renders the entry as one listing line.
func (e Entry) Format(l Layout) string {
	amount := e.Value()
	if !strings.HasPrefix(amount, "-") {
		amount = " " + amount
	}

	desc := e.Description
	if utf8.RuneCountInString(desc) > l.DescriptionWidth {
		keep := l.DescriptionWidth - 4
		if keep < 0 {
			keep = 0
		}
		desc = string([]rune(desc)[:keep]) + "..."
	}

	return fmt.Sprintf("%s %s %s %s",
		padRight(e.Date.Format(DateFormat), l.DateWidth),
		padRight(amount, l.AmountWidth),
		padRight(desc, l.DescriptionWidth),
		e.Other.AccountName,
	)
}

func (e Entry) String() string {
	return e.Format(DefaultLayout)
}

func padRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
