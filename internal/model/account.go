package model

import "strings"

// AccountType is the GnuCash account type stored in accounts.account_type.
type AccountType string

const (
	AccountTypeRoot       AccountType = "ROOT"
	AccountTypeBank       AccountType = "BANK"
	AccountTypeCash       AccountType = "CASH"
	AccountTypeAsset      AccountType = "ASSET"
	AccountTypeCredit     AccountType = "CREDIT"
	AccountTypeLiability  AccountType = "LIABILITY"
	AccountTypeStock      AccountType = "STOCK"
	AccountTypeMutual     AccountType = "MUTUAL"
	AccountTypeIncome     AccountType = "INCOME"
	AccountTypeExpense    AccountType = "EXPENSE"
	AccountTypeEquity     AccountType = "EQUITY"
	AccountTypeReceivable AccountType = "RECEIVABLE"
	AccountTypePayable    AccountType = "PAYABLE"
	AccountTypeTrading    AccountType = "TRADING"
)

var accountTypes = map[AccountType]bool{
	AccountTypeRoot: true, AccountTypeBank: true, AccountTypeCash: true,
	AccountTypeAsset: true, AccountTypeCredit: true, AccountTypeLiability: true,
	AccountTypeStock: true, AccountTypeMutual: true, AccountTypeIncome: true,
	AccountTypeExpense: true, AccountTypeEquity: true, AccountTypeReceivable: true,
	AccountTypePayable: true, AccountTypeTrading: true,
}

// Valid reports whether t is a type GnuCash knows about.
func (t AccountType) Valid() bool {
	return accountTypes[AccountType(strings.ToUpper(string(t)))]
}

// FullNameSeparator joins account names into a full name.
const FullNameSeparator = ":"

// Account represents a row in the accounts table.
type Account struct {
	GUID          string
	Name          string
	FullName      string // colon-joined path below the root, "" for the root
	Type          AccountType
	ParentGUID    string // "" for the root
	CommodityGUID string
	Description   string
}

// IsRoot reports whether the account is a book or template root.
func (a Account) IsRoot() bool {
	return a.Type == AccountTypeRoot
}
