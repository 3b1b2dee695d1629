package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// CodeRange returns the inclusive nominal code range assigned to the type.
// Codes outside the range are rejected at creation and update.
func (t AccountType) CodeRange() (min int, max int, ok bool) {
	switch t {
	case Asset:
		return 1000, 1999, true
	case Liability:
		return 2000, 2999, true
	case Equity:
		return 3000, 3999, true
	case Income:
		return 4000, 4999, true
	case Expense:
		return 5000, 5999, true
	default:
		return 0, 0, false
	}
}

// IsDebitNormal reports whether debits increase the account's balance.
func (t AccountType) IsDebitNormal() bool {
	return t == Asset || t == Expense
}

// Account represents a nominal account within the chart of accounts.
// This is the primary representation used by services. Balance is never
// stored; it is derived from the journal on demand.
type Account struct {
	AccountID      string          `json:"accountID"` // Primary Key (UUID)
	OwnerID        string          `json:"ownerID"`   // Owning business; codes are unique per owner
	Code           int             `json:"code"`      // Nominal code within the type's range
	Name           string          `json:"name"`
	AccountType    AccountType     `json:"accountType"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	IsBank         bool            `json:"isBank"` // Marks the account used for cleared receipts/payments
	Description    string          `json:"description"`
	AuditFields
}
