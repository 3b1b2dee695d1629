package dto

import (
	"github.com/shopspring/decimal"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
)

// CreateAccountRequest defines the payload for creating a nominal account.
type CreateAccountRequest struct {
	Code           int              `json:"code" binding:"required"`
	Name           string           `json:"name" binding:"required"`
	AccountType    string           `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	OpeningBalance *decimal.Decimal `json:"openingBalance"`
	IsBank         bool             `json:"isBank"`
	Description    string           `json:"description"`
}

// UpdateAccountRequest defines the payload for updating an account. Nil
// fields are left unchanged; the account type itself is immutable.
type UpdateAccountRequest struct {
	Code        *int    `json:"code"`
	Name        *string `json:"name"`
	IsBank      *bool   `json:"isBank"`
	Description *string `json:"description"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID      string          `json:"accountID"`
	Code           int             `json:"code"`
	Name           string          `json:"name"`
	AccountType    string          `json:"accountType"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	IsBank         bool            `json:"isBank"`
	Description    string          `json:"description"`
}

// AccountWithBalanceResponse is an account plus its derived current balance.
type AccountWithBalanceResponse struct {
	AccountResponse
	Balance decimal.Decimal `json:"balance"`
}

// ListAccountsResponse wraps the chart listing.
type ListAccountsResponse struct {
	Accounts []AccountWithBalanceResponse `json:"accounts"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:      a.AccountID,
		Code:           a.Code,
		Name:           a.Name,
		AccountType:    string(a.AccountType),
		OpeningBalance: a.OpeningBalance,
		IsBank:         a.IsBank,
		Description:    a.Description,
	}
}
