package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
)

// AccountReader defines read operations for chart of accounts data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, ownerID string, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves the account holding a nominal code, if any.
	FindAccountByCode(ctx context.Context, ownerID string, code int) (*domain.Account, error)

	// ListAccounts retrieves all accounts for an owner ordered by code.
	ListAccounts(ctx context.Context, ownerID string) ([]domain.Account, error)

	// ListAccountsByType retrieves the owner's accounts of one type ordered by code.
	ListAccountsByType(ctx context.Context, ownerID string, accountType domain.AccountType) ([]domain.Account, error)
}

// AccountWriter defines write operations for chart of accounts data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an existing account's mutable fields.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeleteAccount removes an account. Implementations must refuse while
	// journal entries reference it.
	DeleteAccount(ctx context.Context, ownerID string, accountID string) error
}

// BalanceReader computes derived balances. Implementations scan the journal
// on every call; nothing is cached or persisted.
type BalanceReader interface {
	// AccountBalance returns opening balance plus signed movements up to and
	// including asOf. A nil asOf means all entries.
	AccountBalance(ctx context.Context, ownerID string, accountID string, asOf *time.Time) (decimal.Decimal, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	BalanceReader
}
