package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	"github.com/smallbooks/bookkeeping_app/internal/dto"
)

// ChartReaderSvc defines read operations over the chart of accounts
type ChartReaderSvc interface {
	// GetAccount retrieves a specific account by its ID.
	GetAccount(ctx context.Context, ownerID string, accountID string) (*domain.Account, error)

	// ListAccounts retrieves the owner's full chart ordered by code.
	ListAccounts(ctx context.Context, ownerID string) ([]domain.Account, error)

	// GetBalance computes an account's balance as of a date; nil means now.
	GetBalance(ctx context.Context, ownerID string, accountID string, asOf *time.Time) (decimal.Decimal, error)
}

// ChartWriterSvc defines write operations over the chart of accounts
type ChartWriterSvc interface {
	// CreateAccount validates the code range and uniqueness and persists a
	// new account.
	CreateAccount(ctx context.Context, ownerID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)

	// UpdateAccount updates name/code/flags; the account type is immutable.
	UpdateAccount(ctx context.Context, ownerID string, accountID string, req dto.UpdateAccountRequest, updaterUserID string) (*domain.Account, error)

	// DeleteAccount removes an account unless journal entries reference it.
	DeleteAccount(ctx context.Context, ownerID string, accountID string) error
}

// ChartSvcFacade combines all chart-of-accounts service interfaces
type ChartSvcFacade interface {
	ChartReaderSvc
	ChartWriterSvc
}
