package services

import (
	"context"
	"time"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
)

// ReportingSvcFacade generates the financial statements. All operations are
// read-only over posted data.
type ReportingSvcFacade interface {
	// TrialBalance lists every account with a non-zero balance as of a date,
	// split into debit and credit columns, with column totals.
	TrialBalance(ctx context.Context, ownerID string, asOf time.Time) (*domain.TrialBalanceReport, error)

	// ProfitAndLoss nets income and expense movement over the period,
	// excluding opening balances.
	ProfitAndLoss(ctx context.Context, ownerID string, from time.Time, to time.Time) (*domain.PAndLReport, error)

	// BalanceSheet states assets, liabilities and equity at a date with a
	// derived retained earnings figure.
	BalanceSheet(ctx context.Context, ownerID string, asOf time.Time) (*domain.BalanceSheetReport, error)

	// VatReturn aggregates the period's invoice lines by VAT code, applying
	// the reporting rate per code.
	VatReturn(ctx context.Context, ownerID string, from time.Time, to time.Time) (*domain.VATReturnReport, error)
}
