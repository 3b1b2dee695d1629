package repositories

import (
	"context"
	"time"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
)

// ReportingReader defines the aggregate queries behind the statement
// generator. All methods are read-only.
type ReportingReader interface {
	// AccountMovements returns every account with its total debits and
	// credits over [from, to]. A nil bound is open-ended. Accounts with no
	// movement still appear with zero sums so opening balances can surface.
	AccountMovements(ctx context.Context, ownerID string, from *time.Time, to *time.Time) ([]domain.AccountMovement, error)

	// VatLineSummaries aggregates one side's invoice lines by VAT code over
	// the period, using invoice dates.
	VatLineSummaries(ctx context.Context, ownerID string, side domain.InvoiceSide, from time.Time, to time.Time) ([]domain.VatLineSummary, error)
}
