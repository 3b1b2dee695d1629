package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	"github.com/smallbooks/bookkeeping_app/internal/dto"
)

// AllocationSvcFacade is the allocation engine's surface. The engine runs
// twice, once over the supplier ledger and once over the customer ledger;
// both instances satisfy this interface.
type AllocationSvcFacade interface {
	// Allocate applies part of a payment to an invoice, merging into an
	// existing (payment, invoice) allocation when one exists. Declined when
	// the amount exceeds the payment's unallocated remainder or the
	// invoice's outstanding balance.
	Allocate(ctx context.Context, ownerID string, req dto.AllocateRequest, creatorUserID string) (*domain.Allocation, error)

	// UpdateAllocation restates an allocation to a new amount, validated
	// against the re-derived available headroom on both sides.
	UpdateAllocation(ctx context.Context, ownerID string, allocationID string, req dto.UpdateAllocationRequest) (*domain.Allocation, error)

	// DeleteAllocation removes an allocation and rechecks the invoice's paid
	// status.
	DeleteAllocation(ctx context.Context, ownerID string, allocationID string) error

	// ListByPayment retrieves the allocations drawing on a payment.
	ListByPayment(ctx context.Context, ownerID string, paymentID string) ([]domain.Allocation, error)

	// ListByInvoice retrieves the allocations applied to an invoice.
	ListByInvoice(ctx context.Context, ownerID string, invoiceID string) ([]domain.Allocation, error)

	// UnallocatedAmount returns how much of a payment is still free,
	// floored at zero.
	UnallocatedAmount(ctx context.Context, ownerID string, paymentID string) (decimal.Decimal, error)

	// OutstandingBalance returns an invoice's total minus its allocations.
	OutstandingBalance(ctx context.Context, ownerID string, invoiceID string) (decimal.Decimal, error)
}
