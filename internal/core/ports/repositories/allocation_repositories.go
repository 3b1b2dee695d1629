package repositories

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
)

// AllocationStore is the full read/write surface the allocation engine works
// against. A store instance is bound to one ledger side (supplier or
// customer) at construction, so no method carries the side.
type AllocationStore interface {
	// FindAllocationByID retrieves an allocation row.
	FindAllocationByID(ctx context.Context, allocationID string) (*domain.Allocation, error)

	// FindAllocationByPair retrieves the row for a (payment, invoice) pair if
	// one exists; at most one can.
	FindAllocationByPair(ctx context.Context, paymentID string, invoiceID string) (*domain.Allocation, error)

	// ListAllocationsByPayment retrieves all allocations drawing on a payment.
	ListAllocationsByPayment(ctx context.Context, paymentID string) ([]domain.Allocation, error)

	// ListAllocationsByInvoice retrieves all allocations applied to an invoice.
	ListAllocationsByInvoice(ctx context.Context, invoiceID string) ([]domain.Allocation, error)

	// SumAllocationsByPayment totals the amounts drawn from a payment.
	SumAllocationsByPayment(ctx context.Context, paymentID string) (decimal.Decimal, error)

	// SumAllocationsByInvoice totals the amounts applied to an invoice.
	SumAllocationsByInvoice(ctx context.Context, invoiceID string) (decimal.Decimal, error)

	// FindPayment retrieves the side's payment row. Inside WithinTx the row is
	// locked for the duration of the transaction.
	FindPayment(ctx context.Context, ownerID string, paymentID string) (*domain.Payment, error)

	// FindInvoice retrieves the side's invoice row. Inside WithinTx the row is
	// locked for the duration of the transaction.
	FindInvoice(ctx context.Context, ownerID string, invoiceID string) (*domain.Invoice, error)

	// InsertAllocation persists a new allocation row.
	InsertAllocation(ctx context.Context, allocation domain.Allocation) error

	// UpdateAllocationAmount overwrites an allocation's amount.
	UpdateAllocationAmount(ctx context.Context, allocationID string, amount decimal.Decimal) error

	// DeleteAllocation removes an allocation row.
	DeleteAllocation(ctx context.Context, allocationID string) error

	// UpdateInvoiceStatus overwrites an invoice's status.
	UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus) error
}

// AllocationUnitOfWork extends the store with a transactional scope. Every
// multi-read-then-write allocation operation runs inside WithinTx so the
// derived available amounts cannot move between validation and write.
type AllocationUnitOfWork interface {
	AllocationStore

	// WithinTx runs fn against a store view bound to one database
	// transaction, committing when fn returns nil and rolling back otherwise.
	WithinTx(ctx context.Context, fn func(store AllocationStore) error) error
}
