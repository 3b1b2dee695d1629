package repositories

import (
	"context"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
)

// InvoiceRepositoryFacade covers the invoice reads the engine needs. A
// repository instance is bound to one ledger side at construction. Writes go
// through the posting unit of work so a document never lands without its
// ledger legs; full invoice lifecycle management (drafting, numbering, line
// editing) lives with the callers.
type InvoiceRepositoryFacade interface {
	// FindInvoiceByID retrieves an invoice.
	FindInvoiceByID(ctx context.Context, ownerID string, invoiceID string) (*domain.Invoice, error)

	// ListInvoiceItems retrieves an invoice's lines.
	ListInvoiceItems(ctx context.Context, invoiceID string) ([]domain.InvoiceItem, error)
}

// PaymentRepositoryFacade covers the payment reads the engine needs, bound
// to one ledger side at construction.
type PaymentRepositoryFacade interface {
	// FindPaymentByID retrieves a payment.
	FindPaymentByID(ctx context.Context, ownerID string, paymentID string) (*domain.Payment, error)
}
