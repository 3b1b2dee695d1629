package services

import (
	"context"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
)

// DocumentSvcFacade reads the invoices and payments the posting engine wrote,
// bound to one ledger side at construction.
type DocumentSvcFacade interface {
	// GetInvoice retrieves an invoice with its lines.
	GetInvoice(ctx context.Context, ownerID string, invoiceID string) (*domain.Invoice, []domain.InvoiceItem, error)

	// GetPayment retrieves a payment.
	GetPayment(ctx context.Context, ownerID string, paymentID string) (*domain.Payment, error)
}
