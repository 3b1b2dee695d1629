package services

import (
	"context"
	"log/slog"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/smallbooks/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/smallbooks/bookkeeping_app/internal/core/ports/services"
)

// documentService implements the DocumentSvcFacade interface for one ledger
// side. Documents are written by the posting service; this service only reads
// them back.
type documentService struct {
	BaseService
	invoices portsrepo.InvoiceRepositoryFacade
	payments portsrepo.PaymentRepositoryFacade
}

// NewDocumentService creates a document reader over one ledger side's
// repositories.
func NewDocumentService(invoices portsrepo.InvoiceRepositoryFacade, payments portsrepo.PaymentRepositoryFacade) portssvc.DocumentSvcFacade {
	return &documentService{invoices: invoices, payments: payments}
}

// Ensure documentService implements the DocumentSvcFacade interface
var _ portssvc.DocumentSvcFacade = (*documentService)(nil)

func (s *documentService) GetInvoice(ctx context.Context, ownerID string, invoiceID string) (*domain.Invoice, []domain.InvoiceItem, error) {
	invoice, err := s.invoices.FindInvoiceByID(ctx, ownerID, invoiceID)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.invoices.ListInvoiceItems(ctx, invoiceID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoice items",
			slog.String("invoice_id", invoiceID))
		return nil, nil, err
	}
	return invoice, items, nil
}

func (s *documentService) GetPayment(ctx context.Context, ownerID string, paymentID string) (*domain.Payment, error) {
	return s.payments.FindPaymentByID(ctx, ownerID, paymentID)
}
