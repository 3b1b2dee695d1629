package services

import (
	"context"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	"github.com/smallbooks/bookkeeping_app/internal/dto"
)

// PostingSvcFacade writes the canonical double-entry postings for business
// events. Each call produces one transaction group: all legs commit together
// or not at all.
type PostingSvcFacade interface {
	// PostSupplierInvoice books a purchase: net to the expense side of each
	// line, recoverable VAT to VAT Input, gross to Creditors.
	PostSupplierInvoice(ctx context.Context, ownerID string, req dto.InvoicePostingRequest, creatorUserID string) ([]domain.JournalEntry, error)

	// PostSalesInvoice books a sale: Debtors/Sales per line net, Debtors/VAT
	// Output for standard-rated lines, Cost of Sales/Stock for tracked
	// product lines.
	PostSalesInvoice(ctx context.Context, ownerID string, req dto.InvoicePostingRequest, creatorUserID string) ([]domain.JournalEntry, error)

	// PostSupplierPayment books money out: Creditors debit, Bank credit.
	PostSupplierPayment(ctx context.Context, ownerID string, req dto.PaymentPostingRequest, creatorUserID string) ([]domain.JournalEntry, error)

	// PostCustomerReceipt books money in: Bank (BACS) or Undeposited Funds
	// debit, Debtors credit.
	PostCustomerReceipt(ctx context.Context, ownerID string, req dto.PaymentPostingRequest, creatorUserID string) ([]domain.JournalEntry, error)

	// PostStockAdjustment books a signed stock revaluation against the
	// adjustment expense account.
	PostStockAdjustment(ctx context.Context, ownerID string, req dto.StockAdjustmentRequest, creatorUserID string) ([]domain.JournalEntry, error)

	// ReverseGroup writes the mirror image of every entry in a transaction
	// group, leaving net balances where they were before the original.
	ReverseGroup(ctx context.Context, ownerID string, groupID string, creatorUserID string) ([]domain.JournalEntry, error)
}
