package repositories

import (
	"context"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
)

// PostingStore is the transaction-bound write surface of a compound posting.
// The business document and its journal legs go through the same store, so
// one failed leg aborts the whole event.
type PostingStore interface {
	// InsertInvoice persists an invoice with its lines on the given side.
	InsertInvoice(ctx context.Context, side domain.InvoiceSide, invoice domain.Invoice, items []domain.InvoiceItem) error

	// InsertPayment persists a payment on the given side.
	InsertPayment(ctx context.Context, side domain.InvoiceSide, payment domain.Payment) error

	// InsertEntries persists a batch of journal entries.
	InsertEntries(ctx context.Context, entries []domain.JournalEntry) error

	// ListJournalNumbers returns every journal number starting with prefix,
	// read under the transaction so numbering stays consistent with the write.
	ListJournalNumbers(ctx context.Context, ownerID string, prefix string) ([]string, error)
}

// PostingUnitOfWork scopes a compound posting to one database transaction.
type PostingUnitOfWork interface {
	// WithinTx runs fn against a store view bound to one serializable
	// transaction, committing when fn returns nil and rolling back otherwise.
	WithinTx(ctx context.Context, fn func(store PostingStore) error) error
}
