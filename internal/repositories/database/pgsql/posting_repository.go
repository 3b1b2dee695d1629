package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smallbooks/bookkeeping_app/internal/apperrors"
	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/smallbooks/bookkeeping_app/internal/core/ports/repositories"
)

// PgxPostingUnitOfWork scopes compound postings to one serializable
// transaction, so a business document and its journal legs commit together or
// not at all.
type PgxPostingUnitOfWork struct {
	BaseRepository
}

// NewPgxPostingUnitOfWork creates the posting unit of work.
func NewPgxPostingUnitOfWork(pool *pgxpool.Pool) portsrepo.PostingUnitOfWork {
	return &PgxPostingUnitOfWork{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxPostingUnitOfWork implements portsrepo.PostingUnitOfWork
var _ portsrepo.PostingUnitOfWork = (*PgxPostingUnitOfWork)(nil)

// WithinTx runs fn against a transaction-bound store. Any error from fn rolls
// back everything fn wrote.
func (r *PgxPostingUnitOfWork) WithinTx(ctx context.Context, fn func(store portsrepo.PostingStore) error) error {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin posting transaction", err)
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if err := fn(&pgxPostingStore{tx: tx}); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// pgxPostingStore is the transaction-bound write surface handed to the
// posting service. It dispatches to the side-specific document tables and
// the shared journal table on the one open transaction.
type pgxPostingStore struct {
	tx pgx.Tx
}

var _ portsrepo.PostingStore = (*pgxPostingStore)(nil)

func (s *pgxPostingStore) invoiceTablesFor(side domain.InvoiceSide) invoiceTables {
	if side == domain.CustomerSide {
		return customerInvoiceTables
	}
	return supplierInvoiceTables
}

func (s *pgxPostingStore) paymentTableFor(side domain.InvoiceSide) string {
	if side == domain.CustomerSide {
		return customerPaymentTable
	}
	return supplierPaymentTable
}

// InsertInvoice persists an invoice with its lines on the given side.
func (s *pgxPostingStore) InsertInvoice(ctx context.Context, side domain.InvoiceSide, invoice domain.Invoice, items []domain.InvoiceItem) error {
	return insertInvoice(ctx, s.tx, s.invoiceTablesFor(side), invoice, items)
}

// InsertPayment persists a payment on the given side.
func (s *pgxPostingStore) InsertPayment(ctx context.Context, side domain.InvoiceSide, payment domain.Payment) error {
	return insertPayment(ctx, s.tx, s.paymentTableFor(side), payment)
}

// InsertEntries persists a batch of journal entries.
func (s *pgxPostingStore) InsertEntries(ctx context.Context, entries []domain.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return insertEntries(ctx, s.tx, entries)
}

// ListJournalNumbers returns every journal number starting with prefix,
// read on the open transaction so numbering and insert see the same state.
func (s *pgxPostingStore) ListJournalNumbers(ctx context.Context, ownerID string, prefix string) ([]string, error) {
	query := `SELECT journal_number FROM journal_entries WHERE owner_id = $1 AND journal_number LIKE $2 || '-%';`
	rows, err := s.tx.Query(ctx, query, ownerID, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal numbers: %w", err)
	}
	defer rows.Close()

	numbers := []string{}
	for rows.Next() {
		var number string
		if err := rows.Scan(&number); err != nil {
			return nil, fmt.Errorf("failed to scan journal number: %w", err)
		}
		numbers = append(numbers, number)
	}
	return numbers, rows.Err()
}
