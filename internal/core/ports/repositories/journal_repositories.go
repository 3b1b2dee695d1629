package repositories

import (
	"context"
	"time"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
)

// ListEntriesParams narrows a journal listing. Zero values mean no filter.
// The cursor fields, when set, resume a paged listing strictly after the
// (entry date, created at) sort key of the previous page's last row.
type ListEntriesParams struct {
	From            *time.Time
	To              *time.Time
	TransactionType domain.TransactionType
	Reference       string
	Limit           int
	CursorEntryDate *time.Time
	CursorCreatedAt *time.Time
}

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindEntryByID retrieves a specific journal entry by its unique identifier.
	FindEntryByID(ctx context.Context, ownerID string, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves entries for an owner ordered by entry date
	// descending, then creation time descending.
	ListEntries(ctx context.Context, ownerID string, params ListEntriesParams) ([]domain.JournalEntry, error)

	// ListEntriesByAccount retrieves the entries touching one account, each
	// annotated with the side the account sat on.
	ListEntriesByAccount(ctx context.Context, ownerID string, accountID string) ([]domain.LedgerLine, error)

	// ListEntriesByGroupID retrieves all legs of one business event.
	ListEntriesByGroupID(ctx context.Context, ownerID string, groupID string) ([]domain.JournalEntry, error)

	// ListJournalNumbers returns every journal number starting with prefix.
	ListJournalNumbers(ctx context.Context, ownerID string, prefix string) ([]string, error)

	// CountEntriesByAccount reports how many entries reference an account on
	// either side. Used to block account deletion.
	CountEntriesByAccount(ctx context.Context, ownerID string, accountID string) (int64, error)
}

// JournalWriter defines write operations for journal data
type JournalWriter interface {
	// SaveEntries persists a batch of entries atomically: either every leg is
	// written or none are.
	SaveEntries(ctx context.Context, entries []domain.JournalEntry) error

	// DeleteEntry removes a single entry. No correcting entry is written; the
	// caller owns any ledger consequences.
	DeleteEntry(ctx context.Context, ownerID string, entryID string) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
