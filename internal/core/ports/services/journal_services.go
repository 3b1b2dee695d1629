package services

import (
	"context"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	"github.com/smallbooks/bookkeeping_app/internal/dto"
)

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetEntry retrieves a specific journal entry by its ID.
	GetEntry(ctx context.Context, ownerID string, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves entries newest first with optional filters. The
	// returned token, when non-empty, fetches the next page.
	ListEntries(ctx context.Context, ownerID string, params dto.ListEntriesParams) ([]domain.JournalEntry, string, error)

	// ListEntriesByAccount retrieves one account's ledger lines.
	ListEntriesByAccount(ctx context.Context, ownerID string, accountID string) ([]domain.LedgerLine, error)
}

// JournalWriterSvc defines write operations for journal data
type JournalWriterSvc interface {
	// PostEntry validates and persists a manual journal entry, assigning its
	// journal number and transaction group.
	PostEntry(ctx context.Context, ownerID string, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error)

	// Transfer posts a movement between two accounts as debit destination,
	// credit source.
	Transfer(ctx context.Context, ownerID string, req dto.TransferRequest, creatorUserID string) (*domain.JournalEntry, error)

	// DeleteEntry hard-deletes a single entry.
	DeleteEntry(ctx context.Context, ownerID string, entryID string) error
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
