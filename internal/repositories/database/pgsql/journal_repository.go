package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smallbooks/bookkeeping_app/internal/apperrors"
	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/smallbooks/bookkeeping_app/internal/core/ports/repositories"
)

// PgxJournalRepository persists journal entries.
type PgxJournalRepository struct {
	BaseRepository
}

// NewPgxJournalRepository creates a new repository for journal data.
func NewPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

const entryColumns = `entry_id, owner_id, entry_date, description, debit_account_id, credit_account_id, amount, reference, transaction_type, journal_number, stakeholder, transaction_group_id, created_at, created_by`

func scanEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var entry domain.JournalEntry
	err := row.Scan(
		&entry.EntryID,
		&entry.OwnerID,
		&entry.EntryDate,
		&entry.Description,
		&entry.DebitAccountID,
		&entry.CreditAccountID,
		&entry.Amount,
		&entry.Reference,
		&entry.TransactionType,
		&entry.JournalNumber,
		&entry.Stakeholder,
		&entry.TransactionGroupID,
		&entry.CreatedAt,
		&entry.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (r *PgxJournalRepository) queryEntries(ctx context.Context, query string, args ...any) ([]domain.JournalEntry, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

// insertEntries batch-inserts journal entries on the given transaction.
func insertEntries(ctx context.Context, tx pgx.Tx, entries []domain.JournalEntry) error {
	query := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	batch := &pgx.Batch{}
	for _, entry := range entries {
		batch.Queue(query,
			entry.EntryID,
			entry.OwnerID,
			entry.EntryDate,
			entry.Description,
			entry.DebitAccountID,
			entry.CreditAccountID,
			entry.Amount,
			entry.Reference,
			entry.TransactionType,
			entry.JournalNumber,
			entry.Stakeholder,
			entry.TransactionGroupID,
			entry.CreatedAt,
			entry.CreatedBy,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for range entries {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: journal entry already exists", apperrors.ErrDuplicate)
			}
			return fmt.Errorf("failed to insert journal entry batch: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close journal entry batch: %w", err)
	}
	return nil
}

// SaveEntries persists a batch of entries in one transaction: all legs of a
// business event land together or not at all.
func (r *PgxJournalRepository) SaveEntries(ctx context.Context, entries []domain.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if err := insertEntries(ctx, tx, entries); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// DeleteEntry removes a single entry.
func (r *PgxJournalRepository) DeleteEntry(ctx context.Context, ownerID string, entryID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM journal_entries WHERE owner_id = $1 AND entry_id = $2;`, ownerID, entryID)
	if err != nil {
		return fmt.Errorf("failed to delete journal entry %s: %w", entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("journal entry %s not found", entryID))
	}
	return nil
}

// FindEntryByID retrieves an entry by its ID.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, ownerID string, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE owner_id = $1 AND entry_id = $2;`
	entry, err := scanEntry(r.Pool.QueryRow(ctx, query, ownerID, entryID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	return entry, nil
}

// ListEntries retrieves entries newest first, with optional filters. A set
// cursor resumes strictly after the previous page's last sort key; a zero
// limit means no limit.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, ownerID string, params portsrepo.ListEntriesParams) ([]domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE owner_id = $1
		AND ($2::timestamptz IS NULL OR entry_date >= $2)
		AND ($3::timestamptz IS NULL OR entry_date <= $3)
		AND ($4::text = '' OR transaction_type = $4)
		AND ($5::text = '' OR reference = $5)
		AND ($6::timestamptz IS NULL OR (entry_date, created_at) < ($6, $7))
		ORDER BY entry_date DESC, created_at DESC
		LIMIT NULLIF($8::int, 0);
	`
	return r.queryEntries(ctx, query, ownerID,
		params.From, params.To, string(params.TransactionType), params.Reference,
		params.CursorEntryDate, params.CursorCreatedAt, params.Limit)
}

// ListEntriesByAccount retrieves the entries touching one account, annotated
// with the side the account sat on.
func (r *PgxJournalRepository) ListEntriesByAccount(ctx context.Context, ownerID string, accountID string) ([]domain.LedgerLine, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE owner_id = $1 AND (debit_account_id = $2 OR credit_account_id = $2)
		ORDER BY entry_date DESC, created_at DESC;
	`
	entries, err := r.queryEntries(ctx, query, ownerID, accountID)
	if err != nil {
		return nil, err
	}

	lines := make([]domain.LedgerLine, len(entries))
	for i, entry := range entries {
		lines[i] = domain.LedgerLine{
			JournalEntry: entry,
			IsDebit:      entry.DebitAccountID == accountID,
			IsCredit:     entry.CreditAccountID == accountID,
		}
	}
	return lines, nil
}

// ListEntriesByGroupID retrieves all legs of one business event in posting
// order.
func (r *PgxJournalRepository) ListEntriesByGroupID(ctx context.Context, ownerID string, groupID string) ([]domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE owner_id = $1 AND transaction_group_id = $2
		ORDER BY created_at, journal_number;
	`
	return r.queryEntries(ctx, query, ownerID, groupID)
}

// ListJournalNumbers returns every journal number starting with prefix.
func (r *PgxJournalRepository) ListJournalNumbers(ctx context.Context, ownerID string, prefix string) ([]string, error) {
	query := `SELECT journal_number FROM journal_entries WHERE owner_id = $1 AND journal_number LIKE $2 || '-%';`
	rows, err := r.Pool.Query(ctx, query, ownerID, prefix)
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

// CountEntriesByAccount reports how many entries reference an account.
func (r *PgxJournalRepository) CountEntriesByAccount(ctx context.Context, ownerID string, accountID string) (int64, error) {
	query := `SELECT COUNT(*) FROM journal_entries WHERE owner_id = $1 AND (debit_account_id = $2 OR credit_account_id = $2);`
	var count int64
	if err := r.Pool.QueryRow(ctx, query, ownerID, accountID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count entries for account %s: %w", accountID, err)
	}
	return count, nil
}
