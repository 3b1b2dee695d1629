package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smallbooks/bookkeeping_app/internal/apperrors"
	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/smallbooks/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/smallbooks/bookkeeping_app/internal/core/ports/services"
	"github.com/smallbooks/bookkeeping_app/internal/dto"
	"github.com/smallbooks/bookkeeping_app/internal/utils/accounting"
	"github.com/smallbooks/bookkeeping_app/internal/utils/pagination"
)

// journalService implements the JournalSvcFacade interface
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountReader
}

// NewJournalService creates the journal ledger service.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountReader) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
	}
}

// Ensure journalService implements the JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// nextJournalNumber reads the owner's existing numbers for the type's prefix
// and produces the next in sequence.
func (s *journalService) nextJournalNumber(ctx context.Context, ownerID string, txnType domain.TransactionType) (string, error) {
	prefix := accounting.JournalNumberPrefix(txnType)
	existing, err := s.journalRepo.ListJournalNumbers(ctx, ownerID, prefix)
	if err != nil {
		return "", err
	}
	return accounting.NextJournalNumber(existing, prefix), nil
}

// checkAccounts verifies both sides of an entry exist and belong to the owner.
func (s *journalService) checkAccounts(ctx context.Context, ownerID string, accountIDs ...string) error {
	for _, accountID := range accountIDs {
		if _, err := s.accountRepo.FindAccountByID(ctx, ownerID, accountID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("account %s: %w", accountID, apperrors.ErrValidation)
			}
			return err
		}
	}
	return nil
}

func (s *journalService) postSingle(ctx context.Context, ownerID string, entry domain.JournalEntry) (*domain.JournalEntry, error) {
	if err := accounting.ValidateEntry(entry); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), apperrors.ErrValidation)
	}
	if err := s.checkAccounts(ctx, ownerID, entry.DebitAccountID, entry.CreditAccountID); err != nil {
		s.LogError(ctx, err, "Journal entry references unknown account",
			slog.String("debit_account", entry.DebitAccountID),
			slog.String("credit_account", entry.CreditAccountID))
		return nil, err
	}

	number, err := s.nextJournalNumber(ctx, ownerID, entry.TransactionType)
	if err != nil {
		s.LogError(ctx, err, "Failed to derive journal number",
			slog.String("owner_id", ownerID))
		return nil, err
	}
	entry.JournalNumber = number

	if err := s.journalRepo.SaveEntries(ctx, []domain.JournalEntry{entry}); err != nil {
		s.LogError(ctx, err, "Failed to save journal entry",
			slog.String("entry_id", entry.EntryID))
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry posted",
		slog.String("entry_id", entry.EntryID),
		slog.String("journal_number", entry.JournalNumber),
		slog.String("amount", entry.Amount.String()))
	return &entry, nil
}

func (s *journalService) PostEntry(ctx context.Context, ownerID string, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	entry := domain.JournalEntry{
		EntryID:            uuid.NewString(),
		OwnerID:            ownerID,
		EntryDate:          req.EntryDate,
		Description:        req.Description,
		DebitAccountID:     req.DebitAccountID,
		CreditAccountID:    req.CreditAccountID,
		Amount:             req.Amount,
		Reference:          req.Reference,
		TransactionType:    domain.TxnJournalEntry,
		Stakeholder:        req.Stakeholder,
		TransactionGroupID: uuid.NewString(),
		CreatedAt:          time.Now(),
		CreatedBy:          creatorUserID,
	}
	return s.postSingle(ctx, ownerID, entry)
}

func (s *journalService) Transfer(ctx context.Context, ownerID string, req dto.TransferRequest, creatorUserID string) (*domain.JournalEntry, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("transfer amount must be positive: %w", apperrors.ErrValidation)
	}

	description := req.Description
	if description == "" {
		description = "Transfer between accounts"
	}

	// Money moves into the destination, out of the source.
	entry := domain.JournalEntry{
		EntryID:            uuid.NewString(),
		OwnerID:            ownerID,
		EntryDate:          req.EntryDate,
		Description:        description,
		DebitAccountID:     req.ToAccountID,
		CreditAccountID:    req.FromAccountID,
		Amount:             req.Amount,
		Reference:          req.Reference,
		TransactionType:    domain.TxnTransfer,
		TransactionGroupID: uuid.NewString(),
		CreatedAt:          time.Now(),
		CreatedBy:          creatorUserID,
	}
	return s.postSingle(ctx, ownerID, entry)
}

func (s *journalService) GetEntry(ctx context.Context, ownerID string, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, ownerID, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal entry",
				slog.String("entry_id", entryID))
		}
		return nil, err
	}
	return entry, nil
}

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

func (s *journalService) ListEntries(ctx context.Context, ownerID string, params dto.ListEntriesParams) ([]domain.JournalEntry, string, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	repoParams := portsrepo.ListEntriesParams{
		From:            params.From,
		To:              params.To,
		TransactionType: domain.TransactionType(params.TransactionType),
		Reference:       params.Reference,
		// One extra row tells us whether another page exists.
		Limit: limit + 1,
	}
	if params.NextToken != "" {
		entryDate, createdAt, err := pagination.DecodeToken(params.NextToken)
		if err != nil {
			return nil, "", fmt.Errorf("%s: %w", err.Error(), apperrors.ErrValidation)
		}
		repoParams.CursorEntryDate = &entryDate
		repoParams.CursorCreatedAt = &createdAt
	}

	entries, err := s.journalRepo.ListEntries(ctx, ownerID, repoParams)
	if err != nil {
		s.LogError(ctx, err, "Failed to list journal entries",
			slog.String("owner_id", ownerID))
		return nil, "", err
	}

	nextToken := ""
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		nextToken = pagination.EncodeToken(last.EntryDate, last.CreatedAt)
	}
	return entries, nextToken, nil
}

func (s *journalService) ListEntriesByAccount(ctx context.Context, ownerID string, accountID string) ([]domain.LedgerLine, error) {
	if err := s.checkAccounts(ctx, ownerID, accountID); err != nil {
		return nil, err
	}

	lines, err := s.journalRepo.ListEntriesByAccount(ctx, ownerID, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list entries for account",
			slog.String("account_id", accountID))
		return nil, err
	}
	return lines, nil
}

func (s *journalService) DeleteEntry(ctx context.Context, ownerID string, entryID string) error {
	entry, err := s.journalRepo.FindEntryByID(ctx, ownerID, entryID)
	if err != nil {
		return err
	}

	if err := s.journalRepo.DeleteEntry(ctx, ownerID, entryID); err != nil {
		s.LogError(ctx, err, "Failed to delete journal entry",
			slog.String("entry_id", entryID))
		return err
	}

	s.LogInfo(ctx, "Journal entry deleted",
		slog.String("entry_id", entryID),
		slog.String("journal_number", entry.JournalNumber))
	return nil
}
