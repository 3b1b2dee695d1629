package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smallbooks/bookkeeping_app/internal/apperrors"
	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/smallbooks/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/smallbooks/bookkeeping_app/internal/core/ports/services"
	"github.com/smallbooks/bookkeeping_app/internal/dto"
)

// chartService implements the ChartSvcFacade interface
type chartService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	journalRepo portsrepo.JournalReader
}

// NewChartService creates the chart of accounts service. The journal reader
// is needed to refuse deleting accounts with postings against them.
func NewChartService(accountRepo portsrepo.AccountRepositoryFacade, journalRepo portsrepo.JournalReader) portssvc.ChartSvcFacade {
	return &chartService{
		accountRepo: accountRepo,
		journalRepo: journalRepo,
	}
}

// Ensure chartService implements the ChartSvcFacade interface
var _ portssvc.ChartSvcFacade = (*chartService)(nil)

// validateCode checks the code sits inside the type's range and is not taken
// by another account of the same owner.
func (s *chartService) validateCode(ctx context.Context, ownerID string, accountType domain.AccountType, code int, excludeAccountID string) error {
	min, max, ok := accountType.CodeRange()
	if !ok {
		return fmt.Errorf("unknown account type %q: %w", accountType, apperrors.ErrValidation)
	}
	if code < min || code > max {
		return fmt.Errorf("code %d outside %s range %d-%d: %w", code, accountType, min, max, apperrors.ErrValidation)
	}

	existing, err := s.accountRepo.FindAccountByCode(ctx, ownerID, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.AccountID != excludeAccountID {
		return fmt.Errorf("code %d already used by account %q: %w", code, existing.Name, apperrors.ErrDuplicate)
	}
	return nil
}

// validateName rejects blank account names. Update applies the same rule as
// create, so an account cannot lose its name after the fact.
func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("account name must not be blank: %w", apperrors.ErrValidation)
	}
	return nil
}

func (s *chartService) CreateAccount(ctx context.Context, ownerID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	if err := validateName(req.Name); err != nil {
		return nil, err
	}

	accountType := domain.AccountType(req.AccountType)
	if err := s.validateCode(ctx, ownerID, accountType, req.Code, ""); err != nil {
		s.LogError(ctx, err, "Account code validation failed",
			slog.Int("code", req.Code),
			slog.String("owner_id", ownerID))
		return nil, err
	}

	opening := decimal.Zero
	if req.OpeningBalance != nil {
		opening = *req.OpeningBalance
	}

	now := time.Now()
	account := domain.Account{
		AccountID:      uuid.NewString(),
		OwnerID:        ownerID,
		Code:           req.Code,
		Name:           req.Name,
		AccountType:    accountType,
		OpeningBalance: opening,
		IsBank:         req.IsBank,
		Description:    req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account",
			slog.String("account_id", account.AccountID),
			slog.String("owner_id", ownerID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created",
		slog.String("account_id", account.AccountID),
		slog.Int("code", account.Code))
	return &account, nil
}

func (s *chartService) UpdateAccount(ctx context.Context, ownerID string, accountID string, req dto.UpdateAccountRequest, updaterUserID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, ownerID, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account for update",
				slog.String("account_id", accountID))
		}
		return nil, err
	}

	if req.Code != nil && *req.Code != account.Code {
		if err := s.validateCode(ctx, ownerID, account.AccountType, *req.Code, account.AccountID); err != nil {
			s.LogError(ctx, err, "Account code validation failed on update",
				slog.Int("code", *req.Code),
				slog.String("account_id", accountID))
			return nil, err
		}
		account.Code = *req.Code
	}
	if req.Name != nil {
		if err := validateName(*req.Name); err != nil {
			return nil, err
		}
		account.Name = *req.Name
	}
	if req.IsBank != nil {
		account.IsBank = *req.IsBank
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	account.LastUpdatedAt = time.Now()
	account.LastUpdatedBy = updaterUserID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account",
			slog.String("account_id", accountID))
		return nil, err
	}

	return account, nil
}

func (s *chartService) DeleteAccount(ctx context.Context, ownerID string, accountID string) error {
	if _, err := s.accountRepo.FindAccountByID(ctx, ownerID, accountID); err != nil {
		return err
	}

	count, err := s.journalRepo.CountEntriesByAccount(ctx, ownerID, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to count entries for account",
			slog.String("account_id", accountID))
		return err
	}
	if count > 0 {
		err := fmt.Errorf("account is referenced by %d journal entries: %w", count, apperrors.ErrConflict)
		s.LogError(ctx, err, "Refusing to delete referenced account",
			slog.String("account_id", accountID))
		return err
	}

	if err := s.accountRepo.DeleteAccount(ctx, ownerID, accountID); err != nil {
		s.LogError(ctx, err, "Failed to delete account",
			slog.String("account_id", accountID))
		return err
	}

	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID))
	return nil
}

func (s *chartService) GetAccount(ctx context.Context, ownerID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, ownerID, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID",
				slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *chartService) ListAccounts(ctx context.Context, ownerID string) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, ownerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts",
			slog.String("owner_id", ownerID))
		return nil, err
	}
	return accounts, nil
}

func (s *chartService) GetBalance(ctx context.Context, ownerID string, accountID string, asOf *time.Time) (decimal.Decimal, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, ownerID, accountID); err != nil {
		return decimal.Zero, err
	}

	balance, err := s.accountRepo.AccountBalance(ctx, ownerID, accountID, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute account balance",
			slog.String("account_id", accountID))
		return decimal.Zero, err
	}
	return balance, nil
}
