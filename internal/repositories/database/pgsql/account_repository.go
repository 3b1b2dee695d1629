package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/smallbooks/bookkeeping_app/internal/apperrors"
	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/smallbooks/bookkeeping_app/internal/core/ports/repositories"
	"github.com/smallbooks/bookkeeping_app/internal/utils/accounting"
)

// PgxAccountRepository persists the chart of accounts.
type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

// NewPgxAccountRepository creates a new repository for account data.
func NewPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{pool: pool}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, owner_id, code, name, account_type, opening_balance, is_bank, description, created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	err := row.Scan(
		&account.AccountID,
		&account.OwnerID,
		&account.Code,
		&account.Name,
		&account.AccountType,
		&account.OpeningBalance,
		&account.IsBank,
		&account.Description,
		&account.CreatedAt,
		&account.CreatedBy,
		&account.LastUpdatedAt,
		&account.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.pool.Exec(ctx, query,
		account.AccountID,
		account.OwnerID,
		account.Code,
		account.Name,
		account.AccountType,
		account.OpeningBalance,
		account.IsBank,
		account.Description,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account code %d already in use", apperrors.ErrDuplicate, account.Code)
		}
		return fmt.Errorf("failed to save account %s: %w", account.AccountID, err)
	}
	return nil
}

// UpdateAccount overwrites an account's mutable fields.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	query := `
		UPDATE accounts
		SET code = $3, name = $4, is_bank = $5, description = $6, last_updated_at = $7, last_updated_by = $8
		WHERE owner_id = $1 AND account_id = $2;
	`
	tag, err := r.pool.Exec(ctx, query,
		account.OwnerID,
		account.AccountID,
		account.Code,
		account.Name,
		account.IsBank,
		account.Description,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account code %d already in use", apperrors.ErrDuplicate, account.Code)
		}
		return fmt.Errorf("failed to update account %s: %w", account.AccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("account %s not found", account.AccountID))
	}
	return nil
}

// DeleteAccount removes an account row.
func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, ownerID string, accountID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE owner_id = $1 AND account_id = $2;`, ownerID, accountID)
	if err != nil {
		// Foreign keys from journal_entries back this up even if the service
		// level reference check raced.
		return fmt.Errorf("failed to delete account %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("account %s not found", accountID))
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, ownerID string, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE owner_id = $1 AND account_id = $2;`
	account, err := scanAccount(r.pool.QueryRow(ctx, query, ownerID, accountID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	return account, nil
}

// FindAccountByCode retrieves the account holding a nominal code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, ownerID string, code int) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE owner_id = $1 AND code = $2;`
	account, err := scanAccount(r.pool.QueryRow(ctx, query, ownerID, code))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find account by code %d: %w", code, err)
	}
	return account, nil
}

func (r *PgxAccountRepository) listAccounts(ctx context.Context, query string, args ...any) ([]domain.Account, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, *account)
	}
	return accounts, rows.Err()
}

// ListAccounts retrieves all accounts for an owner ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, ownerID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE owner_id = $1 ORDER BY code;`
	return r.listAccounts(ctx, query, ownerID)
}

// ListAccountsByType retrieves the owner's accounts of one type ordered by code.
func (r *PgxAccountRepository) ListAccountsByType(ctx context.Context, ownerID string, accountType domain.AccountType) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE owner_id = $1 AND account_type = $2 ORDER BY code;`
	return r.listAccounts(ctx, query, ownerID, accountType)
}

// AccountBalance derives a balance by scanning the journal. The aggregate
// runs in SQL; the sign convention is applied in Go so it lives in one place.
func (r *PgxAccountRepository) AccountBalance(ctx context.Context, ownerID string, accountID string, asOf *time.Time) (decimal.Decimal, error) {
	query := `
		SELECT a.account_type, a.opening_balance,
			COALESCE(SUM(CASE WHEN je.debit_account_id = a.account_id THEN je.amount ELSE 0 END), 0) AS debits,
			COALESCE(SUM(CASE WHEN je.credit_account_id = a.account_id THEN je.amount ELSE 0 END), 0) AS credits
		FROM accounts a
		LEFT JOIN journal_entries je
			ON je.owner_id = a.owner_id
			AND (je.debit_account_id = a.account_id OR je.credit_account_id = a.account_id)
			AND ($3::timestamptz IS NULL OR je.entry_date <= $3)
		WHERE a.owner_id = $1 AND a.account_id = $2
		GROUP BY a.account_type, a.opening_balance;
	`
	var (
		accountType domain.AccountType
		opening     decimal.Decimal
		debits      decimal.Decimal
		credits     decimal.Decimal
	)
	err := r.pool.QueryRow(ctx, query, ownerID, accountID, asOf).Scan(&accountType, &opening, &debits, &credits)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, apperrors.ErrNotFound
		}
		return decimal.Zero, fmt.Errorf("failed to compute balance for account %s: %w", accountID, err)
	}

	movement := domain.AccountMovement{
		Account: domain.Account{AccountID: accountID, AccountType: accountType, OpeningBalance: opening},
		Debits:  debits,
		Credits: credits,
	}
	return accounting.BalanceFromMovement(movement)
}
