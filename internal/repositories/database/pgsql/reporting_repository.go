package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/smallbooks/bookkeeping_app/internal/core/ports/repositories"
)

// PgxReportingRepository runs the aggregate queries behind the statement
// generator.
type PgxReportingRepository struct {
	BaseRepository
}

// NewPgxReportingRepository creates a new repository for report aggregates.
func NewPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingReader {
	return &PgxReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxReportingRepository implements portsrepo.ReportingReader
var _ portsrepo.ReportingReader = (*PgxReportingRepository)(nil)

// AccountMovements sums each account's debits and credits over the period in
// one pass. Accounts with no movement come back with zero sums so their
// opening balances still reach the reports.
func (r *PgxReportingRepository) AccountMovements(ctx context.Context, ownerID string, from *time.Time, to *time.Time) ([]domain.AccountMovement, error) {
	query := `
		SELECT
			a.account_id, a.owner_id, a.code, a.name, a.account_type, a.opening_balance, a.is_bank, a.description,
			a.created_at, a.created_by, a.last_updated_at, a.last_updated_by,
			COALESCE(SUM(CASE WHEN je.debit_account_id = a.account_id THEN je.amount ELSE 0 END), 0) AS debits,
			COALESCE(SUM(CASE WHEN je.credit_account_id = a.account_id THEN je.amount ELSE 0 END), 0) AS credits
		FROM accounts a
		LEFT JOIN journal_entries je
			ON je.owner_id = a.owner_id
			AND (je.debit_account_id = a.account_id OR je.credit_account_id = a.account_id)
			AND ($2::timestamptz IS NULL OR je.entry_date >= $2)
			AND ($3::timestamptz IS NULL OR je.entry_date <= $3)
		WHERE a.owner_id = $1
		GROUP BY a.account_id
		ORDER BY a.code;
	`
	rows, err := r.Pool.Query(ctx, query, ownerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query account movements: %w", err)
	}
	defer rows.Close()

	movements := []domain.AccountMovement{}
	for rows.Next() {
		var m domain.AccountMovement
		err := rows.Scan(
			&m.Account.AccountID,
			&m.Account.OwnerID,
			&m.Account.Code,
			&m.Account.Name,
			&m.Account.AccountType,
			&m.Account.OpeningBalance,
			&m.Account.IsBank,
			&m.Account.Description,
			&m.Account.CreatedAt,
			&m.Account.CreatedBy,
			&m.Account.LastUpdatedAt,
			&m.Account.LastUpdatedBy,
			&m.Debits,
			&m.Credits,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account movement row: %w", err)
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

// VatLineSummaries aggregates invoice lines by VAT code over the period,
// keyed on invoice dates. Draft and cancelled invoices are excluded.
func (r *PgxReportingRepository) VatLineSummaries(ctx context.Context, ownerID string, side domain.InvoiceSide, from time.Time, to time.Time) ([]domain.VatLineSummary, error) {
	tables := supplierInvoiceTables
	if side == domain.CustomerSide {
		tables = customerInvoiceTables
	}

	query := fmt.Sprintf(`
		SELECT ii.vat_code, COALESCE(SUM(ii.line_total), 0) AS net
		FROM %s ii
		JOIN %s i ON i.invoice_id = ii.invoice_id
		WHERE i.owner_id = $1
		AND i.invoice_date >= $2 AND i.invoice_date <= $3
		AND i.status NOT IN ('draft', 'cancelled')
		GROUP BY ii.vat_code
		ORDER BY ii.vat_code;
	`, tables.items, tables.invoices)

	rows, err := r.Pool.Query(ctx, query, ownerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query VAT line summaries: %w", err)
	}
	defer rows.Close()

	summaries := []domain.VatLineSummary{}
	for rows.Next() {
		var summary domain.VatLineSummary
		if err := rows.Scan(&summary.VatCode, &summary.Net); err != nil {
			return nil, fmt.Errorf("failed to scan VAT summary row: %w", err)
		}
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}
