package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/smallbooks/bookkeeping_app/internal/apperrors"
	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/smallbooks/bookkeeping_app/internal/core/ports/repositories"
)

// allocationTables names the side-specific tables one engine instance works
// over. The supplier and customer ledgers are identical in shape.
type allocationTables struct {
	payments    string
	invoices    string
	allocations string
}

var (
	supplierAllocationTables = allocationTables{
		payments:    "payments",
		invoices:    "invoices",
		allocations: "payment_allocations",
	}
	customerAllocationTables = allocationTables{
		payments:    "customer_payments",
		invoices:    "sales_invoices",
		allocations: "customer_payment_allocations",
	}
)

// PgxAllocationRepository persists payment allocations for one ledger side.
type PgxAllocationRepository struct {
	BaseRepository
	db      querier
	tables  allocationTables
	locking bool
}

// NewPgxSupplierAllocationRepository creates the store over the supplier
// (purchase ledger) tables.
func NewPgxSupplierAllocationRepository(pool *pgxpool.Pool) portsrepo.AllocationUnitOfWork {
	return &PgxAllocationRepository{BaseRepository: BaseRepository{Pool: pool}, db: pool, tables: supplierAllocationTables}
}

// NewPgxCustomerAllocationRepository creates the store over the customer
// (sales ledger) tables.
func NewPgxCustomerAllocationRepository(pool *pgxpool.Pool) portsrepo.AllocationUnitOfWork {
	return &PgxAllocationRepository{BaseRepository: BaseRepository{Pool: pool}, db: pool, tables: customerAllocationTables}
}

// Ensure PgxAllocationRepository implements portsrepo.AllocationUnitOfWork
var _ portsrepo.AllocationUnitOfWork = (*PgxAllocationRepository)(nil)

// WithinTx runs fn against a serializable transaction-bound view of the
// store. Payment and invoice reads inside the view take row locks, so the
// headroom figures fn derives cannot move underneath it.
func (r *PgxAllocationRepository) WithinTx(ctx context.Context, fn func(store portsrepo.AllocationStore) error) error {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin allocation transaction", err)
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	txStore := &PgxAllocationRepository{
		BaseRepository: r.BaseRepository,
		db:             tx,
		tables:         r.tables,
		locking:        true,
	}
	if err := fn(txStore); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func scanAllocation(row pgx.Row) (*domain.Allocation, error) {
	var allocation domain.Allocation
	err := row.Scan(
		&allocation.AllocationID,
		&allocation.PaymentID,
		&allocation.InvoiceID,
		&allocation.Amount,
		&allocation.CreatedAt,
		&allocation.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &allocation, nil
}

const allocationColumns = `allocation_id, payment_id, invoice_id, amount, created_at, created_by`

// FindAllocationByID retrieves an allocation row.
func (r *PgxAllocationRepository) FindAllocationByID(ctx context.Context, allocationID string) (*domain.Allocation, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE allocation_id = $1;`, allocationColumns, r.tables.allocations)
	allocation, err := scanAllocation(r.db.QueryRow(ctx, query, allocationID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find allocation %s: %w", allocationID, err)
	}
	return allocation, nil
}

// FindAllocationByPair retrieves the row for a (payment, invoice) pair.
func (r *PgxAllocationRepository) FindAllocationByPair(ctx context.Context, paymentID string, invoiceID string) (*domain.Allocation, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE payment_id = $1 AND invoice_id = $2;`, allocationColumns, r.tables.allocations)
	allocation, err := scanAllocation(r.db.QueryRow(ctx, query, paymentID, invoiceID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find allocation for payment %s invoice %s: %w", paymentID, invoiceID, err)
	}
	return allocation, nil
}

func (r *PgxAllocationRepository) listAllocations(ctx context.Context, query string, args ...any) ([]domain.Allocation, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list allocations: %w", err)
	}
	defer rows.Close()

	allocations := []domain.Allocation{}
	for rows.Next() {
		allocation, err := scanAllocation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan allocation row: %w", err)
		}
		allocations = append(allocations, *allocation)
	}
	return allocations, rows.Err()
}

// ListAllocationsByPayment retrieves all allocations drawing on a payment.
func (r *PgxAllocationRepository) ListAllocationsByPayment(ctx context.Context, paymentID string) ([]domain.Allocation, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE payment_id = $1 ORDER BY created_at;`, allocationColumns, r.tables.allocations)
	return r.listAllocations(ctx, query, paymentID)
}

// ListAllocationsByInvoice retrieves all allocations applied to an invoice.
func (r *PgxAllocationRepository) ListAllocationsByInvoice(ctx context.Context, invoiceID string) ([]domain.Allocation, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE invoice_id = $1 ORDER BY created_at;`, allocationColumns, r.tables.allocations)
	return r.listAllocations(ctx, query, invoiceID)
}

func (r *PgxAllocationRepository) sumAllocations(ctx context.Context, column string, id string) (decimal.Decimal, error) {
	query := fmt.Sprintf(`SELECT COALESCE(SUM(amount), 0) FROM %s WHERE %s = $1;`, r.tables.allocations, column)
	var sum decimal.Decimal
	if err := r.db.QueryRow(ctx, query, id).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum allocations by %s: %w", column, err)
	}
	return sum, nil
}

// SumAllocationsByPayment totals the amounts drawn from a payment.
func (r *PgxAllocationRepository) SumAllocationsByPayment(ctx context.Context, paymentID string) (decimal.Decimal, error) {
	return r.sumAllocations(ctx, "payment_id", paymentID)
}

// SumAllocationsByInvoice totals the amounts applied to an invoice.
func (r *PgxAllocationRepository) SumAllocationsByInvoice(ctx context.Context, invoiceID string) (decimal.Decimal, error) {
	return r.sumAllocations(ctx, "invoice_id", invoiceID)
}

// FindPayment retrieves the side's payment row, locking it inside WithinTx.
func (r *PgxAllocationRepository) FindPayment(ctx context.Context, ownerID string, paymentID string) (*domain.Payment, error) {
	query := fmt.Sprintf(`
		SELECT payment_id, owner_id, stakeholder, payment_date, amount, method, reference, created_at, created_by, last_updated_at, last_updated_by
		FROM %s WHERE owner_id = $1 AND payment_id = $2`, r.tables.payments)
	if r.locking {
		query += " FOR UPDATE"
	}

	var payment domain.Payment
	err := r.db.QueryRow(ctx, query+";", ownerID, paymentID).Scan(
		&payment.PaymentID,
		&payment.OwnerID,
		&payment.Stakeholder,
		&payment.PaymentDate,
		&payment.Amount,
		&payment.Method,
		&payment.Reference,
		&payment.CreatedAt,
		&payment.CreatedBy,
		&payment.LastUpdatedAt,
		&payment.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment %s: %w", paymentID, err)
	}
	return &payment, nil
}

// FindInvoice retrieves the side's invoice row, locking it inside WithinTx.
func (r *PgxAllocationRepository) FindInvoice(ctx context.Context, ownerID string, invoiceID string) (*domain.Invoice, error) {
	query := fmt.Sprintf(`
		SELECT invoice_id, owner_id, invoice_number, stakeholder, invoice_date, total, status, created_at, created_by, last_updated_at, last_updated_by
		FROM %s WHERE owner_id = $1 AND invoice_id = $2`, r.tables.invoices)
	if r.locking {
		query += " FOR UPDATE"
	}

	var invoice domain.Invoice
	err := r.db.QueryRow(ctx, query+";", ownerID, invoiceID).Scan(
		&invoice.InvoiceID,
		&invoice.OwnerID,
		&invoice.InvoiceNumber,
		&invoice.Stakeholder,
		&invoice.InvoiceDate,
		&invoice.Total,
		&invoice.Status,
		&invoice.CreatedAt,
		&invoice.CreatedBy,
		&invoice.LastUpdatedAt,
		&invoice.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}
	return &invoice, nil
}

// InsertAllocation persists a new allocation row. The unique (payment,
// invoice) constraint backs up the merge logic above it.
func (r *PgxAllocationRepository) InsertAllocation(ctx context.Context, allocation domain.Allocation) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6);`, r.tables.allocations, allocationColumns)
	_, err := r.db.Exec(ctx, query,
		allocation.AllocationID,
		allocation.PaymentID,
		allocation.InvoiceID,
		allocation.Amount,
		allocation.CreatedAt,
		allocation.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: allocation for this payment and invoice already exists", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert allocation %s: %w", allocation.AllocationID, err)
	}
	return nil
}

// UpdateAllocationAmount overwrites an allocation's amount.
func (r *PgxAllocationRepository) UpdateAllocationAmount(ctx context.Context, allocationID string, amount decimal.Decimal) error {
	query := fmt.Sprintf(`UPDATE %s SET amount = $2 WHERE allocation_id = $1;`, r.tables.allocations)
	tag, err := r.db.Exec(ctx, query, allocationID, amount)
	if err != nil {
		return fmt.Errorf("failed to update allocation %s: %w", allocationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("allocation %s not found", allocationID))
	}
	return nil
}

// DeleteAllocation removes an allocation row.
func (r *PgxAllocationRepository) DeleteAllocation(ctx context.Context, allocationID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE allocation_id = $1;`, r.tables.allocations)
	tag, err := r.db.Exec(ctx, query, allocationID)
	if err != nil {
		return fmt.Errorf("failed to delete allocation %s: %w", allocationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("allocation %s not found", allocationID))
	}
	return nil
}

// UpdateInvoiceStatus overwrites an invoice's status.
func (r *PgxAllocationRepository) UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus) error {
	query := fmt.Sprintf(`UPDATE %s SET status = $2 WHERE invoice_id = $1;`, r.tables.invoices)
	tag, err := r.db.Exec(ctx, query, invoiceID, status)
	if err != nil {
		return fmt.Errorf("failed to update invoice %s status: %w", invoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("invoice %s not found", invoiceID))
	}
	return nil
}
