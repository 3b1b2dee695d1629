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

// invoiceTables names one ledger side's invoice tables.
type invoiceTables struct {
	invoices string
	items    string
}

var (
	supplierInvoiceTables = invoiceTables{invoices: "invoices", items: "invoice_items"}
	customerInvoiceTables = invoiceTables{invoices: "sales_invoices", items: "sales_invoice_items"}
)

const (
	supplierPaymentTable = "payments"
	customerPaymentTable = "customer_payments"
)

// insertInvoice writes an invoice and its lines on the given transaction.
// Only the posting unit of work calls this; documents never land outside a
// posting transaction.
func insertInvoice(ctx context.Context, tx pgx.Tx, tables invoiceTables, invoice domain.Invoice, items []domain.InvoiceItem) error {
	invoiceQuery := fmt.Sprintf(`
		INSERT INTO %s (invoice_id, owner_id, invoice_number, stakeholder, invoice_date, total, status, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`, tables.invoices)
	_, err := tx.Exec(ctx, invoiceQuery,
		invoice.InvoiceID,
		invoice.OwnerID,
		invoice.InvoiceNumber,
		invoice.Stakeholder,
		invoice.InvoiceDate,
		invoice.Total,
		invoice.Status,
		invoice.CreatedAt,
		invoice.CreatedBy,
		invoice.LastUpdatedAt,
		invoice.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: invoice %s already exists", apperrors.ErrDuplicate, invoice.InvoiceID)
		}
		return fmt.Errorf("failed to save invoice %s: %w", invoice.InvoiceID, err)
	}

	itemQuery := fmt.Sprintf(`
		INSERT INTO %s (item_id, invoice_id, description, quantity, unit_price, vat_code, line_total, is_product)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`, tables.items)
	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(itemQuery,
			item.ItemID,
			item.InvoiceID,
			item.Description,
			item.Quantity,
			item.UnitPrice,
			item.VatCode,
			item.LineTotal,
			item.IsProduct,
		)
	}
	results := tx.SendBatch(ctx, batch)
	for range items {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("failed to insert invoice items for %s: %w", invoice.InvoiceID, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close invoice item batch: %w", err)
	}
	return nil
}

// insertPayment writes a payment row on the given transaction.
func insertPayment(ctx context.Context, tx pgx.Tx, table string, payment domain.Payment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (payment_id, owner_id, stakeholder, payment_date, amount, method, reference, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`, table)
	_, err := tx.Exec(ctx, query,
		payment.PaymentID,
		payment.OwnerID,
		payment.Stakeholder,
		payment.PaymentDate,
		payment.Amount,
		payment.Method,
		payment.Reference,
		payment.CreatedAt,
		payment.CreatedBy,
		payment.LastUpdatedAt,
		payment.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: payment %s already exists", apperrors.ErrDuplicate, payment.PaymentID)
		}
		return fmt.Errorf("failed to save payment %s: %w", payment.PaymentID, err)
	}
	return nil
}

// PgxInvoiceRepository reads invoices and their lines for one ledger side.
type PgxInvoiceRepository struct {
	BaseRepository
	tables invoiceTables
}

// NewPgxSupplierInvoiceRepository creates the purchase-ledger invoice repository.
func NewPgxSupplierInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepositoryFacade {
	return &PgxInvoiceRepository{BaseRepository: BaseRepository{Pool: pool}, tables: supplierInvoiceTables}
}

// NewPgxCustomerInvoiceRepository creates the sales-ledger invoice repository.
func NewPgxCustomerInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepositoryFacade {
	return &PgxInvoiceRepository{BaseRepository: BaseRepository{Pool: pool}, tables: customerInvoiceTables}
}

// Ensure PgxInvoiceRepository implements portsrepo.InvoiceRepositoryFacade
var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

// FindInvoiceByID retrieves an invoice.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, ownerID string, invoiceID string) (*domain.Invoice, error) {
	query := fmt.Sprintf(`
		SELECT invoice_id, owner_id, invoice_number, stakeholder, invoice_date, total, status, created_at, created_by, last_updated_at, last_updated_by
		FROM %s WHERE owner_id = $1 AND invoice_id = $2;
	`, r.tables.invoices)

	var invoice domain.Invoice
	err := r.Pool.QueryRow(ctx, query, ownerID, invoiceID).Scan(
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

// ListInvoiceItems retrieves an invoice's lines.
func (r *PgxInvoiceRepository) ListInvoiceItems(ctx context.Context, invoiceID string) ([]domain.InvoiceItem, error) {
	query := fmt.Sprintf(`
		SELECT item_id, invoice_id, description, quantity, unit_price, vat_code, line_total, is_product
		FROM %s WHERE invoice_id = $1;
	`, r.tables.items)

	rows, err := r.Pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoice items for %s: %w", invoiceID, err)
	}
	defer rows.Close()

	items := []domain.InvoiceItem{}
	for rows.Next() {
		var item domain.InvoiceItem
		err := rows.Scan(
			&item.ItemID,
			&item.InvoiceID,
			&item.Description,
			&item.Quantity,
			&item.UnitPrice,
			&item.VatCode,
			&item.LineTotal,
			&item.IsProduct,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice item row: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// PgxPaymentRepository reads payments for one ledger side.
type PgxPaymentRepository struct {
	BaseRepository
	table string
}

// NewPgxSupplierPaymentRepository creates the purchase-ledger payment repository.
func NewPgxSupplierPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{BaseRepository: BaseRepository{Pool: pool}, table: supplierPaymentTable}
}

// NewPgxCustomerPaymentRepository creates the sales-ledger payment repository.
func NewPgxCustomerPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{BaseRepository: BaseRepository{Pool: pool}, table: customerPaymentTable}
}

// Ensure PgxPaymentRepository implements portsrepo.PaymentRepositoryFacade
var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

// FindPaymentByID retrieves a payment.
func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, ownerID string, paymentID string) (*domain.Payment, error) {
	query := fmt.Sprintf(`
		SELECT payment_id, owner_id, stakeholder, payment_date, amount, method, reference, created_at, created_by, last_updated_at, last_updated_by
		FROM %s WHERE owner_id = $1 AND payment_id = $2;
	`, r.table)

	var payment domain.Payment
	err := r.Pool.QueryRow(ctx, query, ownerID, paymentID).Scan(
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
