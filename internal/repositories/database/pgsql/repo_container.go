package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/smallbooks/bookkeeping_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every Postgres repository over one shared pool.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:         NewPgxAccountRepository(pool),
		JournalRepo:         NewPgxJournalRepository(pool),
		SupplierAllocations: NewPgxSupplierAllocationRepository(pool),
		CustomerAllocations: NewPgxCustomerAllocationRepository(pool),
		PostingUoW:          NewPgxPostingUnitOfWork(pool),
		SupplierInvoiceRepo: NewPgxSupplierInvoiceRepository(pool),
		CustomerInvoiceRepo: NewPgxCustomerInvoiceRepository(pool),
		SupplierPaymentRepo: NewPgxSupplierPaymentRepository(pool),
		CustomerPaymentRepo: NewPgxCustomerPaymentRepository(pool),
		ReportingRepo:       NewPgxReportingRepository(pool),
	}
}
