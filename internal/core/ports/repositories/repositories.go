package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	AccountRepo         AccountRepositoryFacade
	JournalRepo         JournalRepositoryFacade
	SupplierAllocations AllocationUnitOfWork
	CustomerAllocations AllocationUnitOfWork
	PostingUoW          PostingUnitOfWork
	SupplierInvoiceRepo InvoiceRepositoryFacade
	CustomerInvoiceRepo InvoiceRepositoryFacade
	SupplierPaymentRepo PaymentRepositoryFacade
	CustomerPaymentRepo PaymentRepositoryFacade
	ReportingRepo       ReportingReader
}
