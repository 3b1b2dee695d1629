package services

import (
	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/smallbooks/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/smallbooks/bookkeeping_app/internal/core/ports/services"
)

// NewServiceContainer wires every service over the provided repositories.
// Pass a nil stock adjuster when no inventory system is attached.
func NewServiceContainer(repos portsrepo.RepositoryProvider, stock portssvc.StockAdjuster) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Chart:               NewChartService(repos.AccountRepo, repos.JournalRepo),
		Journal:             NewJournalService(repos.JournalRepo, repos.AccountRepo),
		SupplierAllocations: NewAllocationService(repos.SupplierAllocations, domain.SupplierSide),
		CustomerAllocations: NewAllocationService(repos.CustomerAllocations, domain.CustomerSide),
		SupplierDocuments:   NewDocumentService(repos.SupplierInvoiceRepo, repos.SupplierPaymentRepo),
		CustomerDocuments:   NewDocumentService(repos.CustomerInvoiceRepo, repos.CustomerPaymentRepo),
		Posting:             NewPostingService(repos.PostingUoW, repos.JournalRepo, repos.AccountRepo, stock),
		Reporting:           NewReportingService(repos.ReportingRepo),
	}
}
