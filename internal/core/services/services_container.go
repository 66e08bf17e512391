package services

import (
	portsrepo "github.com/SscSPs/shop_finance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/shop_finance_ledger/internal/core/ports/services"
	"github.com/SscSPs/shop_finance_ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// publisher may be nil.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher AuditPublisher) *portssvc.ServiceContainer {
	var options []ServiceOption
	if publisher != nil {
		options = append(options, WithAuditPublisher(publisher))
	}

	container := &portssvc.ServiceContainer{}
	container.Account = NewAccountService(repos.AccountRepo, options...)

	// The invoice bridge posts through the journal service so both share one posting path
	container.Journal = NewJournalService(repos.JournalRepo, repos.AccountRepo, options...)
	container.Invoice = NewInvoiceService(
		repos.InvoiceRepo,
		repos.JournalRepo,
		repos.AccountRepo,
		container.Journal,
		InvoiceAccountCodes{Receivable: cfg.ReceivableAccountCode, Tax: cfg.TaxAccountCode},
		options...,
	)
	container.Budget = NewBudgetService(repos.BudgetRepo, options...)
	container.Reporting = NewReportingService(repos.ReportingRepo, repos.AccountRepo, options...)
	container.Audit = NewAuditService(repos.AuditRepo, options...)

	return container
}
