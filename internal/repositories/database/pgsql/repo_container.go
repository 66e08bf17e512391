package pgsql

import (
	portsrepo "github.com/SscSPs/shop_finance_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool, accountRepo)
	invoiceRepo := newPgxInvoiceRepository(dbPool, journalRepo)
	budgetRepo := newPgxBudgetRepository(dbPool)
	reportingRepo := newReportingRepository(dbPool)
	auditRepo := newPgxAuditRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:   accountRepo,
		JournalRepo:   journalRepo,
		InvoiceRepo:   invoiceRepo,
		BudgetRepo:    budgetRepo,
		ReportingRepo: reportingRepo,
		AuditRepo:     auditRepo,
	}
}
