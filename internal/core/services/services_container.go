package services

import (
	portsrepo "github.com/ALANAK777/erp_finance_system/internal/core/ports/repositories"
	portssvc "github.com/ALANAK777/erp_finance_system/internal/core/ports/services"
	"github.com/ALANAK777/erp_finance_system/internal/core/posting"
	"github.com/ALANAK777/erp_finance_system/internal/platform/config"
)

// PostingCodes builds the posting rule account codes from configuration.
func PostingCodes(cfg *config.Config) posting.AccountCodes {
	return posting.AccountCodes{
		Cash:               cfg.PostingCash,
		AccountsReceivable: cfg.PostingAccountsReceivable,
		AccountsPayable:    cfg.PostingAccountsPayable,
		ServiceRevenue:     cfg.PostingServiceRevenue,
		CostOfGoodsSold:    cfg.PostingCostOfGoodsSold,
	}
}

// NewServiceContainer creates a new service container with properly initialized dependencies.
// The journal service is built first because every posting trigger depends on it.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, audit portssvc.AuditSink) (*portssvc.ServiceContainer, error) {
	codes := PostingCodes(cfg)
	if err := codes.Validate(); err != nil {
		return nil, err
	}
	rules := posting.NewRules(codes)

	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(
		repos.Tx,
		repos.AccountRepo,
		WithDefaultCurrency(cfg.DefaultCurrency),
		WithAccountAuditSink(audit),
	)

	container.Journal = NewJournalService(
		repos.Tx,
		repos.JournalRepo,
		repos.AccountRepo,
		repos.SequenceRepo,
		WithJournalAuditSink(audit),
	)

	container.Invoice = NewInvoiceService(
		repos.Tx,
		repos.InvoiceRepo,
		repos.SequenceRepo,
		container.Journal,
		rules,
		WithInvoiceProjectReader(repos.ProjectRepo),
		WithInvoiceDefaultCurrency(cfg.DefaultCurrency),
		WithInvoiceAuditSink(audit),
	)

	container.Payment = NewPaymentService(
		repos.Tx,
		repos.InvoiceRepo,
		repos.CashFlowRepo,
		repos.SequenceRepo,
		container.Journal,
		rules,
		WithPaymentAuditSink(audit),
	)

	container.Project = NewProjectService(
		repos.Tx,
		repos.ProjectRepo,
		container.Journal,
		rules,
		WithProjectAuditSink(audit),
	)

	container.CashFlow = NewCashFlowService(repos.CashFlowRepo, audit)
	container.Reporting = NewReportingService(repos.AccountRepo, repos.CashFlowRepo, repos.ReportingRepo)

	return container, nil
}
