package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	Tx            TxRunner
	SequenceRepo  SequenceRepository
	AccountRepo   AccountRepositoryFacade
	JournalRepo   JournalRepositoryFacade
	InvoiceRepo   InvoiceRepositoryFacade
	ProjectRepo   ProjectRepositoryFacade
	CashFlowRepo  CashFlowRepository
	ReportingRepo ReportingRepository
	AuditRepo     AuditRepository
}
