package pgsql

import (
	portsrepo "github.com/ALANAK777/erp_finance_system/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every Postgres-backed repository onto one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		Tx:            &BaseRepository{Pool: dbPool},
		SequenceRepo:  newPgxSequenceRepository(dbPool),
		AccountRepo:   newPgxAccountRepository(dbPool),
		JournalRepo:   newPgxJournalRepository(dbPool),
		InvoiceRepo:   newPgxInvoiceRepository(dbPool),
		ProjectRepo:   newPgxProjectRepository(dbPool),
		CashFlowRepo:  newPgxCashFlowRepository(dbPool),
		ReportingRepo: newReportingRepository(dbPool),
		AuditRepo:     newPgxAuditRepository(dbPool),
	}
}
