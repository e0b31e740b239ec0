package repositories

import (
	"context"

	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
)

// AuditRepository persists audit records
type AuditRepository interface {
	SaveAuditRecord(ctx context.Context, record domain.AuditRecord) error
}
