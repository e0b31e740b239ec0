package services

import (
	"context"

	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
)

// AuditSink receives audit records. Implementations must not block the caller
// on failure; errors are logged and dropped.
type AuditSink interface {
	Record(ctx context.Context, record domain.AuditRecord)
}
