// Package audit delivers audit records to one or more destinations. Sinks
// never fail the caller: delivery errors are logged and dropped.
package audit

import (
	"context"
	"log/slog"

	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
	portsrepo "github.com/ALANAK777/erp_finance_system/internal/core/ports/repositories"
	portssvc "github.com/ALANAK777/erp_finance_system/internal/core/ports/services"
	"github.com/ALANAK777/erp_finance_system/internal/middleware"
)

// MultiSink fans a record out to every configured sink in order.
type MultiSink struct {
	sinks []portssvc.AuditSink
}

var _ portssvc.AuditSink = (*MultiSink)(nil)

// NewMultiSink skips nil sinks.
func NewMultiSink(sinks ...portssvc.AuditSink) *MultiSink {
	m := &MultiSink{}
	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

// Record implements portssvc.AuditSink.
func (m *MultiSink) Record(ctx context.Context, record domain.AuditRecord) {
	for _, s := range m.sinks {
		s.Record(ctx, record)
	}
}

// Len returns the number of active sinks.
func (m *MultiSink) Len() int {
	return len(m.sinks)
}

// RepositorySink writes records to the audit_logs table.
type RepositorySink struct {
	repo portsrepo.AuditRepository
}

var _ portssvc.AuditSink = (*RepositorySink)(nil)

func NewRepositorySink(repo portsrepo.AuditRepository) *RepositorySink {
	return &RepositorySink{repo: repo}
}

// Record implements portssvc.AuditSink.
func (s *RepositorySink) Record(ctx context.Context, record domain.AuditRecord) {
	if err := s.repo.SaveAuditRecord(ctx, record); err != nil {
		logDropped(ctx, "postgres", record, err)
	}
}

func logDropped(ctx context.Context, sink string, record domain.AuditRecord, err error) {
	middleware.GetLoggerFromCtx(ctx).Error("Failed to deliver audit record",
		slog.String("sink", sink),
		slog.String("audit_id", record.AuditID),
		slog.String("entity_type", record.EntityType),
		slog.String("entity_id", record.EntityID),
		slog.String("error", err.Error()),
	)
}
