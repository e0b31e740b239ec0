package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
	portssvc "github.com/ALANAK777/erp_finance_system/internal/core/ports/services"
	"github.com/ALANAK777/erp_finance_system/internal/middleware"
	"github.com/oklog/ulid/v2"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Audit portssvc.AuditSink
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// RecordAudit emits an audit record to the configured sink. It must be called
// after the owning transaction committed.
func (s *BaseService) RecordAudit(ctx context.Context, entityType, entityID string, action domain.AuditAction, actorID string, payload map[string]any) {
	if s.Audit == nil {
		return
	}
	s.Audit.Record(ctx, domain.AuditRecord{
		AuditID:    ulid.Make().String(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		ActorID:    actorID,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	})
}
