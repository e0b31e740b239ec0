package audit

import (
	"context"
	"strings"

	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
	portssvc "github.com/ALANAK777/erp_finance_system/internal/core/ports/services"
)

// eventEnqueuer is the part of analytics.Client the sink needs.
type eventEnqueuer interface {
	IsInitialized() bool
	Enqueue(distinctID string, event string, properties map[string]any)
}

// PosthogSink forwards audit records as product analytics events named
// "<entity>_<action>", e.g. "invoice_create".
type PosthogSink struct {
	client eventEnqueuer
}

var _ portssvc.AuditSink = (*PosthogSink)(nil)

func NewPosthogSink(client eventEnqueuer) *PosthogSink {
	return &PosthogSink{client: client}
}

// Record implements portssvc.AuditSink.
func (s *PosthogSink) Record(_ context.Context, record domain.AuditRecord) {
	if s.client == nil || !s.client.IsInitialized() {
		return
	}
	props := make(map[string]any, len(record.Payload)+3)
	for k, v := range record.Payload {
		props[k] = v
	}
	props["entity_id"] = record.EntityID
	props["audit_id"] = record.AuditID
	props["occurred_at"] = record.OccurredAt

	event := record.EntityType + "_" + strings.ToLower(string(record.Action))
	s.client.Enqueue(record.ActorID, event, props)
}
