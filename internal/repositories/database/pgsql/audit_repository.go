package pgsql

import (
	"context"

	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
	portsrepo "github.com/ALANAK777/erp_finance_system/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxAuditRepository writes audit records to the audit_logs table.
type PgxAuditRepository struct {
	BaseRepository
}

func newPgxAuditRepository(pool *pgxpool.Pool) *PgxAuditRepository {
	return &PgxAuditRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AuditRepository = (*PgxAuditRepository)(nil)

// SaveAuditRecord inserts one audit record. A nil payload is stored as an empty object.
func (r *PgxAuditRepository) SaveAuditRecord(ctx context.Context, record domain.AuditRecord) error {
	payload := record.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	query := `
		INSERT INTO audit_logs (audit_id, entity_type, entity_id, action, actor_id, payload, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		record.AuditID,
		record.EntityType,
		record.EntityID,
		string(record.Action),
		record.ActorID,
		payload,
		record.OccurredAt,
	)
	if err != nil {
		return translateError(err, "insert audit record "+record.AuditID)
	}
	return nil
}
