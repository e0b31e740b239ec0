package pgsql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
	portsrepo "github.com/ALANAK777/erp_finance_system/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const cashFlowColumns = `cash_flow_id, flow_date, flow_type, category, amount, description,
	payment_id, project_id, created_at, created_by`

const insertCashFlowQuery = `
	INSERT INTO cash_flows (` + cashFlowColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
`

// PgxCashFlowRepository stores the append-only cash movement log.
type PgxCashFlowRepository struct {
	BaseRepository
}

func newPgxCashFlowRepository(pool *pgxpool.Pool) *PgxCashFlowRepository {
	return &PgxCashFlowRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CashFlowRepository = (*PgxCashFlowRepository)(nil)

func cashFlowArgs(record domain.CashFlowRecord) []any {
	return []any{
		record.CashFlowID,
		record.FlowDate,
		string(record.FlowType),
		string(record.Category),
		record.Amount,
		record.Description,
		record.PaymentID,
		record.ProjectID,
		record.CreatedAt,
		record.CreatedBy,
	}
}

// SaveCashFlow appends a standalone cash-flow record.
func (r *PgxCashFlowRepository) SaveCashFlow(ctx context.Context, record domain.CashFlowRecord) error {
	if _, err := r.Pool.Exec(ctx, insertCashFlowQuery, cashFlowArgs(record)...); err != nil {
		return translateError(err, "insert cash flow")
	}
	return nil
}

// SaveCashFlowInTx appends a cash-flow record inside the caller's transaction.
func (r *PgxCashFlowRepository) SaveCashFlowInTx(ctx context.Context, tx pgx.Tx, record domain.CashFlowRecord) error {
	if _, err := tx.Exec(ctx, insertCashFlowQuery, cashFlowArgs(record)...); err != nil {
		return translateError(err, "insert cash flow")
	}
	return nil
}

// ListCashFlows returns records dated within [from, to], oldest first.
func (r *PgxCashFlowRepository) ListCashFlows(ctx context.Context, from, to *time.Time) ([]domain.CashFlowRecord, error) {
	conditions := make([]string, 0, 2)
	args := make([]any, 0, 2)
	if from != nil {
		args = append(args, *from)
		conditions = append(conditions, fmt.Sprintf("flow_date >= $%d", len(args)))
	}
	if to != nil {
		args = append(args, *to)
		conditions = append(conditions, fmt.Sprintf("flow_date <= $%d", len(args)))
	}

	query := `SELECT ` + cashFlowColumns + ` FROM cash_flows`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY flow_date, created_at;"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, "list cash flows")
	}
	defer rows.Close()

	records := make([]domain.CashFlowRecord, 0)
	for rows.Next() {
		var rec domain.CashFlowRecord
		var flowType, category string
		if err := rows.Scan(
			&rec.CashFlowID,
			&rec.FlowDate,
			&flowType,
			&category,
			&rec.Amount,
			&rec.Description,
			&rec.PaymentID,
			&rec.ProjectID,
			&rec.CreatedAt,
			&rec.CreatedBy,
		); err != nil {
			return nil, translateError(err, "scan cash flow")
		}
		rec.FlowType = domain.CashFlowType(flowType)
		rec.Category = domain.CashFlowCategory(category)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "iterate cash flows")
	}
	return records, nil
}
