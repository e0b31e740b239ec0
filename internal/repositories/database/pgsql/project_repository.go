package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/ALANAK777/erp_finance_system/internal/apperrors"
	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
	portsrepo "github.com/ALANAK777/erp_finance_system/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const projectColumns = `project_id, code, name, customer_id, budget, status, start_date, end_date,
	completed_at, revenue_entry_id, created_at, created_by, last_updated_at, last_updated_by`

// PgxProjectRepository stores construction projects.
type PgxProjectRepository struct {
	BaseRepository
}

func newPgxProjectRepository(pool *pgxpool.Pool) *PgxProjectRepository {
	return &PgxProjectRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ProjectRepositoryFacade = (*PgxProjectRepository)(nil)

func scanProject(row pgx.Row) (domain.Project, error) {
	var p domain.Project
	var status string
	err := row.Scan(
		&p.ProjectID,
		&p.Code,
		&p.Name,
		&p.CustomerID,
		&p.Budget,
		&status,
		&p.StartDate,
		&p.EndDate,
		&p.CompletedAt,
		&p.RevenueEntryID,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	p.Status = domain.ProjectStatus(status)
	return p, err
}

// SaveProject inserts a new project.
func (r *PgxProjectRepository) SaveProject(ctx context.Context, project domain.Project) error {
	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		project.ProjectID,
		project.Code,
		project.Name,
		project.CustomerID,
		project.Budget,
		string(project.Status),
		project.StartDate,
		project.EndDate,
		project.CompletedAt,
		project.RevenueEntryID,
		project.CreatedAt,
		project.CreatedBy,
		project.LastUpdatedAt,
		project.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "project code "+project.Code)
	}
	return nil
}

// FindProjectByID retrieves a project by its ID.
func (r *PgxProjectRepository) FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	p, err := scanProject(r.Pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE project_id = $1;`, projectID))
	if err != nil {
		return nil, translateError(err, "project "+projectID)
	}
	return &p, nil
}

// FindProjectByIDForUpdate locks the project row for a status transition.
func (r *PgxProjectRepository) FindProjectByIDForUpdate(ctx context.Context, tx pgx.Tx, projectID string) (*domain.Project, error) {
	p, err := scanProject(tx.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE project_id = $1 FOR UPDATE;`, projectID))
	if err != nil {
		return nil, translateError(err, "project "+projectID)
	}
	return &p, nil
}

// ListProjects retrieves projects ordered by code.
func (r *PgxProjectRepository) ListProjects(ctx context.Context, filter domain.ProjectFilter, limit int, offset int) ([]domain.Project, error) {
	conditions := make([]string, 0, 2)
	args := make([]any, 0, 4)
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		conditions = append(conditions, fmt.Sprintf("customer_id = $%d", len(args)))
	}

	query := `SELECT ` + projectColumns + ` FROM projects`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY code LIMIT $%d OFFSET $%d;", len(args)-1, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, "list projects")
	}
	defer rows.Close()

	projects := make([]domain.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, translateError(err, "scan project")
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "iterate projects")
	}
	return projects, nil
}

// UpdateProjectInTx persists the mutable project fields.
func (r *PgxProjectRepository) UpdateProjectInTx(ctx context.Context, tx pgx.Tx, project domain.Project) error {
	query := `
		UPDATE projects
		SET name = $2, customer_id = $3, budget = $4, status = $5, start_date = $6, end_date = $7,
		    completed_at = $8, revenue_entry_id = $9, last_updated_at = $10, last_updated_by = $11
		WHERE project_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query,
		project.ProjectID,
		project.Name,
		project.CustomerID,
		project.Budget,
		string(project.Status),
		project.StartDate,
		project.EndDate,
		project.CompletedAt,
		project.RevenueEntryID,
		project.LastUpdatedAt,
		project.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "update project "+project.ProjectID)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: project %s", apperrors.ErrNotFound, project.ProjectID)
	}
	return nil
}
