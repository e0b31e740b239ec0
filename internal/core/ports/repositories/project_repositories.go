package repositories

import (
	"context"

	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// ProjectReader defines read operations for projects
type ProjectReader interface {
	FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error)
	ListProjects(ctx context.Context, filter domain.ProjectFilter, limit int, offset int) ([]domain.Project, error)
}

// ProjectWriter defines write operations for projects
type ProjectWriter interface {
	SaveProject(ctx context.Context, project domain.Project) error

	// FindProjectByIDForUpdate locks the project row for a status transition
	FindProjectByIDForUpdate(ctx context.Context, tx pgx.Tx, projectID string) (*domain.Project, error)
	UpdateProjectInTx(ctx context.Context, tx pgx.Tx, project domain.Project) error
}

// ProjectRepositoryFacade combines all project-related repository interfaces
type ProjectRepositoryFacade interface {
	ProjectReader
	ProjectWriter
}
