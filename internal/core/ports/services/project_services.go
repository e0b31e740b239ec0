package services

import (
	"context"

	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
	"github.com/ALANAK777/erp_finance_system/internal/dto"
)

// ProjectSvcFacade defines project operations
type ProjectSvcFacade interface {
	CreateProject(ctx context.Context, req dto.CreateProjectRequest, userID string) (*domain.Project, error)
	GetProject(ctx context.Context, projectID string) (*domain.Project, error)
	ListProjects(ctx context.Context, params dto.ListProjectsParams) ([]domain.Project, error)

	// UpdateProject applies field changes. A transition into COMPLETED posts
	// revenue recognition for the budget in the same transaction.
	UpdateProject(ctx context.Context, projectID string, req dto.UpdateProjectRequest, userID string) (*dto.ProjectResult, error)
}
