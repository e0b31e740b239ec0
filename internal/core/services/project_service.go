package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ALANAK777/erp_finance_system/internal/apperrors"
	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
	portsrepo "github.com/ALANAK777/erp_finance_system/internal/core/ports/repositories"
	portssvc "github.com/ALANAK777/erp_finance_system/internal/core/ports/services"
	"github.com/ALANAK777/erp_finance_system/internal/core/posting"
	"github.com/ALANAK777/erp_finance_system/internal/dto"
	"github.com/ALANAK777/erp_finance_system/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type projectService struct {
	BaseService
	tx          portsrepo.TxRunner
	projectRepo portsrepo.ProjectRepositoryFacade
	poster      portssvc.LedgerPoster
	rules       *posting.Rules
}

// ProjectServiceOption is a functional option for configuring the project service
type ProjectServiceOption func(*projectService)

// WithProjectAuditSink sets the audit sink for the project service.
func WithProjectAuditSink(sink portssvc.AuditSink) ProjectServiceOption {
	return func(s *projectService) {
		s.Audit = sink
	}
}

// NewProjectService creates a new project service.
func NewProjectService(
	tx portsrepo.TxRunner,
	projectRepo portsrepo.ProjectRepositoryFacade,
	poster portssvc.LedgerPoster,
	rules *posting.Rules,
	options ...ProjectServiceOption,
) portssvc.ProjectSvcFacade {
	svc := &projectService{
		tx:          tx,
		projectRepo: projectRepo,
		poster:      poster,
		rules:       rules,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ProjectSvcFacade = (*projectService)(nil)

func (s *projectService) CreateProject(ctx context.Context, req dto.CreateProjectRequest, userID string) (*domain.Project, error) {
	status := req.Status
	if status == "" {
		status = domain.ProjectPlanning
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown project status '%s'", apperrors.ErrValidation, status)
	}
	if status == domain.ProjectCompleted || status == domain.ProjectCancelled {
		return nil, fmt.Errorf("%w: a new project cannot start as %s", apperrors.ErrValidation, status)
	}
	if req.Budget.IsNegative() || !domain.FitsAmountScale(req.Budget) {
		return nil, fmt.Errorf("%w: budget must be non-negative with at most %d decimal places", apperrors.ErrValidation, domain.AmountScale)
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, fmt.Errorf("%w: end date is before start date", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	project := domain.Project{
		ProjectID:  uuid.NewString(),
		Code:       strings.TrimSpace(req.Code),
		Name:       strings.TrimSpace(req.Name),
		CustomerID: req.CustomerID,
		Budget:     req.Budget,
		Status:     status,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.projectRepo.SaveProject(ctx, project); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: project code %s already exists", apperrors.ErrDuplicate, project.Code)
		}
		s.LogError(ctx, err, "Failed to save project", slog.String("code", project.Code))
		return nil, err
	}

	s.LogInfo(ctx, "Project created", slog.String("project_id", project.ProjectID))
	s.RecordAudit(ctx, domain.EntityProject, project.ProjectID, domain.AuditCreate, userID, map[string]any{
		"code":   project.Code,
		"budget": project.Budget.String(),
	})
	return &project, nil
}

func (s *projectService) GetProject(ctx context.Context, projectID string) (*domain.Project, error) {
	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find project", slog.String("project_id", projectID))
		}
		return nil, err
	}
	return project, nil
}

func (s *projectService) ListProjects(ctx context.Context, params dto.ListProjectsParams) ([]domain.Project, error) {
	projects, err := s.projectRepo.ListProjects(ctx, params.ToFilter(), pagination.NormalizeLimit(params.Limit), params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list projects")
		return nil, err
	}
	if projects == nil {
		return []domain.Project{}, nil
	}
	return projects, nil
}

// UpdateProject applies field changes under a row lock. Revenue is recognised
// only on the transition into COMPLETED; COMPLETED and CANCELLED are final.
func (s *projectService) UpdateProject(ctx context.Context, projectID string, req dto.UpdateProjectRequest, userID string) (*dto.ProjectResult, error) {
	var (
		project  *domain.Project
		entry    *domain.JournalEntry
		previous domain.ProjectStatus
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		project, err = s.projectRepo.FindProjectByIDForUpdate(ctx, tx, projectID)
		if err != nil {
			return err
		}
		previous = project.Status
		final := project.Status == domain.ProjectCompleted || project.Status == domain.ProjectCancelled

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return fmt.Errorf("%w: project name cannot be empty", apperrors.ErrValidation)
			}
			project.Name = name
		}
		if req.CustomerID != nil {
			project.CustomerID = req.CustomerID
		}
		if req.StartDate != nil {
			project.StartDate = req.StartDate
		}
		if req.EndDate != nil {
			project.EndDate = req.EndDate
		}
		if project.StartDate != nil && project.EndDate != nil && project.EndDate.Before(*project.StartDate) {
			return fmt.Errorf("%w: end date is before start date", apperrors.ErrValidation)
		}
		if req.Budget != nil && !req.Budget.Equal(project.Budget) {
			if req.Budget.IsNegative() || !domain.FitsAmountScale(*req.Budget) {
				return fmt.Errorf("%w: budget must be non-negative with at most %d decimal places", apperrors.ErrValidation, domain.AmountScale)
			}
			if project.Status == domain.ProjectCompleted {
				return fmt.Errorf("%w: the budget of completed project %s is already recognised", apperrors.ErrInvalidTransition, project.Code)
			}
			project.Budget = *req.Budget
		}

		now := time.Now().UTC()
		if req.Status != nil && *req.Status != project.Status {
			if !req.Status.IsValid() {
				return fmt.Errorf("%w: unknown project status '%s'", apperrors.ErrValidation, *req.Status)
			}
			if final {
				return fmt.Errorf("%w: project %s is %s", apperrors.ErrInvalidTransition, project.Code, project.Status)
			}
			project.Status = *req.Status

			if project.Status == domain.ProjectCompleted {
				project.CompletedAt = &now
				if project.RevenueEntryID == nil && project.Budget.IsPositive() {
					tmpl, err := s.rules.ProjectCompleted(*project, now)
					if err != nil {
						return err
					}
					entry, err = s.poster.PostInTx(ctx, tx, tmpl, userID)
					if err != nil {
						return err
					}
					project.RevenueEntryID = &entry.EntryID
				}
			}
		}

		project.LastUpdatedAt = now
		project.LastUpdatedBy = userID
		return s.projectRepo.UpdateProjectInTx(ctx, tx, *project)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrInvalidTransition) {
			s.LogDebug(ctx, "Project update refused", slog.String("project_id", projectID), slog.String("reason", err.Error()))
		} else {
			s.LogError(ctx, err, "Failed to update project", slog.String("project_id", projectID))
		}
		return nil, err
	}

	payload := map[string]any{"from": string(previous), "to": string(project.Status)}
	result := &dto.ProjectResult{Project: *project}
	if entry != nil {
		entryRes := dto.ToJournalEntryResponse(entry)
		result.JournalEntry = &entryRes
		payload["revenueEntryID"] = entry.EntryID
	}
	s.LogInfo(ctx, "Project updated", slog.String("project_id", projectID), slog.String("status", string(project.Status)))
	s.RecordAudit(ctx, domain.EntityProject, projectID, domain.AuditUpdate, userID, payload)
	return result, nil
}
