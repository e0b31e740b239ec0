package dto

import (
	"time"

	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateProjectRequest defines the data needed to register a project.
type CreateProjectRequest struct {
	Code       string               `json:"code" binding:"required,max=50"`
	Name       string               `json:"name" binding:"required,max=200"`
	CustomerID *string              `json:"customerID" binding:"omitempty,max=64"`
	Budget     decimal.Decimal      `json:"budget" binding:"decimal_gte0"`
	Status     domain.ProjectStatus `json:"status" binding:"omitempty,oneof=PLANNING ACTIVE ON_HOLD"`
	StartDate  *time.Time           `json:"startDate"`
	EndDate    *time.Time           `json:"endDate"`
}

// UpdateProjectRequest defines the fields that may change on a project.
// Moving Status to COMPLETED recognizes the budget as revenue.
type UpdateProjectRequest struct {
	Name       *string               `json:"name" binding:"omitempty,min=1,max=200"`
	CustomerID *string               `json:"customerID" binding:"omitempty,max=64"`
	Budget     *decimal.Decimal      `json:"budget" binding:"omitempty,decimal_gte0"`
	Status     *domain.ProjectStatus `json:"status" binding:"omitempty,oneof=PLANNING ACTIVE ON_HOLD COMPLETED CANCELLED"`
	StartDate  *time.Time            `json:"startDate"`
	EndDate    *time.Time            `json:"endDate"`
}

// ListProjectsParams defines query parameters for listing projects.
type ListProjectsParams struct {
	Status     string `form:"status" binding:"omitempty,oneof=PLANNING ACTIVE ON_HOLD COMPLETED CANCELLED"`
	CustomerID string `form:"customerID"`
	Limit      int    `form:"limit,default=20" binding:"min=0,max=200"`
	Offset     int    `form:"offset,default=0" binding:"min=0"`
}

// ToFilter converts query parameters to a domain filter.
func (p ListProjectsParams) ToFilter() domain.ProjectFilter {
	var filter domain.ProjectFilter
	if p.Status != "" {
		s := domain.ProjectStatus(p.Status)
		filter.Status = &s
	}
	if p.CustomerID != "" {
		filter.CustomerID = &p.CustomerID
	}
	return filter
}

// ProjectResult is a project and, when the update completed it, the revenue entry.
type ProjectResult struct {
	Project      domain.Project        `json:"project"`
	JournalEntry *JournalEntryResponse `json:"journalEntry,omitempty"`
}

// ListProjectsResponse wraps a page of projects.
type ListProjectsResponse struct {
	Projects []domain.Project `json:"projects"`
}
