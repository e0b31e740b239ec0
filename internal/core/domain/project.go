package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProjectStatus is the lifecycle state of a construction project.
type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "PLANNING"
	ProjectActive    ProjectStatus = "ACTIVE"
	ProjectOnHold    ProjectStatus = "ON_HOLD"
	ProjectCompleted ProjectStatus = "COMPLETED"
	ProjectCancelled ProjectStatus = "CANCELLED"
)

// IsValid reports whether s is a known project status.
func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectPlanning, ProjectActive, ProjectOnHold, ProjectCompleted, ProjectCancelled:
		return true
	}
	return false
}

// Project is a construction job whose completion recognises revenue.
type Project struct {
	ProjectID      string          `json:"projectID"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	CustomerID     *string         `json:"customerID,omitempty"`
	Budget         decimal.Decimal `json:"budget"`
	Status         ProjectStatus   `json:"status"`
	StartDate      *time.Time      `json:"startDate,omitempty"`
	EndDate        *time.Time      `json:"endDate,omitempty"`
	CompletedAt    *time.Time      `json:"completedAt,omitempty"`
	RevenueEntryID *string         `json:"revenueEntryID,omitempty"`
	AuditFields
}

// ProjectFilter narrows ListProjects.
type ProjectFilter struct {
	Status     *ProjectStatus
	CustomerID *string
}
