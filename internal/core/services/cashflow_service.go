package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ALANAK777/erp_finance_system/internal/apperrors"
	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
	portsrepo "github.com/ALANAK777/erp_finance_system/internal/core/ports/repositories"
	portssvc "github.com/ALANAK777/erp_finance_system/internal/core/ports/services"
	"github.com/ALANAK777/erp_finance_system/internal/dto"
	"github.com/google/uuid"
)

type cashFlowService struct {
	BaseService
	cashFlowRepo portsrepo.CashFlowRepository
}

// NewCashFlowService creates a new cash-flow service.
func NewCashFlowService(repo portsrepo.CashFlowRepository, audit portssvc.AuditSink) portssvc.CashFlowSvc {
	return &cashFlowService{
		BaseService:  BaseService{Audit: audit},
		cashFlowRepo: repo,
	}
}

var _ portssvc.CashFlowSvc = (*cashFlowService)(nil)

func (s *cashFlowService) RecordCashFlow(ctx context.Context, req dto.CreateCashFlowRequest, userID string) (*domain.CashFlowRecord, error) {
	if !req.Amount.IsPositive() || !domain.FitsAmountScale(req.Amount) {
		return nil, fmt.Errorf("%w: cash flow amount must be positive with at most %d decimal places", apperrors.ErrValidation, domain.AmountScale)
	}
	if req.FlowType != domain.CashInflow && req.FlowType != domain.CashOutflow {
		return nil, fmt.Errorf("%w: unknown flow type '%s'", apperrors.ErrValidation, req.FlowType)
	}
	validCategory := false
	for _, c := range domain.CashFlowCategories {
		if req.Category == c {
			validCategory = true
		}
	}
	if !validCategory {
		return nil, fmt.Errorf("%w: unknown cash flow category '%s'", apperrors.ErrValidation, req.Category)
	}

	record := domain.CashFlowRecord{
		CashFlowID:  uuid.NewString(),
		FlowDate:    req.FlowDate,
		FlowType:    req.FlowType,
		Category:    req.Category,
		Amount:      req.Amount,
		Description: strings.TrimSpace(req.Description),
		ProjectID:   req.ProjectID,
		CreatedAt:   time.Now().UTC(),
		CreatedBy:   userID,
	}
	if err := s.cashFlowRepo.SaveCashFlow(ctx, record); err != nil {
		s.LogError(ctx, err, "Failed to save cash flow")
		return nil, err
	}

	s.LogInfo(ctx, "Cash flow recorded", slog.String("cash_flow_id", record.CashFlowID), slog.String("category", string(record.Category)))
	s.RecordAudit(ctx, domain.EntityCashFlow, record.CashFlowID, domain.AuditCreate, userID, map[string]any{
		"flowType": string(record.FlowType),
		"category": string(record.Category),
		"amount":   record.Amount.String(),
	})
	return &record, nil
}

func (s *cashFlowService) ListCashFlows(ctx context.Context, params dto.PeriodParams) ([]domain.CashFlowRecord, error) {
	if err := checkPeriod(params.Start, params.End); err != nil {
		return nil, err
	}
	records, err := s.cashFlowRepo.ListCashFlows(ctx, params.Start, params.End)
	if err != nil {
		s.LogError(ctx, err, "Failed to list cash flows")
		return nil, err
	}
	if records == nil {
		return []domain.CashFlowRecord{}, nil
	}
	return records, nil
}

func checkPeriod(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return fmt.Errorf("%w: period end is before period start", apperrors.ErrValidation)
	}
	return nil
}
