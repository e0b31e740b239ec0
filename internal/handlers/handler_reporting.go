package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/ALANAK777/erp_finance_system/internal/core/ports/services"
	"github.com/ALANAK777/erp_finance_system/internal/dto"
	"github.com/ALANAK777/erp_finance_system/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes related to financial reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/balance-sheet", h.getBalanceSheet)
		reportingGroup.GET("/profit-loss", h.getProfitLoss)
		reportingGroup.GET("/cash-flow", h.getCashFlowStatement)
		reportingGroup.GET("/trial-balance", h.getTrialBalance)
		reportingGroup.GET("/reconciliation", h.getReconciliation)
	}
}

// getBalanceSheet godoc
// @Summary Generate balance sheet
// @Description Without asOf the cached account balances are used; with asOf balances are rebuilt from ledger postings up to that date
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD)"
// @Success 200 {object} domain.BalanceSheetReport
// @Failure 400 {object} ErrorResponse "Invalid date"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.BalanceSheetParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err, "date format. Use YYYY-MM-DD")
		return
	}

	report, err := h.reportingService.GetBalanceSheet(c.Request.Context(), params.AsOf)
	if err != nil {
		respondError(c, logger, err, "Failed to generate balance sheet")
		return
	}

	if !report.IsBalanced {
		logger.Warn("Balance sheet does not balance",
			slog.String("total_assets", report.TotalAssets.String()),
			slog.String("total_liabilities_and_equity", report.TotalLiabilitiesAndEquity.String()))
	}
	c.JSON(http.StatusOK, report)
}

// getProfitLoss godoc
// @Summary Generate profit and loss statement
// @Tags reports
// @Produce json
// @Param start query string false "Period start (YYYY-MM-DD)"
// @Param end query string false "Period end (YYYY-MM-DD)"
// @Success 200 {object} domain.ProfitLossReport
// @Failure 400 {object} ErrorResponse "Invalid date"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /reports/profit-loss [get]
func (h *reportingHandler) getProfitLoss(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.PeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err, "date format. Use YYYY-MM-DD")
		return
	}

	report, err := h.reportingService.GetProfitLoss(c.Request.Context(), params.Start, params.End)
	if err != nil {
		respondError(c, logger, err, "Failed to generate profit and loss statement")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getCashFlowStatement godoc
// @Summary Generate cash flow statement
// @Tags reports
// @Produce json
// @Param start query string false "Period start (YYYY-MM-DD)"
// @Param end query string false "Period end (YYYY-MM-DD)"
// @Success 200 {object} domain.CashFlowStatement
// @Failure 400 {object} ErrorResponse "Invalid date"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /reports/cash-flow [get]
func (h *reportingHandler) getCashFlowStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.PeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err, "date format. Use YYYY-MM-DD")
		return
	}

	report, err := h.reportingService.GetCashFlowStatement(c.Request.Context(), params.Start, params.End)
	if err != nil {
		respondError(c, logger, err, "Failed to generate cash flow statement")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getTrialBalance godoc
// @Summary Generate trial balance report
// @Tags reports
// @Produce json
// @Success 200 {object} domain.TrialBalanceReport
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	report, err := h.reportingService.GetTrialBalance(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to generate trial balance")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getReconciliation godoc
// @Summary Reconcile cached balances
// @Description Compares every cached balance with the sum of its ledger postings and approved journal lines
// @Tags reports
// @Produce json
// @Success 200 {object} domain.ReconciliationReport
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to reconcile balances"
// @Security BearerAuth
// @Router /reports/reconciliation [get]
func (h *reportingHandler) getReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	report, err := h.reportingService.ReconcileBalances(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to reconcile balances")
		return
	}

	if !report.IsConsistent {
		logger.Warn("Cached balances drifted from ledger history", slog.Int("discrepancies", len(report.Discrepancies)))
	}
	c.JSON(http.StatusOK, report)
}
