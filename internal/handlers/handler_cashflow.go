package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/ALANAK777/erp_finance_system/internal/core/ports/services"
	"github.com/ALANAK777/erp_finance_system/internal/dto"
	"github.com/ALANAK777/erp_finance_system/internal/middleware"
	"github.com/gin-gonic/gin"
)

type cashFlowHandler struct {
	cashFlowService portssvc.CashFlowSvc
}

// registerCashFlowRoutes registers routes for the cash movement log.
func registerCashFlowRoutes(rg *gin.RouterGroup, cashFlowService portssvc.CashFlowSvc) {
	h := &cashFlowHandler{cashFlowService: cashFlowService}

	flows := rg.Group("/cash-flows")
	{
		flows.POST("", h.recordCashFlow)
		flows.GET("", h.listCashFlows)
	}
}

// recordCashFlow godoc
// @Summary Record a cash movement
// @Description Logs an investing, financing or other cash movement. Invoice payments are logged automatically.
// @Tags cash-flows
// @Accept  json
// @Produce  json
// @Param   cashFlow body dto.CreateCashFlowRequest true "Cash movement"
// @Success 201 {object} domain.CashFlowRecord
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to record cash flow"
// @Security BearerAuth
// @Router /cash-flows [post]
func (h *cashFlowHandler) recordCashFlow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateCashFlowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "request format")
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	record, err := h.cashFlowService.RecordCashFlow(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to record cash flow")
		return
	}

	logger.Info("Cash flow recorded", slog.String("cash_flow_id", record.CashFlowID))
	c.JSON(http.StatusCreated, record)
}

// listCashFlows godoc
// @Summary List cash movements
// @Tags cash-flows
// @Produce  json
// @Param   start query string false "Earliest flow date (YYYY-MM-DD)"
// @Param   end query string false "Latest flow date (YYYY-MM-DD)"
// @Success 200 {object} dto.ListCashFlowsResponse
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list cash flows"
// @Security BearerAuth
// @Router /cash-flows [get]
func (h *cashFlowHandler) listCashFlows(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.PeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err, "query parameters")
		return
	}

	records, err := h.cashFlowService.ListCashFlows(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list cash flows")
		return
	}
	c.JSON(http.StatusOK, dto.ListCashFlowsResponse{CashFlows: records})
}
