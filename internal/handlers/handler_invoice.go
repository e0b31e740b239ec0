package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/ALANAK777/erp_finance_system/internal/core/ports/services"
	"github.com/ALANAK777/erp_finance_system/internal/dto"
	"github.com/ALANAK777/erp_finance_system/internal/middleware"
	"github.com/gin-gonic/gin"
)

// invoiceHandler handles HTTP requests for invoices and their payments.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
	paymentService portssvc.PaymentSvc
}

func newInvoiceHandler(is portssvc.InvoiceSvcFacade, ps portssvc.PaymentSvc) *invoiceHandler {
	return &invoiceHandler{
		invoiceService: is,
		paymentService: ps,
	}
}

// registerInvoiceRoutes registers invoice and payment routes.
func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade, paymentService portssvc.PaymentSvc) {
	h := newInvoiceHandler(invoiceService, paymentService)

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.createInvoice)
		invoices.GET("", h.listInvoices)
		invoices.GET("/:invoiceID", h.getInvoice)
		invoices.POST("/:invoiceID/status", h.updateInvoiceStatus)
		invoices.POST("/:invoiceID/cancel", h.cancelInvoice)
		invoices.POST("/:invoiceID/payments", h.recordPayment)
		invoices.GET("/:invoiceID/payments", h.listPayments)
	}
}

// createInvoice godoc
// @Summary Issue an invoice or vendor bill
// @Description Stores the invoice with its items and posts the receivable or payable entry in one transaction
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   invoice body dto.CreateInvoiceRequest true "Invoice details"
// @Success 201 {object} dto.InvoiceResult
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 409 {object} ErrorResponse "Invoice number already exists"
// @Failure 422 {object} ErrorResponse "Posting account not configured"
// @Failure 500 {object} ErrorResponse "Failed to create invoice"
// @Security BearerAuth
// @Router /invoices [post]
func (h *invoiceHandler) createInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "request format")
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	res, err := h.invoiceService.CreateInvoice(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create invoice")
		return
	}

	logger.Info("Invoice created",
		slog.String("invoice_id", res.Invoice.InvoiceID),
		slog.String("invoice_number", res.Invoice.InvoiceNumber))
	c.JSON(http.StatusCreated, res)
}

// getInvoice godoc
// @Summary Get an invoice
// @Description Retrieves an invoice with its items and outstanding amount
// @Tags invoices
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Invoice not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve invoice"
// @Security BearerAuth
// @Router /invoices/{invoiceID} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	inv, err := h.invoiceService.GetInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		respondError(c, logger.With(slog.String("invoice_id", invoiceID)), err, "Failed to retrieve invoice")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(inv))
}

// listInvoices godoc
// @Summary List invoices
// @Tags invoices
// @Produce  json
// @Param   type query string false "RECEIVABLE or PAYABLE"
// @Param   status query string false "Status filter"
// @Param   projectID query string false "Project filter"
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListInvoicesResponse
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list invoices"
// @Security BearerAuth
// @Router /invoices [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListInvoicesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err, "query parameters")
		return
	}

	invoices, err := h.invoiceService.ListInvoices(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list invoices")
		return
	}

	resp := dto.ListInvoicesResponse{Invoices: make([]dto.InvoiceResponse, len(invoices))}
	for i := range invoices {
		resp.Invoices[i] = dto.ToInvoiceResponse(&invoices[i])
	}
	c.JSON(http.StatusOK, resp)
}

// updateInvoiceStatus godoc
// @Summary Mark an invoice SENT or OVERDUE
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Param   status body dto.UpdateInvoiceStatusRequest true "Target status"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} ErrorResponse "Invalid status"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Invoice not found"
// @Failure 409 {object} ErrorResponse "Transition not allowed"
// @Failure 500 {object} ErrorResponse "Failed to update invoice status"
// @Security BearerAuth
// @Router /invoices/{invoiceID}/status [post]
func (h *invoiceHandler) updateInvoiceStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	var req dto.UpdateInvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "request format")
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("invoice_id", invoiceID))
	inv, err := h.invoiceService.UpdateInvoiceStatus(c.Request.Context(), invoiceID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update invoice status")
		return
	}

	logger.Info("Invoice status updated", slog.String("status", string(inv.Status)))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(inv))
}

// cancelInvoice godoc
// @Summary Cancel an unpaid invoice
// @Description Cancels the invoice and posts the reversing entry
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Param   cancellation body dto.CancelInvoiceRequest false "Cancellation note"
// @Success 200 {object} dto.InvoiceResult
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Invoice not found"
// @Failure 409 {object} ErrorResponse "Invoice has payments or is already cancelled"
// @Failure 500 {object} ErrorResponse "Failed to cancel invoice"
// @Security BearerAuth
// @Router /invoices/{invoiceID}/cancel [post]
func (h *invoiceHandler) cancelInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	var req dto.CancelInvoiceRequest
	// the body is optional
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, logger, err, "request format")
			return
		}
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("invoice_id", invoiceID))
	res, err := h.invoiceService.CancelInvoice(c.Request.Context(), invoiceID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to cancel invoice")
		return
	}

	logger.Info("Invoice cancelled")
	c.JSON(http.StatusOK, res)
}

// recordPayment godoc
// @Summary Record a payment against an invoice
// @Description Stores the payment, advances the invoice to PARTIAL or PAID, posts the cash entry and logs the cash flow
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Param   payment body dto.CreatePaymentRequest true "Payment details"
// @Success 201 {object} dto.PaymentResult
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Invoice not found"
// @Failure 409 {object} ErrorResponse "Overpayment or invoice not payable"
// @Failure 422 {object} ErrorResponse "Posting account not configured"
// @Failure 500 {object} ErrorResponse "Failed to record payment"
// @Security BearerAuth
// @Router /invoices/{invoiceID}/payments [post]
func (h *invoiceHandler) recordPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "request format")
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("invoice_id", invoiceID))
	res, err := h.paymentService.RecordPayment(c.Request.Context(), invoiceID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to record payment")
		return
	}

	logger.Info("Payment recorded",
		slog.String("payment_id", res.Payment.PaymentID),
		slog.String("invoice_status", string(res.Invoice.Status)))
	c.JSON(http.StatusCreated, res)
}

// listPayments godoc
// @Summary List payments of an invoice
// @Tags payments
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Success 200 {object} dto.ListPaymentsResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Invoice not found"
// @Failure 500 {object} ErrorResponse "Failed to list payments"
// @Security BearerAuth
// @Router /invoices/{invoiceID}/payments [get]
func (h *invoiceHandler) listPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	payments, err := h.paymentService.ListPayments(c.Request.Context(), invoiceID)
	if err != nil {
		respondError(c, logger.With(slog.String("invoice_id", invoiceID)), err, "Failed to list payments")
		return
	}
	c.JSON(http.StatusOK, dto.ListPaymentsResponse{Payments: payments})
}
