package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
	portssvc "github.com/ALANAK777/erp_finance_system/internal/core/ports/services"
	"github.com/ALANAK777/erp_finance_system/internal/dto"
	"github.com/ALANAK777/erp_finance_system/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(journalService portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{
		journalService: journalService,
	}
}

// registerJournalRoutes registers routes related to journal entries.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	entries := rg.Group("/journal-entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.POST("/:entryID/submit", h.submitEntry)
		entries.POST("/:entryID/approve", h.approveEntry)
		entries.POST("/:entryID/reject", h.rejectEntry)
	}
}

// createEntry godoc
// @Summary Create a journal entry
// @Description Creates a balanced manual entry as DRAFT, or APPROVED with balances applied when autoApprove is set
// @Tags journal
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreateJournalEntryRequest true "Entry with at least two lines"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} ErrorResponse "Unbalanced or malformed entry"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Referenced account not found"
// @Failure 409 {object} ErrorResponse "Concurrent update, safe to retry"
// @Failure 500 {object} ErrorResponse "Failed to create journal entry"
// @Security BearerAuth
// @Router /journal-entries [post]
func (h *journalHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "request format")
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("creator_user_id", userID))
	entry, err := h.journalService.CreateEntry(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create journal entry")
		return
	}

	logger.Info("Journal entry created", slog.String("entry_id", entry.EntryID), slog.String("status", string(entry.Status)))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// getEntry godoc
// @Summary Get a journal entry
// @Description Retrieves a journal entry with its lines
// @Tags journal
// @Produce  json
// @Param   entryID path string true "Journal entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Journal entry not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve journal entry"
// @Security BearerAuth
// @Router /journal-entries/{entryID} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	entry, err := h.journalService.GetEntry(c.Request.Context(), entryID)
	if err != nil {
		respondError(c, logger.With(slog.String("entry_id", entryID)), err, "Failed to retrieve journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Description Lists journal entries newest first with token pagination
// @Tags journal
// @Produce  json
// @Param   status query string false "Status filter"
// @Param   sourceType query string false "Source type filter"
// @Param   from query string false "Earliest entry date (YYYY-MM-DD)"
// @Param   to query string false "Latest entry date (YYYY-MM-DD)"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListJournalEntriesResponse
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list journal entries"
// @Security BearerAuth
// @Router /journal-entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListJournalEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err, "query parameters")
		return
	}

	resp, err := h.journalService.ListEntries(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list journal entries")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// submitEntry godoc
// @Summary Submit a journal entry for approval
// @Description Moves a DRAFT entry to PENDING
// @Tags journal
// @Produce  json
// @Param   entryID path string true "Journal entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Journal entry not found"
// @Failure 409 {object} ErrorResponse "Entry is not a draft"
// @Failure 500 {object} ErrorResponse "Failed to submit journal entry"
// @Security BearerAuth
// @Router /journal-entries/{entryID}/submit [post]
func (h *journalHandler) submitEntry(c *gin.Context) {
	h.transition(c, "submit", func(entryID, userID string) (*domain.JournalEntry, error) {
		return h.journalService.SubmitEntry(c.Request.Context(), entryID, userID)
	})
}

// approveEntry godoc
// @Summary Approve a journal entry
// @Description Applies the entry's lines to account balances and marks it APPROVED
// @Tags journal
// @Produce  json
// @Param   entryID path string true "Journal entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Journal entry not found"
// @Failure 409 {object} ErrorResponse "Entry already finalized, or concurrent update"
// @Failure 500 {object} ErrorResponse "Failed to approve journal entry"
// @Security BearerAuth
// @Router /journal-entries/{entryID}/approve [post]
func (h *journalHandler) approveEntry(c *gin.Context) {
	h.transition(c, "approve", func(entryID, userID string) (*domain.JournalEntry, error) {
		return h.journalService.ApproveEntry(c.Request.Context(), entryID, userID)
	})
}

// rejectEntry godoc
// @Summary Reject a journal entry
// @Description Marks a DRAFT or PENDING entry REJECTED. Balances are untouched.
// @Tags journal
// @Accept  json
// @Produce  json
// @Param   entryID path string true "Journal entry ID"
// @Param   rejection body dto.RejectJournalEntryRequest true "Rejection reason"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 400 {object} ErrorResponse "Missing reason"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Journal entry not found"
// @Failure 409 {object} ErrorResponse "Entry already finalized"
// @Failure 500 {object} ErrorResponse "Failed to reject journal entry"
// @Security BearerAuth
// @Router /journal-entries/{entryID}/reject [post]
func (h *journalHandler) rejectEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RejectJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "request format")
		return
	}

	h.transition(c, "reject", func(entryID, userID string) (*domain.JournalEntry, error) {
		return h.journalService.RejectEntry(c.Request.Context(), entryID, req.Reason, userID)
	})
}

// transition runs one lifecycle step for the entry named in the path.
func (h *journalHandler) transition(c *gin.Context, action string, fn func(entryID, userID string) (*domain.JournalEntry, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("entry_id", entryID), slog.String("action", action), slog.String("user_id", userID))
	entry, err := fn(entryID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to "+action+" journal entry")
		return
	}

	logger.Info("Journal entry transitioned", slog.String("status", string(entry.Status)))
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}
