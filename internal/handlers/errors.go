package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ALANAK777/erp_finance_system/internal/apperrors"
	"github.com/ALANAK777/erp_finance_system/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
}

// statusForError maps an apperrors sentinel onto an HTTP status. The second
// return value reports whether the client may retry the same request.
func statusForError(err error) (int, bool) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, false
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, false
	case errors.Is(err, apperrors.ErrConcurrency):
		return http.StatusConflict, true
	case errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrHasDependents),
		errors.Is(err, apperrors.ErrInvalidTransition):
		return http.StatusConflict, false
	case errors.Is(err, apperrors.ErrMissingConfiguration):
		return http.StatusUnprocessableEntity, false
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, false
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, false
	}
	return http.StatusInternalServerError, false
}

// respondError writes the mapped status. Internal errors are logged with
// their cause and answered with fallbackMsg only.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallbackMsg string) {
	status, retryable := statusForError(err)
	if status == http.StatusInternalServerError {
		logger.Error(fallbackMsg, slog.String("error", err.Error()))
		c.AbortWithStatusJSON(status, ErrorResponse{Error: fallbackMsg})
		return
	}
	logger.Warn(fallbackMsg, slog.String("error", err.Error()), slog.Int("status", status))
	c.AbortWithStatusJSON(status, ErrorResponse{Error: err.Error(), Retryable: retryable})
}

// respondBindError answers a request whose body or query failed binding.
func respondBindError(c *gin.Context, logger *slog.Logger, err error, what string) {
	logger.Warn("Failed to bind "+what, slog.String("error", err.Error()))
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid " + what + ": " + err.Error()})
}

// requireUserID returns the authenticated user or answers 401.
func requireUserID(c *gin.Context, logger *slog.Logger) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return "", false
	}
	return userID, true
}
