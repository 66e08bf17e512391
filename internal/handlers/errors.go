package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/shop_finance_ledger/internal/apperrors"
	"github.com/SscSPs/shop_finance_ledger/internal/dto"
	"github.com/SscSPs/shop_finance_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respondError writes the error body for err. Persistence failures are logged at error
// level and never expose their cause.
func respondError(c *gin.Context, err error, msg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status, kind, message := apperrors.Describe(err)
	if status >= http.StatusInternalServerError {
		logger.Error(msg, slog.String("error", err.Error()))
	} else {
		logger.Warn(msg, slog.String("error", err.Error()), slog.Int("status", status))
	}
	c.JSON(status, dto.ErrorResponse{Error: string(kind), Message: message})
}

// respondBindError answers a request whose body or query could not be bound.
func respondBindError(c *gin.Context, err error, what string) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind "+what, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: string(apperrors.KindValidation), Message: "Invalid " + what + ": " + err.Error()})
}

// identity returns the tenant and actor set by the auth middleware.
func identity(c *gin.Context) (tenantID string, userID string, ok bool) {
	userID, userOK := middleware.GetUserIDFromContext(c)
	tenantID, tenantOK := middleware.GetTenantIDFromContext(c)
	if !userOK || !tenantOK {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Identity not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: string(apperrors.KindUnauthorized), Message: "Unauthorized"})
		return "", "", false
	}
	return tenantID, userID, true
}

// dateOrToday parses value, defaulting to today's UTC date.
func dateOrToday(field, value string) (time.Time, error) {
	if value == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return dto.ParseDate(field, value)
}
