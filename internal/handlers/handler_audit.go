package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/shop_finance_ledger/internal/core/ports/services"
	"github.com/SscSPs/shop_finance_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

type auditHandler struct {
	auditService portssvc.AuditSvc
}

func registerAuditRoutes(rg *gin.RouterGroup, auditService portssvc.AuditSvc) {
	h := &auditHandler{auditService: auditService}
	rg.GET("/audit-log", h.listAuditRecords)
}

// listAuditRecords godoc
// @Summary List audit records
// @Description Lists the tenant's audit trail, newest first
// @Tags audit
// @Produce json
// @Param targetType query string false "Target type" Enums(account, journal_entry, invoice, budget, expense)
// @Param targetID query string false "Target ID"
// @Param limit query int false "Maximum records" default(50)
// @Success 200 {object} dto.ListAuditResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to list audit records"
// @Security BearerAuth
// @Router /audit-log [get]
func (h *auditHandler) listAuditRecords(c *gin.Context) {
	var params dto.ListAuditParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}

	tenantID, _, ok := identity(c)
	if !ok {
		return
	}

	records, err := h.auditService.ListAuditRecords(c.Request.Context(), tenantID, params)
	if err != nil {
		respondError(c, err, "Failed to list audit records")
		return
	}

	c.JSON(http.StatusOK, dto.ListAuditResponse{Records: records})
}
