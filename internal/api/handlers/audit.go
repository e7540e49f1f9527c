package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/roufai-ne/crou-management-system-sub007/internal/errors"
	"github.com/roufai-ne/crou-management-system-sub007/internal/service"
)

// AuditHandler exposes the access audit trail
type AuditHandler struct {
	service *service.AuditService
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(service *service.AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

// ListAuditLogs handles GET /api/v1/audit
// @Summary List audit entries
// @Description List the access audit trail, newest first. Ministry level only.
// @Tags audit
// @Accept json
// @Produce json
// @Param actor_user_id query string false "Actor user ID filter (UUID)"
// @Param action query string false "Action filter"
// @Param source_tenant_id query string false "Source tenant filter (UUID)"
// @Param target_tenant_id query string false "Target tenant filter (UUID)"
// @Param since query string false "Only entries after this RFC 3339 time"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(50)
// @Success 200 {object} service.AuditLogListResponse "Successfully retrieved audit entries"
// @Failure 400 {object} map[string]interface{} "Invalid filter"
// @Failure 403 {object} map[string]interface{} "Ministry level required"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Security BearerAuth
// @Router /audit [get]
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}

	query := service.AuditListQuery{Action: c.Query("action")}
	query.Page, query.PageSize = pagination(c)

	if raw := c.Query("actor_user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid actor_user_id: invalid UUID format"})
			return
		}
		query.ActorUserID = &id
	}
	if raw := c.Query("source_tenant_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid source_tenant_id: invalid UUID format"})
			return
		}
		query.SourceTenantID = &id
	}
	if raw := c.Query("target_tenant_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target_tenant_id: invalid UUID format"})
			return
		}
		query.TargetTenantID = &id
	}
	if raw := c.Query("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid since filter: expected RFC 3339 timestamp"})
			return
		}
		query.Since = &since
	}

	entries, err := h.service.List(c.Request.Context(), tc, query)
	if err != nil {
		if errors.Is(err, apperrors.ErrExtendedAccessDenied) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list audit entries", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, entries)
}
