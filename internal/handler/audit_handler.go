package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"supplytrace/internal/auth"
	"supplytrace/internal/middleware"
	"supplytrace/internal/service"
	"supplytrace/pkg/pagination"
	"supplytrace/pkg/response"
)

// AuditHandler serves the read side of the audit trail.
type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/audit-logs", middleware.RequirePermission(auth.PermAuditRead), h.ListAuditLogs)
}

// ListAuditLogs lists audit entries, newest first
// @Summary      List audit logs
// @Description  One entry per committed mutation. Filter by action, entity or acting user.
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        action     query     string  false  "ADD_INGREDIENT, CREATE_PRODUCT, APPROVE_PRODUCT, REJECT_PRODUCT or CREATE_USER"
// @Param        entity_id  query     string  false  "Product, ingredient or user ID the entry is about"
// @Param        user_id    query     string  false  "Acting user UUID"
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        limit      query     int     false  "Number of items per page (default 20)"
// @Success      200        {object}  response.Response{data=response.Page}
// @Failure      400        {object}  response.Response
// @Router       /api/audit-logs [get]
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	p := pagination.Parse(c)
	query := service.AuditQuery{
		Action:   c.Query("action"),
		EntityID: c.Query("entity_id"),
		UserID:   c.Query("user_id"),
		Page:     p.Page,
		Limit:    p.Limit,
	}

	entries, total, err := h.auditService.GetAuditLogs(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, entries, total, p.Page, p.Limit))
}
