package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"supplytrace/internal/auth"
	"supplytrace/internal/middleware"
	"supplytrace/internal/service"
	"supplytrace/pkg/response"
)

type TraceabilityHandler struct {
	traceabilityService service.TraceabilityService
}

func NewTraceabilityHandler(traceabilityService service.TraceabilityService) *TraceabilityHandler {
	return &TraceabilityHandler{traceabilityService: traceabilityService}
}

func (h *TraceabilityHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/products/:id/traceability", middleware.RequirePermission(auth.PermLedgerRead), h.GetTraceability)
}

// GetTraceability discloses the full provenance of an approved product
// @Summary      Get traceability
// @Description  Returns ingredients, suppliers and approval history. Only available once every supplier approved.
// @Tags         traceability
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  response.Response{data=service.TraceabilityResponse}
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response "Product not yet approved"
// @Router       /api/products/{id}/traceability [get]
func (h *TraceabilityHandler) GetTraceability(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	trace, err := h.traceabilityService.GetTraceability(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, trace))
}
