package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"supplytrace/internal/auth"
	"supplytrace/internal/middleware"
	"supplytrace/internal/service"
	"supplytrace/pkg/response"
)

type StatisticsHandler struct {
	statisticsService service.StatisticsService
}

func NewStatisticsHandler(statisticsService service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService}
}

func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/users/:id/stats", middleware.RequirePermission(auth.PermLedgerRead), h.GetUserStats)
}

// @Summary      Get user statistics
// @Description  Ingredients supplied, products involved in and vote counts for one identity.
// @Description  The identity need not be a registered user.
// @Tags         Statistics
// @Produce      json
// @Param        id   path      string  true  "Identity"
// @Success      200  {object}  response.Response{data=model.UserStats}
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Security     BearerAuth
// @Router       /users/{id}/stats [get]
func (h *StatisticsHandler) GetUserStats(c *gin.Context) {
	identity, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	stats, err := h.statisticsService.GetUserStats(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}
