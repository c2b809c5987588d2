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

type IngredientHandler struct {
	ingredientService service.IngredientService
}

func NewIngredientHandler(ingredientService service.IngredientService) *IngredientHandler {
	return &IngredientHandler{ingredientService: ingredientService}
}

func (h *IngredientHandler) RegisterRoutes(router *gin.RouterGroup) {
	ingredients := router.Group("/api/ingredients")
	{
		ingredients.GET("", middleware.RequirePermission(auth.PermLedgerRead), h.ListIngredients)
		ingredients.GET("/:id", middleware.RequirePermission(auth.PermLedgerRead), h.GetIngredient)
		ingredients.POST("", middleware.RequirePermission(auth.PermIngredientsWrite), h.AddIngredient)
	}
}

// AddIngredient registers a new ingredient
// @Summary      Add ingredient
// @Description  Registers an ingredient supplied by the given identity. IDs are allocated sequentially from 1.
// @Tags         ingredients
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.AddIngredientRequest  true  "Add Ingredient Payload"
// @Success      201      {object}  response.Response{data=service.IngredientResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/ingredients [post]
func (h *IngredientHandler) AddIngredient(c *gin.Context) {
	var req service.AddIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	actor, ok := caller(c)
	if !ok {
		return
	}

	ingredient, err := h.ingredientService.AddIngredient(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, ingredient))
}

// GetIngredient returns one ingredient
// @Summary      Get ingredient
// @Tags         ingredients
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Ingredient ID"
// @Success      200  {object}  response.Response{data=service.IngredientResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/ingredients/{id} [get]
func (h *IngredientHandler) GetIngredient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ingredient, err := h.ingredientService.GetIngredient(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, ingredient))
}

// ListIngredients returns available ingredients
// @Summary      List available ingredients
// @Tags         ingredients
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=response.Page}
// @Router       /api/ingredients [get]
func (h *IngredientHandler) ListIngredients(c *gin.Context) {
	p := pagination.Parse(c)

	ingredients, total, err := h.ingredientService.ListAvailableIngredients(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, ingredients, total, p.Page, p.Limit))
}
