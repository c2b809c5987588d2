package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"supplytrace/internal/auth"
	"supplytrace/internal/middleware"
	"supplytrace/internal/model"
	"supplytrace/internal/service"
	"supplytrace/pkg/pagination"
	"supplytrace/pkg/response"
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup) {
	products := router.Group("/api/products")
	{
		products.GET("", middleware.RequirePermission(auth.PermLedgerRead), h.ListProducts)
		products.GET("/:id", middleware.RequirePermission(auth.PermLedgerRead), h.GetProduct)
		products.GET("/:id/progress", middleware.RequirePermission(auth.PermLedgerRead), h.GetProgress)
		products.POST("", middleware.RequirePermission(auth.PermProductsWrite), h.CreateProduct)
	}
}

// CreateProduct creates a product batch from existing ingredients
// @Summary      Create product
// @Description  Creates a product batch. The approving supplier set is derived from the ingredients and fixed at creation.
// @Tags         products
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateProductRequest  true  "Create Product Payload"
// @Success      201      {object}  response.Response{data=service.ProductResponse}
// @Failure      400      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /api/products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	actor, ok := caller(c)
	if !ok {
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, product))
}

// GetProduct returns one product regardless of its status
// @Summary      Get product
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  response.Response{data=service.ProductResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// GetProgress reports approval progress
// @Summary      Get approval progress
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  response.Response{data=service.ProgressResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/products/{id}/progress [get]
func (h *ProductHandler) GetProgress(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	progress, err := h.productService.GetProgress(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, progress))
}

// ListProducts lists products, newest first
// @Summary      List products
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "CREATED, PENDING, APPROVED or REJECTED"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Success      200     {object}  response.Response{data=response.Page}
// @Failure      400     {object}  response.Response
// @Router       /api/products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	p := pagination.Parse(c)
	filter := service.ProductFilter{
		Status: model.ProductStatus(strings.ToUpper(c.Query("status"))),
		Page:   p.Page,
		Limit:  p.Limit,
	}

	products, total, err := h.productService.ListProducts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, products, total, p.Page, p.Limit))
}
