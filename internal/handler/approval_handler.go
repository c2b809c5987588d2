package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"supplytrace/internal/auth"
	"supplytrace/internal/middleware"
	"supplytrace/internal/service"
	"supplytrace/pkg/response"
)

type ApprovalHandler struct {
	approvalService service.ApprovalService
}

func NewApprovalHandler(approvalService service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvalService: approvalService}
}

func (h *ApprovalHandler) RegisterRoutes(router *gin.RouterGroup) {
	products := router.Group("/api/products/:id")
	{
		products.PUT("/approve", middleware.RequirePermission(auth.PermApprovalsVote), h.Approve)
		products.PUT("/reject", middleware.RequirePermission(auth.PermApprovalsVote), h.Reject)
		products.GET("/approvals", middleware.RequirePermission(auth.PermLedgerRead), h.GetHistory)
		products.GET("/votes/:supplier", middleware.RequirePermission(auth.PermLedgerRead), h.GetVote)
	}
	router.GET("/api/approvals/pending", middleware.RequirePermission(auth.PermApprovalsVote), h.ListPending)
}

// Approve records the caller's approval
// @Summary      Approve product
// @Description  The caller must be in the product's supplier set and must not have voted yet.
// @Tags         approvals
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  response.Response{data=service.ProductResponse}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/products/{id}/approve [put]
func (h *ApprovalHandler) Approve(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	supplier, ok := caller(c)
	if !ok {
		return
	}

	product, err := h.approvalService.Approve(c.Request.Context(), id, supplier)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// Reject records the caller's rejection, finalizing the product
// @Summary      Reject product
// @Tags         approvals
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int                       true   "Product ID"
// @Param        payload  body      service.RejectRequestDTO  false  "Optional reason"
// @Success      200      {object}  response.Response{data=service.ProductResponse}
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/products/{id}/reject [put]
func (h *ApprovalHandler) Reject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	supplier, ok := caller(c)
	if !ok {
		return
	}

	var req service.RejectRequestDTO
	// Allow empty body, reason is optional
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	product, err := h.approvalService.Reject(c.Request.Context(), id, supplier, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// GetHistory returns the append-only vote history
// @Summary      Get approval history
// @Tags         approvals
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  response.Response{data=[]service.ApprovalRecordResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/products/{id}/approvals [get]
func (h *ApprovalHandler) GetHistory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	history, err := h.approvalService.GetHistory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, history))
}

// GetVote returns one supplier's vote on a product
// @Summary      Get vote
// @Tags         approvals
// @Security     BearerAuth
// @Produce      json
// @Param        id        path      int     true  "Product ID"
// @Param        supplier  path      string  true  "Supplier identity"
// @Success      200       {object}  response.Response{data=service.VoteResponse}
// @Failure      404       {object}  response.Response
// @Router       /api/products/{id}/votes/{supplier} [get]
func (h *ApprovalHandler) GetVote(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	supplier, ok := parseUUID(c, "supplier")
	if !ok {
		return
	}

	vote, err := h.approvalService.GetVote(c.Request.Context(), id, supplier)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, vote))
}

// ListPending lists products still waiting on the caller's vote
// @Summary      List pending approvals
// @Tags         approvals
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]service.ProductResponse}
// @Router       /api/approvals/pending [get]
func (h *ApprovalHandler) ListPending(c *gin.Context) {
	supplier, ok := caller(c)
	if !ok {
		return
	}

	products, err := h.approvalService.ListPendingForSupplier(c.Request.Context(), supplier)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, products))
}
